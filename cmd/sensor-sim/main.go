package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
)

// 模拟血氧指环上报：按固定间隔向 /api/v1/sensor-data 发送随机读数。
// 联调与压测用，不属于线上部署。
func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "service base URL")
		apiKey   = flag.String("api-key", "", "X-API-KEY header value")
		userID   = flag.String("user", "sim-001", "subject identifier")
		count    = flag.Int("n", 10, "number of readings to send")
		interval = flag.Duration("interval", time.Second, "delay between readings")
	)
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	for i := 0; i < *count; i++ {
		payload := map[string]any{
			"user_id":     *userID,
			"heart_rate":  60 + rand.Intn(50),
			"spo2":        94 + rand.Intn(6),
			"activity":    pick("resting", "walking", "sleeping"),
			"recorded_at": time.Now().UTC().Format(time.RFC3339),
		}

		req := client.R().SetBody(payload)
		if *apiKey != "" {
			req.SetHeader("X-API-KEY", *apiKey)
		}

		resp, err := req.Post("/api/v1/sensor-data")
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		fmt.Printf("[%d/%d] %s %s\n", i+1, *count, resp.Status(), resp.String())

		if i < *count-1 {
			time.Sleep(*interval)
		}
	}
}

func pick(options ...string) string {
	return options[rand.Intn(len(options))]
}
