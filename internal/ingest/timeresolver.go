package ingest

import (
	"strings"
	"time"
)

// CSV 里出现过的日期/时间格式，按命中率排序。
var (
	dateLayouts = []string{
		"02/01/2006", // day-first（印度数据源）
		"2006-01-02",
	}
	isoLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
)

// TimeResolver 把异构的 date/time/period 串或 payload 时间戳解析为规范时间点。
// 无时区信息的值一律按固定偏移 loc（默认 IST UTC+5:30）解释。
type TimeResolver struct {
	loc *time.Location
	now func() time.Time // 可注入，测试用
}

// NewTimeResolver 创建 TimeResolver，loc 为规范固定偏移
func NewTimeResolver(loc *time.Location) *TimeResolver {
	return &TimeResolver{loc: loc, now: time.Now}
}

// ResolveCSV 解析 CSV 的 date/time/period 三元组
// - date 为空或不可解析 → nil
// - time 为空 → 当天 00:00:00
// - time 解析失败 → 回退当天 00:00:00（date 已解析时绝不报错）
func (r *TimeResolver) ResolveCSV(dateStr, timeStr, periodStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	var day time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, dateStr, r.loc); err == nil {
			day = d
			parsed = true
			break
		}
	}
	if !parsed {
		// 兜底：通用 ISO-8601 解析，只取日期部分
		for _, layout := range isoLayouts {
			if d, err := time.ParseInLocation(layout, dateStr, r.loc); err == nil {
				day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.loc)
				parsed = true
				break
			}
		}
	}
	if !parsed {
		return nil
	}

	timeStr = strings.TrimSpace(timeStr)
	period := strings.ToUpper(strings.TrimSpace(periodStr))

	if timeStr == "" {
		t := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, r.loc)
		return &t
	}

	var layouts []string
	input := timeStr
	if period == "AM" || period == "PM" {
		// 12小时制，带/不带秒
		layouts = []string{"3:04:05 PM", "3:04 PM"}
		input = timeStr + " " + period
	} else {
		layouts = []string{"15:04:05", "15:04"}
	}

	for _, layout := range layouts {
		if tod, err := time.Parse(layout, input); err == nil {
			t := time.Date(day.Year(), day.Month(), day.Day(),
				tod.Hour(), tod.Minute(), tod.Second(), 0, r.loc)
			return &t
		}
	}

	// time 解析全部失败 → 回退当天零点
	t := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, r.loc)
	return &t
}

// ResolveFromPayload 解析实时 payload 的时间戳，优先级：
// 1. recorded_at（ISO-8601，无时区按 loc 解释）
// 2. timestamp（unix 秒，UTC 瞬间）
// 3. csv_date/csv_time/csv_period 三元组
// 4. 当前时刻
// 永不返回零值，结果统一落在 loc。
func (r *TimeResolver) ResolveFromPayload(recordedAt string, unixSec *int64, dateStr, timeStr, periodStr string) time.Time {
	if s := strings.TrimSpace(recordedAt); s != "" {
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, s, r.loc); err == nil {
				return t.In(r.loc)
			}
		}
	}

	if unixSec != nil {
		return time.Unix(*unixSec, 0).In(r.loc)
	}

	if t := r.ResolveCSV(dateStr, timeStr, periodStr); t != nil {
		return *t
	}

	return r.now().In(r.loc)
}
