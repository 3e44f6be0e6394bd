package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
)

// ErrMissingIdentity 实时 payload 既无 user_id 也无 device_id
var ErrMissingIdentity = errors.New("user_id or device_id required")

// Normalizer 把一行 CSV 或一条实时 payload 规范化为一条 Reading。
// 时间戳解析委托 TimeResolver，指标解析委托 ResolveMetric。
type Normalizer struct {
	times *TimeResolver
}

func NewNormalizer(times *TimeResolver) *Normalizer {
	return &Normalizer{times: times}
}

// NormalizeCSVRow 规范化一行 CSV（批量导入路径）
// 主体标识：person_id → user_id → person → "unknown"
func (n *Normalizer) NormalizeCSVRow(row map[string]string) *domain.Reading {
	uid := firstNonEmpty(row, "person_id", "user_id", "person")
	if uid == "" {
		uid = "unknown"
	}

	rawDate := firstNonEmpty(row, "date", "Date")
	rawTime := firstNonEmpty(row, "time", "Time")
	rawPeriod := firstNonEmpty(row, "period", "Period")

	// 指标解析走 map[string]any（空串视为缺失）
	rec := make(map[string]any, len(row))
	for k, v := range row {
		if v != "" {
			rec[k] = v
		}
	}
	hrRaw, pulse := ResolveMetric(rec, CSVPulseAliases)
	spo2Raw, spo2 := ResolveMetric(rec, CSVSpO2Aliases)

	return &domain.Reading{
		UserID:   uid,
		Gender:   optString(row["gender"]),
		Age:      parseIntField(row["age"]),
		AgeGroup: optString(row["age_group"]),
		// 合并表头的兼容列名
		IsExercise: optString(firstNonEmpty(row, "is_exercise", "is_exercise...reading_no")),
		SessionVal: optString(firstNonEmpty(row, "session_val", "session")),
		ReadingNo:  parseIntField(row["reading_no"]),
		CSVDate:    optString(rawDate),
		CSVTime:    optString(rawTime),
		CSVPeriod:  optString(rawPeriod),
		Activity:   optString(row["activity"]),
		HRRaw:      hrRaw,
		SpO2Raw:    spo2Raw,
		Pulse:      pulse,
		SpO2:       spo2,
		RecordedAt: n.times.ResolveCSV(rawDate, rawTime, rawPeriod),
	}
}

// NormalizePayload 规范化一条实时 payload（设备直发路径）
// 主体标识：user_id → device_id，都缺失时拒绝（ErrMissingIdentity）
func (n *Normalizer) NormalizePayload(payload map[string]any) (*domain.Reading, error) {
	uid := stringifyID(payload["user_id"])
	if uid == "" {
		uid = stringifyID(payload["device_id"])
	}
	if uid == "" {
		return nil, ErrMissingIdentity
	}

	hrRaw, pulse := ResolveMetric(payload, PayloadPulseAliases)
	spo2Raw, spo2 := ResolveMetric(payload, PayloadSpO2Aliases)

	recordedAt := n.times.ResolveFromPayload(
		stringField(payload, "recorded_at"),
		unixField(payload, "timestamp"),
		stringField(payload, "csv_date"),
		stringField(payload, "csv_time"),
		stringField(payload, "csv_period"),
	)

	return &domain.Reading{
		UserID:     uid,
		Gender:     optString(stringField(payload, "gender")),
		Age:        parseAnyInt(payload["age"]),
		AgeGroup:   optString(stringField(payload, "age_group")),
		IsExercise: optString(stringField(payload, "is_exercise")),
		SessionVal: optString(stringField(payload, "session_val")),
		ReadingNo:  parseAnyInt(payload["reading_no"]),
		CSVDate:    optString(stringField(payload, "csv_date")),
		CSVTime:    optString(stringField(payload, "csv_time")),
		CSVPeriod:  optString(stringField(payload, "csv_period")),
		Activity:   optString(stringField(payload, "activity")),
		Context:    optString(stringField(payload, "context")),
		HRRaw:      hrRaw,
		SpO2Raw:    spo2Raw,
		Pulse:      pulse,
		SpO2:       spo2,
		RecordedAt: &recordedAt,
	}, nil
}

// firstNonEmpty 返回 row 中第一个非空列值
func firstNonEmpty(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

// optString 空串归一为 nil
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseIntField 数值串经 float 截断为 int；不可解析 → nil，绝不报错
func parseIntField(s string) *int {
	f, ok := toFloat(s)
	if !ok {
		return nil
	}
	i := int(math.Trunc(f))
	return &i
}

// parseAnyInt payload 字段版本的 float-then-truncate
func parseAnyInt(v any) *int {
	if v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	i := int(math.Trunc(f))
	return &i
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// unixField timestamp 字段（unix 秒），不可解析 → nil
func unixField(payload map[string]any, key string) *int64 {
	v, ok := payload[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	sec := int64(f)
	return &sec
}

// stringifyID 主体标识宽松转字符串（设备可能上报数字 ID）
func stringifyID(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%v", val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}
