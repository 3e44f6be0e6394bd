package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(NewTimeResolver(testLoc))
}

func TestNormalizeCSVRow_Basic(t *testing.T) {
	n := newTestNormalizer()

	row := map[string]string{
		"person_id": "p-001",
		"gender":    "F",
		"age":       "34",
		"date":      "15/03/2024",
		"time":      "05:51:48",
		"period":    "AM",
		"hr":        "71.6",
		"spo2":      "97",
		"activity":  "sleeping",
	}

	r := n.NormalizeCSVRow(row)
	assert.Equal(t, "p-001", r.UserID)
	require.NotNil(t, r.Age)
	assert.Equal(t, 34, *r.Age)
	require.NotNil(t, r.HRRaw)
	assert.Equal(t, 71.6, *r.HRRaw)
	require.NotNil(t, r.Pulse)
	assert.Equal(t, 72, *r.Pulse)
	require.NotNil(t, r.SpO2)
	assert.Equal(t, 97, *r.SpO2)
	require.NotNil(t, r.RecordedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 5, 51, 48, 0, testLoc), *r.RecordedAt)
	// 原始串保留，审计用
	require.NotNil(t, r.CSVDate)
	assert.Equal(t, "15/03/2024", *r.CSVDate)
}

func TestNormalizeCSVRow_SubjectFallbackChain(t *testing.T) {
	n := newTestNormalizer()

	r := n.NormalizeCSVRow(map[string]string{"user_id": "u-7"})
	assert.Equal(t, "u-7", r.UserID)

	r = n.NormalizeCSVRow(map[string]string{"person": "alice"})
	assert.Equal(t, "alice", r.UserID)

	// 全部缺失 → unknown（历史数据集无主体列）
	r = n.NormalizeCSVRow(map[string]string{"hr": "70"})
	assert.Equal(t, "unknown", r.UserID)
}

func TestNormalizeCSVRow_EmptyFieldsBecomeNil(t *testing.T) {
	n := newTestNormalizer()

	r := n.NormalizeCSVRow(map[string]string{
		"person_id": "p-1",
		"gender":    "",
		"age":       "not-a-number",
		"hr":        "",
	})
	assert.Nil(t, r.Gender)
	assert.Nil(t, r.Age)
	assert.Nil(t, r.HRRaw)
	assert.Nil(t, r.Pulse)
	assert.Nil(t, r.RecordedAt)
}

func TestNormalizeCSVRow_FloatAgeTruncated(t *testing.T) {
	n := newTestNormalizer()

	r := n.NormalizeCSVRow(map[string]string{"person_id": "p-1", "age": "34.9"})
	require.NotNil(t, r.Age)
	assert.Equal(t, 34, *r.Age)
}

func TestNormalizePayload_MissingIdentity(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.NormalizePayload(map[string]any{"heart_rate": float64(72)})
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = n.NormalizePayload(map[string]any{"user_id": "   "})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestNormalizePayload_DeviceIDFallback(t *testing.T) {
	n := newTestNormalizer()

	r, err := n.NormalizePayload(map[string]any{"device_id": "esp32-01", "spo2": float64(96)})
	require.NoError(t, err)
	assert.Equal(t, "esp32-01", r.UserID)

	// 数字 ID 转字符串（JSON 解码为 float64）
	r, err = n.NormalizePayload(map[string]any{"device_id": float64(123)})
	require.NoError(t, err)
	assert.Equal(t, "123", r.UserID)
}

func TestNormalizePayload_RecordedAtNeverNil(t *testing.T) {
	n := newTestNormalizer()

	r, err := n.NormalizePayload(map[string]any{"user_id": "u-1"})
	require.NoError(t, err)
	require.NotNil(t, r.RecordedAt)
	assert.False(t, r.RecordedAt.IsZero())
}

func TestNormalizeCSVRow_Idempotent(t *testing.T) {
	n := newTestNormalizer()
	row := map[string]string{
		"person_id": "p-1",
		"date":      "15/03/2024",
		"time":      "05:51:48",
		"period":    "AM",
		"hr":        "71.6",
		"spo2":      "97",
		"activity":  "sleeping",
	}

	a := n.NormalizeCSVRow(row)
	b := n.NormalizeCSVRow(row)

	assert.Equal(t, a.UserID, b.UserID)
	assert.Equal(t, *a.HRRaw, *b.HRRaw)
	assert.Equal(t, *a.Pulse, *b.Pulse)
	assert.Equal(t, *a.SpO2, *b.SpO2)
	assert.Equal(t, *a.Activity, *b.Activity)
	assert.True(t, a.RecordedAt.Equal(*b.RecordedAt))
}

func TestNormalizePayload_Idempotent(t *testing.T) {
	n := newTestNormalizer()
	payload := map[string]any{
		"user_id":     "u-1",
		"heart_rate":  71.6,
		"spo2":        float64(97),
		"recorded_at": "2024-03-15T10:00:00",
		"activity":    "walking",
	}

	a, err := n.NormalizePayload(payload)
	require.NoError(t, err)
	b, err := n.NormalizePayload(payload)
	require.NoError(t, err)

	assert.Equal(t, a.UserID, b.UserID)
	assert.Equal(t, *a.HRRaw, *b.HRRaw)
	assert.Equal(t, *a.Pulse, *b.Pulse)
	assert.Equal(t, *a.SpO2, *b.SpO2)
	assert.True(t, a.RecordedAt.Equal(*b.RecordedAt))
}
