package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("UTC+5:30", 330*60)

func TestResolveCSV_DayFirstWithAMPM(t *testing.T) {
	r := NewTimeResolver(testLoc)

	got := r.ResolveCSV("15/03/2024", "05:51:48", "AM")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 5, 51, 48, 0, testLoc), *got)

	got = r.ResolveCSV("15/03/2024", "05:51:48", "PM")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 51, 48, 0, testLoc), *got)
}

func TestResolveCSV_TwelveHourWithoutSeconds(t *testing.T) {
	r := NewTimeResolver(testLoc)

	got := r.ResolveCSV("01/01/2024", "9:05", "pm")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 1, 21, 5, 0, 0, testLoc), *got)
}

func TestResolveCSV_TwentyFourHour(t *testing.T) {
	r := NewTimeResolver(testLoc)

	got := r.ResolveCSV("2024-03-15", "17:30:00", "")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 30, 0, 0, testLoc), *got)

	got = r.ResolveCSV("2024-03-15", "17:30", "")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 30, 0, 0, testLoc), *got)
}

func TestResolveCSV_MidnightFallbacks(t *testing.T) {
	r := NewTimeResolver(testLoc)
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, testLoc)

	// time 为空
	got := r.ResolveCSV("15/03/2024", "", "")
	require.NotNil(t, got)
	assert.Equal(t, midnight, *got)

	// time 不可解析
	got = r.ResolveCSV("15/03/2024", "garbage", "")
	require.NotNil(t, got)
	assert.Equal(t, midnight, *got)
}

func TestResolveCSV_ISODateOnly(t *testing.T) {
	r := NewTimeResolver(testLoc)

	got := r.ResolveCSV("2024-03-15", "", "")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, testLoc), *got)
}

func TestResolveCSV_BadDate(t *testing.T) {
	r := NewTimeResolver(testLoc)

	assert.Nil(t, r.ResolveCSV("not-a-date", "05:51:48", "AM"))
	assert.Nil(t, r.ResolveCSV("", "05:51:48", "AM"))
	assert.Nil(t, r.ResolveCSV("   ", "", ""))
}

func TestResolveFromPayload_ISO(t *testing.T) {
	r := NewTimeResolver(testLoc)

	// 无时区的 ISO 串按固定偏移解释
	got := r.ResolveFromPayload("2024-03-15T10:00:00", nil, "", "", "")
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, testLoc), got)

	// 带时区的 RFC3339 保留瞬间
	got = r.ResolveFromPayload("2024-03-15T10:00:00Z", nil, "", "", "")
	assert.True(t, got.Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
}

func TestResolveFromPayload_UnixSeconds(t *testing.T) {
	r := NewTimeResolver(testLoc)

	sec := int64(1710499908) // 2024-03-15T10:51:48Z
	got := r.ResolveFromPayload("", &sec, "", "", "")
	assert.True(t, got.Equal(time.Unix(sec, 0)))
	assert.Equal(t, testLoc.String(), got.Location().String())
}

func TestResolveFromPayload_CSVTripleThenNow(t *testing.T) {
	r := NewTimeResolver(testLoc)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	got := r.ResolveFromPayload("", nil, "15/03/2024", "05:51:48", "AM")
	assert.Equal(t, time.Date(2024, 3, 15, 5, 51, 48, 0, testLoc), got)

	// 全部缺失 → 当前时刻
	got = r.ResolveFromPayload("", nil, "", "", "")
	assert.True(t, got.Equal(fixed))
	assert.False(t, got.IsZero())
}
