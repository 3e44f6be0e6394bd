package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCacheKV struct {
	keys []string
	err  error
}

func (f *fakeCacheKV) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (f *fakeCacheKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (f *fakeCacheKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	return f.keys, f.err
}

func TestCacheActiveUsers(t *testing.T) {
	h := NewCacheHandler(&fakeCacheKV{keys: []string{
		"reading:latest:p-2",
		"reading:latest:p-1",
	}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/cache/active-users", nil)
	rec := httptest.NewRecorder()
	h.ActiveUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Result[[]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ResultSuccess, resp.Code)
	// 键前缀剥掉，按主体 ID 排序
	assert.Equal(t, []string{"p-1", "p-2"}, resp.Result)
}

func TestCacheActiveUsers_Empty(t *testing.T) {
	h := NewCacheHandler(&fakeCacheKV{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/cache/active-users", nil)
	rec := httptest.NewRecorder()
	h.ActiveUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":[]`)
}

func TestCacheActiveUsers_ScanError(t *testing.T) {
	h := NewCacheHandler(&fakeCacheKV{err: errors.New("redis down")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/v1/cache/active-users", nil)
	rec := httptest.NewRecorder()
	h.ActiveUsers(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
