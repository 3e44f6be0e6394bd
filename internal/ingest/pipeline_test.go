package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu      sync.Mutex
	singles []*domain.Reading
	batches [][]*domain.Reading
	nextID  int64
}

func (f *fakeWriter) InsertReading(ctx context.Context, r *domain.Reading) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.singles = append(f.singles, r)
	return f.nextID, nil
}

func (f *fakeWriter) InsertReadingsBatch(ctx context.Context, readings []*domain.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]*domain.Reading, len(readings))
	copy(batch, readings)
	f.batches = append(f.batches, batch)
	return nil
}

type fakeProvisioner struct {
	calls map[string]string // userID -> seed password
}

func (f *fakeProvisioner) EnsureAccount(ctx context.Context, userID, seedPassword string) error {
	if f.calls == nil {
		f.calls = make(map[string]string)
	}
	f.calls[userID] = seedPassword
	return nil
}

type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) { return f.data[key], nil }
func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if f.data == nil {
		f.data = make(map[string]string)
	}
	f.data[key] = value
	return nil
}
func (f *fakeKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) { return nil, nil }

func newTestPipeline(w *fakeWriter, p *fakeProvisioner, kv *fakeKV) *Pipeline {
	n := NewNormalizer(NewTimeResolver(testLoc))
	var cache store.KV
	if kv != nil {
		cache = kv
	}
	return NewPipeline(n, w, p, cache, zap.NewNop())
}

func TestImportCSV_BasicCounts(t *testing.T) {
	csvData := strings.Join([]string{
		"person_id,date,time,period,hr,spo2,activity",
		"p-1,15/03/2024,05:51:48,AM,71.6,97,sleeping",
		"p-1,15/03/2024,05:52:48,AM,72,96,sleeping",
		"p-2,15/03/2024,10:00:00,,80,98,walking",
		`p-bad,"unterminated`,
	}, "\n")

	w := &fakeWriter{}
	p := &fakeProvisioner{}
	pipe := newTestPipeline(w, p, nil)

	result, err := pipe.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Provisioned)

	// 流尾一次 flush
	require.Len(t, w.batches, 1)
	require.Len(t, w.batches[0], 3)
	assert.Equal(t, "p-1", w.batches[0][0].UserID)
	assert.Equal(t, "p-2", w.batches[0][2].UserID)

	// 批量导入的种子密码为占位密码
	assert.Equal(t, "changeme", p.calls["p-1"])
	assert.Equal(t, "changeme", p.calls["p-2"])
}

func TestImportCSV_FlushEvery500Rows(t *testing.T) {
	var b strings.Builder
	b.WriteString("person_id,hr,spo2\n")
	for i := 0; i < 501; i++ {
		fmt.Fprintf(&b, "p-1,%d,97\n", 60+i%40)
	}

	w := &fakeWriter{}
	pipe := newTestPipeline(w, &fakeProvisioner{}, nil)

	result, err := pipe.ImportCSV(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)

	assert.Equal(t, 501, result.Imported)
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 500)
	assert.Len(t, w.batches[1], 1)
}

func TestImportCSV_BadHeader(t *testing.T) {
	pipe := newTestPipeline(&fakeWriter{}, &fakeProvisioner{}, nil)
	_, err := pipe.ImportCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestIngestPayload_Success(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvisioner{}
	kv := &fakeKV{}
	pipe := newTestPipeline(w, p, kv)

	id, err := pipe.IngestPayload(context.Background(), map[string]any{
		"user_id":     "u-1",
		"heart_rate":  71.6,
		"spo2":        float64(97),
		"recorded_at": "2024-03-15T10:00:00",
		"activity":    "resting",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, w.singles, 1)
	assert.Equal(t, "u-1", w.singles[0].UserID)

	// 实时路径的种子密码为主体 ID
	assert.Equal(t, "u-1", p.calls["u-1"])

	// 最新读数缓存
	cached := kv.data["reading:latest:u-1"]
	assert.Contains(t, cached, `"pulse":72`)
	assert.Contains(t, cached, `"spo2":97`)
}

func TestIngestPayload_MissingIdentity(t *testing.T) {
	w := &fakeWriter{}
	pipe := newTestPipeline(w, &fakeProvisioner{}, nil)

	_, err := pipe.IngestPayload(context.Background(), map[string]any{"heart_rate": float64(72)})
	assert.ErrorIs(t, err, ErrMissingIdentity)
	assert.Empty(t, w.singles)
}
