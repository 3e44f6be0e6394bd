package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/store"

	"go.uber.org/zap"
)

// flushBatchSize 批量导入的落库间隔（每 N 行提交一次）
const flushBatchSize = 500

// defaultImportPassword 批量导入开通账号时的占位密码
const defaultImportPassword = "changeme"

// latestReadingTTL 最新读数缓存的有效期
const latestReadingTTL = 24 * time.Hour

// ReadingWriter Reading 写入端（由 repository 实现）
type ReadingWriter interface {
	InsertReading(ctx context.Context, r *domain.Reading) (int64, error)
	InsertReadingsBatch(ctx context.Context, readings []*domain.Reading) error
}

// AccountProvisioner 首见主体的账号开通（由 service 层实现）
type AccountProvisioner interface {
	EnsureAccount(ctx context.Context, userID, seedPassword string) error
}

// ImportResult 批量导入结果
type ImportResult struct {
	Imported    int `json:"imported"`
	Skipped     int `json:"skipped"`
	Provisioned int `json:"provisioned"`
}

// Pipeline 摄取管道：批量 CSV 与实时单条共用同一个 Normalizer。
// 每次调用同步执行到完成，除落库 I/O 外没有内部挂起点。
type Pipeline struct {
	normalizer  *Normalizer
	writer      ReadingWriter
	provisioner AccountProvisioner
	cache       store.KV // 可为 nil；最新读数缓存为 best-effort
	logger      *zap.Logger
}

func NewPipeline(normalizer *Normalizer, writer ReadingWriter, provisioner AccountProvisioner, cache store.KV, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		normalizer:  normalizer,
		writer:      writer,
		provisioner: provisioner,
		cache:       cache,
		logger:      logger,
	}
}

// ImportCSV 流式导入 CSV：逐行规范化、缓冲、每 500 行落库一次，流尾再落一次。
// 单行解析失败只计数跳过，绝不中断批次；落库失败（事务回滚后）向上返回。
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 数据源的表头有合并/错列，行宽不做强校验

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	result := &ImportResult{}
	seen := make(map[string]bool)
	buffer := make([]*domain.Reading, 0, flushBatchSize)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := p.writer.InsertReadingsBatch(ctx, buffer); err != nil {
			return fmt.Errorf("failed to flush batch: %w", err)
		}
		buffer = buffer[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		reading := p.normalizer.NormalizeCSVRow(row)
		if reading.UserID == "" {
			result.Skipped++
			continue
		}

		if p.provisioner != nil && !seen[reading.UserID] {
			seen[reading.UserID] = true
			if err := p.provisioner.EnsureAccount(ctx, reading.UserID, defaultImportPassword); err != nil {
				p.logger.Warn("Failed to provision account during import",
					zap.String("user_id", reading.UserID),
					zap.Error(err),
				)
			} else {
				result.Provisioned++
			}
		}

		buffer = append(buffer, reading)
		result.Imported++

		if len(buffer) >= flushBatchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	p.logger.Info("CSV import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("provisioned", result.Provisioned),
	)
	return result, nil
}

// IngestPayload 实时摄取一条 payload：校验主体标识、规范化、单条落库、
// 开通账号（种子密码 = 主体 ID）、刷新最新读数缓存。
// 返回新 Reading 的库内 ID。
func (p *Pipeline) IngestPayload(ctx context.Context, payload map[string]any) (int64, error) {
	reading, err := p.normalizer.NormalizePayload(payload)
	if err != nil {
		return 0, err
	}

	id, err := p.writer.InsertReading(ctx, reading)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}
	reading.ID = id

	if p.provisioner != nil {
		if err := p.provisioner.EnsureAccount(ctx, reading.UserID, reading.UserID); err != nil {
			p.logger.Warn("Failed to provision account",
				zap.String("user_id", reading.UserID),
				zap.Error(err),
			)
		}
	}

	p.cacheLatest(ctx, reading)

	return id, nil
}

// cacheLatest 最新读数写入 KV（best-effort，失败只记日志）
func (p *Pipeline) cacheLatest(ctx context.Context, reading *domain.Reading) {
	if p.cache == nil {
		return
	}
	payload := map[string]any{
		"id":       reading.ID,
		"pulse":    reading.Pulse,
		"spo2":     reading.SpO2,
		"activity": reading.Activity,
	}
	if reading.RecordedAt != nil {
		payload["recorded_at"] = reading.RecordedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, store.LatestReadingKey(reading.UserID), string(data), latestReadingTTL); err != nil {
		p.logger.Debug("Failed to cache latest reading",
			zap.String("user_id", reading.UserID),
			zap.Error(err),
		)
	}
}
