package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/store"

	"go.uber.org/zap"
)

// ReportService 看板查询服务接口
type ReportService interface {
	// RecentData 最近一个自然日（按本地时区）的全部读数
	RecentData(ctx context.Context, userID string) ([]ReadingDTO, error)
	// RangeData 按过滤条件查询读数
	RangeData(ctx context.Context, userID string, filters repository.ReadingFilters, limit int) ([]ReadingDTO, error)
	// Summary 区间汇总统计
	Summary(ctx context.Context, userID string, filters repository.ReadingFilters) (*SummaryDTO, error)
	// Reports 报表：最近读数聚合 + 最新评分
	Reports(ctx context.Context, userID string) (*ReportDTO, error)
}

type reportService struct {
	readings repository.ReadingsRepository
	scores   repository.HealthScoresRepository
	cache    store.KV // 可为 nil；最新读数锚点的快路径
	loc      *time.Location
	logger   *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(
	readings repository.ReadingsRepository,
	scores repository.HealthScoresRepository,
	cache store.KV,
	loc *time.Location,
	logger *zap.Logger,
) ReportService {
	return &reportService{readings: readings, scores: scores, cache: cache, loc: loc, logger: logger}
}

// ReadingDTO 读数的对外表示（时间统一序列化为 UTC ISO）
type ReadingDTO struct {
	ID         int64    `json:"id"`
	UserID     string   `json:"userId"`
	Pulse      *int     `json:"pulse"`
	SpO2       *int     `json:"spo2"`
	HRRaw      *float64 `json:"hrRaw,omitempty"`
	SpO2Raw    *float64 `json:"spo2Raw,omitempty"`
	Activity   *string  `json:"activity,omitempty"`
	Context    *string  `json:"context,omitempty"`
	IsExercise *string  `json:"isExercise,omitempty"`
	SessionVal *string  `json:"sessionVal,omitempty"`
	RecordedAt *string  `json:"recordedAt"`
}

// SummaryDTO 区间汇总
type SummaryDTO struct {
	UserID        string   `json:"userId"`
	Count         int      `json:"count"`
	AvgPulse      *float64 `json:"avgPulse"`
	MinPulse      *int     `json:"minPulse"`
	MaxPulse      *int     `json:"maxPulse"`
	AvgSpO2       *float64 `json:"avgSpo2"`
	MinSpO2       *int     `json:"minSpo2"`
	MaxSpO2       *int     `json:"maxSpo2"`
	LowSpO2Count  int      `json:"lowSpo2Count"`  // spo2 < 90
	AbnormalHRCnt int      `json:"abnormalHrCnt"` // pulse < 50 或 > 120
}

// ReportDTO 报表响应
type ReportDTO struct {
	UserID        string              `json:"userId"`
	Summary       *SummaryDTO         `json:"summary"`
	SleepCount    int                 `json:"sleepCount"`    // activity 含 "sleep" 的读数条数
	ExerciseCount int                 `json:"exerciseCount"` // activity 含 "exercise"/"walk" 的读数条数
	LatestScore   *domain.HealthScore `json:"latestScore"`   // 无评分时为 null
}

const reportWindowLimit = 1000

// RecentData 取 recorded_at 最新一条读数所在的自然日（本地时区），
// 返回该日全部读数（升序）。无数据 → 空切片。
// 锚点时间优先走最新读数缓存，未命中再查库。
func (s *reportService) RecentData(ctx context.Context, userID string) ([]ReadingDTO, error) {
	anchor := s.cachedAnchor(ctx, userID)
	if anchor == nil {
		latest, err := s.readings.GetLatestReading(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest reading: %w", err)
		}
		if latest == nil || latest.RecordedAt == nil {
			return []ReadingDTO{}, nil
		}
		anchor = latest.RecordedAt
	}

	local := anchor.In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	readings, err := s.readings.GetByTimeRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load day readings: %w", err)
	}
	return toDTOs(readings), nil
}

// cachedAnchor 从缓存取最新读数的 recorded_at。
// 缓存缺失、值不可解析、缺 recorded_at 都返回 nil 让调用方回落查库。
func (s *reportService) cachedAnchor(ctx context.Context, userID string) *time.Time {
	if s.cache == nil {
		return nil
	}
	val, err := s.cache.Get(ctx, store.LatestReadingKey(userID))
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			s.logger.Debug("Failed to read latest reading cache",
				zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	var cached struct {
		RecordedAt string `json:"recorded_at"`
	}
	if json.Unmarshal([]byte(val), &cached) != nil || cached.RecordedAt == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04:05Z", cached.RecordedAt)
	if err != nil {
		return nil
	}
	return &t
}

// RangeData 过滤查询
func (s *reportService) RangeData(ctx context.Context, userID string, filters repository.ReadingFilters, limit int) ([]ReadingDTO, error) {
	readings, err := s.readings.QueryReadings(ctx, userID, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	return toDTOs(readings), nil
}

// Summary 区间汇总：均值/极值按有值的读数计算，缺失指标不参与
func (s *reportService) Summary(ctx context.Context, userID string, filters repository.ReadingFilters) (*SummaryDTO, error) {
	readings, err := s.readings.QueryReadings(ctx, userID, filters, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	return summarize(userID, readings), nil
}

// Reports 最近 reportWindowLimit 条读数的聚合 + 最新评分
func (s *reportService) Reports(ctx context.Context, userID string) (*ReportDTO, error) {
	readings, err := s.readings.ListRecent(ctx, userID, reportWindowLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent readings: %w", err)
	}

	score, err := s.scores.GetLatestScore(ctx, userID)
	if err != nil {
		// 评分缺失不阻断报表
		s.logger.Warn("Failed to load latest score for report",
			zap.String("user_id", userID), zap.Error(err))
		score = nil
	}

	sleepCount, exerciseCount := 0, 0
	for _, r := range readings {
		if r.Activity == nil {
			continue
		}
		activity := strings.ToLower(*r.Activity)
		if strings.Contains(activity, "sleep") {
			sleepCount++
		}
		if strings.Contains(activity, "exercise") || strings.Contains(activity, "walk") {
			exerciseCount++
		}
	}

	return &ReportDTO{
		UserID:        userID,
		Summary:       summarize(userID, readings),
		SleepCount:    sleepCount,
		ExerciseCount: exerciseCount,
		LatestScore:   score,
	}, nil
}

func summarize(userID string, readings []*domain.Reading) *SummaryDTO {
	out := &SummaryDTO{UserID: userID, Count: len(readings)}

	var pulseSum, spo2Sum float64
	var pulseN, spo2N int
	for _, r := range readings {
		if r.Pulse != nil {
			v := *r.Pulse
			pulseSum += float64(v)
			pulseN++
			if out.MinPulse == nil || v < *out.MinPulse {
				out.MinPulse = intPtr(v)
			}
			if out.MaxPulse == nil || v > *out.MaxPulse {
				out.MaxPulse = intPtr(v)
			}
			if v < 50 || v > 120 {
				out.AbnormalHRCnt++
			}
		}
		if r.SpO2 != nil {
			v := *r.SpO2
			spo2Sum += float64(v)
			spo2N++
			if out.MinSpO2 == nil || v < *out.MinSpO2 {
				out.MinSpO2 = intPtr(v)
			}
			if out.MaxSpO2 == nil || v > *out.MaxSpO2 {
				out.MaxSpO2 = intPtr(v)
			}
			if v < 90 {
				out.LowSpO2Count++
			}
		}
	}
	if pulseN > 0 {
		avg := pulseSum / float64(pulseN)
		out.AvgPulse = &avg
	}
	if spo2N > 0 {
		avg := spo2Sum / float64(spo2N)
		out.AvgSpO2 = &avg
	}
	return out
}

func toDTOs(readings []*domain.Reading) []ReadingDTO {
	out := make([]ReadingDTO, 0, len(readings))
	for _, r := range readings {
		out = append(out, ReadingDTO{
			ID:         r.ID,
			UserID:     r.UserID,
			Pulse:      r.Pulse,
			SpO2:       r.SpO2,
			HRRaw:      r.HRRaw,
			SpO2Raw:    r.SpO2Raw,
			Activity:   r.Activity,
			Context:    r.Context,
			IsExercise: r.IsExercise,
			SessionVal: r.SessionVal,
			RecordedAt: isoUTC(r.RecordedAt),
		})
	}
	return out
}

// isoUTC 时间戳统一转 UTC 再序列化，避免客户端时区歧义
func isoUTC(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02T15:04:05Z")
	return &s
}

func intPtr(v int) *int { return &v }
