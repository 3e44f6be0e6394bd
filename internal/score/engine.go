package score

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"

	"go.uber.org/zap"
)

// ReadingsSource 评分引擎消费的读数查询面（由 repository 实现）
type ReadingsSource interface {
	GetByTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Reading, error)
	DistinctUserIDs(ctx context.Context) ([]string, error)
}

// ScoreSink 评分结果写入端（追加写，不做 upsert）
type ScoreSink interface {
	InsertScore(ctx context.Context, s *domain.HealthScore) (int64, error)
}

// Engine 每日综合评分引擎。
// 窗口内零读数 → (nil, nil)，"无分可算"不是错误。
type Engine struct {
	readings ReadingsSource
	scores   ScoreSink
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(readings ReadingsSource, scores ScoreSink, logger *zap.Logger) *Engine {
	return &Engine{
		readings: readings,
		scores:   scores,
		logger:   logger,
		now:      time.Now,
	}
}

// ComputeDailyScore 计算并持久化某主体某日的 HealthScore。
// day 为 nil → 截止当前时刻的最近 24 小时；否则取该自然日 [00:00:00, 23:59:59.999…]。
// 重复调用会追加新行（幂等去重由调用方负责）。
func (e *Engine) ComputeDailyScore(ctx context.Context, userID string, day *time.Time) (*domain.HealthScore, error) {
	var start, end time.Time
	if day == nil {
		end = e.now().UTC()
		start = end.Add(-24 * time.Hour)
	} else {
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end = start.Add(24*time.Hour - time.Nanosecond)
	}

	readings, err := e.readings.GetByTimeRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load readings for scoring: %w", err)
	}
	if len(readings) == 0 {
		return nil, nil
	}

	var spo2Sum, spo2Count, pulseSum, pulseCount int
	var sleepMinutes, exerciseMinutes int
	for _, r := range readings {
		if r.SpO2 != nil {
			spo2Sum += *r.SpO2
			spo2Count++
		}
		if r.Pulse != nil {
			pulseSum += *r.Pulse
			pulseCount++
		}
		if r.Activity != nil {
			activity := strings.ToLower(*r.Activity)
			// 一条读数记一分钟（采样间隔约定，见数据源）
			if strings.Contains(activity, "sleep") {
				sleepMinutes++
			}
			if strings.Contains(activity, "exercise") || strings.Contains(activity, "walk") {
				exerciseMinutes++
			}
		}
	}

	var avgSpO2, avgPulse *int
	if spo2Count > 0 {
		v := spo2Sum / spo2Count
		avgSpO2 = &v
	}
	if pulseCount > 0 {
		v := pulseSum / pulseCount
		avgPulse = &v
	}

	sSleep := SleepScore(float64(sleepMinutes) / 60.0)
	sExercise := ExerciseScore(exerciseMinutes)
	sSpO2 := SpO2Score(avgSpO2)
	sHR := RestingHRScore(avgPulse)

	scoreDate := e.now().UTC()
	if day != nil {
		scoreDate = *day
	}

	hs := &domain.HealthScore{
		UserID:         userID,
		ScoreDate:      time.Date(scoreDate.Year(), scoreDate.Month(), scoreDate.Day(), 0, 0, 0, 0, time.UTC),
		SleepScore:     sSleep,
		ExerciseScore:  sExercise,
		RestingHRScore: sHR,
		SpO2Score:      sSpO2,
		OverallScore:   Overall(sSleep, sExercise, sSpO2, sHR),
		Notes:          "Auto-computed",
	}

	id, err := e.scores.InsertScore(ctx, hs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist health score: %w", err)
	}
	hs.ID = id

	e.logger.Debug("Daily score computed",
		zap.String("user_id", userID),
		zap.Int("overall", hs.OverallScore),
		zap.Int("readings", len(readings)),
	)
	return hs, nil
}

// RecomputeAll 为库内所有已知主体重算当日评分，返回处理的主体数。
// 单个主体失败只记日志，不中断整体。
func (e *Engine) RecomputeAll(ctx context.Context) (int, error) {
	userIDs, err := e.readings.DistinctUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list subjects: %w", err)
	}

	count := 0
	for _, uid := range userIDs {
		if _, err := e.ComputeDailyScore(ctx, uid, nil); err != nil {
			e.logger.Warn("Failed to recompute score",
				zap.String("user_id", uid),
				zap.Error(err),
			)
			continue
		}
		count++
	}
	return count, nil
}
