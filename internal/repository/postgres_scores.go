package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
)

// PostgresHealthScoresRepository 每日评分 Repository 实现（health_scores 表）
// 追加写：同一 subject+day 重复计算产生多行，不做 upsert。
type PostgresHealthScoresRepository struct {
	db *sql.DB
}

// NewPostgresHealthScoresRepository 创建评分 Repository
func NewPostgresHealthScoresRepository(db *sql.DB) *PostgresHealthScoresRepository {
	return &PostgresHealthScoresRepository{db: db}
}

// 确保实现了接口
var _ HealthScoresRepository = (*PostgresHealthScoresRepository)(nil)

const scoreColumns = `
	id,
	user_id,
	score_date,
	sleep_score,
	exercise_score,
	resting_hr_score,
	spo2_score,
	overall_score,
	COALESCE(notes, ''),
	created_at
`

// InsertScore 追加一条评分
func (r *PostgresHealthScoresRepository) InsertScore(ctx context.Context, s *domain.HealthScore) (int64, error) {
	query := `
		INSERT INTO health_scores (
			user_id, score_date, sleep_score, exercise_score,
			resting_hr_score, spo2_score, overall_score, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.ScoreDate, s.SleepScore, s.ExerciseScore,
		s.RestingHRScore, s.SpO2Score, s.OverallScore, s.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert health score: %w", err)
	}
	return id, nil
}

// ListScores 最近 N 条评分（score_date 降序）
func (r *PostgresHealthScoresRepository) ListScores(ctx context.Context, userID string, limit int) ([]*domain.HealthScore, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `SELECT ` + scoreColumns + `
		FROM health_scores
		WHERE user_id = $1
		ORDER BY score_date DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list health scores: %w", err)
	}
	defer rows.Close()

	var results []*domain.HealthScore
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate health scores: %w", err)
	}
	return results, nil
}

// GetLatestScore score_date 最新的一条（无数据 → nil, nil）
func (r *PostgresHealthScoresRepository) GetLatestScore(ctx context.Context, userID string) (*domain.HealthScore, error) {
	scores, err := r.ListScores(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}
	return scores[0], nil
}

func scanScore(rows *sql.Rows) (*domain.HealthScore, error) {
	var s domain.HealthScore
	if err := rows.Scan(
		&s.ID,
		&s.UserID,
		&s.ScoreDate,
		&s.SleepScore,
		&s.ExerciseScore,
		&s.RestingHRScore,
		&s.SpO2Score,
		&s.OverallScore,
		&s.Notes,
		&s.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan health score: %w", err)
	}
	return &s, nil
}
