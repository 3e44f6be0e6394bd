package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
)

// PostgresReadingsRepository 读数 Repository 实现（pulse_sp02_data 表）
type PostgresReadingsRepository struct {
	db *sql.DB
}

// NewPostgresReadingsRepository 创建读数 Repository
func NewPostgresReadingsRepository(db *sql.DB) *PostgresReadingsRepository {
	return &PostgresReadingsRepository{db: db}
}

// 确保实现了接口
var _ ReadingsRepository = (*PostgresReadingsRepository)(nil)

const readingColumns = `
	id,
	user_id,
	gender,
	age,
	age_group,
	is_exercise,
	session_val,
	reading_no,
	csv_date,
	csv_time,
	csv_period,
	activity,
	context,
	hr_raw,
	spo2_raw,
	pulse,
	spo2,
	recorded_at,
	created_at
`

const insertReadingSQL = `
	INSERT INTO pulse_sp02_data (
		user_id, gender, age, age_group, is_exercise, session_val, reading_no,
		csv_date, csv_time, csv_period, activity, context,
		hr_raw, spo2_raw, pulse, spo2, recorded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING id
`

func readingArgs(r *domain.Reading) []interface{} {
	return []interface{}{
		r.UserID, r.Gender, r.Age, r.AgeGroup, r.IsExercise, r.SessionVal, r.ReadingNo,
		r.CSVDate, r.CSVTime, r.CSVPeriod, r.Activity, r.Context,
		r.HRRaw, r.SpO2Raw, r.Pulse, r.SpO2, r.RecordedAt,
	}
}

// InsertReading 单条写入
func (r *PostgresReadingsRepository) InsertReading(ctx context.Context, reading *domain.Reading) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, insertReadingSQL, readingArgs(reading)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}
	return id, nil
}

// InsertReadingsBatch 批量写入：单事务，失败整体回滚，保持源行序
func (r *PostgresReadingsRepository) InsertReadingsBatch(ctx context.Context, readings []*domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, reading := range readings {
		var id int64
		if err := stmt.QueryRowContext(ctx, readingArgs(reading)...).Scan(&id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert reading batch: %w", err)
		}
		reading.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reading batch: %w", err)
	}
	return nil
}

// GetByTimeRange [start, end] 内的读数，recorded_at 升序
func (r *PostgresReadingsRepository) GetByTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Reading, error) {
	query := `SELECT ` + readingColumns + `
		FROM pulse_sp02_data
		WHERE user_id = $1
		  AND recorded_at >= $2
		  AND recorded_at <= $3
		ORDER BY recorded_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings by range: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// GetLatestReading recorded_at 最新的一条
func (r *PostgresReadingsRepository) GetLatestReading(ctx context.Context, userID string) (*domain.Reading, error) {
	query := `SELECT ` + readingColumns + `
		FROM pulse_sp02_data
		WHERE user_id = $1
		  AND recorded_at IS NOT NULL
		ORDER BY recorded_at DESC
		LIMIT 1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	defer rows.Close()

	readings, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return readings[0], nil
}

// QueryReadings 过滤查询（from/to/activity），recorded_at 升序
func (r *PostgresReadingsRepository) QueryReadings(ctx context.Context, userID string, filters ReadingFilters, limit int) ([]*domain.Reading, error) {
	if limit <= 0 {
		limit = 2000
	}

	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	argN := 2

	if filters.From != nil {
		where = append(where, fmt.Sprintf("recorded_at >= $%d", argN))
		args = append(args, *filters.From)
		argN++
	}
	if filters.To != nil {
		where = append(where, fmt.Sprintf("recorded_at <= $%d", argN))
		args = append(args, *filters.To)
		argN++
	}
	if filters.Activity != "" {
		where = append(where, fmt.Sprintf("activity ILIKE $%d", argN))
		args = append(args, "%"+filters.Activity+"%")
		argN++
	}

	args = append(args, limit)
	query := `SELECT ` + readingColumns + `
		FROM pulse_sp02_data
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY recorded_at ASC
		LIMIT $` + fmt.Sprintf("%d", argN)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// ListRecent 最近 N 条，recorded_at 降序
func (r *PostgresReadingsRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Reading, error) {
	if limit <= 0 {
		limit = 1000
	}

	query := `SELECT ` + readingColumns + `
		FROM pulse_sp02_data
		WHERE user_id = $1
		ORDER BY recorded_at DESC NULLS LAST
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// DistinctUserIDs 全部主体标识
func (r *PostgresReadingsRepository) DistinctUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM pulse_sp02_data`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}
	return ids, nil
}

// scanReadings 扫描多行读数，nullable 列转回指针字段
func scanReadings(rows *sql.Rows) ([]*domain.Reading, error) {
	var results []*domain.Reading

	for rows.Next() {
		var reading domain.Reading
		var gender, ageGroup, isExercise, sessionVal sql.NullString
		var csvDate, csvTime, csvPeriod, activity, readingCtx sql.NullString
		var age, readingNo, pulse, spo2 sql.NullInt64
		var hrRaw, spo2Raw sql.NullFloat64
		var recordedAt sql.NullTime

		if err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&gender,
			&age,
			&ageGroup,
			&isExercise,
			&sessionVal,
			&readingNo,
			&csvDate,
			&csvTime,
			&csvPeriod,
			&activity,
			&readingCtx,
			&hrRaw,
			&spo2Raw,
			&pulse,
			&spo2,
			&recordedAt,
			&reading.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		reading.Gender = nullStr(gender)
		reading.AgeGroup = nullStr(ageGroup)
		reading.IsExercise = nullStr(isExercise)
		reading.SessionVal = nullStr(sessionVal)
		reading.CSVDate = nullStr(csvDate)
		reading.CSVTime = nullStr(csvTime)
		reading.CSVPeriod = nullStr(csvPeriod)
		reading.Activity = nullStr(activity)
		reading.Context = nullStr(readingCtx)
		reading.Age = nullInt(age)
		reading.ReadingNo = nullInt(readingNo)
		reading.Pulse = nullInt(pulse)
		reading.SpO2 = nullInt(spo2)
		reading.HRRaw = nullFloat(hrRaw)
		reading.SpO2Raw = nullFloat(spo2Raw)
		if recordedAt.Valid {
			t := recordedAt.Time
			reading.RecordedAt = &t
		}

		results = append(results, &reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return results, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
