package domain

import "time"

// Reading 一条规范化的生理观测记录（对应 pulse_sp02_data 表，表名沿用来源系统）
// 由 ingest.Normalizer 一次性构造，落库后不再修改。
type Reading struct {
	// 主键
	ID int64 `db:"id"` // BIGSERIAL

	// 主体标识
	UserID string `db:"user_id"` // TEXT, NOT NULL

	// 来源字段（CSV/payload 原样保留，空串归一为 NULL）
	Gender     *string `db:"gender"`      // TEXT, nullable
	Age        *int    `db:"age"`         // INTEGER, nullable
	AgeGroup   *string `db:"age_group"`   // TEXT, nullable
	IsExercise *string `db:"is_exercise"` // TEXT, nullable
	SessionVal *string `db:"session_val"` // TEXT, nullable
	ReadingNo  *int    `db:"reading_no"`  // INTEGER, nullable
	CSVDate    *string `db:"csv_date"`    // TEXT, nullable（原始日期串）
	CSVTime    *string `db:"csv_time"`    // TEXT, nullable（原始时间串）
	CSVPeriod  *string `db:"csv_period"`  // TEXT, nullable（AM/PM）
	Activity   *string `db:"activity"`    // TEXT, nullable
	Context    *string `db:"context"`     // TEXT, nullable（自由文本）

	// 指标：raw 为未取整的解析值（审计用），整数值由 raw 四舍五入得到。
	// 不变式：raw 缺失 ⇒ 整数值缺失。
	HRRaw   *float64 `db:"hr_raw"`   // DOUBLE PRECISION, nullable
	SpO2Raw *float64 `db:"spo2_raw"` // DOUBLE PRECISION, nullable
	Pulse   *int     `db:"pulse"`    // INTEGER bpm, nullable
	SpO2    *int     `db:"spo2"`     // INTEGER percent, nullable

	// 规范化时间戳（带时区；date 不可解析且无 fallback 时为 NULL）
	RecordedAt *time.Time `db:"recorded_at"` // TIMESTAMPTZ, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ
}
