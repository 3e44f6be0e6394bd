package domain

import "time"

// HealthScore 某主体某自然日的综合健康评分（对应 health_scores 表）
// 追加写入：同一 subject+day 重复计算会产生多行（调用方需要幂等时自行去重）。
type HealthScore struct {
	ID     int64  `db:"id" json:"id"`          // BIGSERIAL
	UserID string `db:"user_id" json:"userId"` // TEXT, NOT NULL

	ScoreDate time.Time `db:"score_date" json:"scoreDate"` // DATE

	// 四个子分 + 总分，均为 0-100 的整数
	// overall = trunc(0.30*sleep + 0.25*exercise + 0.25*spo2 + 0.20*resting_hr)
	SleepScore     int `db:"sleep_score" json:"sleepScore"`
	ExerciseScore  int `db:"exercise_score" json:"exerciseScore"`
	RestingHRScore int `db:"resting_hr_score" json:"restingHrScore"`
	SpO2Score      int `db:"spo2_score" json:"spo2Score"`
	OverallScore   int `db:"overall_score" json:"overallScore"`

	Notes string `db:"notes" json:"notes"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
