package score

import "math"

// 子分公式。输入为当日聚合值，缺失（nil）一律得 0 分。
// 公式与历史评分保持逐字一致：改动任何分段都会使历史分数不可比。

// SpO2Score 血氧子分（输入为当日均值，整数百分比）
func SpO2Score(v *int) int {
	if v == nil {
		return 0
	}
	s := *v
	switch {
	case s >= 98:
		return 100
	case s >= 95:
		return 90 + (s-95)*2
	case s >= 90:
		return int(60 + float64(s-90)*7.25)
	default:
		if score := 30 - (90-s)*5; score > 0 {
			return score
		}
		return 0
	}
}

// RestingHRScore 静息心率子分（输入为当日均值 bpm）
func RestingHRScore(hr *int) int {
	if hr == nil {
		return 0
	}
	h := *hr
	switch {
	case 60 <= h && h <= 80:
		return 100
	case (50 <= h && h < 60) || (81 <= h && h <= 90):
		return 70
	case (45 <= h && h < 50) || (91 <= h && h <= 100):
		return 50
	default:
		return 20
	}
}

// SleepScore 睡眠子分（输入为小时数）
// 注意：h>9 与 6≤h<7 同为 80 分，为沿用行为，勿"修正"。
func SleepScore(hours float64) int {
	switch {
	case 7 <= hours && hours <= 9:
		return 100
	case 6 <= hours && hours < 7:
		return 80
	case 5 <= hours && hours < 6:
		return 60
	case hours < 5:
		return 30
	default:
		return 80
	}
}

// ExerciseScore 运动子分（输入为分钟数）
func ExerciseScore(minutes int) int {
	if minutes >= 30 {
		return 100
	}
	return int(math.Round(float64(minutes) / 30 * 100))
}

// Overall 加权总分：0.30*sleep + 0.25*exercise + 0.25*spo2 + 0.20*restingHR，截断取整
func Overall(sleep, exercise, spo2, restingHR int) int {
	return int(0.30*float64(sleep) + 0.25*float64(exercise) + 0.25*float64(spo2) + 0.20*float64(restingHR))
}
