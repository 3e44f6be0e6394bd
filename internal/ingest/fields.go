package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FieldAlias 指标字段别名：Name 为字段名，ValidFlag 为可选的有效性标志字段。
// 标志字段显式为假时，即使数值存在也按缺失处理；标志缺失则直接采信数值。
type FieldAlias struct {
	Name      string
	ValidFlag string
}

// 实时 payload 的指标别名，按优先级排列。
var (
	// 脉搏：显式 hr_raw → pulse → ESP 风格 heart_rate（受 heart_rate_valid 约束）
	PayloadPulseAliases = []FieldAlias{
		{Name: "hr_raw"},
		{Name: "pulse"},
		{Name: "heart_rate", ValidFlag: "heart_rate_valid"},
	}
	// 血氧：显式 spo2_raw → spo2（无条件）→ spo2 受 spo2_valid 约束的复查。
	// 无条件别名在前是来源系统的既定行为：spo2 只要能解析就采信，
	// spo2_valid 只在前两级都未命中时才参与判定。
	PayloadSpO2Aliases = []FieldAlias{
		{Name: "spo2_raw"},
		{Name: "spo2"},
		{Name: "spo2", ValidFlag: "spo2_valid"},
	}

	// CSV 列别名
	CSVPulseAliases = []FieldAlias{{Name: "hr"}}
	CSVSpO2Aliases  = []FieldAlias{{Name: "spo2"}}
)

// ResolveMetric 按别名优先级解析一个指标。
// 返回未取整的 raw 值（审计用）和四舍五入后的整数值；raw 缺失 ⇒ 整数值缺失。
// 候选被拒（标志为假 / 数值不可解析）则继续尝试下一个别名，绝不向上抛错。
func ResolveMetric(rec map[string]any, aliases []FieldAlias) (*float64, *int) {
	for _, alias := range aliases {
		v, ok := rec[alias.Name]
		if !ok || v == nil {
			continue
		}
		if alias.ValidFlag != "" {
			if flag, present := rec[alias.ValidFlag]; present && flag != nil && !truthy(flag) {
				continue
			}
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		rounded := int(math.Round(f))
		return &f, &rounded
	}
	return nil, nil
}

// toFloat 宽松的数值解析：不可解析即缺失
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// truthy 按来源系统语义判断标志真假：false、数值 0、空串为假
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case string:
		return val != ""
	case nil:
		return false
	default:
		return true
	}
}
