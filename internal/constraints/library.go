// Package constraints 约束目录
// 向接口层暴露装箱引擎支持的货物约束及其参数说明
package constraints

// ConstraintParam 约束参数定义
type ConstraintParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, float, string, bool
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
	Min         string `json:"min,omitempty"`
	Max         string `json:"max,omitempty"`
}

// ConstraintDefinition 约束定义
type ConstraintDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"`     // hard 硬约束, soft 软约束
	Category    string            `json:"category"` // 分类
	Description string            `json:"description"`
	Params      []ConstraintParam `json:"params"`
}

// LibraryResponse 约束目录响应
type LibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

// GetLibrary 获取完整的约束目录
func GetLibrary() []ConstraintDefinition {
	return []ConstraintDefinition{
		// =====================================================
		// 物理硬约束，兜底通道也不放宽
		// =====================================================
		{
			Name:        "weight_limit",
			DisplayName: "容器载重上限",
			Type:        "hard",
			Category:    "重量限制",
			Description: "已装入货物总重量不得超过容器载重上限，超重的货件直接判为不可装入。",
			Params: []ConstraintParam{
				{Name: "max_weight", Type: "float", Description: "载重上限(kg)", Min: "0"},
			},
		},
		{
			Name:        "can_support_weight",
			DisplayName: "顶面承重上限",
			Type:        "hard",
			Category:    "重量限制",
			Description: "声明了顶面承重上限的货物，其正上方直接压载的货物总重量不得超过该上限。",
			Params: []ConstraintParam{
				{Name: "max_load", Type: "float", Description: "顶面可承受重量(kg)", Min: "0"},
			},
		},
		// =====================================================
		// 摆放约束，兜底通道可放宽
		// =====================================================
		{
			Name:        "fragile",
			DisplayName: "易碎品",
			Type:        "hard",
			Category:    "摆放限制",
			Description: "易碎货物顶面不可承压，其正上方不允许放置其他货物；仅当易碎货物自身声明顶面承重上限时允许限量压载。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "must_be_upright",
			DisplayName: "必须直立",
			Type:        "hard",
			Category:    "姿态限制",
			Description: "货物高度轴必须保持竖直，只允许绕竖直轴旋转的两种姿态，禁止侧放和倒置。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "must_be_on_top",
			DisplayName: "必须放在最上层",
			Type:        "soft",
			Category:    "摆放限制",
			Description: "货物顶面必须不低于当前货堆最高点，保证装载后位于最上层。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "must_be_on_bottom",
			DisplayName: "必须放在底层",
			Type:        "soft",
			Category:    "摆放限制",
			Description: "货物必须直接落在容器底面上，不允许堆叠在其他货物之上。",
			Params:      []ConstraintParam{},
		},
	}
}
