package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ConstraintType 物品物理约束类型
type ConstraintType string

const (
	ConstraintFragile          ConstraintType = "FRAGILE"            // 易碎品，顶面不可承压
	ConstraintMustBeUpright    ConstraintType = "MUST_BE_UPRIGHT"    // 必须直立，禁止侧放
	ConstraintMustBeOnTop      ConstraintType = "MUST_BE_ON_TOP"     // 必须放在最上层
	ConstraintMustBeOnBottom   ConstraintType = "MUST_BE_ON_BOTTOM"  // 必须放在底层
	ConstraintCanSupportWeight ConstraintType = "CAN_SUPPORT_WEIGHT" // 顶面可承受的最大重量
)

// ItemConstraint 物品约束
// Value 仅对 CAN_SUPPORT_WEIGHT 有意义
type ItemConstraint struct {
	Type  ConstraintType `json:"type"`
	Value float64        `json:"value,omitempty"`
}

// CargoItem 货物定义
// Quantity > 1 时在装箱前展开为单件，装箱只处理单件
type CargoItem struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Length      float64          `json:"length"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Weight      float64          `json:"weight"`
	Color       string           `json:"color,omitempty"`
	Quantity    int              `json:"quantity"`
	Constraints []ItemConstraint `json:"constraints,omitempty"`
}

// Volume 计算单件体积
func (i *CargoItem) Volume() float64 {
	return i.Length * i.Width * i.Height
}

// HasConstraint 检查是否带有指定约束
func (i *CargoItem) HasConstraint(t ConstraintType) bool {
	for _, c := range i.Constraints {
		if c.Type == t {
			return true
		}
	}
	return false
}

// SupportLimit 返回顶面承重上限
// 未声明 CAN_SUPPORT_WEIGHT 时第二个返回值为 false
func (i *CargoItem) SupportLimit() (float64, bool) {
	for _, c := range i.Constraints {
		if c.Type == ConstraintCanSupportWeight {
			return c.Value, true
		}
	}
	return 0, false
}

// IsFragile 检查是否为易碎品
func (i *CargoItem) IsFragile() bool {
	return i.HasConstraint(ConstraintFragile)
}

// ConstraintCount 返回约束数量（用于最受限优先排序）
func (i *CargoItem) ConstraintCount() int {
	return len(i.Constraints)
}

// IsValid 检查货物定义是否合法
func (i *CargoItem) IsValid() bool {
	return i != nil && i.Length > 0 && i.Width > 0 && i.Height > 0 &&
		i.Weight >= 0 && i.Quantity > 0
}

// CargoUnit 展开后的单件货物
// Sequence 为同一货物内的序号，从1开始
type CargoUnit struct {
	ID       uuid.UUID  `json:"id"`
	Item     *CargoItem `json:"item"`
	Sequence int        `json:"sequence"`
}

// Label 返回便于日志识别的单件标签
func (u *CargoUnit) Label() string {
	if u.Item.Quantity > 1 {
		return fmt.Sprintf("%s#%d", u.Item.Name, u.Sequence)
	}
	return u.Item.Name
}

// ExpandUnits 将货物列表按数量展开为单件列表
// 展开顺序稳定：按输入顺序，每件按序号递增
func ExpandUnits(items []*CargoItem) []*CargoUnit {
	var units []*CargoUnit
	for _, item := range items {
		for seq := 1; seq <= item.Quantity; seq++ {
			units = append(units, &CargoUnit{
				ID:       uuid.New(),
				Item:     item,
				Sequence: seq,
			})
		}
	}
	return units
}

// UnpackedItem 未装入货物（按原始货物合并剩余数量）
type UnpackedItem struct {
	Item     *CargoItem `json:"item"`
	Quantity int        `json:"quantity"`
	Reason   string     `json:"reason,omitempty"`
}

// ConsolidateUnpacked 将未装入的单件按原始货物合并
// 合并后保持原始输入顺序
func ConsolidateUnpacked(units []*CargoUnit, reasons map[uuid.UUID]string) []UnpackedItem {
	counts := make(map[string]int)
	firstReason := make(map[string]string)
	var order []*CargoItem
	seen := make(map[string]bool)

	for _, u := range units {
		counts[u.Item.ID]++
		if !seen[u.Item.ID] {
			seen[u.Item.ID] = true
			order = append(order, u.Item)
		}
		if reasons != nil {
			if r, ok := reasons[u.ID]; ok && firstReason[u.Item.ID] == "" {
				firstReason[u.Item.ID] = r
			}
		}
	}

	result := make([]UnpackedItem, 0, len(order))
	for _, item := range order {
		result = append(result, UnpackedItem{
			Item:     item,
			Quantity: counts[item.ID],
			Reason:   firstReason[item.ID],
		})
	}
	return result
}
