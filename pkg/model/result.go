package model

import "time"

// PackingResult 装箱结果
// 无论输入如何，引擎总是返回结构完整的结果；零件装入是合法的退化情形
type PackingResult struct {
	RunID                    string         `json:"runId"`
	Algorithm                string         `json:"algorithm"`
	PackedItems              []*PlacedItem  `json:"packedItems"`
	UnpackedItems            []UnpackedItem `json:"unpackedItems"`
	ContainerFillPercentage  float64        `json:"containerFillPercentage"`
	WeightCapacityPercentage float64        `json:"weightCapacityPercentage"`
	TotalWeight              float64        `json:"totalWeight"`
	// UsedFallback 标记结果中存在放宽约束落位的货件
	UsedFallback bool          `json:"usedFallback,omitempty"`
	Strategy     string        `json:"strategy,omitempty"`
	Duration     time.Duration `json:"-"`
	DurationMs   int64         `json:"durationMs"`
}

// PackedVolume 计算已装入的总体积
func (r *PackingResult) PackedVolume() float64 {
	var v float64
	for _, p := range r.PackedItems {
		v += p.Volume()
	}
	return v
}

// PackedCount 返回已装入件数
func (r *PackingResult) PackedCount() int {
	return len(r.PackedItems)
}

// UnpackedCount 返回未装入件数（按展开单件计）
func (r *PackingResult) UnpackedCount() int {
	var n int
	for _, u := range r.UnpackedItems {
		n += u.Quantity
	}
	return n
}

// Finalize 基于容器和落位结果补全统计字段
func (r *PackingResult) Finalize(container *Container) {
	var weight float64
	var usedFallback bool
	for _, p := range r.PackedItems {
		weight += p.Weight()
		if p.Fallback {
			usedFallback = true
		}
	}
	r.TotalWeight = weight
	r.UsedFallback = usedFallback
	if cv := container.Volume(); cv > 0 {
		r.ContainerFillPercentage = r.PackedVolume() / cv * 100
	}
	if container.MaxWeight > 0 {
		r.WeightCapacityPercentage = weight / container.MaxWeight * 100
	}
	r.DurationMs = r.Duration.Milliseconds()
}
