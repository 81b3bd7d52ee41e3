// Package stats 提供装箱结果的统计分析
// 包括分层空间利用率与配载平衡报告，供接口层与报表消费
package stats

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/physics"
)

// LayerUtilization 单个高度层的利用情况
type LayerUtilization struct {
	// FromHeight 层底高度
	FromHeight float64 `json:"fromHeight"`
	// ToHeight 层顶高度
	ToHeight float64 `json:"toHeight"`
	// ItemCount 与该层相交的货件数
	ItemCount int `json:"itemCount"`
	// FillPercentage 该层体积填充率
	FillPercentage float64 `json:"fillPercentage"`
}

// UtilizationReport 空间利用率报告
type UtilizationReport struct {
	ContainerVolume float64            `json:"containerVolume"`
	PackedVolume    float64            `json:"packedVolume"`
	FillPercentage  float64            `json:"fillPercentage"`
	// UsedHeight 货堆最高点
	UsedHeight float64            `json:"usedHeight"`
	Layers     []LayerUtilization `json:"layers"`
}

// BuildUtilizationReport 按固定层数切分容器高度并统计各层填充率
func BuildUtilizationReport(container *model.Container, placed []*model.PlacedItem, layerCount int) *UtilizationReport {
	if layerCount <= 0 {
		layerCount = 4
	}
	report := &UtilizationReport{
		ContainerVolume: container.Volume(),
	}
	var usedHeight float64
	for _, p := range placed {
		report.PackedVolume += p.Volume()
		if top := p.TopY(); top > usedHeight {
			usedHeight = top
		}
	}
	report.UsedHeight = usedHeight
	if report.ContainerVolume > 0 {
		report.FillPercentage = report.PackedVolume / report.ContainerVolume * 100
	}

	layerHeight := container.Height / float64(layerCount)
	layerVolume := container.Length * container.Width * layerHeight
	for i := 0; i < layerCount; i++ {
		layer := LayerUtilization{
			FromHeight: float64(i) * layerHeight,
			ToHeight:   float64(i+1) * layerHeight,
		}
		var volume float64
		for _, p := range placed {
			overlap := overlapLength(p.Position.Y, p.TopY(), layer.FromHeight, layer.ToHeight)
			if overlap <= 0 {
				continue
			}
			layer.ItemCount++
			volume += p.Dims.Length * p.Dims.Width * overlap
		}
		if layerVolume > 0 {
			layer.FillPercentage = volume / layerVolume * 100
		}
		report.Layers = append(report.Layers, layer)
	}
	return report
}

// QuadrantWeight 地面投影四象限的重量分布
// 象限按容器底面中心划分，编号为前左、前右、后左、后右
type QuadrantWeight struct {
	FrontLeft  float64 `json:"frontLeft"`
	FrontRight float64 `json:"frontRight"`
	RearLeft   float64 `json:"rearLeft"`
	RearRight  float64 `json:"rearRight"`
}

// BalanceReport 配载平衡报告
type BalanceReport struct {
	TotalWeight     float64        `json:"totalWeight"`
	CenterOfGravity model.Vector3  `json:"centerOfGravity"`
	// OffsetRatio 重心水平偏移量与底面半对角线之比，0 为完全居中
	OffsetRatio float64        `json:"offsetRatio"`
	Quadrants   QuadrantWeight `json:"quadrants"`
	// Balanced 偏移比低于阈值视为配载平衡
	Balanced bool `json:"balanced"`
}

// BalanceOffsetThreshold 判定配载平衡的偏移比阈值
const BalanceOffsetThreshold = 0.25

// BuildBalanceReport 计算重心偏移与四象限重量分布
func BuildBalanceReport(container *model.Container, placed []*model.PlacedItem) *BalanceReport {
	report := &BalanceReport{}
	if len(placed) == 0 {
		report.Balanced = true
		return report
	}

	cog := physics.CenterOfGravity(placed)
	report.CenterOfGravity = cog

	halfX := container.Length / 2
	halfZ := container.Width / 2
	for _, p := range placed {
		weight := p.Weight()
		report.TotalWeight += weight
		center := p.Center()
		switch {
		case center.X < halfX && center.Z < halfZ:
			report.Quadrants.FrontLeft += weight
		case center.X >= halfX && center.Z < halfZ:
			report.Quadrants.FrontRight += weight
		case center.X < halfX:
			report.Quadrants.RearLeft += weight
		default:
			report.Quadrants.RearRight += weight
		}
	}

	halfDiag := math.Hypot(halfX, halfZ)
	if halfDiag > 0 {
		dx := cog.X - halfX
		dz := cog.Z - halfZ
		report.OffsetRatio = math.Hypot(dx, dz) / halfDiag
	}
	report.Balanced = report.OffsetRatio <= BalanceOffsetThreshold
	return report
}

// overlapLength 一维区间重叠长度
func overlapLength(aStart, aEnd, bStart, bEnd float64) float64 {
	start := math.Max(aStart, bStart)
	end := math.Min(aEnd, bEnd)
	if end <= start {
		return 0
	}
	return end - start
}
