package evaluator

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// HeightmapEvaluator 基于高度图的启发式落位评估器
// 评分为五个因子的加权和：高度利用、表面平整、底面支撑、紧凑度
// 与后续可放性，范围 [0,1]
type HeightmapEvaluator struct {
	gridSize int
}

// NewHeightmapEvaluator 创建启发式评估器
func NewHeightmapEvaluator(gridSize int) *HeightmapEvaluator {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &HeightmapEvaluator{gridSize: gridSize}
}

// Score 评估候选落位
func (e *HeightmapEvaluator) Score(container *model.Container, placed []*model.PlacedItem, candidate *model.PlacedItem) (float64, bool) {
	if container == nil || candidate == nil || container.Height <= 0 {
		return 0, false
	}
	hmap, amap := buildMaps(e.gridSize, container, placed, candidate)

	// 高度利用率
	heightUtilization := math.Min(1, amap.max())

	// 表面平整度：方差越低越好
	varianceScore := math.Max(0, 1-amap.variance()/0.25)

	// 底面支撑率：足迹单元中现有高度贴合候选底面的比例，低于50%重罚
	supportScore := e.supportScore(hmap, container, candidate)

	// 紧凑度
	compactnessScore := amap.compactness()

	// 后续可放性：顶面越平整越利于继续摆放
	futureScore := 0.5
	if std, ok := amap.nonZeroStd(); ok {
		futureScore = math.Exp(-std)
	}

	q := 0.3*heightUtilization +
		0.2*varianceScore +
		0.3*supportScore +
		0.1*compactnessScore +
		0.1*futureScore
	return q, true
}

// supportScore 在网格上计算候选的底面支撑评分
func (e *HeightmapEvaluator) supportScore(hmap *heightmap, container *model.Container, candidate *model.PlacedItem) float64 {
	cells := hmap.footprintCells(container, candidate.Position, candidate.Dims)
	if len(cells) == 0 {
		return 0
	}
	bottom := candidate.Position.Y / container.Height
	supported := 0
	for _, cell := range cells {
		if math.Abs(hmap.at(cell[0], cell[1])-bottom) < 0.1 {
			supported++
		}
	}
	ratio := float64(supported) / float64(len(cells))
	if ratio < 0.5 {
		return 0.1 * (ratio / 0.5)
	}
	return ratio
}
