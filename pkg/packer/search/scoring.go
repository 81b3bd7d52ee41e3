// Package search 提供单件货物的候选位置搜索、评分与落位
package search

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/physics"
)

// ContactTolerance 面贴合判定容差
const ContactTolerance = 1e-3

// ScoreWeights 各评分因子的权重
type ScoreWeights struct {
	Stability        float64 `json:"stability"`
	ContactArea      float64 `json:"contact_area"`
	Height           float64 `json:"height"`
	COG              float64 `json:"cog"`
	Torque           float64 `json:"torque"`
	SpaceUtilization float64 `json:"space_utilization"`
	WallAlignment    float64 `json:"wall_alignment"`
	Adjacency        float64 `json:"adjacency"`
}

// ScoringConfig 评分配置
// 权重随已装件数在早期/后期两组之间线性过渡：
// 早期侧重平衡与重心，后期侧重空间利用率
type ScoringConfig struct {
	Early ScoreWeights `json:"early"`
	Late  ScoreWeights `json:"late"`
	// TransitionCount 权重完成过渡所需的已装件数
	TransitionCount int `json:"transition_count"`
	// EvaluatorWeight 外部评估器评分的混合权重
	EvaluatorWeight float64 `json:"evaluator_weight"`
}

// DefaultScoringConfig 默认评分配置
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Early: ScoreWeights{
			Stability:        0.25,
			ContactArea:      0.10,
			Height:           0.15,
			COG:              0.15,
			Torque:           0.10,
			SpaceUtilization: 0.10,
			WallAlignment:    0.10,
			Adjacency:        0.05,
		},
		Late: ScoreWeights{
			Stability:        0.15,
			ContactArea:      0.15,
			Height:           0.15,
			COG:              0.05,
			Torque:           0.05,
			SpaceUtilization: 0.25,
			WallAlignment:    0.10,
			Adjacency:        0.10,
		},
		TransitionCount: 10,
		EvaluatorWeight: 0.3,
	}
}

// weightsAt 返回已装 packed 件时的混合权重
func (c ScoringConfig) weightsAt(packed int) ScoreWeights {
	if c.TransitionCount <= 0 || packed >= c.TransitionCount {
		return c.Late
	}
	t := float64(packed) / float64(c.TransitionCount)
	lerp := func(a, b float64) float64 { return a + (b-a)*t }
	return ScoreWeights{
		Stability:        lerp(c.Early.Stability, c.Late.Stability),
		ContactArea:      lerp(c.Early.ContactArea, c.Late.ContactArea),
		Height:           lerp(c.Early.Height, c.Late.Height),
		COG:              lerp(c.Early.COG, c.Late.COG),
		Torque:           lerp(c.Early.Torque, c.Late.Torque),
		SpaceUtilization: lerp(c.Early.SpaceUtilization, c.Late.SpaceUtilization),
		WallAlignment:    lerp(c.Early.WallAlignment, c.Late.WallAlignment),
		Adjacency:        lerp(c.Early.Adjacency, c.Late.Adjacency),
	}
}

// contactAreaScore 计算贴合面积评分：与墙面/其他货件贴合的表面积占总表面积的比例
func contactAreaScore(pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem, c *model.Container) float64 {
	surface := 2 * (d.Length*d.Width + d.Length*d.Height + d.Height*d.Width)
	if surface <= 0 {
		return 0
	}

	var contact float64

	// 底面
	contact += d.BaseArea() * geometry.SupportRatio(pos, d, placed)

	sideYZ := d.Height * d.Width
	sideXY := d.Length * d.Height

	// X负方向：容器壁或贴合货件
	contact += faceContact(pos.X, sideYZ, pos, d, placed, c, axisXNeg)
	// X正方向
	contact += faceContact(pos.X+d.Length, sideYZ, pos, d, placed, c, axisXPos)
	// Z负方向
	contact += faceContact(pos.Z, sideXY, pos, d, placed, c, axisZNeg)
	// Z正方向
	contact += faceContact(pos.Z+d.Width, sideXY, pos, d, placed, c, axisZPos)

	return math.Min(1, contact/surface)
}

type faceAxis int

const (
	axisXNeg faceAxis = iota
	axisXPos
	axisZNeg
	axisZPos
)

// faceContact 计算单个侧面的贴合面积
func faceContact(facePlane, faceArea float64, pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem, c *model.Container, axis faceAxis) float64 {
	// 容器壁贴合按整面计
	switch axis {
	case axisXNeg, axisZNeg:
		if facePlane <= ContactTolerance {
			return faceArea
		}
	case axisXPos:
		if math.Abs(facePlane-c.Length) <= ContactTolerance {
			return faceArea
		}
	case axisZPos:
		if math.Abs(facePlane-c.Width) <= ContactTolerance {
			return faceArea
		}
	}

	var contact float64
	for _, p := range placed {
		var planeMatch bool
		switch axis {
		case axisXNeg:
			planeMatch = math.Abs(p.MaxX()-facePlane) <= ContactTolerance
		case axisXPos:
			planeMatch = math.Abs(p.Position.X-facePlane) <= ContactTolerance
		case axisZNeg:
			planeMatch = math.Abs(p.MaxZ()-facePlane) <= ContactTolerance
		case axisZPos:
			planeMatch = math.Abs(p.Position.Z-facePlane) <= ContactTolerance
		}
		if !planeMatch {
			continue
		}
		oy := model.AxisOverlap(pos.Y, pos.Y+d.Height, p.Position.Y, p.TopY())
		if oy <= 0 {
			continue
		}
		if axis == axisXNeg || axis == axisXPos {
			contact += oy * model.AxisOverlap(pos.Z, pos.Z+d.Width, p.Position.Z, p.MaxZ())
		} else {
			contact += oy * model.AxisOverlap(pos.X, pos.X+d.Length, p.Position.X, p.MaxX())
		}
	}
	return contact
}

// wallAlignmentScore 计算靠墙评分：贴合的竖直容器壁数量 ÷ 4
func wallAlignmentScore(pos model.Vector3, d model.Dimensions, c *model.Container) float64 {
	touched := 0
	if pos.X <= ContactTolerance {
		touched++
	}
	if math.Abs(pos.X+d.Length-c.Length) <= ContactTolerance {
		touched++
	}
	if pos.Z <= ContactTolerance {
		touched++
	}
	if math.Abs(pos.Z+d.Width-c.Width) <= ContactTolerance {
		touched++
	}
	return float64(touched) / 4
}

// adjacencyScore 计算邻接评分：贴合的相邻货件数，4件封顶
func adjacencyScore(pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem) float64 {
	adjacent := 0
	for _, p := range placed {
		if touchesItem(pos, d, p) {
			adjacent++
			if adjacent >= 4 {
				break
			}
		}
	}
	return float64(adjacent) / 4
}

// touchesItem 检查候选盒与货件是否有面贴合
func touchesItem(pos model.Vector3, d model.Dimensions, p *model.PlacedItem) bool {
	ox := model.AxisOverlap(pos.X, pos.X+d.Length, p.Position.X, p.MaxX())
	oy := model.AxisOverlap(pos.Y, pos.Y+d.Height, p.Position.Y, p.TopY())
	oz := model.AxisOverlap(pos.Z, pos.Z+d.Width, p.Position.Z, p.MaxZ())

	// X方向贴面
	if (math.Abs(p.MaxX()-pos.X) <= ContactTolerance || math.Abs(pos.X+d.Length-p.Position.X) <= ContactTolerance) &&
		oy > 0 && oz > 0 {
		return true
	}
	// Z方向贴面
	if (math.Abs(p.MaxZ()-pos.Z) <= ContactTolerance || math.Abs(pos.Z+d.Width-p.Position.Z) <= ContactTolerance) &&
		oy > 0 && ox > 0 {
		return true
	}
	// Y方向贴面（堆叠）
	if (math.Abs(p.TopY()-pos.Y) <= ContactTolerance || math.Abs(pos.Y+d.Height-p.Position.Y) <= ContactTolerance) &&
		ox > 0 && oz > 0 {
		return true
	}
	return false
}

// cogTorqueScores 计算加入候选后的重心偏移评分与力矩评分
func cogTorqueScores(candidate *model.PlacedItem, placed []*model.PlacedItem, c *model.Container, phys physics.Config) (float64, float64) {
	after := append(append([]*model.PlacedItem(nil), placed...), candidate)
	cog := physics.CenterOfGravity(after)

	halfDiag := math.Sqrt(c.Length*c.Length+c.Width*c.Width) / 2
	cogScore := 0.0
	if halfDiag > 0 {
		ideal := model.Vector3{X: c.Length / 2, Z: c.Width / 2}
		cogScore = 1 - math.Min(1, cog.HorizontalDistance(ideal)/halfDiag)
	}

	torqueScore := 1.0
	if limit := c.MaxWeight * phys.AcceptableTorqueRatio; limit > 0 {
		torqueScore = 1 - math.Min(1, physics.Torque(after, cog)/limit)
	}
	return cogScore, torqueScore
}
