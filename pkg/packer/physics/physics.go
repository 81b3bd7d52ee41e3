// Package physics 提供装箱稳定性的物理模型：重心、倾覆力矩与稳定性评分
package physics

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
)

// Config 物理模型配置
// 各阈值在不同来源实现中取值不一，这里作为可调参数而非固定语义
type Config struct {
	// MinSupportRatio 非落地货件要求的最低底面支撑率
	MinSupportRatio float64 `json:"min_support_ratio"`
	// AcceptableTorqueRatio 可接受力矩与容器最大载重的比值
	AcceptableTorqueRatio float64 `json:"acceptable_torque_ratio"`
	// FloorVolumeBonus 落地货件按体积占比给予的小额加分
	FloorVolumeBonus float64 `json:"floor_volume_bonus"`
	// StackingPenalty 头重脚轻堆叠的评分惩罚系数
	StackingPenalty float64 `json:"stacking_penalty"`

	// 稳定性评分内部混合权重
	SupportWeight float64 `json:"support_weight"`
	COGWeight     float64 `json:"cog_weight"`
	TorqueWeight  float64 `json:"torque_weight"`
	HeightWeight  float64 `json:"height_weight"`
	BalanceWeight float64 `json:"balance_weight"`
}

// DefaultConfig 默认物理模型配置
func DefaultConfig() Config {
	return Config{
		MinSupportRatio:       0.5,
		AcceptableTorqueRatio: 0.3,
		FloorVolumeBonus:      0.05,
		StackingPenalty:       0.6,
		SupportWeight:         0.35,
		COGWeight:             0.20,
		TorqueWeight:          0.15,
		HeightWeight:          0.15,
		BalanceWeight:         0.15,
	}
}

// CenterOfGravity 计算已落位货件的重心（按重量加权的几何中心均值）
// 空集返回原点
func CenterOfGravity(placed []*model.PlacedItem) model.Vector3 {
	var totalWeight float64
	var weighted model.Vector3
	for _, p := range placed {
		w := p.Weight()
		c := p.Center()
		weighted.X += c.X * w
		weighted.Y += c.Y * w
		weighted.Z += c.Z * w
		totalWeight += w
	}
	if totalWeight <= 0 {
		return model.Vector3{}
	}
	return model.Vector3{
		X: weighted.X / totalWeight,
		Y: weighted.Y / totalWeight,
		Z: weighted.Z / totalWeight,
	}
}

// Torque 计算倾覆力矩代理量
// 各货件重量×到重心的水平距离之和，只考虑XZ平面，与高度无关
func Torque(placed []*model.PlacedItem, cog model.Vector3) float64 {
	var torque float64
	for _, p := range placed {
		torque += p.Weight() * p.Center().HorizontalDistance(cog)
	}
	return torque
}

// idealCenter 返回容器的理想重心位置（水平居中、贴近地面）
func idealCenter(c *model.Container) model.Vector3 {
	return model.Vector3{X: c.Length / 2, Y: 0, Z: c.Width / 2}
}

// horizontalHalfDiagonal 返回容器底面半对角线长度，用于距离归一化
func horizontalHalfDiagonal(c *model.Container) float64 {
	return math.Sqrt(c.Length*c.Length+c.Width*c.Width) / 2
}

// StabilityScore 计算候选落位的稳定性评分
// 落地货件得满分并按体积小额加分；堆叠货件按支撑率、重心偏移、
// 力矩、高度和平衡改善混合评分，并对头重脚轻的堆叠施加惩罚
func StabilityScore(candidate *model.PlacedItem, placed []*model.PlacedItem, container *model.Container, cfg Config) float64 {
	if candidate.Position.Y <= geometry.SupportYTolerance {
		bonus := 0.0
		if cv := container.Volume(); cv > 0 {
			bonus = cfg.FloorVolumeBonus * candidate.Volume() / cv
		}
		return 1.0 + bonus
	}

	support := geometry.SupportRatio(candidate.Position, candidate.Dims, placed)

	after := append(append([]*model.PlacedItem(nil), placed...), candidate)
	cogAfter := CenterOfGravity(after)

	halfDiag := horizontalHalfDiagonal(container)
	cogScore := 0.0
	if halfDiag > 0 {
		cogScore = 1 - math.Min(1, cogAfter.HorizontalDistance(idealCenter(container))/halfDiag)
	}

	torqueScore := 1.0
	if limit := container.MaxWeight * cfg.AcceptableTorqueRatio; limit > 0 {
		torqueScore = 1 - math.Min(1, Torque(after, cogAfter)/limit)
	}

	heightScore := 1.0
	if container.Height > 0 {
		heightScore = 1 - candidate.Position.Y/container.Height
	}

	balanceScore := balanceScore(candidate, placed, container, halfDiag)

	score := cfg.SupportWeight*support +
		cfg.COGWeight*cogScore +
		cfg.TorqueWeight*torqueScore +
		cfg.HeightWeight*heightScore +
		cfg.BalanceWeight*balanceScore

	return score * stackingPenalty(candidate, placed, cfg)
}

// balanceScore 计算平衡评分
// 首件奖励居中摆放，后续货件奖励对重心偏移的实际改善
func balanceScore(candidate *model.PlacedItem, placed []*model.PlacedItem, container *model.Container, halfDiag float64) float64 {
	if halfDiag <= 0 {
		return 0.5
	}
	ideal := idealCenter(container)
	if len(placed) == 0 {
		return 1 - math.Min(1, candidate.Center().HorizontalDistance(ideal)/halfDiag)
	}
	devBefore := CenterOfGravity(placed).HorizontalDistance(ideal)
	after := append(append([]*model.PlacedItem(nil), placed...), candidate)
	devAfter := CenterOfGravity(after).HorizontalDistance(ideal)
	return clamp01(0.5 + (devBefore-devAfter)/halfDiag)
}

// stackingPenalty 计算头重脚轻的堆叠惩罚系数
// 候选比其支撑件明显更大更重时压低评分，抑制倒金字塔式堆叠
func stackingPenalty(candidate *model.PlacedItem, placed []*model.PlacedItem, cfg Config) float64 {
	supports := geometry.SupportingItems(candidate.Position, candidate.Dims, placed)
	if len(supports) == 0 {
		return 1.0
	}
	var supportVolume, supportWeight float64
	for _, s := range supports {
		supportVolume += s.Volume()
		supportWeight += s.Weight()
	}
	if supportVolume <= 0 {
		return cfg.StackingPenalty
	}
	if candidate.Volume() > supportVolume*1.5 && candidate.Weight() > supportWeight {
		return cfg.StackingPenalty
	}
	return 1.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
