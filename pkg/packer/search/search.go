package search

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/physics"
)

// Evaluator 可选的外部落位评估能力
// 返回 (评分, 是否可用)；不可用时调用方回退到启发式评分，不视为错误
type Evaluator interface {
	Score(container *model.Container, placed []*model.PlacedItem, candidate *model.PlacedItem) (float64, bool)
}

// Config 搜索配置
type Config struct {
	Arena   geometry.ArenaConfig `json:"arena"`
	Physics physics.Config       `json:"physics"`
	Scoring ScoringConfig        `json:"scoring"`
	// DistributionItemCount 前若干件追加手选分布点候选（中心与四角），避免早期聚集
	DistributionItemCount int `json:"distribution_item_count"`
}

// DefaultConfig 默认搜索配置
func DefaultConfig() Config {
	return Config{
		Arena:                 geometry.DefaultArenaConfig(),
		Physics:               physics.DefaultConfig(),
		Scoring:               DefaultScoringConfig(),
		DistributionItemCount: 5,
	}
}

// Search 单次装箱运行的落位搜索器
// 持有本次运行的空闲空间池与落位状态，单一所有者，不跨运行共享
type Search struct {
	container *model.Container
	arena     *geometry.Arena
	ctx       *constraint.Context
	cm        *constraint.Manager
	cfg       Config
	evaluator Evaluator
}

// New 创建落位搜索器，空闲空间初始化为整个容器
func New(container *model.Container, cm *constraint.Manager, cfg Config) *Search {
	arena := geometry.NewArena(cfg.Arena)
	arena.Seed(geometry.ContainerSpace(container))
	return &Search{
		container: container,
		arena:     arena,
		ctx:       constraint.NewContext(container),
		cm:        cm,
		cfg:       cfg,
	}
}

// SetEvaluator 注入外部评估器（可选）
func (s *Search) SetEvaluator(e Evaluator) {
	s.evaluator = e
}

// Placed 返回已落位货件列表
func (s *Search) Placed() []*model.PlacedItem {
	return s.ctx.Placed
}

// TotalWeight 返回已装总重量
func (s *Search) TotalWeight() float64 {
	return s.ctx.TotalWeight
}

// candidate 候选落位
type candidate struct {
	pos      model.Vector3
	o        model.Orientation
	dims     model.Dimensions
	spaceIdx int
	score    float64
}

// PlaceUnit 为单件货物搜索最优落位并提交
// 返回落位记录；无任何合法候选时返回 (nil, 拒绝原因)
func (s *Search) PlaceUnit(unit *model.CargoUnit, orientations []model.Orientation) (*model.PlacedItem, string) {
	best, reason := s.findBest(unit, orientations, false)
	if best == nil {
		return nil, reason
	}
	placed := model.NewPlacedItem(unit, best.pos, best.o)
	placed.StabilityScore = physics.StabilityScore(placed, s.ctx.Placed, s.container, s.cfg.Physics)
	s.commit(placed, best.spaceIdx)
	return placed, ""
}

// PlaceUnitRelaxed 兜底落位：放宽支撑与摆放约束，物理约束（边界/碰撞/载重/易碎禁压/承重上限）照常执行
// 成功时落位记录带 Fallback 标记，并记录其未达标的稳定性评分
func (s *Search) PlaceUnitRelaxed(unit *model.CargoUnit, orientations []model.Orientation) (*model.PlacedItem, string) {
	best, reason := s.findBest(unit, orientations, true)
	if best == nil {
		return nil, reason
	}
	placed := model.NewPlacedItem(unit, best.pos, best.o)
	placed.Fallback = true
	placed.StabilityScore = physics.StabilityScore(placed, s.ctx.Placed, s.container, s.cfg.Physics)
	s.commit(placed, best.spaceIdx)
	return placed, ""
}

// findBest 在全部空闲空间中搜索评分最高的合法候选
func (s *Search) findBest(unit *model.CargoUnit, orientations []model.Orientation, relaxed bool) (*candidate, string) {
	var best *candidate
	lastReason := "无可容纳的空闲空间"

	for _, idx := range s.arena.Indices() {
		space := s.arena.Get(idx)
		for _, o := range orientations {
			dims := o.Apply(unit.Item)
			if !space.Fits(dims) {
				continue
			}
			for _, pos := range s.candidatePositions(space, dims) {
				ok, reason := s.validate(unit, pos, o, dims, relaxed)
				if !ok {
					if reason != "" {
						lastReason = reason
					}
					continue
				}
				c := &candidate{pos: pos, o: o, dims: dims, spaceIdx: idx}
				if relaxed {
					// 兜底通道不做多因子评分，偏好低位靠角的位置
					c.score = -(pos.Y*1e6 + pos.X*1e3 + pos.Z)
				} else {
					c.score = s.scoreCandidate(unit, c)
				}
				if best == nil || c.score > best.score || (c.score == best.score && lowerPosition(c, best)) {
					best = c
				}
			}
		}
	}

	if best == nil {
		return nil, lastReason
	}
	return best, ""
}

// lowerPosition 评分相同时的确定性决胜：更低、更靠原点的位置优先
func lowerPosition(a, b *candidate) bool {
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	if a.pos.X != b.pos.X {
		return a.pos.X < b.pos.X
	}
	return a.pos.Z < b.pos.Z
}

// candidatePositions 生成空间内的候选位置：
// 空间原点、足迹与空间相交的已落位货件顶面，以及早期的手选分布点
func (s *Search) candidatePositions(space geometry.Space, dims model.Dimensions) []model.Vector3 {
	positions := []model.Vector3{space.Origin}

	// 堆叠候选：落在足迹与该空间相交的货件顶面
	for _, p := range s.ctx.Placed {
		if !space.FootprintOverlapsItem(p) {
			continue
		}
		top := p.TopY()
		if top < space.Origin.Y-geometry.SupportYTolerance || top+dims.Height > space.MaxY()+geometry.FitEpsilon {
			continue
		}
		x := math.Max(space.Origin.X, p.Position.X)
		z := math.Max(space.Origin.Z, p.Position.Z)
		if x+dims.Length > space.MaxX()+geometry.FitEpsilon || z+dims.Width > space.MaxZ()+geometry.FitEpsilon {
			continue
		}
		positions = append(positions, model.Vector3{X: x, Y: top, Z: z})
	}

	// 早期分布点：容器底面中心与四角，避免前几件聚成一堆
	if len(s.ctx.Placed) < s.cfg.DistributionItemCount {
		c := s.container
		points := []model.Vector3{
			{X: (c.Length - dims.Length) / 2, Y: 0, Z: (c.Width - dims.Width) / 2},
			{X: 0, Y: 0, Z: 0},
			{X: c.Length - dims.Length, Y: 0, Z: 0},
			{X: 0, Y: 0, Z: c.Width - dims.Width},
			{X: c.Length - dims.Length, Y: 0, Z: c.Width - dims.Width},
		}
		for _, pt := range points {
			if pt.X < space.Origin.X-geometry.FitEpsilon || pt.Z < space.Origin.Z-geometry.FitEpsilon ||
				pt.Y < space.Origin.Y-geometry.FitEpsilon ||
				pt.X+dims.Length > space.MaxX()+geometry.FitEpsilon ||
				pt.Z+dims.Width > space.MaxZ()+geometry.FitEpsilon ||
				pt.Y+dims.Height > space.MaxY()+geometry.FitEpsilon {
				continue
			}
			positions = append(positions, pt)
		}
	}

	return positions
}

// validate 检查候选位置：边界、碰撞、支撑率与落位约束
func (s *Search) validate(unit *model.CargoUnit, pos model.Vector3, o model.Orientation, dims model.Dimensions, relaxed bool) (bool, string) {
	if !geometry.InsideContainer(pos, dims, s.container) {
		return false, "超出容器边界"
	}
	if geometry.Overlaps(pos, dims, s.ctx.Placed) {
		return false, "与已落位货件碰撞"
	}
	if !relaxed {
		if ratio := geometry.SupportRatio(pos, dims, s.ctx.Placed); ratio < s.cfg.Physics.MinSupportRatio {
			return false, "底面支撑不足"
		}
	}
	trial := model.NewPlacedItem(unit, pos, o)
	if ok, reason := s.cm.CanPlace(s.ctx, trial, relaxed); !ok {
		return false, reason
	}
	return true, ""
}

// scoreCandidate 多因子加权评分
func (s *Search) scoreCandidate(unit *model.CargoUnit, c *candidate) float64 {
	w := s.cfg.Scoring.weightsAt(len(s.ctx.Placed))
	trial := model.NewPlacedItem(unit, c.pos, c.o)

	stability := physics.StabilityScore(trial, s.ctx.Placed, s.container, s.cfg.Physics)
	contact := contactAreaScore(c.pos, c.dims, s.ctx.Placed, s.container)
	height := 1.0
	if s.container.Height > 0 {
		height = 1 - c.pos.Y/s.container.Height
	}
	cogScore, torqueScore := cogTorqueScores(trial, s.ctx.Placed, s.container, s.cfg.Physics)

	space := s.arena.Get(c.spaceIdx)
	spaceUtil := 0.0
	if base := space.Dims.BaseArea(); base > 0 {
		spaceUtil = c.dims.BaseArea() / base
	}

	wall := wallAlignmentScore(c.pos, c.dims, s.container)
	adjacency := adjacencyScore(c.pos, c.dims, s.ctx.Placed)

	score := w.Stability*stability +
		w.ContactArea*contact +
		w.Height*height +
		w.COG*cogScore +
		w.Torque*torqueScore +
		w.SpaceUtilization*spaceUtil +
		w.WallAlignment*wall +
		w.Adjacency*adjacency

	if s.evaluator != nil {
		if evalScore, ok := s.evaluator.Score(s.container, s.ctx.Placed, trial); ok {
			score += s.cfg.Scoring.EvaluatorWeight * evalScore
		}
	}
	return score
}

// commit 提交落位：更新约束上下文并切分被消耗的空间
func (s *Search) commit(placed *model.PlacedItem, spaceIdx int) {
	s.ctx.AddPlaced(placed)
	geometry.Commit(s.arena, spaceIdx, placed.Position, placed.Dims)
}
