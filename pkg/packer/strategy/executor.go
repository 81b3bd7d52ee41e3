package strategy

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint/builtin"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/search"
)

// Config 执行器配置
type Config struct {
	Search search.Config `json:"search"`
	// GoodEnoughFill 提前停止阈值：某策略填充率达到后不再尝试其余策略
	GoodEnoughFill float64 `json:"good_enough_fill"`
	// RetryAttempts 严格落位失败后用备用姿态优先级重试的次数
	RetryAttempts int `json:"retry_attempts"`
	// EnableFallback 是否启用放宽约束的兜底通道
	EnableFallback bool `json:"enable_fallback"`
	// Parallel 各策略独立并行执行（无进度回调时生效）
	Parallel bool `json:"parallel"`
}

// DefaultConfig 默认执行器配置
func DefaultConfig() Config {
	return Config{
		Search:         search.DefaultConfig(),
		GoodEnoughFill: 85.0,
		RetryAttempts:  2,
		EnableFallback: true,
		Parallel:       false,
	}
}

// PassResult 单个策略完整跑一遍的结果
type PassResult struct {
	Strategy      string
	Placed        []*model.PlacedItem
	UnpackedUnits []*model.CargoUnit
	Reasons       map[uuid.UUID]string
	TotalWeight   float64
	FillRate      float64
}

// betterThan 结果排序：装入件数优先，其次填充率
func (r *PassResult) betterThan(other *PassResult) bool {
	if other == nil {
		return true
	}
	if len(r.Placed) != len(other.Placed) {
		return len(r.Placed) > len(other.Placed)
	}
	return r.FillRate > other.FillRate
}

// OnPlaced 每提交一次落位时的回调
// total 为本轮待处理的单件总数，processed 为已处理数（含未装入）
type OnPlaced func(placed *model.PlacedItem, allPlaced []*model.PlacedItem, processed, total int)

// Executor 多策略执行器
// 依次（或并行）用每个策略跑完整一轮落位，保留最优结果
type Executor struct {
	cfg        Config
	strategies []Strategy
	evaluator  search.Evaluator
	log        *logger.PackerLogger
}

// NewExecutor 创建多策略执行器
func NewExecutor(cfg Config, strategies []Strategy) *Executor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Executor{
		cfg:        cfg,
		strategies: strategies,
		log:        logger.NewPackerLogger(),
	}
}

// SetEvaluator 注入外部评估器，向下传递给每轮搜索
func (e *Executor) SetEvaluator(ev search.Evaluator) {
	e.evaluator = ev
}

// Run 执行所有策略并返回最优结果
// onPlaced 非空时各策略顺序执行，以保证进度事件的时序
func (e *Executor) Run(ctx context.Context, container *model.Container, units []*model.CargoUnit, onPlaced OnPlaced) (*PassResult, error) {
	if e.cfg.Parallel && onPlaced == nil {
		return e.runParallel(ctx, container, units)
	}
	return e.runSequential(ctx, container, units, onPlaced)
}

// runSequential 顺序执行各策略，达到提前停止阈值时不再尝试后续策略
func (e *Executor) runSequential(ctx context.Context, container *model.Container, units []*model.CargoUnit, onPlaced OnPlaced) (*PassResult, error) {
	var best *PassResult
	for _, strat := range e.strategies {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		result := e.RunPass(ctx, container, strat, units, onPlaced)
		if result.betterThan(best) {
			best = result
		}
		if best.FillRate >= e.cfg.GoodEnoughFill {
			logger.Debug().
				Str("strategy", best.Strategy).
				Float64("fill_rate", best.FillRate).
				Msg("填充率达到阈值，提前结束策略尝试")
			break
		}
	}
	return best, nil
}

// runParallel 并行执行各策略，每个策略独占私有状态，最后仅比较结果
func (e *Executor) runParallel(ctx context.Context, container *model.Container, units []*model.CargoUnit) (*PassResult, error) {
	results := make([]*PassResult, len(e.strategies))
	var wg sync.WaitGroup
	for i, strat := range e.strategies {
		wg.Add(1)
		go func(idx int, s Strategy) {
			defer wg.Done()
			results[idx] = e.RunPass(ctx, container, s, units, nil)
		}(i, strat)
	}
	wg.Wait()

	var best *PassResult
	for _, r := range results {
		if r != nil && r.betterThan(best) {
			best = r
		}
	}
	return best, ctx.Err()
}

// RunPass 用单个策略完整跑一遍落位
// 严格落位失败的货件先重试备用姿态优先级，再延后到兜底通道，最终记为未装入
func (e *Executor) RunPass(ctx context.Context, container *model.Container, strat Strategy, units []*model.CargoUnit, onPlaced OnPlaced) *PassResult {
	cm := constraint.NewManager()
	builtin.RegisterDefaultConstraints(cm)

	s := search.New(container, cm, e.cfg.Search)
	if e.evaluator != nil {
		s.SetEvaluator(e.evaluator)
	}

	ordered := strat.Order(units)
	result := &PassResult{
		Strategy: strat.Name(),
		Reasons:  make(map[uuid.UUID]string),
	}

	type deferred struct {
		unit   *model.CargoUnit
		reason string
	}
	var deferredUnits []deferred
	processed := 0
	total := len(ordered)

	for i, unit := range ordered {
		// 取消检查只在货件边界进行
		// 取消时未处理的货件全部记为未装入，保证件数守恒
		if ctx.Err() != nil {
			for _, rest := range ordered[i:] {
				result.UnpackedUnits = append(result.UnpackedUnits, rest)
				result.Reasons[rest.ID] = "装箱计算被取消"
			}
			break
		}
		processed++

		orientations := model.AllowedOrientations(unit.Item)
		placed, reason := s.PlaceUnit(unit, orientations)

		// 备用姿态优先级重试
		for attempt := 0; placed == nil && attempt < e.cfg.RetryAttempts; attempt++ {
			placed, _ = s.PlaceUnit(unit, reverseOrientations(orientations))
		}

		if placed == nil {
			deferredUnits = append(deferredUnits, deferred{unit: unit, reason: reason})
			continue
		}
		if onPlaced != nil {
			onPlaced(placed, s.Placed(), processed, total)
		}
	}

	// 兜底通道：对延后的货件放宽支撑与摆放约束
	for _, d := range deferredUnits {
		if ctx.Err() != nil {
			result.UnpackedUnits = append(result.UnpackedUnits, d.unit)
			result.Reasons[d.unit.ID] = d.reason
			continue
		}
		var placed *model.PlacedItem
		if e.cfg.EnableFallback {
			placed, _ = s.PlaceUnitRelaxed(d.unit, model.AllowedOrientations(d.unit.Item))
		}
		if placed == nil {
			e.log.ItemUnpacked(d.unit.Label(), d.reason)
			result.UnpackedUnits = append(result.UnpackedUnits, d.unit)
			result.Reasons[d.unit.ID] = d.reason
			continue
		}
		if onPlaced != nil {
			onPlaced(placed, s.Placed(), total, total)
		}
	}

	result.Placed = s.Placed()
	result.TotalWeight = s.TotalWeight()
	if cv := container.Volume(); cv > 0 {
		var packedVolume float64
		for _, p := range result.Placed {
			packedVolume += p.Volume()
		}
		result.FillRate = packedVolume / cv * 100
	}
	return result
}

// reverseOrientations 返回逆序的姿态优先级
func reverseOrientations(orientations []model.Orientation) []model.Orientation {
	reversed := make([]model.Orientation, len(orientations))
	for i, o := range orientations {
		reversed[len(orientations)-1-i] = o
	}
	return reversed
}
