// Package packer 实现装箱优化引擎的对外入口
// 引擎接收容器与货物清单，按指定算法计算落位方案并输出结构完整的结果
package packer

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/zhuangxiang/zhuangxiang/pkg/errors"
	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/evaluator"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/genetic"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/search"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/strategy"
)

// Algorithm 装箱算法标识
type Algorithm string

const (
	// AlgorithmDefault 多策略贪心搜索，综合稳定性与空间利用率
	AlgorithmDefault Algorithm = "default"
	// AlgorithmGuillotine 单策略大件优先，评分偏重空间利用率
	AlgorithmGuillotine Algorithm = "guillotine"
	// AlgorithmGenetic 随机键遗传算法优化装箱顺序
	AlgorithmGenetic Algorithm = "genetic"
	// AlgorithmPhysicsEnhanced 评分偏重重心与力矩的物理增强模式
	AlgorithmPhysicsEnhanced Algorithm = "physics_enhanced"
	// AlgorithmRLHeuristic 引入高度图启发式评估器参与评分
	AlgorithmRLHeuristic Algorithm = "rl_heuristic"
)

// ParseAlgorithm 解析算法标识，未识别时回退为默认算法
func ParseAlgorithm(s string) Algorithm {
	switch Algorithm(s) {
	case AlgorithmGuillotine, AlgorithmGenetic, AlgorithmPhysicsEnhanced, AlgorithmRLHeuristic:
		return Algorithm(s)
	default:
		return AlgorithmDefault
	}
}

// Request 引擎输入
type Request struct {
	Container *model.Container   `json:"container"`
	Items     []*model.CargoItem `json:"items"`
	Algorithm Algorithm          `json:"algorithm"`
}

// Config 引擎配置
type Config struct {
	Strategy strategy.Config `json:"strategy"`
	Genetic  genetic.Config  `json:"genetic"`
	Progress ProgressConfig  `json:"progress"`
	// ModelServerURL 外部评分服务地址，为空则只用本地启发式
	ModelServerURL string `json:"model_server_url"`
}

// DefaultEngineConfig 默认引擎配置
func DefaultEngineConfig() Config {
	return Config{
		Strategy: strategy.DefaultConfig(),
		Genetic:  genetic.DefaultConfig(),
		Progress: DefaultProgressConfig(),
	}
}

// Engine 装箱引擎
// 单次 Pack 调用内部为顺序计算，跨调用无共享状态，可并发使用
type Engine struct {
	cfg Config
	log *logger.PackerLogger
}

// NewEngine 创建装箱引擎
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, log: logger.NewPackerLogger()}
}

// Pack 执行装箱计算
func (e *Engine) Pack(ctx context.Context, req *Request) (*model.PackingResult, error) {
	return e.PackWithProgress(ctx, req, nil)
}

// PackWithProgress 执行装箱计算并通过发射器推送进度
// 无论中途取消与否，只要输入合法就返回结构完整的结果
func (e *Engine) PackWithProgress(ctx context.Context, req *Request, emitter *ProgressEmitter) (*model.PackingResult, error) {
	if err := e.validate(req); err != nil {
		// 非法输入只向宿主报告错误，不发终态事件
		if emitter != nil {
			emitter.Close()
		}
		return nil, err
	}

	algorithm := ParseAlgorithm(string(req.Algorithm))
	runID := uuid.New().String()
	start := time.Now()

	e.log.StartPacking(runID, string(algorithm), len(req.Items))

	units := model.ExpandUnits(req.Items)
	var pass *strategy.PassResult
	var runErr error

	if algorithm == AlgorithmGenetic {
		pass, runErr = e.runGenetic(ctx, req.Container, units)
	} else {
		pass, runErr = e.runStrategies(ctx, algorithm, req.Container, units, emitter)
	}

	// 任何策略开始前即被取消时，全部单件记为未装入
	if pass == nil {
		pass = &strategy.PassResult{
			UnpackedUnits: units,
			Reasons:       make(map[uuid.UUID]string),
		}
	}

	result := &model.PackingResult{
		RunID:         runID,
		Algorithm:     string(algorithm),
		Strategy:      pass.Strategy,
		PackedItems:   pass.Placed,
		UnpackedItems: model.ConsolidateUnpacked(pass.UnpackedUnits, pass.Reasons),
		Duration:      time.Since(start),
	}
	result.Finalize(req.Container)

	e.log.PackingComplete(runID, result.Duration, result.PackedCount(),
		result.UnpackedCount(), result.ContainerFillPercentage)

	if emitter != nil {
		emitter.Complete(result)
	}
	return result, runErr
}

// validate 校验引擎输入，任何落位计算开始前完成
func (e *Engine) validate(req *Request) error {
	if req == nil || req.Container == nil {
		return apperrors.MissingContainer()
	}
	if !req.Container.IsValid() {
		return apperrors.InvalidInput("container", "尺寸与载重必须为正数")
	}
	if len(req.Items) == 0 {
		return apperrors.MissingItems()
	}
	ve := &apperrors.ValidationErrors{}
	for i, item := range req.Items {
		if item == nil || !item.IsValid() {
			ve.Add("items", "第"+strconv.Itoa(i)+"项货物尺寸、重量或数量非法")
		}
	}
	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// runStrategies 按算法定制评分配置后执行多策略贪心搜索
func (e *Engine) runStrategies(ctx context.Context, algorithm Algorithm, container *model.Container, units []*model.CargoUnit, emitter *ProgressEmitter) (*strategy.PassResult, error) {
	cfg := e.cfg.Strategy
	strategies := strategy.DefaultStrategies()
	var ev search.Evaluator

	switch algorithm {
	case AlgorithmGuillotine:
		cfg.Search.Scoring = guillotineScoring(cfg.Search.Scoring)
		strategies = []strategy.Strategy{strategy.LargestVolumeFirst{}}
	case AlgorithmPhysicsEnhanced:
		cfg.Search.Scoring = physicsScoring(cfg.Search.Scoring)
	case AlgorithmRLHeuristic:
		ev = e.buildEvaluator()
	}

	exec := strategy.NewExecutor(cfg, strategies)
	if ev != nil {
		exec.SetEvaluator(ev)
	}

	var onPlaced strategy.OnPlaced
	if emitter != nil {
		onPlaced = emitter.Observe
	}
	return exec.Run(ctx, container, units, onPlaced)
}

// runGenetic 执行遗传算法模式
// 染色体评估各自独占状态，不产生逐件进度事件
func (e *Engine) runGenetic(ctx context.Context, container *model.Container, units []*model.CargoUnit) (*strategy.PassResult, error) {
	cfg := e.cfg.Genetic
	cfg.Search = e.cfg.Strategy.Search
	solver := genetic.NewSolver(cfg)
	return solver.Run(ctx, container, units)
}

// buildEvaluator 构建外部评分器，服务不可用时自动退回本地启发式
func (e *Engine) buildEvaluator() search.Evaluator {
	if e.cfg.ModelServerURL != "" {
		client := evaluator.NewModelClient(e.cfg.ModelServerURL, 2*time.Second)
		return evaluator.NewRemoteEvaluator(client, 0)
	}
	return evaluator.NewHeightmapEvaluator(0)
}

// guillotineScoring 空间利用率优先的评分权重
func guillotineScoring(base search.ScoringConfig) search.ScoringConfig {
	base.Early = search.ScoreWeights{
		Stability: 0.15, ContactArea: 0.15, Height: 0.15, COG: 0.05,
		Torque: 0.05, SpaceUtilization: 0.30, WallAlignment: 0.10, Adjacency: 0.05,
	}
	base.Late = base.Early
	return base
}

// physicsScoring 稳定性与配载平衡优先的评分权重
func physicsScoring(base search.ScoringConfig) search.ScoringConfig {
	base.Early = search.ScoreWeights{
		Stability: 0.30, ContactArea: 0.10, Height: 0.10, COG: 0.20,
		Torque: 0.15, SpaceUtilization: 0.05, WallAlignment: 0.05, Adjacency: 0.05,
	}
	base.Late = search.ScoreWeights{
		Stability: 0.25, ContactArea: 0.10, Height: 0.10, COG: 0.15,
		Torque: 0.15, SpaceUtilization: 0.15, WallAlignment: 0.05, Adjacency: 0.05,
	}
	return base
}
