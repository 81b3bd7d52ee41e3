// Package genetic 提供基于随机键遗传算法（BRKGA）的装箱顺序优化
// 染色体只编码装箱顺序与姿态选择，落位本身复用同一套搜索引擎
package genetic

import (
	"context"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint/builtin"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/search"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/strategy"
)

// Chromosome 随机键染色体
// 长度为单件数的两倍：前半段经排序解码为装箱顺序，后半段解码为姿态索引
type Chromosome []float64

// Config 遗传算法配置
type Config struct {
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	EliteFraction  float64 `json:"elite_fraction"`
	MutantFraction float64 `json:"mutant_fraction"`
	// EliteBias 偏置交叉中继承精英父本基因的概率
	EliteBias float64 `json:"elite_bias"`
	// Workers 并行适应度评估的工作协程数
	Workers int           `json:"workers"`
	Seed    int64         `json:"seed"`
	Search  search.Config `json:"search"`
}

// DefaultConfig 默认遗传算法配置
func DefaultConfig() Config {
	return Config{
		PopulationSize: 30,
		Generations:    40,
		EliteFraction:  0.2,
		MutantFraction: 0.15,
		EliteBias:      0.7,
		Workers:        4,
		Seed:           1,
		Search:         search.DefaultConfig(),
	}
}

// individual 种群个体
type individual struct {
	chrom   Chromosome
	fitness float64
	result  *strategy.PassResult
}

// Solver BRKGA求解器
type Solver struct {
	cfg       Config
	evaluator search.Evaluator
	log       *logger.PackerLogger
}

// NewSolver 创建BRKGA求解器
func NewSolver(cfg Config) *Solver {
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = DefaultConfig().PopulationSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Solver{cfg: cfg, log: logger.NewPackerLogger()}
}

// SetEvaluator 注入外部评估器，向下传递给适应度评估
func (s *Solver) SetEvaluator(ev search.Evaluator) {
	s.evaluator = ev
}

// Run 运行进化循环并返回历代最优染色体解码出的装箱结果
func (s *Solver) Run(ctx context.Context, container *model.Container, units []*model.CargoUnit) (*strategy.PassResult, error) {
	if len(units) == 0 {
		return &strategy.PassResult{Strategy: "genetic", Reasons: make(map[uuid.UUID]string)}, nil
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	geneCount := len(units) * 2

	population := make([]Chromosome, s.cfg.PopulationSize)
	for i := range population {
		population[i] = randomChromosome(rng, geneCount)
	}

	eliteCount := int(float64(s.cfg.PopulationSize) * s.cfg.EliteFraction)
	if eliteCount < 1 {
		eliteCount = 1
	}
	mutantCount := int(float64(s.cfg.PopulationSize) * s.cfg.MutantFraction)

	var best *individual

	for gen := 0; gen < s.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			break
		}

		evaluated := s.evaluateAll(ctx, container, units, population)
		sort.SliceStable(evaluated, func(i, j int) bool {
			return evaluated[i].fitness > evaluated[j].fitness
		})

		if best == nil || evaluated[0].fitness > best.fitness {
			best = evaluated[0]
			logger.Debug().
				Int("generation", gen).
				Float64("fitness", best.fitness).
				Msg("遗传算法发现更优装箱顺序")
		}

		// 下一代 = 精英 ∪ 突变体 ∪ 偏置交叉后代
		next := make([]Chromosome, 0, s.cfg.PopulationSize)
		for i := 0; i < eliteCount && i < len(evaluated); i++ {
			next = append(next, evaluated[i].chrom)
		}
		for i := 0; i < mutantCount; i++ {
			next = append(next, randomChromosome(rng, geneCount))
		}
		for len(next) < s.cfg.PopulationSize {
			elite := evaluated[rng.Intn(eliteCount)].chrom
			other := evaluated[eliteCount+rng.Intn(len(evaluated)-eliteCount)].chrom
			next = append(next, crossover(rng, elite, other, s.cfg.EliteBias))
		}
		population = next
	}

	if best == nil {
		return &strategy.PassResult{Strategy: "genetic", Reasons: make(map[uuid.UUID]string)}, ctx.Err()
	}
	return best.result, ctx.Err()
}

// evaluateAll 并行评估整个种群的适应度
// 每次评估独占私有的空间池与落位状态，结束后只比较适应度
func (s *Solver) evaluateAll(ctx context.Context, container *model.Container, units []*model.CargoUnit, population []Chromosome) []*individual {
	type job struct {
		index int
		chrom Chromosome
	}
	jobs := make(chan job, len(population))
	results := make([]*individual, len(population))

	workers := s.cfg.Workers
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				select {
				case <-ctx.Done():
					results[j.index] = &individual{chrom: j.chrom, result: emptyResult(units)}
				default:
					results[j.index] = s.evaluate(ctx, container, units, j.chrom)
				}
				done <- struct{}{}
			}
		}()
	}
	for i, chrom := range population {
		jobs <- job{index: i, chrom: chrom}
	}
	close(jobs)
	for range population {
		<-done
	}
	return results
}

// evaluate 评估单条染色体：按解码顺序与姿态跑完整一轮落位，适应度为填充率
func (s *Solver) evaluate(ctx context.Context, container *model.Container, units []*model.CargoUnit, chrom Chromosome) *individual {
	order, orientations := Decode(chrom, units)

	cm := constraint.NewManager()
	builtin.RegisterDefaultConstraints(cm)
	srch := search.New(container, cm, s.cfg.Search)
	if s.evaluator != nil {
		srch.SetEvaluator(s.evaluator)
	}

	result := &strategy.PassResult{
		Strategy: "genetic",
		Reasons:  make(map[uuid.UUID]string),
	}

	for idx, unitIdx := range order {
		if ctx.Err() != nil {
			result.UnpackedUnits = append(result.UnpackedUnits, units[unitIdx])
			continue
		}
		unit := units[unitIdx]
		placed, reason := srch.PlaceUnit(unit, orientationPriority(unit.Item, orientations[idx]))
		if placed == nil {
			result.UnpackedUnits = append(result.UnpackedUnits, unit)
			result.Reasons[unit.ID] = reason
		}
	}

	result.Placed = srch.Placed()
	result.TotalWeight = srch.TotalWeight()
	var packedVolume float64
	for _, p := range result.Placed {
		packedVolume += p.Volume()
	}
	if cv := container.Volume(); cv > 0 {
		result.FillRate = packedVolume / cv * 100
	}
	return &individual{chrom: chrom, fitness: result.FillRate, result: result}
}

// Decode 解码染色体
// 前半段随机键排序得到装箱顺序排列，后半段映射为各单件的姿态索引
func Decode(chrom Chromosome, units []*model.CargoUnit) ([]int, []model.Orientation) {
	n := len(units)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return chrom[order[a]] < chrom[order[b]]
	})

	orientations := make([]model.Orientation, n)
	for i, unitIdx := range order {
		allowed := model.AllowedOrientations(units[unitIdx].Item)
		key := chrom[n+unitIdx]
		idx := int(key * float64(len(allowed)))
		if idx >= len(allowed) {
			idx = len(allowed) - 1
		}
		orientations[i] = allowed[idx]
	}
	return order, orientations
}

// orientationPriority 将解码出的姿态置于首位，其余允许姿态随后
func orientationPriority(item *model.CargoItem, first model.Orientation) []model.Orientation {
	allowed := model.AllowedOrientations(item)
	priority := make([]model.Orientation, 0, len(allowed))
	priority = append(priority, first)
	for _, o := range allowed {
		if o != first {
			priority = append(priority, o)
		}
	}
	return priority
}

// randomChromosome 生成随机染色体，键取值 [0,1)
func randomChromosome(rng *rand.Rand, genes int) Chromosome {
	chrom := make(Chromosome, genes)
	for i := range chrom {
		chrom[i] = rng.Float64()
	}
	return chrom
}

// crossover 偏置交叉：每个基因以 eliteBias 概率继承精英父本
func crossover(rng *rand.Rand, elite, other Chromosome, eliteBias float64) Chromosome {
	child := make(Chromosome, len(elite))
	for i := range child {
		if rng.Float64() < eliteBias {
			child[i] = elite[i]
		} else {
			child[i] = other[i]
		}
	}
	return child
}

// emptyResult 取消时的空结果，全部单件记为未装入
func emptyResult(units []*model.CargoUnit) *strategy.PassResult {
	r := &strategy.PassResult{Strategy: "genetic", Reasons: make(map[uuid.UUID]string)}
	r.UnpackedUnits = append(r.UnpackedUnits, units...)
	return r
}
