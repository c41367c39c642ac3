package animgraph

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

// stateNode 运行时状态节点
type stateNode struct {
	id       int
	name     string
	tags     map[string]bool
	duration float64
	loop     bool
	motion   config.RootMotionConfig
	velocity mgl64.Vec3
	out      []*edge // 以该状态为源的转换（按配置顺序）
}

// edge 运行时转换
type edge struct {
	id        int
	from      *stateNode // nil 表示任意状态
	to        *stateNode
	phase     int
	form      *int
	parameter *int
	exitTime  float64
	duration  float64
	tags      map[string]bool
}

// layerRuntime 单个动画层的运行时状态
type layerRuntime struct {
	name     string
	states   map[string]*stateNode
	anyState []*edge

	current   *stateNode
	stateTime float64

	transition     *edge
	transitionTime float64

	phase     int
	form      int
	parameter int
}

// PhaseWrite 阶段写入记录（调试与验证用）
type PhaseWrite struct {
	Frame int
	Layer int
	Phase int
}

var _ Animator = (*Graph)(nil)

// Graph 数据驱动的动画状态图运行时
//
// 实现 Animator 接口。每帧在运动更新之后调用 Update：
//  1. 推进状态时间与转换进度，完成到期的转换
//  2. 按"任意状态转换 → 当前状态转换"的顺序匹配第一条满足条件的转换
//     （只有阶段触发的任意状态转换能打断进行中的转换）
//  3. 消费（清零）本帧写入的阶段
type Graph struct {
	registry *Registry
	layers   []*layerRuntime
	floats   map[string]float64

	frame       int
	phaseWrites []PhaseWrite
}

// NewGraph 由配置构建状态图运行时
func NewGraph(cfg *config.AnimatorConfig) (*Graph, error) {
	if cfg == nil {
		return nil, fmt.Errorf("animator config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animator config: %w", err)
	}

	g := &Graph{
		registry: NewRegistry(),
		floats:   make(map[string]float64),
	}

	for _, layerCfg := range cfg.Layers {
		layer := &layerRuntime{
			name:   layerCfg.Name,
			states: make(map[string]*stateNode, len(layerCfg.States)),
		}

		for _, stCfg := range layerCfg.States {
			node := &stateNode{
				id:       g.registry.Register(config.StateFullName(layerCfg.Name, stCfg.Name)),
				name:     stCfg.Name,
				tags:     toTagSet(stCfg.Tags),
				duration: stCfg.Duration,
				loop:     stCfg.Loop,
				motion:   stCfg.RootMotion,
			}
			if len(stCfg.RootMotion.Velocity) == 3 {
				node.velocity = mgl64.Vec3{stCfg.RootMotion.Velocity[0], stCfg.RootMotion.Velocity[1], stCfg.RootMotion.Velocity[2]}
			}
			layer.states[stCfg.Name] = node
		}

		for _, trCfg := range layerCfg.Transitions {
			e := &edge{
				id:        g.registry.Register(config.TransitionFullName(layerCfg.Name, trCfg.From, trCfg.To)),
				to:        layer.states[trCfg.To],
				phase:     trCfg.Phase,
				form:      trCfg.Form,
				parameter: trCfg.Parameter,
				exitTime:  trCfg.ExitTime,
				duration:  trCfg.Duration,
				tags:      toTagSet(trCfg.Tags),
			}
			if trCfg.From == config.AnyStateName {
				layer.anyState = append(layer.anyState, e)
				continue
			}
			e.from = layer.states[trCfg.From]
			e.from.out = append(e.from.out, e)
		}

		layer.current = layer.states[layerCfg.DefaultState]
		g.layers = append(g.layers, layer)
	}

	log.Printf("[AnimGraph] Built graph: %d layers, %d registered names", len(g.layers), g.registry.Len())
	return g, nil
}

func toTagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

func (g *Graph) layer(index int) *layerRuntime {
	if g == nil || index < 0 || index >= len(g.layers) {
		return nil
	}
	return g.layers[index]
}

// Registry 返回名称映射表
func (g *Graph) Registry() *Registry {
	if g == nil {
		return nil
	}
	return g.registry
}

// LayerCount 返回层数
func (g *Graph) LayerCount() int {
	return len(g.layers)
}

// StateID 实现 Animator
func (g *Graph) StateID(layer int) int {
	l := g.layer(layer)
	if l == nil || l.current == nil {
		return InvalidID
	}
	return l.current.id
}

// TransitionID 实现 Animator
func (g *Graph) TransitionID(layer int) int {
	l := g.layer(layer)
	if l == nil || l.transition == nil {
		return NoTransition
	}
	return l.transition.id
}

// StateNormalizedTime 实现 Animator
func (g *Graph) StateNormalizedTime(layer int) float64 {
	l := g.layer(layer)
	if l == nil || l.current == nil {
		return 0
	}
	return l.stateTime / l.current.duration
}

// TransitionNormalizedTime 实现 Animator
func (g *Graph) TransitionNormalizedTime(layer int) float64 {
	l := g.layer(layer)
	if l == nil || l.transition == nil || l.transition.duration <= 0 {
		return 0
	}
	return math.Min(l.transitionTime/l.transition.duration, 1)
}

// IsTag 实现 Animator
func (g *Graph) IsTag(layer int, tag string) bool {
	l := g.layer(layer)
	if l == nil || l.current == nil {
		return false
	}
	if l.current.tags[tag] {
		return true
	}
	return l.transition != nil && l.transition.tags[tag]
}

// SetMotionPhase 实现 Animator
func (g *Graph) SetMotionPhase(layer, phase int) {
	l := g.layer(layer)
	if l == nil {
		return
	}
	l.phase = phase
	g.phaseWrites = append(g.phaseWrites, PhaseWrite{Frame: g.frame, Layer: layer, Phase: phase})
}

// SetMotionForm 实现 Animator
func (g *Graph) SetMotionForm(layer, form int) {
	if l := g.layer(layer); l != nil {
		l.form = form
	}
}

// SetMotionParameter 实现 Animator
func (g *Graph) SetMotionParameter(layer, parameter int) {
	if l := g.layer(layer); l != nil {
		l.parameter = parameter
	}
}

// SetFloat 实现 Animator
func (g *Graph) SetFloat(name string, value float64) {
	g.floats[name] = value
}

// Float 实现 Animator
func (g *Graph) Float(name string) float64 {
	return g.floats[name]
}

// PhaseWrites 返回所有阶段写入记录
func (g *Graph) PhaseWrites() []PhaseWrite {
	return g.phaseWrites
}

// Frame 返回已执行的更新帧数
func (g *Graph) Frame() int {
	return g.frame
}

// CurrentStateName 返回层当前状态名（调试用）
func (g *Graph) CurrentStateName(layer int) string {
	l := g.layer(layer)
	if l == nil || l.current == nil {
		return ""
	}
	return l.current.name
}

// Update 推进状态图一帧
func (g *Graph) Update(deltaTime float64) {
	for _, l := range g.layers {
		l.advance(deltaTime)
		if e := l.match(); e != nil {
			l.begin(e)
		}
		// 阶段是一次性触发信号
		l.phase = 0
	}
	g.frame++
}

func (l *layerRuntime) advance(deltaTime float64) {
	if l.transition == nil {
		l.stateTime += deltaTime
		return
	}

	l.transitionTime += deltaTime
	if l.transitionTime >= l.transition.duration {
		leftover := l.transitionTime - l.transition.duration
		l.current = l.transition.to
		l.stateTime = leftover
		l.transition = nil
		l.transitionTime = 0
	} else {
		// 源状态在转换期间继续播放
		l.stateTime += deltaTime
	}
}

// match 查找第一条满足条件的转换
// 任意状态转换（由阶段触发）可以打断进行中的转换，普通转换不能
func (l *layerRuntime) match() *edge {
	for _, e := range l.anyState {
		if l.accepts(e) {
			return e
		}
	}
	if l.current == nil || l.transition != nil {
		return nil
	}
	for _, e := range l.current.out {
		if l.accepts(e) {
			return e
		}
	}
	return nil
}

func (l *layerRuntime) accepts(e *edge) bool {
	if e.phase != 0 && e.phase != l.phase {
		return false
	}
	if e.form != nil && *e.form != l.form {
		return false
	}
	if e.parameter != nil && *e.parameter != l.parameter {
		return false
	}
	if e.exitTime > 0 && l.current != nil && l.stateTime/l.current.duration < e.exitTime {
		return false
	}
	return true
}

func (l *layerRuntime) begin(e *edge) {
	// 打断进行中的转换时，从其目标状态继续
	if l.transition != nil {
		l.current = l.transition.to
		l.stateTime = 0
		l.transition = nil
		l.transitionTime = 0
	}
	if e.duration <= 0 {
		l.current = e.to
		l.stateTime = 0
		return
	}
	l.transition = e
	l.transitionTime = 0
}

// RootMotion 实现 Animator
//
// 只有基础层（0）产生根运动；转换期间按进度混合源状态与目标状态。
func (g *Graph) RootMotion(deltaTime float64) (mgl64.Vec3, mgl64.Quat) {
	l := g.layer(0)
	if l == nil || l.current == nil {
		return mgl64.Vec3{}, mgl64.QuatIdent()
	}

	velocity, angular := g.stateMotion(l.current)
	if l.transition != nil && l.transition.duration > 0 {
		t := math.Min(l.transitionTime/l.transition.duration, 1)
		toVelocity, toAngular := g.stateMotion(l.transition.to)
		velocity = velocity.Mul(1 - t).Add(toVelocity.Mul(t))
		angular = angular*(1-t) + toAngular*t
	}

	movement := velocity.Mul(deltaTime)
	rotation := mgl64.QuatRotate(mgl64.DegToRad(angular*deltaTime), mgl64.Vec3{0, 1, 0})
	return movement, rotation
}

func (g *Graph) stateMotion(node *stateNode) (mgl64.Vec3, float64) {
	if node.motion.Mode != "input" {
		return node.velocity, node.motion.AngularVelocity
	}

	dir := mgl64.Vec3{g.floats[ParamInputX], 0, g.floats[ParamInputY]}
	if dir.Len() < 1e-6 {
		return mgl64.Vec3{}, node.motion.AngularVelocity
	}
	magnitude := math.Min(g.floats[ParamInputMagnitude], 1)
	return dir.Normalize().Mul(node.motion.Speed * magnitude), node.motion.AngularVelocity
}
