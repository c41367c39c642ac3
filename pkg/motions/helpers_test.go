package motions

import (
	"testing"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/go-gl/mathgl/mgl64"
)

const testDeltaTime = 1.0 / 60.0

// fakeAnimator 可直接设定状态/转换的测试状态图
type fakeAnimator struct {
	registry    *animgraph.Registry
	states      map[int]int
	transitions map[int]int
	stateTime   map[int]float64
	tags        map[int]map[string]bool
	phases      []int
	forms       map[int]int
	params      map[int]int
	floats      map[string]float64
	rootMove    mgl64.Vec3
	rootRot     mgl64.Quat
}

var _ animgraph.Animator = (*fakeAnimator)(nil)

func newFakeAnimator(names ...string) *fakeAnimator {
	a := &fakeAnimator{
		registry:    animgraph.NewRegistry(),
		states:      make(map[int]int),
		transitions: make(map[int]int),
		stateTime:   make(map[int]float64),
		tags:        make(map[int]map[string]bool),
		forms:       make(map[int]int),
		params:      make(map[int]int),
		floats:      make(map[string]float64),
		rootRot:     mgl64.QuatIdent(),
	}
	for _, n := range names {
		a.registry.Register(n)
	}
	return a
}

// enter 把层切到指定全名状态（自动注册）
func (a *fakeAnimator) enter(layer int, fullName string, tags ...string) {
	id := a.registry.Register(fullName)
	a.states[layer] = id
	a.transitions[layer] = animgraph.NoTransition
	a.stateTime[layer] = 0
	if len(tags) > 0 {
		set := make(map[string]bool, len(tags))
		for _, t := range tags {
			set[t] = true
		}
		a.tags[id] = set
	}
}

func (a *fakeAnimator) countPhase(phase int) int {
	n := 0
	for _, p := range a.phases {
		if p == phase {
			n++
		}
	}
	return n
}

func (a *fakeAnimator) Registry() *animgraph.Registry { return a.registry }

func (a *fakeAnimator) StateID(layer int) int {
	if id, ok := a.states[layer]; ok {
		return id
	}
	return animgraph.InvalidID
}

func (a *fakeAnimator) TransitionID(layer int) int { return a.transitions[layer] }

func (a *fakeAnimator) StateNormalizedTime(layer int) float64 { return a.stateTime[layer] }

func (a *fakeAnimator) TransitionNormalizedTime(layer int) float64 { return 0 }

func (a *fakeAnimator) IsTag(layer int, tag string) bool {
	return a.tags[a.StateID(layer)][tag] || a.tags[a.TransitionID(layer)][tag]
}

func (a *fakeAnimator) SetMotionPhase(layer, phase int) { a.phases = append(a.phases, phase) }

func (a *fakeAnimator) SetMotionForm(layer, form int) { a.forms[layer] = form }

func (a *fakeAnimator) SetMotionParameter(layer, parameter int) { a.params[layer] = parameter }

func (a *fakeAnimator) SetFloat(name string, value float64) { a.floats[name] = value }

func (a *fakeAnimator) Float(name string) float64 { return a.floats[name] }

func (a *fakeAnimator) RootMotion(deltaTime float64) (mgl64.Vec3, mgl64.Quat) {
	return a.rootMove, a.rootRot
}

// motionConfig 创建已填充默认值的运动配置
func motionConfig(motionType, name string, priority int) config.MotionConfig {
	cfg := config.MotionConfig{
		Type:     motionType,
		Name:     name,
		Priority: priority,
	}
	cfg.ApplyDefaults()
	return cfg
}

// testRig 测试用的角色、输入与控制器
type testRig struct {
	world *physics.World
	actor *physics.KinematicActor
	input *input.ScriptedSource
	anim  *fakeAnimator
	ctrl  *Controller
}

func newTestRig(t *testing.T, motions ...Motion) *testRig {
	t.Helper()

	world := physics.NewWorld()
	actor := physics.NewKinematicActor(world, mgl64.Vec3{})
	in := input.NewScriptedSource()

	ctrl := NewController(actor, []string{"Base Layer", "Arms Layer"}, 5)
	ctrl.Input = in
	ctrl.Raycaster = world
	for _, m := range motions {
		if !ctrl.AddMotion(m) {
			t.Fatalf("AddMotion(%s) failed", m.Name())
		}
	}

	anim := newFakeAnimator()
	ctrl.BindAnimator(anim)

	return &testRig{world: world, actor: actor, input: in, anim: anim, ctrl: ctrl}
}

// step 执行一帧：控制器更新、角色结算、输入帧结束
func (r *testRig) step() {
	r.ctrl.Update(testDeltaTime)
	r.actor.Update(testDeltaTime)
	r.input.EndFrame()
}

// rebind 在修改状态图注册表后重新解析运动的状态 ID
func (r *testRig) rebind() {
	r.ctrl.BindAnimator(r.anim)
}

func activeCount(c *Controller, layer int) int {
	n := 0
	for _, m := range c.Layer(layer).Motions() {
		if m.IsActive() {
			n++
		}
	}
	return n
}

func approxEqual(a, b, epsilon float64) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}
