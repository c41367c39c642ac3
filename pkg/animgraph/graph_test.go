package animgraph

import (
	"testing"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

const testDeltaTime = 0.1

const testGraphYAML = `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states:
      - name: "Idle"
        duration: 1.0
        loop: true
      - name: "Move"
        duration: 1.0
        loop: true
        rootMotion:
          mode: input
          speed: 2
      - name: "Stop"
        tags: ["Stopping"]
        duration: 0.5
        rootMotion:
          velocity: [0, 0, 1]
      - name: "Done"
        tags: ["Exit"]
        duration: 1.0
    transitions:
      - { from: AnyState, to: "Move", phase: 100, duration: 0.4, tags: ["Blend"] }
      - { from: AnyState, to: "Stop", phase: 200 }
      - { from: AnyState, to: "Idle", phase: 300, parameter: 1 }
      - { from: "Stop", to: "Done", exitTime: 1.0 }
      - { from: "Idle", to: "Done", exitTime: 0.5, form: 2 }
`

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	cfg, err := config.ParseAnimatorConfig([]byte(testGraphYAML))
	if err != nil {
		t.Fatalf("ParseAnimatorConfig() error = %v", err)
	}
	g, err := NewGraph(cfg)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func stateID(g *Graph, name string) int {
	return g.Registry().ID(config.StateFullName("Base Layer", name))
}

// TestNewGraph_RegistersNames 测试构建时注册状态与转换全名
func TestNewGraph_RegistersNames(t *testing.T) {
	g := newTestGraph(t)

	if g.LayerCount() != 1 {
		t.Fatalf("LayerCount() = %d, want 1", g.LayerCount())
	}
	if g.StateID(0) != stateID(g, "Idle") {
		t.Errorf("默认状态 ID = %d, want Idle", g.StateID(0))
	}
	if id := g.Registry().ID(config.TransitionFullName("Base Layer", config.AnyStateName, "Move")); id == InvalidID {
		t.Errorf("任意状态转换未注册")
	}
	if g.TransitionID(0) != NoTransition {
		t.Errorf("初始不应有转换")
	}
	if g.StateID(5) != InvalidID {
		t.Errorf("越界层应返回 InvalidID")
	}
}

// TestNewGraph_Invalid 测试无效配置
func TestNewGraph_Invalid(t *testing.T) {
	if _, err := NewGraph(nil); err == nil {
		t.Errorf("nil 配置应返回错误")
	}
	cfg := &config.AnimatorConfig{}
	if _, err := NewGraph(cfg); err == nil {
		t.Errorf("空配置应返回错误")
	}
}

// TestGraph_PhaseIsConsumed 测试阶段一次性触发
func TestGraph_PhaseIsConsumed(t *testing.T) {
	g := newTestGraph(t)

	g.SetMotionPhase(0, 200)
	g.Update(testDeltaTime)
	if g.StateID(0) != stateID(g, "Stop") {
		t.Fatalf("阶段 200 应进入 Stop, got %s", g.CurrentStateName(0))
	}
	if !g.IsTag(0, "Stopping") {
		t.Errorf("Stop 应带 Stopping 标签")
	}

	// 阶段已被消费，Stop 播放完后才按退出时间离开
	for i := 0; i < 4; i++ {
		g.Update(testDeltaTime)
	}
	if g.CurrentStateName(0) != "Stop" {
		t.Errorf("未到退出时间不应离开 Stop, got %s", g.CurrentStateName(0))
	}
	g.Update(testDeltaTime)
	g.Update(testDeltaTime)
	if g.CurrentStateName(0) != "Done" {
		t.Errorf("到达退出时间后应进入 Done, got %s", g.CurrentStateName(0))
	}

	if n := len(g.PhaseWrites()); n != 1 {
		t.Errorf("PhaseWrites() = %d, want 1", n)
	}
}

// TestGraph_TransitionProgress 测试转换进度、转换 ID 与转换标签
func TestGraph_TransitionProgress(t *testing.T) {
	g := newTestGraph(t)
	moveEdge := g.Registry().ID(config.TransitionFullName("Base Layer", config.AnyStateName, "Move"))

	g.SetMotionPhase(0, 100)
	g.Update(testDeltaTime)
	if g.TransitionID(0) != moveEdge {
		t.Fatalf("TransitionID() = %d, want %d", g.TransitionID(0), moveEdge)
	}
	if g.CurrentStateName(0) != "Idle" {
		t.Errorf("转换期间当前状态仍为源状态, got %s", g.CurrentStateName(0))
	}
	if !g.IsTag(0, "Blend") {
		t.Errorf("转换标签应可见")
	}

	g.Update(testDeltaTime)
	if got := g.TransitionNormalizedTime(0); got < 0.24 || got > 0.26 {
		t.Errorf("TransitionNormalizedTime() = %.3f, want 0.25", got)
	}

	for i := 0; i < 4; i++ {
		g.Update(testDeltaTime)
	}
	if g.TransitionID(0) != NoTransition || g.CurrentStateName(0) != "Move" {
		t.Errorf("转换完成后应处于 Move, got %s (transition %d)", g.CurrentStateName(0), g.TransitionID(0))
	}
}

// TestGraph_AnyStateInterruptsTransition 测试任意状态转换打断进行中的转换
func TestGraph_AnyStateInterruptsTransition(t *testing.T) {
	g := newTestGraph(t)

	g.SetMotionPhase(0, 100)
	g.Update(testDeltaTime)
	g.SetMotionPhase(0, 200)
	g.Update(testDeltaTime)

	if g.CurrentStateName(0) != "Stop" {
		t.Errorf("阶段 200 应打断转换进入 Stop, got %s", g.CurrentStateName(0))
	}
	if g.TransitionID(0) != NoTransition {
		t.Errorf("立即转换后不应有进行中的转换")
	}
}

// TestGraph_Conditions 测试参数与形态条件
func TestGraph_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(g *Graph)
		wantState string
	}{
		{
			name: "参数不匹配",
			setup: func(g *Graph) {
				g.SetMotionPhase(0, 200)
				g.Update(testDeltaTime)
				g.SetMotionParameter(0, 0)
				g.SetMotionPhase(0, 300)
			},
			wantState: "Stop",
		},
		{
			name: "参数匹配",
			setup: func(g *Graph) {
				g.SetMotionPhase(0, 200)
				g.Update(testDeltaTime)
				g.SetMotionParameter(0, 1)
				g.SetMotionPhase(0, 300)
			},
			wantState: "Idle",
		},
		{
			name: "形态不匹配时不按退出时间离开",
			setup: func(g *Graph) {
				for i := 0; i < 6; i++ {
					g.Update(testDeltaTime)
				}
			},
			wantState: "Idle",
		},
		{
			name: "形态匹配时按退出时间离开",
			setup: func(g *Graph) {
				g.SetMotionForm(0, 2)
				for i := 0; i < 6; i++ {
					g.Update(testDeltaTime)
				}
			},
			wantState: "Done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t)
			tt.setup(g)
			g.Update(testDeltaTime)
			if got := g.CurrentStateName(0); got != tt.wantState {
				t.Errorf("当前状态 = %s, want %s", got, tt.wantState)
			}
		})
	}
}

// TestGraph_RootMotion 测试固定速度与输入驱动的根运动
func TestGraph_RootMotion(t *testing.T) {
	g := newTestGraph(t)

	move, rot := g.RootMotion(testDeltaTime)
	if move.Len() != 0 || !rot.ApproxEqual(mgl64.QuatIdent()) {
		t.Errorf("Idle 不应产生根运动, got %v", move)
	}

	g.SetMotionPhase(0, 200)
	g.Update(testDeltaTime)
	move, _ = g.RootMotion(0.5)
	if move.Sub(mgl64.Vec3{0, 0, 0.5}).Len() > 1e-9 {
		t.Errorf("Stop 根运动 = %v, want (0,0,0.5)", move)
	}

	// 输入模式：方向来自 InputX/InputY，速度乘以输入幅度
	g.SetMotionPhase(0, 100)
	for i := 0; i < 6; i++ {
		g.Update(testDeltaTime)
	}
	g.SetFloat(ParamInputX, 3)
	g.SetFloat(ParamInputY, 0)
	g.SetFloat(ParamInputMagnitude, 0.5)
	move, _ = g.RootMotion(1)
	if move.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("Move 根运动 = %v, want (1,0,0)", move)
	}
}
