package components

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/motions"
)

// MotionControllerComponent 角色的运动控制器及其消息总线。
// Bus 可为 nil，此时角色不接收冲击类消息。
type MotionControllerComponent struct {
	Controller *motions.Controller
	Bus        *messaging.Bus

	// FixedTimeStep 固定步长（秒），0 表示使用默认 1/50
	FixedTimeStep float64

	// Accumulator 尚未消耗的固定步长时间
	Accumulator float64
}

// AnimatorComponent 角色的动画状态图运行时
type AnimatorComponent struct {
	Graph *animgraph.Graph
}
