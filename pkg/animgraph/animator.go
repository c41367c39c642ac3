package animgraph

import "github.com/go-gl/mathgl/mgl64"

// 运动写入状态图的浮点参数名
const (
	ParamInputX               = "InputX"
	ParamInputY               = "InputY"
	ParamInputMagnitude       = "InputMagnitude"
	ParamInputAngleFromAvatar = "InputAngleFromAvatar"
)

// Animator 运动与外部动画状态图之间的契约
//
// 运动只读取状态/转换 ID、归一化时间和标签，只写入阶段、形态、参数与浮点输入。
// 阶段写入是一次性触发：状态图在下一次更新时消费它，运动不能假设它跨帧保留。
type Animator interface {
	// Registry 返回状态/转换名称映射表
	Registry() *Registry

	// StateID 层当前状态 ID（转换进行中时为源状态）
	StateID(layer int) int
	// TransitionID 层当前转换 ID，无转换时为 NoTransition
	TransitionID(layer int) int
	// StateNormalizedTime 当前状态的归一化播放时间（循环状态会超过 1）
	StateNormalizedTime(layer int) float64
	// TransitionNormalizedTime 当前转换的归一化进度，无转换时为 0
	TransitionNormalizedTime(layer int) float64
	// IsTag 当前状态或进行中的转换是否带有标签
	IsTag(layer int, tag string) bool

	// SetMotionPhase 写入一次性阶段信号
	SetMotionPhase(layer, phase int)
	// SetMotionForm 写入形态选择
	SetMotionForm(layer, form int)
	// SetMotionParameter 写入运动参数
	SetMotionParameter(layer, parameter int)

	SetFloat(name string, value float64)
	Float(name string) float64

	// RootMotion 返回本帧基础层的根运动（局部位移与旋转增量）
	RootMotion(deltaTime float64) (mgl64.Vec3, mgl64.Quat)
}
