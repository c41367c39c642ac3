// Package input 提供运动核心轮询的输入源
//
// 运动核心从不持有设备状态，只通过别名（如 "Run", "ChangeCover"）和连续轴读取输入。
package input

// 常用输入别名
const (
	AliasRun         = "Run"
	AliasCover       = "ChangeCover"
	AliasCameraAlign = "CameraRotate"
	AliasPush        = "DebugPush"
)

// Source 输入源
type Source interface {
	// IsEnabled 输入源是否启用
	IsEnabled() bool
	// IsPressed 别名当前是否按住
	IsPressed(alias string) bool
	// IsJustPressed 别名是否在本帧刚按下
	IsJustPressed(alias string) bool
	// MovementX 水平移动轴 [-1, 1]，正为右
	MovementX() float64
	// MovementY 前后移动轴 [-1, 1]，正为前
	MovementY() float64
	// ViewX 视角水平轴 [-1, 1]
	ViewX() float64
	// ViewY 视角垂直轴 [-1, 1]
	ViewY() float64
}

// ScriptedSource 可编程的输入源（测试与无窗口验证工具使用）
//
// JustPressed 只在调用 EndFrame 之前有效，模拟"本帧刚按下"。
type ScriptedSource struct {
	Enabled bool
	MoveX   float64
	MoveY   float64
	LookX   float64
	LookY   float64

	held        map[string]bool
	justPressed map[string]bool
}

var _ Source = (*ScriptedSource)(nil)

// NewScriptedSource 创建启用状态的可编程输入源
func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{
		Enabled:     true,
		held:        make(map[string]bool),
		justPressed: make(map[string]bool),
	}
}

// Press 按下别名（本帧刚按下，且保持按住直到 Release）
func (s *ScriptedSource) Press(alias string) {
	if !s.held[alias] {
		s.justPressed[alias] = true
	}
	s.held[alias] = true
}

// Tap 本帧按下并在帧结束时松开
func (s *ScriptedSource) Tap(alias string) {
	s.justPressed[alias] = true
}

// Release 松开别名
func (s *ScriptedSource) Release(alias string) {
	delete(s.held, alias)
}

// SetMovement 设置移动轴
func (s *ScriptedSource) SetMovement(x, y float64) {
	s.MoveX = x
	s.MoveY = y
}

// EndFrame 清除本帧的"刚按下"状态
func (s *ScriptedSource) EndFrame() {
	for k := range s.justPressed {
		delete(s.justPressed, k)
	}
}

// IsEnabled 实现 Source
func (s *ScriptedSource) IsEnabled() bool { return s.Enabled }

// IsPressed 实现 Source
func (s *ScriptedSource) IsPressed(alias string) bool {
	return s.held[alias] || s.justPressed[alias]
}

// IsJustPressed 实现 Source
func (s *ScriptedSource) IsJustPressed(alias string) bool { return s.justPressed[alias] }

// MovementX 实现 Source
func (s *ScriptedSource) MovementX() float64 { return s.MoveX }

// MovementY 实现 Source
func (s *ScriptedSource) MovementY() float64 { return s.MoveY }

// ViewX 实现 Source
func (s *ScriptedSource) ViewX() float64 { return s.LookX }

// ViewY 实现 Source
func (s *ScriptedSource) ViewY() float64 { return s.LookY }
