package motions

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

// 形态覆盖运动阶段
const (
	FormOverridePhaseStart = 9000
)

const formOverrideState = "FormOverride-SM.Arms"

// FormOverride 手臂层形态覆盖运动
//
// 当主运动的形态与角色当前形态不一致时，由主运动在其它层激活，
// 用当前形态的手臂姿势覆盖主运动的手臂动画；主运动停用时随之停用。
type FormOverride struct {
	MotionBase

	cfg   config.MotionConfig
	owner *MotionBase
}

// NewFormOverride 创建形态覆盖运动
func NewFormOverride(cfg config.MotionConfig) *FormOverride {
	return &FormOverride{
		MotionBase: newMotionBase(&cfg, CategoryForm),
		cfg:        cfg,
	}
}

// SetOwner 设置激活本运动的主运动
func (m *FormOverride) SetOwner(owner *MotionBase) {
	m.owner = owner
}

// Owner 主运动
func (m *FormOverride) Owner() *MotionBase {
	return m.owner
}

// LoadAnimatorData 实现 Motion
func (m *FormOverride) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	m.bindMotionIDs(registry, layerName,
		[]string{formOverrideState},
		[][2]string{{config.AnyStateName, formOverrideState}})
}

// TestActivate 实现 Motion
//
// 只能由主运动激活。
func (m *FormOverride) TestActivate() bool {
	return false
}

// Activate 实现 Motion
func (m *FormOverride) Activate(prev Motion) bool {
	if anim := m.animator(); anim != nil {
		form := m.form
		if m.controller.Actor != nil {
			form = m.controller.Actor.Form()
		}
		anim.SetMotionForm(m.layerIndex, form)
	}
	m.setPhase(FormOverridePhaseStart)
	return m.MotionBase.Activate(prev)
}

// TestUpdate 实现 Motion
func (m *FormOverride) TestUpdate() bool {
	if m.isActivatedFrame {
		return true
	}
	return m.owner != nil && m.owner.IsActive()
}

// Update 实现 Motion
func (m *FormOverride) Update(deltaTime float64, updateIndex int) {}

// UpdateRootMotion 实现 Motion
//
// 手臂层不影响根运动。
func (m *FormOverride) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
}

// Deactivate 实现 Motion
func (m *FormOverride) Deactivate() {
	m.owner = nil
	m.MotionBase.Deactivate()
}
