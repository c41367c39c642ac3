package motions

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 待机运动阶段
const (
	IdlePhaseStart = 3000
)

// idleInputThreshold 输入趋势低于此值才进入待机
const idleInputThreshold = 0.1

const idleStatePose = "Idle-SM.IdlePose"

// Idle 待机运动
//
// 无移动输入时保持站立，可跟随相机或视角输入原地旋转。
type Idle struct {
	MotionBase

	cfg  config.MotionConfig
	link cameraLink
}

// NewIdle 创建待机运动
func NewIdle(cfg config.MotionConfig) *Idle {
	return &Idle{
		MotionBase: newMotionBase(&cfg, CategoryIdle),
		cfg:        cfg,
	}
}

// LoadAnimatorData 实现 Motion
func (m *Idle) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	m.bindMotionIDs(registry, layerName,
		[]string{idleStatePose},
		[][2]string{{config.AnyStateName, idleStatePose}})
}

// TestActivate 实现 Motion
func (m *Idle) TestActivate() bool {
	if !m.canActivate() {
		return false
	}
	return m.controller.State.InputMagnitudeTrend.Average() < idleInputThreshold
}

// Activate 实现 Motion
func (m *Idle) Activate(prev Motion) bool {
	m.link.reset()

	// 保留上一个运动最后的输入方向，使状态图从正确的混合位置过渡
	if prev != nil && m.controller.Animator != nil {
		if forced, ok := prev.ForcedInput(); ok {
			m.controller.Animator.SetFloat(animgraph.ParamInputX, forced.X())
			m.controller.Animator.SetFloat(animgraph.ParamInputY, forced.Y())
		}
	}

	m.setForm()
	m.setPhase(IdlePhaseStart)

	if m.cfg.RotateWithCamera {
		m.subscribeCamera(m.onCameraUpdated)
	}
	return m.MotionBase.Activate(prev)
}

// TestUpdate 实现 Motion
func (m *Idle) TestUpdate() bool {
	if m.isActivatedFrame {
		return true
	}
	if !m.isGrounded() {
		return false
	}
	return m.IsInMotionState()
}

// Update 实现 Motion
func (m *Idle) Update(deltaTime float64, updateIndex int) {
	m.movement = mgl64.Vec3{}
	m.rotation = mgl64.QuatIdent()

	if anim := m.controller.Animator; anim != nil {
		anim.SetFloat(animgraph.ParamInputMagnitude, 0)
	}

	if m.cfg.RotateWithCamera && m.controller.Camera != nil {
		if m.cameraRotationRequested() {
			return
		}
		m.link.reset()
	}

	if m.cfg.RotateWithInput && m.controller.Input != nil && m.controller.Input.IsEnabled() {
		view := m.controller.Input.ViewX()
		if view != 0 {
			m.rotation = utils.YawRotation(view * m.cfg.RotationSpeed * deltaTime)
		}
	}
}

// cameraRotationRequested 未配置动作别名时始终跟随相机，否则仅在按住别名时跟随
func (m *Idle) cameraRotationRequested() bool {
	if m.actionAlias == "" {
		return true
	}
	in := m.controller.Input
	return in != nil && in.IsPressed(m.actionAlias)
}

func (m *Idle) onCameraUpdated(deltaTime float64, updateIndex int) {
	if !m.isActive || !m.cameraRotationRequested() {
		return
	}
	rotateActorToCamera(m.controller, &m.link, m.cfg.RotationSpeed, deltaTime)
}

// UpdateRootMotion 实现 Motion
//
// 待机不产生位移，原地转身的旋转由运动自身输出。
func (m *Idle) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
	*movement = mgl64.Vec3{}
	*rotation = mgl64.QuatIdent()
}
