package motions

import (
	"log"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 被推开运动阶段
const (
	PushedBackPhaseStart = 3850
)

const pushedBackState = "PushedBack-SM.PushedBack"

// PushedBack 被推开运动
//
// 只能由 MsgNavigatePushedBack 消息激活。激活后速度在每个固定帧乘以 (1 - Drag)，
// 速度低于 MinSpeed、持续超过 MaxAge 或收到继续/停用消息时结束。
type PushedBack struct {
	MotionBase

	cfg config.MotionConfig

	velocity      mgl64.Vec3
	stopRequested bool
}

// NewPushedBack 创建被推开运动
func NewPushedBack(cfg config.MotionConfig) *PushedBack {
	return &PushedBack{
		MotionBase: newMotionBase(&cfg, CategoryImpact),
		cfg:        cfg,
	}
}

// Velocity 当前推开速度（世界空间）
func (m *PushedBack) Velocity() mgl64.Vec3 {
	return m.velocity
}

// LoadAnimatorData 实现 Motion
func (m *PushedBack) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	m.bindMotionIDs(registry, layerName,
		[]string{pushedBackState},
		[][2]string{{config.AnyStateName, pushedBackState}})
}

// TestActivate 实现 Motion
//
// 被推开只由消息触发。
func (m *PushedBack) TestActivate() bool {
	return false
}

// OnMessageReceived 实现 Motion
func (m *PushedBack) OnMessageReceived(msg *messaging.Message) {
	if msg == nil || msg.IsHandled {
		return
	}

	switch msg.ID {
	case messaging.MsgNavigatePushedBack:
		// 已激活或已排队时重复消息无效
		if m.isActive || m.isQueued() || !m.enabled {
			return
		}
		impulse, ok := msg.Impulse()
		if !ok {
			log.Printf("[PushedBack] Warning: push message without impulse ignored")
			return
		}
		if !msg.Claim(m) {
			return
		}
		m.velocity = impulse
		m.controller.QueueMotion(m)

	case messaging.MsgMotionContinue, messaging.MsgMotionDeactivate:
		if !m.isActive {
			return
		}
		if msg.Claim(m) {
			m.stopRequested = true
		}
	}
}

// isQueued 是否仍在本层的排队槽中（被其它运动顶替或被拒绝后即不再排队）
func (m *PushedBack) isQueued() bool {
	if m.controller == nil {
		return false
	}
	l := m.controller.Layer(m.layerIndex)
	return l != nil && l.QueuedMotion() == Motion(m)
}

// Activate 实现 Motion
func (m *PushedBack) Activate(prev Motion) bool {
	m.stopRequested = false
	m.setPhase(PushedBackPhaseStart)
	return m.MotionBase.Activate(prev)
}

// TestUpdate 实现 Motion
func (m *PushedBack) TestUpdate() bool {
	if m.isActivatedFrame {
		return true
	}
	if m.stopRequested {
		return false
	}
	if m.age >= m.cfg.Push.MaxAge {
		return false
	}
	if m.velocity.Len() < m.cfg.Push.MinSpeed {
		return false
	}
	return m.IsInMotionState()
}

// FixedUpdate 实现 Motion
func (m *PushedBack) FixedUpdate(fixedDeltaTime float64) {
	m.velocity = m.velocity.Mul(1 - m.cfg.Push.Drag)
}

// Update 实现 Motion
func (m *PushedBack) Update(deltaTime float64, updateIndex int) {
	rot := m.controller.Actor.Rotation()
	m.movement = rot.Inverse().Rotate(m.velocity.Mul(deltaTime))
	m.rotation = mgl64.QuatIdent()

	if m.cfg.Push.FaceImpact && m.velocity.Len() > 0 {
		// 面向冲击来源，即速度的反方向
		angle := utils.HorizontalAngleTo(utils.ForwardOf(rot), m.velocity.Mul(-1), utils.WorldUp)
		m.rotation = rotateTowards(angle, m.cfg.RotationSpeed, deltaTime)
	}
}

// UpdateRootMotion 实现 Motion
func (m *PushedBack) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
	*movement = mgl64.Vec3{}
	*rotation = mgl64.QuatIdent()
}

// Deactivate 实现 Motion
func (m *PushedBack) Deactivate() {
	m.stopRequested = false
	m.velocity = mgl64.Vec3{}
	m.MotionBase.Deactivate()
}
