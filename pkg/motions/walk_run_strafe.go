package motions

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 行走/奔跑横移运动阶段
const (
	WalkRunStrafePhaseStart = 3100
	WalkRunStrafePhaseStop  = 3195
)

const (
	// walkMagnitudeCap 步行时输入幅度上限
	walkMagnitudeCap = 0.5
	// stopInputThreshold 输入低于此值开始停止计时
	stopInputThreshold = 0.1
)

const (
	strafeStateMove = "WalkRunStrafe-SM.MoveTree"
	strafeStateStop = "WalkRunStrafe-SM.Stop"
	strafeStateIdle = "WalkRunStrafe-SM.IdlePose"
)

// WalkRunStrafe 行走/奔跑横移运动
//
// 角色朝向由相机（或输入）决定，输入在角色局部空间驱动混合树，因此可以横移与后退。
type WalkRunStrafe struct {
	MotionBase

	cfg config.MotionConfig

	inputX   *utils.SmoothedFloat
	inputY   *utils.SmoothedFloat
	inputMag *utils.SmoothedFloat

	noInputElapsed float64
	stopping       bool
	link           cameraLink
}

// NewWalkRunStrafe 创建行走/奔跑横移运动
func NewWalkRunStrafe(cfg config.MotionConfig) *WalkRunStrafe {
	return &WalkRunStrafe{
		MotionBase: newMotionBase(&cfg, CategoryWalk),
		cfg:        cfg,
		inputX:     utils.NewSmoothedFloat(cfg.SmoothingSamples),
		inputY:     utils.NewSmoothedFloat(cfg.SmoothingSamples),
		inputMag:   utils.NewSmoothedFloat(cfg.SmoothingSamples),
	}
}

// LoadAnimatorData 实现 Motion
func (m *WalkRunStrafe) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	m.bindMotionIDs(registry, layerName,
		[]string{strafeStateMove, strafeStateStop, strafeStateIdle},
		[][2]string{
			{config.AnyStateName, strafeStateMove},
			{config.AnyStateName, strafeStateStop},
			{strafeStateStop, strafeStateIdle},
		})
}

// IsRunActive 当前是否奔跑
//
// 默认奔跑时按住动作键改为步行，默认步行时按住动作键奔跑；没有输入源时取默认值。
func (m *WalkRunStrafe) IsRunActive() bool {
	return isRunActive(m.controller, m.cfg.DefaultToRun, m.actionAlias)
}

func isRunActive(c *Controller, defaultToRun bool, alias string) bool {
	if c == nil || c.Input == nil || alias == "" {
		return defaultToRun
	}
	pressed := c.Input.IsPressed(alias)
	return (defaultToRun && !pressed) || (!defaultToRun && pressed)
}

// IsStopping 是否处于停止阶段
func (m *WalkRunStrafe) IsStopping() bool {
	return m.stopping
}

// TestActivate 实现 Motion
func (m *WalkRunStrafe) TestActivate() bool {
	if !m.canActivate() {
		return false
	}
	return m.controller.State.InputMagnitudeTrend.Average() >= m.cfg.ActivationThreshold
}

// Activate 实现 Motion
func (m *WalkRunStrafe) Activate(prev Motion) bool {
	s := &m.controller.State
	seed := mgl64.Vec2{s.LocalInputX, s.LocalInputY}
	if prev != nil {
		if forced, ok := prev.ForcedInput(); ok {
			seed = forced
		}
	}
	m.inputX.Clear(seed.X())
	m.inputY.Clear(seed.Y())
	m.inputMag.Clear(s.InputMagnitude)

	m.noInputElapsed = 0
	m.stopping = false
	m.link.reset()

	m.setForm()
	m.setPhase(WalkRunStrafePhaseStart)

	if m.cfg.RotateWithCamera {
		m.subscribeCamera(m.onCameraUpdated)
	}
	return m.MotionBase.Activate(prev)
}

// TestUpdate 实现 Motion
func (m *WalkRunStrafe) TestUpdate() bool {
	if m.isActivatedFrame {
		return true
	}
	if !m.isGrounded() {
		return false
	}
	if m.isTag(TagExit) {
		return false
	}
	return m.IsInMotionState()
}

// Update 实现 Motion
func (m *WalkRunStrafe) Update(deltaTime float64, updateIndex int) {
	s := &m.controller.State
	m.movement = mgl64.Vec3{}
	m.rotation = mgl64.QuatIdent()

	m.inputX.Add(s.LocalInputX)
	m.inputY.Add(s.LocalInputY)
	m.inputMag.Add(s.InputMagnitude)

	x, y, mag := m.inputX.Average(), m.inputY.Average(), m.inputMag.Average()
	if !m.IsRunActive() && mag > walkMagnitudeCap {
		scale := walkMagnitudeCap / mag
		x, y, mag = x*scale, y*scale, walkMagnitudeCap
	}

	if anim := m.controller.Animator; anim != nil {
		anim.SetFloat(animgraph.ParamInputX, x)
		anim.SetFloat(animgraph.ParamInputY, y)
		anim.SetFloat(animgraph.ParamInputMagnitude, mag)
		anim.SetFloat(animgraph.ParamInputAngleFromAvatar, s.InputFromAvatarAngle)
	}

	if s.InputMagnitude < stopInputThreshold {
		m.noInputElapsed += deltaTime
	} else {
		m.noInputElapsed = 0
		if m.stopping {
			m.stopping = false
			m.setPhase(WalkRunStrafePhaseStart)
		}
	}
	if !m.stopping && m.noInputElapsed >= m.cfg.StopDelay {
		m.stopping = true
		m.forcedInput = mgl64.Vec2{x, y}
		m.hasForcedInput = true
		m.setPhase(WalkRunStrafePhaseStop)
	}

	if m.cfg.RotateWithCamera && m.controller.Camera != nil {
		if m.cameraRotationRequested() {
			return
		}
		m.link.reset()
	}
	if m.cfg.RotateWithInput && !m.stopping && s.InputMagnitude > inputEpsilon {
		m.rotation = rotateTowards(s.InputFromAvatarAngle, m.cfg.RotationSpeed, deltaTime)
	}
}

func (m *WalkRunStrafe) cameraRotationRequested() bool {
	if m.cfg.RotateWithInput {
		// 同时配置输入旋转时，只有按住相机旋转键才跟随相机
		in := m.controller.Input
		return in != nil && in.IsPressed(input.AliasCameraAlign)
	}
	return true
}

func (m *WalkRunStrafe) onCameraUpdated(deltaTime float64, updateIndex int) {
	if !m.isActive || !m.cameraRotationRequested() {
		return
	}
	rotateActorToCamera(m.controller, &m.link, m.cfg.RotationSpeed, deltaTime)
}

func (m *WalkRunStrafe) overrideSpeed() float64 {
	if m.IsRunActive() {
		return m.cfg.RunSpeed
	}
	return m.cfg.WalkSpeed
}

// UpdateRootMotion 实现 Motion
func (m *WalkRunStrafe) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
	s := &m.controller.State
	rules := RootMotionRules{
		PivotMask:         PivotMaskFor(m.controller.Animator, m.layerIndex),
		FallbackDirection: mgl64.Vec3{s.LocalInputX, 0, s.LocalInputY},
		Stopping:          m.stopping || m.isTag(TagStopping),
		StopDamping:       m.cfg.StopDamping,
	}
	if !rules.Stopping {
		rules.OverrideSpeed = m.overrideSpeed()
	}
	*movement = ShapeMovement(*movement, deltaTime, rules)
	*rotation = mgl64.QuatIdent()
}
