package motions

import (
	"math"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 行走/奔跑转身运动阶段
const (
	WalkRunPivotPhaseStart          = 27130
	WalkRunPivotPhaseStartIdlePivot = 27135
	WalkRunPivotPhaseRunPivot       = 27140
	WalkRunPivotPhaseStop           = 27145
)

// runPivotAngle 移动中输入反向超过此角度时执行 180 度转身
const runPivotAngle = 140.0

const (
	pivotStateMove      = "WalkRunPivot-SM.MoveTree"
	pivotStateIdlePivot = "WalkRunPivot-SM.IdlePivot"
	pivotStateRunPivot  = "WalkRunPivot-SM.RunPivot"
	pivotStateStop      = "WalkRunPivot-SM.Stop"
	pivotStateIdle      = "WalkRunPivot-SM.IdlePose"
)

// WalkRunPivot 行走/奔跑转身运动（轻点原地转身）
//
// 角色朝向跟随输入方向。站立时短暂轻点一个方向只原地转身，不起步；
// 持续输入超过 TapDelay 后才开始移动。
type WalkRunPivot struct {
	MotionBase

	cfg config.MotionConfig

	inputX   *utils.SmoothedFloat
	inputY   *utils.SmoothedFloat
	inputMag *utils.SmoothedFloat

	// 轻点判定：TestActivate 在未激活时跟踪输入开始的时间与方向
	tapStart      float64
	tapAngle      float64
	pendingPivot  bool
	lastPollFrame int

	tapPivot    bool
	pivot       pivotDriver
	pivotStates animgraph.IDSet
	pivotSeen   bool

	noInputElapsed float64
	stopping       bool
}

// NewWalkRunPivot 创建行走/奔跑转身运动
func NewWalkRunPivot(cfg config.MotionConfig) *WalkRunPivot {
	return &WalkRunPivot{
		MotionBase:  newMotionBase(&cfg, CategoryWalk),
		cfg:         cfg,
		inputX:      utils.NewSmoothedFloat(cfg.SmoothingSamples),
		inputY:      utils.NewSmoothedFloat(cfg.SmoothingSamples),
		inputMag:    utils.NewSmoothedFloat(cfg.SmoothingSamples),
		tapStart:    -1,
		pivotStates: animgraph.NewIDSet(),
	}
}

// LoadAnimatorData 实现 Motion
func (m *WalkRunPivot) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	ids := m.bindMotionIDs(registry, layerName,
		[]string{pivotStateMove, pivotStateIdlePivot, pivotStateRunPivot, pivotStateStop, pivotStateIdle},
		[][2]string{
			{config.AnyStateName, pivotStateMove},
			{config.AnyStateName, pivotStateIdlePivot},
			{config.AnyStateName, pivotStateRunPivot},
			{config.AnyStateName, pivotStateStop},
			{pivotStateRunPivot, pivotStateMove},
			{pivotStateIdlePivot, pivotStateIdle},
			{pivotStateStop, pivotStateIdle},
		})
	m.pivotStates = animgraph.NewIDSet(ids[pivotStateIdlePivot], ids[pivotStateRunPivot])
}

// IsRunActive 当前是否奔跑
func (m *WalkRunPivot) IsRunActive() bool {
	return isRunActive(m.controller, m.cfg.DefaultToRun, m.actionAlias)
}

// IsPivoting 是否正在执行转身
func (m *WalkRunPivot) IsPivoting() bool {
	return m.pivot.running
}

// IsTapPivot 本次激活是否由轻点触发
func (m *WalkRunPivot) IsTapPivot() bool {
	return m.tapPivot
}

// TestActivate 实现 Motion
//
// 未激活期间跟踪轻点计时：输入超过 TapThreshold 时开始计时，
// 在 TapDelay 内松开且角度足够时以原地转身激活；持续超过 TapDelay 则以移动激活。
func (m *WalkRunPivot) TestActivate() bool {
	if !m.canActivate() {
		m.tapStart = -1
		return false
	}

	frame := m.controller.Frame()
	if frame != m.lastPollFrame+1 {
		// 中间有帧未参与仲裁（本层被更高优先级运动占用），之前的轻点作废
		m.tapStart = -1
	}
	m.lastPollFrame = frame

	s := &m.controller.State
	now := m.controller.Time()

	if s.InputMagnitude >= m.cfg.TapThreshold {
		if m.tapStart < 0 {
			m.tapStart = now
		}
		m.tapAngle = s.InputFromAvatarAngle
		if now-m.tapStart >= m.cfg.TapDelay && s.InputMagnitudeTrend.Average() >= m.cfg.ActivationThreshold {
			m.pendingPivot = false
			return true
		}
		return false
	}

	if m.tapStart < 0 {
		return false
	}
	elapsed := now - m.tapStart
	m.tapStart = -1
	if elapsed < m.cfg.TapDelay && math.Abs(m.tapAngle) >= m.cfg.MinPivotAngle {
		m.pendingPivot = true
		return true
	}
	return false
}

// Activate 实现 Motion
func (m *WalkRunPivot) Activate(prev Motion) bool {
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

	m.tapStart = -1
	m.noInputElapsed = 0
	m.stopping = false
	m.pivotSeen = false

	m.setForm()
	if m.pendingPivot {
		m.tapPivot = true
		m.pivot.start(m.tapAngle)
		m.setPhase(WalkRunPivotPhaseStartIdlePivot)
	} else {
		m.tapPivot = false
		m.pivot.stop()
		m.setPhase(WalkRunPivotPhaseStart)
	}
	m.pendingPivot = false

	return m.MotionBase.Activate(prev)
}

// TestUpdate 实现 Motion
//
// 轻点转身期间不做输入停止判定，转身走完（进入退出状态）后结束。
func (m *WalkRunPivot) TestUpdate() bool {
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
func (m *WalkRunPivot) Update(deltaTime float64, updateIndex int) {
	s := &m.controller.State
	m.movement = mgl64.Vec3{}
	m.rotation = mgl64.QuatIdent()

	m.inputX.Add(s.LocalInputX)
	m.inputY.Add(s.LocalInputY)
	m.inputMag.Add(s.InputMagnitude)

	mag := m.inputMag.Average()
	if !m.IsRunActive() && mag > walkMagnitudeCap {
		mag = walkMagnitudeCap
	}
	if anim := m.controller.Animator; anim != nil {
		anim.SetFloat(animgraph.ParamInputX, 0)
		anim.SetFloat(animgraph.ParamInputY, mag)
		anim.SetFloat(animgraph.ParamInputMagnitude, mag)
		anim.SetFloat(animgraph.ParamInputAngleFromAvatar, s.InputFromAvatarAngle)
	}

	// 轻点转身优先：转身结束前不处理起步与停止
	if m.tapPivot {
		if !m.pivot.running && s.InputMagnitudeTrend.Average() >= m.cfg.ActivationThreshold {
			m.tapPivot = false
			m.setPhase(WalkRunPivotPhaseStart)
		}
		return
	}

	if !m.pivot.running && !m.stopping && mag >= m.cfg.ActivationThreshold &&
		math.Abs(s.InputFromAvatarAngle) >= runPivotAngle {
		m.pivot.start(s.InputFromAvatarAngle)
		m.pivotSeen = false
		m.setPhase(WalkRunPivotPhaseRunPivot)
		return
	}

	if s.InputMagnitude < stopInputThreshold {
		m.noInputElapsed += deltaTime
	} else {
		m.noInputElapsed = 0
		if m.stopping {
			m.stopping = false
			m.setPhase(WalkRunPivotPhaseStart)
		}
	}
	if !m.stopping && m.noInputElapsed >= m.cfg.StopDelay {
		m.stopping = true
		m.forcedInput = mgl64.Vec2{0, mag}
		m.hasForcedInput = true
		m.setPhase(WalkRunPivotPhaseStop)
	}

	if !m.pivot.running && !m.stopping && s.InputMagnitude > inputEpsilon {
		m.rotation = rotateTowards(s.InputFromAvatarAngle, m.cfg.RotationSpeed, deltaTime)
	}
}

// pivotProgress 转身进度：进入转身状态前为 0，转身状态中为归一化时间，离开后为 1
func (m *WalkRunPivot) pivotProgress() float64 {
	anim := m.controller.Animator
	if anim == nil {
		return 1
	}
	if m.pivotStates.Contains(anim.StateID(m.layerIndex)) {
		m.pivotSeen = true
		return anim.StateNormalizedTime(m.layerIndex)
	}
	if !m.pivotSeen {
		return 0
	}
	return 1
}

func (m *WalkRunPivot) overrideSpeed() float64 {
	if m.IsRunActive() {
		return m.cfg.RunSpeed
	}
	return m.cfg.WalkSpeed
}

// UpdateRootMotion 实现 Motion
//
// 转身状态中位移按标签掩码清零，旋转由缓存的起始角度乘以进度增量驱动。
func (m *WalkRunPivot) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
	rules := RootMotionRules{
		PivotMask:         PivotMaskFor(m.controller.Animator, m.layerIndex),
		FallbackDirection: mgl64.Vec3{0, 0, 1},
		Stopping:          m.stopping || m.isTag(TagStopping),
		StopDamping:       m.cfg.StopDamping,
	}
	if m.pivot.running && rules.PivotMask == nil {
		// 转身状态尚未进入时也不能位移
		rules.PivotMask = &mgl64.Vec3{0, 1, 0}
	}
	if !rules.Stopping {
		rules.OverrideSpeed = m.overrideSpeed()
	}
	*movement = ShapeMovement(*movement, deltaTime, rules)

	if m.pivot.running {
		*rotation = m.pivot.step(m.pivotProgress())
	} else {
		*rotation = mgl64.QuatIdent()
	}
}
