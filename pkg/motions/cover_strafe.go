package motions

import (
	"log"
	"math"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 掩体横移运动阶段，参数 0 为高掩体、1 为低掩体
const (
	CoverStrafePhaseStart      = 3400
	CoverStrafePhaseChangeType = 3410
	CoverStrafePhaseExit       = 3420
)

// 掩体类型参数
const (
	CoverParamHigh = 0
	CoverParamLow  = 1
)

const (
	coverStateToWall = "CoverStrafe-SM.PivotToWall"
	coverStateHigh   = "CoverStrafe-SM.HighCover"
	coverStateLow    = "CoverStrafe-SM.LowCover"
	coverStateExit   = "CoverStrafe-SM.ExitCover"
)

// coverLateralInput 横向输入超过此值才横移
const coverLateralInput = 0.1

// coverExit 离开掩体的缓动状态
//
// 每帧按缓动曲线把角色从起点插值到终点，fraction 到 1 时完成。
type coverExit struct {
	start    mgl64.Vec3
	end      mgl64.Vec3
	duration float64
	elapsed  float64
	easing   utils.EasingFunc
}

func (e *coverExit) advance(deltaTime float64) (mgl64.Vec3, bool) {
	e.elapsed += deltaTime
	fraction := 1.0
	if e.duration > 0 {
		fraction = utils.Clamp01(e.elapsed / e.duration)
	}
	return utils.LerpVec3(e.start, e.end, e.easing(fraction)), fraction >= 1
}

// CoverStrafe 掩体横移运动
//
// 按动作键时探测前方掩体并贴墙，沿墙横移，接近拐角时偏移相机锚点；
// 再次按键、输入背离墙面或失去掩体时以缓动退出。
type CoverStrafe struct {
	MotionBase

	cfg    config.MotionConfig
	prober CoverProber

	isLow      bool
	facingLeft bool
	wallNormal mgl64.Vec3
	wallAngle  *utils.SmoothedFloat
	corner     float64

	anchorOffset bool
	exit         *coverExit
	exitDone     bool
}

// NewCoverStrafe 创建掩体横移运动
func NewCoverStrafe(cfg config.MotionConfig) *CoverStrafe {
	return &CoverStrafe{
		MotionBase: newMotionBase(&cfg, CategoryCover),
		cfg:        cfg,
		prober: CoverProber{
			Distance:   cfg.Cover.Distance,
			HighHeight: cfg.Cover.HighHeight,
			LowHeight:  cfg.Cover.LowHeight,
			Step:       cfg.Cover.CornerStep,
		},
		wallAngle: utils.NewSmoothedFloat(cfg.SmoothingSamples),
	}
}

// LoadAnimatorData 实现 Motion
func (m *CoverStrafe) LoadAnimatorData(registry *animgraph.Registry, layerName string) {
	m.bindMotionIDs(registry, layerName,
		[]string{coverStateToWall, coverStateHigh, coverStateLow, coverStateExit},
		[][2]string{
			{config.AnyStateName, coverStateToWall},
			{config.AnyStateName, coverStateHigh},
			{config.AnyStateName, coverStateLow},
			{config.AnyStateName, coverStateExit},
			{coverStateToWall, coverStateHigh},
			{coverStateToWall, coverStateLow},
		})
}

// Prober 返回使用控制器射线查询的探测器
func (m *CoverStrafe) Prober() *CoverProber {
	if m.controller != nil {
		m.prober.Raycaster = m.controller.Raycaster
	}
	return &m.prober
}

// IsLowCover 当前是否为低掩体
func (m *CoverStrafe) IsLowCover() bool { return m.isLow }

// IsFacingLeft 横移朝向是否向左
func (m *CoverStrafe) IsFacingLeft() bool { return m.facingLeft }

// Corner 最近一次拐角探测结果（有符号距离，0 表示无拐角）
func (m *CoverStrafe) Corner() float64 { return m.corner }

// IsExiting 是否正在退出掩体
func (m *CoverStrafe) IsExiting() bool { return m.exit != nil }

// ProbeCover 从角色位置沿其前方探测掩体
func (m *CoverStrafe) ProbeCover() CoverProbeResult {
	actor := m.controller.Actor
	return m.Prober().ProbeCover(actor.Position(), utils.ForwardOf(actor.Rotation()))
}

// ProbeCorner 从角色位置探测朝向一侧的拐角
func (m *CoverStrafe) ProbeCorner(facingLeft bool, viewDistance float64) float64 {
	actor := m.controller.Actor
	return m.Prober().ProbeCorner(actor.Position(), actor.Rotation(), facingLeft, viewDistance)
}

// TestActivate 实现 Motion
func (m *CoverStrafe) TestActivate() bool {
	if !m.canActivate() || m.controller.Raycaster == nil {
		return false
	}
	in := m.controller.Input
	if m.actionAlias != "" && (in == nil || !in.IsJustPressed(m.actionAlias)) {
		return false
	}
	return m.ProbeCover().Found
}

// PrepareActivation 激活前重新探测掩体，前方无掩体时保留当前运动
func (m *CoverStrafe) PrepareActivation() bool {
	if m.controller == nil || m.controller.Actor == nil {
		return false
	}
	return m.ProbeCover().Found
}

// Activate 实现 Motion
func (m *CoverStrafe) Activate(prev Motion) bool {
	probe := m.ProbeCover()
	if !probe.Found {
		log.Printf("[CoverStrafe] No cover in front of actor, activation refused")
		return false
	}

	m.isLow = probe.IsLow
	m.wallNormal = probe.Hit.Normal
	m.facingLeft = m.controller.State.LocalInputX < 0
	m.wallAngle.Clear(0)
	m.corner = 0
	m.anchorOffset = false
	m.exit = nil
	m.exitDone = false

	m.overrideUseTransformPosition(true)

	m.setForm()
	m.setPhaseWithParameter(CoverStrafePhaseStart, m.coverParam())
	return m.MotionBase.Activate(prev)
}

func (m *CoverStrafe) coverParam() int {
	if m.isLow {
		return CoverParamLow
	}
	return CoverParamHigh
}

// TestUpdate 实现 Motion
func (m *CoverStrafe) TestUpdate() bool {
	if m.isActivatedFrame {
		return true
	}
	if m.exitDone {
		return false
	}
	if !m.isGrounded() {
		return false
	}
	return m.IsInMotionState()
}

// TestInterruption 实现 Motion
func (m *CoverStrafe) TestInterruption(other Motion) bool {
	m.snapshotForcedInput()
	return true
}

// Update 实现 Motion
func (m *CoverStrafe) Update(deltaTime float64, updateIndex int) {
	m.movement = mgl64.Vec3{}
	m.rotation = mgl64.QuatIdent()
	actor := m.controller.Actor

	if m.exit != nil {
		pos, done := m.exit.advance(deltaTime)
		actor.SetPosition(pos)
		m.exitDone = done
		return
	}

	s := &m.controller.State
	in := m.controller.Input
	if !m.isActivatedFrame && m.actionAlias != "" && in != nil && in.IsJustPressed(m.actionAlias) {
		m.beginExit()
		return
	}
	if s.InputMagnitude > walkMagnitudeCap && math.Abs(s.InputFromAvatarAngle) >= m.cfg.Cover.ExitInputAngle {
		m.beginExit()
		return
	}

	probe := m.ProbeCover()
	if !probe.Found {
		// 沿上一次的墙面法线反方向再试一次
		probe = m.Prober().ProbeCover(actor.Position(), m.wallNormal.Mul(-1))
	}
	if !probe.Found {
		m.beginExit()
		return
	}
	m.wallNormal = probe.Hit.Normal

	if probe.IsLow != m.isLow {
		m.isLow = probe.IsLow
		m.setPhaseWithParameter(CoverStrafePhaseChangeType, m.coverParam())
	}

	rot := actor.Rotation()
	forward := utils.ForwardOf(rot)
	m.wallAngle.Add(utils.HorizontalAngleTo(forward, m.wallNormal.Mul(-1), utils.WorldUp))
	m.rotation = rotateTowards(m.wallAngle.Average(), m.cfg.RotationSpeed, deltaTime)

	// 贴墙：沿墙面法线修正到 WallOffset
	world := m.wallNormal.Mul(-(probe.Hit.Distance - m.cfg.Cover.WallOffset))
	maxSnap := m.cfg.Cover.StrafeSpeed * deltaTime
	if world.Len() > maxSnap && maxSnap > 0 {
		world = world.Normalize().Mul(maxSnap)
	}

	if math.Abs(s.LocalInputX) > coverLateralInput {
		m.facingLeft = s.LocalInputX < 0
		lateral := utils.RightOf(rot).Mul(s.LocalInputX * m.cfg.Cover.StrafeSpeed * deltaTime)
		if !m.isTag(TagPivotToWall) && m.coverContinues(actor.Position().Add(lateral), forward) {
			world = world.Add(lateral)
		}
	}

	m.corner = m.ProbeCorner(m.facingLeft, m.cfg.Cover.ViewDistance)
	m.updateCameraAnchor(rot)

	m.movement = rot.Inverse().Rotate(world)

	if anim := m.controller.Animator; anim != nil {
		anim.SetFloat(animgraph.ParamInputX, s.LocalInputX)
		anim.SetFloat(animgraph.ParamInputY, 0)
		anim.SetFloat(animgraph.ParamInputMagnitude, math.Abs(s.LocalInputX))
	}
}

// coverContinues 横移后的位置前方是否仍有掩体（低射线命中）
func (m *CoverStrafe) coverContinues(position, forward mgl64.Vec3) bool {
	p := m.Prober()
	origin := position.Add(utils.WorldUp.Mul(p.LowHeight))
	_, hit := p.Raycaster.Raycast(origin, forward, p.Distance)
	return hit
}

func (m *CoverStrafe) updateCameraAnchor(rot mgl64.Quat) {
	if m.controller.Camera == nil {
		return
	}
	anchor := m.controller.Camera.Anchor()
	if anchor == nil {
		return
	}

	if m.corner != 0 {
		side := 1.0
		if m.corner < 0 {
			side = -1
		}
		target := m.controller.Actor.Position().Add(utils.RightOf(rot).Mul(side * m.cfg.Cover.CameraOffset))
		anchor.SetTargetPosition(target, m.cfg.Cover.CameraSpeed)
		m.anchorOffset = true
		return
	}
	if m.anchorOffset {
		anchor.ClearTarget(m.cfg.Cover.CameraSpeed)
		m.anchorOffset = false
	}
}

func (m *CoverStrafe) beginExit() {
	actor := m.controller.Actor
	start := actor.Position()
	m.exit = &coverExit{
		start:    start,
		end:      start.Add(m.wallNormal.Mul(m.cfg.Cover.ExitDistance)),
		duration: m.cfg.Cover.ExitDuration,
		easing:   utils.EasingByName(m.cfg.Cover.ExitEasing),
	}
	m.snapshotForcedInput()
	m.setPhase(CoverStrafePhaseExit)
}

// UpdateRootMotion 实现 Motion
//
// 掩体中的位移完全由运动自身计算，原始根运动被丢弃。
func (m *CoverStrafe) UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat) {
	*movement = mgl64.Vec3{}
	*rotation = mgl64.QuatIdent()
}

// Deactivate 实现 Motion
func (m *CoverStrafe) Deactivate() {
	if m.anchorOffset && m.controller.Camera != nil {
		if anchor := m.controller.Camera.Anchor(); anchor != nil {
			anchor.ClearTarget(m.cfg.Cover.CameraSpeed)
		}
	}
	m.anchorOffset = false
	m.exit = nil
	m.MotionBase.Deactivate()
}
