package motions

import (
	"log"
	"math"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/camera"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// inputEpsilon 低于此幅度的输入视为无输入
const inputEpsilon = 0.0001

// Actor 运动驱动的角色
//
// Move 接收世界空间位移，由角色在自己的更新中结算碰撞。
type Actor interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	Velocity() mgl64.Vec3
	IsGrounded() bool
	Stance() int
	Form() int
	UseTransformPosition() bool
	SetUseTransformPosition(use bool)
	SetPosition(p mgl64.Vec3)
	SetRotation(q mgl64.Quat)
	Move(delta mgl64.Vec3)
}

// ControllerState 控制器每帧计算的输入状态
type ControllerState struct {
	// InputX/InputY 原始输入轴
	InputX float64
	InputY float64

	// InputMagnitude 原始输入幅度（不超过 1）
	InputMagnitude float64

	// InputMagnitudeTrend 输入幅度的滑动平均
	InputMagnitudeTrend *utils.SmoothedFloat

	// InputDirection 相机参照系下的世界输入方向（长度等于幅度）
	InputDirection mgl64.Vec3

	// LocalInputX/LocalInputY 角色局部空间的输入
	LocalInputX float64
	LocalInputY float64

	// InputFromAvatarAngle 角色前方到输入方向的水平角（度）
	InputFromAvatarAngle float64

	// InputFromCameraAngle 相机前方到角色前方的水平角（度）
	InputFromCameraAngle float64
}

// Controller 运动控制器
//
// 持有角色、状态图、输入源、相机架与射线查询，并驱动各层的运动仲裁。
// 除 Actor 外其它依赖都可以为 nil，运动会相应降级。
type Controller struct {
	Actor     Actor
	Animator  animgraph.Animator
	Input     input.Source
	Camera    camera.Rig
	Raycaster physics.Raycaster

	State ControllerState

	layers []*Layer
	byName map[string]Motion

	time  float64
	frame int
}

var _ messaging.Handler = (*Controller)(nil)

// NewController 创建控制器
//
// 参数:
//   - actor: 被驱动的角色
//   - layerNames: 动画层名，索引即层号
//   - smoothingSamples: 输入幅度趋势的样本数
func NewController(actor Actor, layerNames []string, smoothingSamples int) *Controller {
	if len(layerNames) == 0 {
		layerNames = []string{"Base Layer"}
	}
	c := &Controller{
		Actor:  actor,
		byName: make(map[string]Motion),
		State: ControllerState{
			InputMagnitudeTrend: utils.NewSmoothedFloat(smoothingSamples),
		},
	}
	for i, name := range layerNames {
		c.layers = append(c.layers, newLayer(c, i, name))
	}
	return c
}

// AddMotion 把运动加入所在层
func (c *Controller) AddMotion(m Motion) bool {
	if m == nil {
		return false
	}
	layer := c.Layer(m.LayerIndex())
	if layer == nil {
		log.Printf("[MotionController] Warning: motion %q references missing layer %d", m.Name(), m.LayerIndex())
		return false
	}
	if _, exists := c.byName[m.Name()]; exists {
		log.Printf("[MotionController] Warning: duplicate motion name %q ignored", m.Name())
		return false
	}
	m.Base().attach(c)
	layer.add(m)
	c.byName[m.Name()] = m
	return true
}

// BindAnimator 设置状态图并让所有运动解析各自的状态 ID
func (c *Controller) BindAnimator(anim animgraph.Animator) {
	c.Animator = anim
	var registry *animgraph.Registry
	if anim != nil {
		registry = anim.Registry()
	}
	for _, l := range c.layers {
		for _, m := range l.motions {
			m.LoadAnimatorData(registry, l.Name)
		}
	}
}

// Layers 返回所有层
func (c *Controller) Layers() []*Layer {
	return c.layers
}

// Layer 返回指定层，越界返回 nil
func (c *Controller) Layer(index int) *Layer {
	if index < 0 || index >= len(c.layers) {
		return nil
	}
	return c.layers[index]
}

// Motion 按名称查找运动
func (c *Controller) Motion(name string) Motion {
	return c.byName[name]
}

// ActiveMotion 指定层的活动运动
func (c *Controller) ActiveMotion(layer int) Motion {
	if l := c.Layer(layer); l != nil {
		return l.active
	}
	return nil
}

// QueueMotion 请求下一帧激活运动
func (c *Controller) QueueMotion(m Motion) {
	if m == nil {
		return
	}
	if l := c.Layer(m.LayerIndex()); l != nil {
		l.QueueMotion(m)
	}
}

// ActivateMotionNow 立即在所在层激活运动
func (c *Controller) ActivateMotionNow(m Motion) bool {
	if m == nil {
		return false
	}
	if l := c.Layer(m.LayerIndex()); l != nil {
		return l.ActivateNow(m)
	}
	return false
}

// DeactivateMotion 停用运动
func (c *Controller) DeactivateMotion(m Motion) {
	if m == nil {
		return
	}
	if l := c.Layer(m.LayerIndex()); l != nil {
		l.Deactivate(m)
	}
}

// Time 控制器累计时间（秒）
func (c *Controller) Time() float64 {
	return c.time
}

// Frame 已执行的更新次数
func (c *Controller) Frame() int {
	return c.frame
}

// Update 每帧更新：读取输入、仲裁运动、应用根运动
func (c *Controller) Update(deltaTime float64) {
	c.time += deltaTime
	c.frame++

	c.updateState()

	for _, l := range c.layers {
		l.Update(deltaTime, c.frame)
	}

	c.applyRootMotion(deltaTime)

	for _, l := range c.layers {
		l.endFrame()
	}
}

// FixedUpdate 固定步长更新活动运动
func (c *Controller) FixedUpdate(fixedDeltaTime float64) {
	for _, l := range c.layers {
		if l.active != nil {
			l.active.FixedUpdate(fixedDeltaTime)
		}
	}
}

// SendMessage 把消息交给各运动处理，直到被认领
//
// MsgMotionActivate 由控制器自身处理：按名称排队激活运动。
func (c *Controller) SendMessage(msg *messaging.Message) {
	if msg == nil || msg.IsHandled {
		return
	}

	if msg.ID == messaging.MsgMotionActivate {
		name, _ := msg.Data.(string)
		if m := c.Motion(name); m != nil && msg.Claim(c) {
			c.QueueMotion(m)
		}
		return
	}

	for _, l := range c.layers {
		for _, m := range l.motions {
			m.OnMessageReceived(msg)
			if msg.IsHandled {
				return
			}
		}
	}
}

// referenceForward 输入参照方向：有相机时为相机前方，否则为角色前方
func (c *Controller) referenceForward() mgl64.Vec3 {
	if c.Camera != nil {
		return c.Camera.Forward()
	}
	if c.Actor != nil {
		return utils.ForwardOf(c.Actor.Rotation())
	}
	return utils.WorldForward
}

func (c *Controller) updateState() {
	s := &c.State

	x, y := 0.0, 0.0
	if c.Input != nil && c.Input.IsEnabled() {
		x, y = c.Input.MovementX(), c.Input.MovementY()
	}
	mag := math.Min(math.Hypot(x, y), 1)

	s.InputX, s.InputY, s.InputMagnitude = x, y, mag
	s.InputMagnitudeTrend.Add(mag)

	refYaw := utils.HorizontalAngleTo(utils.WorldForward, c.referenceForward(), utils.WorldUp)
	world := utils.YawRotation(refYaw).Rotate(mgl64.Vec3{x, 0, y})
	if l := world.Len(); l > 1 {
		world = world.Mul(1 / l)
	}
	s.InputDirection = world

	s.LocalInputX, s.LocalInputY = 0, 0
	s.InputFromAvatarAngle, s.InputFromCameraAngle = 0, 0
	if c.Actor == nil {
		return
	}

	rot := c.Actor.Rotation()
	local := rot.Inverse().Rotate(world)
	s.LocalInputX, s.LocalInputY = local.X(), local.Z()

	forward := utils.ForwardOf(rot)
	if mag > inputEpsilon {
		s.InputFromAvatarAngle = utils.HorizontalAngleTo(forward, world, utils.WorldUp)
	}
	if c.Camera != nil {
		s.InputFromCameraAngle = utils.HorizontalAngleTo(c.Camera.Forward(), forward, utils.WorldUp)
	}
}

// applyRootMotion 收集状态图根运动，交给活动运动整形，再叠加运动自身输出并应用到角色
func (c *Controller) applyRootMotion(deltaTime float64) {
	movement := mgl64.Vec3{}
	rotation := mgl64.QuatIdent()
	if c.Animator != nil {
		movement, rotation = c.Animator.RootMotion(deltaTime)
	}

	for _, l := range c.layers {
		if l.active != nil {
			l.active.UpdateRootMotion(deltaTime, c.frame, &movement, &rotation)
		}
	}

	for _, l := range c.layers {
		if m := l.active; m != nil {
			movement = movement.Add(m.Movement())
			rotation = rotation.Mul(m.Rotation())
		}
	}

	if c.Actor == nil {
		return
	}

	current := c.Actor.Rotation()
	if movement.Len() > 0 {
		c.Actor.Move(current.Rotate(movement))
	}
	if !rotation.ApproxEqual(mgl64.QuatIdent()) {
		c.Actor.SetRotation(current.Mul(rotation).Normalize())
	}
}
