package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 角色默认尺寸
const (
	DefaultActorRadius = 0.3
	DefaultActorHeight = 1.8
)

// KinematicActor 运动学角色控制器
//
// 接收运动核心每帧输出的位移与旋转，在 Update 中统一应用。
// UseTransformPosition 为 true 时位置由运动直接设定，跳过碰撞推出。
type KinematicActor struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	velocity mgl64.Vec3

	pendingMove mgl64.Vec3

	grounded             bool
	useTransformPosition bool
	stance               int
	form                 int

	Radius float64
	Height float64

	world *World
}

// NewKinematicActor 创建角色，world 可为 nil（无碰撞）
func NewKinematicActor(world *World, position mgl64.Vec3) *KinematicActor {
	return &KinematicActor{
		position: position,
		rotation: mgl64.QuatIdent(),
		grounded: true,
		Radius:   DefaultActorRadius,
		Height:   DefaultActorHeight,
		world:    world,
	}
}

// Position 返回当前位置
func (a *KinematicActor) Position() mgl64.Vec3 {
	return a.position
}

// Rotation 返回当前朝向
func (a *KinematicActor) Rotation() mgl64.Quat {
	return a.rotation
}

// Velocity 返回上一帧的实际速度
func (a *KinematicActor) Velocity() mgl64.Vec3 {
	return a.velocity
}

// IsGrounded 是否着地
func (a *KinematicActor) IsGrounded() bool {
	return a.grounded
}

// SetGrounded 设置着地状态
func (a *KinematicActor) SetGrounded(grounded bool) {
	a.grounded = grounded
}

// Stance 返回当前姿态 ID
func (a *KinematicActor) Stance() int {
	return a.stance
}

// SetStance 设置姿态 ID
func (a *KinematicActor) SetStance(stance int) {
	a.stance = stance
}

// Form 返回当前角色形态
func (a *KinematicActor) Form() int {
	return a.form
}

// SetForm 设置角色形态
func (a *KinematicActor) SetForm(form int) {
	a.form = form
}

// UseTransformPosition 返回"使用变换位置"标志
func (a *KinematicActor) UseTransformPosition() bool {
	return a.useTransformPosition
}

// SetUseTransformPosition 设置"使用变换位置"标志
func (a *KinematicActor) SetUseTransformPosition(use bool) {
	a.useTransformPosition = use
}

// SetPosition 立即设置位置
func (a *KinematicActor) SetPosition(p mgl64.Vec3) {
	a.position = p
}

// SetRotation 立即设置朝向
func (a *KinematicActor) SetRotation(q mgl64.Quat) {
	a.rotation = q.Normalize()
}

// Move 累加本帧的世界坐标位移
func (a *KinematicActor) Move(delta mgl64.Vec3) {
	a.pendingMove = a.pendingMove.Add(delta)
}

// Update 应用本帧累积的位移并计算速度
func (a *KinematicActor) Update(deltaTime float64) {
	start := a.position
	target := a.position.Add(a.pendingMove)
	a.pendingMove = mgl64.Vec3{}

	if !a.useTransformPosition {
		target = a.resolve(target)
	}
	a.position = target

	if deltaTime > 0 {
		a.velocity = target.Sub(start).Mul(1 / deltaTime)
	}
}

// resolve 将角色圆柱从碰撞体中推出（仅水平方向）
func (a *KinematicActor) resolve(p mgl64.Vec3) mgl64.Vec3 {
	if a.world == nil {
		return p
	}

	for _, b := range a.world.boxes {
		if p.Y()+a.Height <= b.Min.Y() || p.Y() >= b.Max.Y() {
			continue
		}

		cx := math.Max(b.Min.X(), math.Min(p.X(), b.Max.X()))
		cz := math.Max(b.Min.Z(), math.Min(p.Z(), b.Max.Z()))
		dx := p.X() - cx
		dz := p.Z() - cz
		dist := math.Hypot(dx, dz)

		if dist >= a.Radius {
			continue
		}

		if dist > 1e-9 {
			push := (a.Radius - dist) / dist
			p = mgl64.Vec3{p.X() + dx*push, p.Y(), p.Z() + dz*push}
			continue
		}

		// 中心已进入包围盒：沿最小穿透轴推出
		left := p.X() - b.Min.X()
		right := b.Max.X() - p.X()
		back := p.Z() - b.Min.Z()
		front := b.Max.Z() - p.Z()
		minPen := math.Min(math.Min(left, right), math.Min(back, front))
		switch minPen {
		case left:
			p[0] = b.Min.X() - a.Radius
		case right:
			p[0] = b.Max.X() + a.Radius
		case back:
			p[2] = b.Min.Z() - a.Radius
		default:
			p[2] = b.Max.Z() + a.Radius
		}
	}

	return p
}
