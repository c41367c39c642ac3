package camera

import (
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// Target 相机跟随目标
type Target interface {
	Position() mgl64.Vec3
}

// FollowRig 第三人称环绕跟随相机架
//
// 每帧流程（由系统驱动）：
//  1. AddYaw 累加视角输入
//  2. LateUpdate 移动锚点、计算相机位置，然后按注册顺序调用后更新回调
type FollowRig struct {
	target Target

	yaw      float64 // 相机水平角（度），0 表示朝向世界 +Z
	Distance float64
	Height   float64

	anchor      *followAnchor
	position    mgl64.Vec3
	subscribers subscriberList
	updateIndex int
}

var _ Rig = (*FollowRig)(nil)

// NewFollowRig 创建跟随相机架
func NewFollowRig(target Target) *FollowRig {
	r := &FollowRig{
		target:   target,
		Distance: 4,
		Height:   1.6,
	}
	r.anchor = &followAnchor{rig: r}
	if target != nil {
		r.anchor.position = target.Position()
	}
	return r
}

// Yaw 返回相机水平角（度）
func (r *FollowRig) Yaw() float64 {
	return r.yaw
}

// SetYaw 设置相机水平角（度）
func (r *FollowRig) SetYaw(degrees float64) {
	r.yaw = utils.NormalizeAngle(degrees)
}

// AddYaw 累加相机水平角（度）
func (r *FollowRig) AddYaw(degrees float64) {
	r.SetYaw(r.yaw + degrees)
}

// Forward 实现 Rig
func (r *FollowRig) Forward() mgl64.Vec3 {
	return utils.ForwardOf(utils.YawRotation(r.yaw))
}

// Position 返回相机位置
func (r *FollowRig) Position() mgl64.Vec3 {
	return r.position
}

// AnchorPosition 返回锚点当前位置
func (r *FollowRig) AnchorPosition() mgl64.Vec3 {
	return r.anchor.position
}

// Anchor 实现 Rig
func (r *FollowRig) Anchor() Anchor {
	return r.anchor
}

// SubscribePostLateUpdate 实现 Rig
func (r *FollowRig) SubscribePostLateUpdate(fn PostLateUpdateFunc) *Subscription {
	return r.subscribers.add(fn)
}

// SubscriberCount 返回当前订阅数
func (r *FollowRig) SubscriberCount() int {
	return r.subscribers.len()
}

// LateUpdate 相机后更新
func (r *FollowRig) LateUpdate(deltaTime float64) {
	r.anchor.update(deltaTime)

	forward := r.Forward()
	r.position = r.anchor.position.Sub(forward.Mul(r.Distance)).Add(utils.WorldUp.Mul(r.Height))

	r.subscribers.fire(deltaTime, r.updateIndex)
	r.updateIndex++
}

// followAnchor 可偏移的相机锚点
type followAnchor struct {
	rig *FollowRig

	position  mgl64.Vec3
	target    mgl64.Vec3
	hasTarget bool
	speed     float64
}

// SetTargetPosition 实现 Anchor
func (a *followAnchor) SetTargetPosition(position mgl64.Vec3, speed float64) {
	a.target = position
	a.hasTarget = true
	a.speed = speed
}

// ClearTarget 实现 Anchor
func (a *followAnchor) ClearTarget(speed float64) {
	a.hasTarget = false
	a.speed = speed
}

func (a *followAnchor) update(deltaTime float64) {
	goal := a.position
	if a.hasTarget {
		goal = a.target
	} else if a.rig.target != nil {
		goal = a.rig.target.Position()
	}

	if a.speed <= 0 {
		a.position = goal
		return
	}

	diff := goal.Sub(a.position)
	step := a.speed * deltaTime
	if diff.Len() <= step {
		a.position = goal
		// 回到跟随目标后恢复紧跟
		if !a.hasTarget {
			a.speed = 0
		}
		return
	}
	a.position = a.position.Add(diff.Normalize().Mul(step))
}
