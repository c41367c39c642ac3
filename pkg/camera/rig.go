// Package camera 提供相机跟随架与"相机更新后"回调
//
// 相机朝向在相机架自身的后更新中才最终确定，晚于运动的 Update。
// 需要精确跟随相机朝向的旋转必须在相机架更新之后通过回调应用，
// 否则会产生一帧的视觉滞后。
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PostLateUpdateFunc 相机后更新回调
type PostLateUpdateFunc func(deltaTime float64, updateIndex int)

// Anchor 相机锚点（掩体中偏移相机用）
type Anchor interface {
	// SetTargetPosition 以 speed（单位/秒）把锚点移向 position
	SetTargetPosition(position mgl64.Vec3, speed float64)
	// ClearTarget 以 speed 把锚点移回跟随目标
	ClearTarget(speed float64)
}

// Rig 运动核心使用的相机架契约
type Rig interface {
	// Forward 相机当前前方向
	Forward() mgl64.Vec3
	// SubscribePostLateUpdate 注册后更新回调，返回的订阅必须在不再需要时释放
	SubscribePostLateUpdate(fn PostLateUpdateFunc) *Subscription
	// Anchor 相机锚点，可为 nil
	Anchor() Anchor
}

// Subscription 后更新回调的订阅句柄
//
// Release 只会真正执行一次，重复调用无副作用。
type Subscription struct {
	release  func()
	released bool
}

// Release 取消订阅
func (s *Subscription) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	if s.release != nil {
		s.release()
	}
}

// Released 是否已取消订阅
func (s *Subscription) Released() bool {
	return s == nil || s.released
}

// subscriberList 按注册顺序保存的回调列表
type subscriberList struct {
	nextID int
	items  []subscriber
}

type subscriber struct {
	id int
	fn PostLateUpdateFunc
}

func (l *subscriberList) add(fn PostLateUpdateFunc) *Subscription {
	l.nextID++
	id := l.nextID
	l.items = append(l.items, subscriber{id: id, fn: fn})
	return &Subscription{
		release: func() { l.remove(id) },
	}
}

func (l *subscriberList) remove(id int) {
	for i, s := range l.items {
		if s.id == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *subscriberList) len() int {
	return len(l.items)
}

// fire 依次调用回调；回调中取消订阅是安全的
func (l *subscriberList) fire(deltaTime float64, updateIndex int) {
	snapshot := make([]subscriber, len(l.items))
	copy(snapshot, l.items)
	for _, s := range snapshot {
		if !l.contains(s.id) {
			continue
		}
		s.fn(deltaTime, updateIndex)
	}
}

func (l *subscriberList) contains(id int) bool {
	for _, s := range l.items {
		if s.id == id {
			return true
		}
	}
	return false
}
