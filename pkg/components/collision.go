package components

import "github.com/decker502/locomotion/pkg/physics"

// CollisionComponent 场景中的静态碰撞盒（墙体、掩体）
// 碰撞盒同时注册在 physics.World 中，组件只用于调试渲染
type CollisionComponent struct {
	Box *physics.Box
}
