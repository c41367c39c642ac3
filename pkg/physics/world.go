// Package physics 提供运动核心所需的最小物理协作者：
// 轴对齐包围盒场景、射线检测与运动学角色控制器。
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box 轴对齐包围盒碰撞体
type Box struct {
	Name string
	Min  mgl64.Vec3
	Max  mgl64.Vec3
}

// NewBox 由中心点与尺寸创建包围盒
func NewBox(name string, center, size mgl64.Vec3) *Box {
	half := size.Mul(0.5)
	return &Box{
		Name: name,
		Min:  center.Sub(half),
		Max:  center.Add(half),
	}
}

// Center 返回包围盒中心
func (b *Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size 返回包围盒尺寸
func (b *Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains 判断点是否在包围盒内（含边界）
func (b *Box) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// RaycastHit 射线检测结果
//
// 未命中时为零值：Collider 为 nil，Distance 为 0。
type RaycastHit struct {
	Collider *Box
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// IsEmpty 是否为未命中的空结果
func (h RaycastHit) IsEmpty() bool {
	return h.Collider == nil
}

// Raycaster 射线检测接口
type Raycaster interface {
	// Raycast 从 origin 沿 direction 检测 maxDistance 内最近的碰撞体
	Raycast(origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool)
}

// World 由静态包围盒组成的场景
type World struct {
	boxes []*Box
}

// NewWorld 创建场景
func NewWorld(boxes ...*Box) *World {
	return &World{boxes: boxes}
}

// AddBox 添加碰撞体
func (w *World) AddBox(b *Box) {
	w.boxes = append(w.boxes, b)
}

// Boxes 返回所有碰撞体
func (w *World) Boxes() []*Box {
	return w.boxes
}

// Raycast 实现 Raycaster（slab 算法）
//
// 起点位于碰撞体内部时忽略该碰撞体。
func (w *World) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	if w == nil || maxDistance <= 0 || direction.Len() < 1e-9 {
		return RaycastHit{}, false
	}
	dir := direction.Normalize()

	best := RaycastHit{}
	bestDist := math.Inf(1)

	for _, b := range w.boxes {
		if b.Contains(origin) {
			continue
		}
		dist, normal, ok := intersectBox(origin, dir, b)
		if !ok || dist > maxDistance || dist >= bestDist {
			continue
		}
		bestDist = dist
		best = RaycastHit{
			Collider: b,
			Distance: dist,
			Point:    origin.Add(dir.Mul(dist)),
			Normal:   normal,
		}
	}

	return best, !best.IsEmpty()
}

// intersectBox 射线与包围盒求交，返回进入距离与进入面法线
func intersectBox(origin, dir mgl64.Vec3, b *Box) (float64, mgl64.Vec3, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		o := origin[axis]
		d := dir[axis]
		lo, hi := b.Min[axis], b.Max[axis]

		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}

		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}

	if tMin < 0 {
		return 0, mgl64.Vec3{}, false
	}
	return tMin, normal, true
}
