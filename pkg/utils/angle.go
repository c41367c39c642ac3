package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 坐标约定：Y 轴向上，+Z 为前方，+X 为右方。
// 绕 +Y 的正向旋转会把前方转向右方，与 HorizontalAngleTo 的正号一致。
var (
	// WorldUp 世界坐标上方向
	WorldUp = mgl64.Vec3{0, 1, 0}
	// WorldForward 世界坐标前方向
	WorldForward = mgl64.Vec3{0, 0, 1}
	// WorldRight 世界坐标右方向
	WorldRight = mgl64.Vec3{1, 0, 0}
)

// angleEpsilon 低于此长度的向量视为退化向量
const angleEpsilon = 1e-9

// ProjectOnPlane 将向量投影到法线为 normal 的平面上
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	n := normal
	lenSq := n.Dot(n)
	if lenSq < angleEpsilon {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n) / lenSq))
}

// HorizontalAngleTo 计算 from 到 to 在垂直于 up 的平面内的有符号夹角（度）
//
// 返回值范围 (-180, 180]，绕 up 轴右手旋转为正（Y 向上时即向右转为正）。
// 任一方向投影后退化为零向量时返回 0。
func HorizontalAngleTo(from, to, up mgl64.Vec3) float64 {
	if up.Len() < angleEpsilon {
		up = WorldUp
	}
	up = up.Normalize()

	a := ProjectOnPlane(from, up)
	b := ProjectOnPlane(to, up)
	if a.Len() < angleEpsilon || b.Len() < angleEpsilon {
		return 0
	}

	angle := mgl64.RadToDeg(math.Atan2(up.Dot(a.Cross(b)), a.Dot(b)))
	if angle <= -180 {
		angle += 360
	}
	return angle
}

// ClampedRotationStep 计算本帧允许的旋转量（度）
//
// maxDegreesPerSecond 为 0 表示瞬间旋转，直接返回 angleDegrees。
// 否则将幅度限制在 maxDegreesPerSecond * deltaTime 内并保持符号。
func ClampedRotationStep(angleDegrees, maxDegreesPerSecond, deltaTime float64) float64 {
	if maxDegreesPerSecond == 0 {
		return angleDegrees
	}

	limit := math.Abs(maxDegreesPerSecond) * math.Max(deltaTime, 0)
	if math.Abs(angleDegrees) <= limit {
		return angleDegrees
	}
	if angleDegrees < 0 {
		return -limit
	}
	return limit
}

// NormalizeAngle 将角度规范到 (-180, 180]
func NormalizeAngle(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees > 180 {
		degrees -= 360
	} else if degrees <= -180 {
		degrees += 360
	}
	return degrees
}

// YawRotation 返回绕世界上方向旋转 degrees 度的四元数
func YawRotation(degrees float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(degrees), WorldUp)
}

// ForwardOf 返回旋转 q 下的前方向
func ForwardOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(WorldForward)
}

// RightOf 返回旋转 q 下的右方向
func RightOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(WorldRight)
}

// UpOf 返回旋转 q 下的上方向
func UpOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(WorldUp)
}

// YawOf 返回旋转 q 的前方向相对世界前方的水平角（度）
func YawOf(q mgl64.Quat) float64 {
	return HorizontalAngleTo(WorldForward, ForwardOf(q), WorldUp)
}
