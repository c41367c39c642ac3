package utils

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// EasingFunc 缓动函数
// 输入进度 t ∈ [0, 1]，返回缓动后的进度 ∈ [0, 1]
type EasingFunc func(t float64) float64

// EaseLinear 线性缓动
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出：开始快，结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 二次方缓出
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutSine 正弦缓入缓出，用于掩体内的位移衔接
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EasingByName 按配置名称查找缓动函数
// 未知名称回退到线性缓动
func EasingByName(name string) EasingFunc {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "outcubic", "easeoutcubic":
		return EaseOutCubic
	case "inoutcubic", "easeinoutcubic":
		return EaseInOutCubic
	case "outquad", "easeoutquad":
		return EaseOutQuad
	case "inoutsine", "easeinoutsine":
		return EaseInOutSine
	default:
		return EaseLinear
	}
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 向量线性插值
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
