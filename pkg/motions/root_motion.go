package motions

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 根运动整形用的状态标签
const (
	TagPivotToWall = "PivotToWall"
	TagPivot180    = "Pivot180"
	TagStopping    = "Stopping"
	TagExit        = "Exit"
)

// degenerateMovement 低于此长度的根运动位移视为退化
const degenerateMovement = 1e-6

// pivotAxisMasks 原地转身标签对应的位移分量掩码（1 保留，0 清零）
var pivotAxisMasks = []struct {
	tag  string
	mask mgl64.Vec3
}{
	{TagPivotToWall, mgl64.Vec3{0, 0, 0}},
	{TagPivot180, mgl64.Vec3{0, 1, 0}},
}

// RootMotionRules 一帧的根运动整形参数
//
// 优先级：原地转身掩码 > 覆盖速度 > 原样通过（停止时按阻尼缩放）。
type RootMotionRules struct {
	// PivotMask 非 nil 时按分量掩码位移
	PivotMask *mgl64.Vec3

	// OverrideSpeed 非 0 时把位移长度替换为 OverrideSpeed*deltaTime
	OverrideSpeed float64

	// FallbackDirection 原始位移退化时使用的局部方向
	FallbackDirection mgl64.Vec3

	// Stopping 处于停止状态
	Stopping bool
	// StopDamping 停止状态下的缩放
	StopDamping float64
}

// PivotMaskFor 返回层当前状态带有的原地转身掩码，没有时返回 nil
func PivotMaskFor(anim animgraph.Animator, layer int) *mgl64.Vec3 {
	if anim == nil {
		return nil
	}
	for _, p := range pivotAxisMasks {
		if anim.IsTag(layer, p.tag) {
			mask := p.mask
			return &mask
		}
	}
	return nil
}

// ShapeMovement 按规则整形原始根运动位移
func ShapeMovement(raw mgl64.Vec3, deltaTime float64, rules RootMotionRules) mgl64.Vec3 {
	if rules.PivotMask != nil {
		m := *rules.PivotMask
		return mgl64.Vec3{raw.X() * m.X(), raw.Y() * m.Y(), raw.Z() * m.Z()}
	}

	if rules.OverrideSpeed != 0 {
		dir := raw
		if dir.Len() < degenerateMovement {
			dir = rules.FallbackDirection
		}
		if dir.Len() < degenerateMovement {
			return mgl64.Vec3{}
		}
		return dir.Normalize().Mul(rules.OverrideSpeed * deltaTime)
	}

	if rules.Stopping {
		return raw.Mul(rules.StopDamping)
	}
	return raw
}

// pivotDriver 由缓存的起始角度与进度驱动的原地转身旋转
//
// 每帧输出 (progress - lastProgress) * angle，进度走完时累计旋转恰好等于 angle。
type pivotDriver struct {
	angle        float64
	lastProgress float64
	running      bool
}

func (p *pivotDriver) start(angle float64) {
	p.angle = angle
	p.lastProgress = 0
	p.running = true
}

func (p *pivotDriver) stop() {
	p.running = false
	p.lastProgress = 0
}

// step 推进到 progress，返回本帧的旋转增量
func (p *pivotDriver) step(progress float64) mgl64.Quat {
	if !p.running {
		return mgl64.QuatIdent()
	}
	progress = utils.Clamp01(progress)
	if progress < p.lastProgress {
		progress = p.lastProgress
	}
	delta := (progress - p.lastProgress) * p.angle
	p.lastProgress = progress
	if progress >= 1 {
		p.running = false
	}
	return utils.YawRotation(delta)
}
