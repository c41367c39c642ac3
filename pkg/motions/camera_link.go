package motions

import (
	"math"

	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// cameraLink 角色朝向与相机朝向的耦合
//
// 未耦合时按最大角速度逐帧转向相机；一旦剩余角度不超过本帧允许的旋转量即进入耦合，
// 此后每帧直接对齐，直到 reset。
type cameraLink struct {
	linked bool
}

func (l *cameraLink) reset() {
	l.linked = false
}

// step 返回本帧应旋转的角度（度）
func (l *cameraLink) step(angleToCamera, rotationSpeed, deltaTime float64) float64 {
	if l.linked {
		return angleToCamera
	}

	step := utils.ClampedRotationStep(angleToCamera, rotationSpeed, deltaTime)
	if math.Abs(step) >= math.Abs(angleToCamera) {
		l.linked = true
	}
	return step
}

// rotateActorToCamera 在相机后更新回调中把角色转向相机前方
func rotateActorToCamera(c *Controller, link *cameraLink, rotationSpeed, deltaTime float64) {
	if c == nil || c.Actor == nil || c.Camera == nil {
		return
	}
	rot := c.Actor.Rotation()
	angle := utils.HorizontalAngleTo(utils.ForwardOf(rot), c.Camera.Forward(), utils.WorldUp)
	step := link.step(angle, rotationSpeed, deltaTime)
	if step == 0 {
		return
	}
	c.Actor.SetRotation(utils.YawRotation(step).Mul(rot).Normalize())
}

// rotateTowards 返回转向局部/世界夹角 angle 的本帧旋转
func rotateTowards(angle, rotationSpeed, deltaTime float64) mgl64.Quat {
	step := utils.ClampedRotationStep(angle, rotationSpeed, deltaTime)
	if step == 0 {
		return mgl64.QuatIdent()
	}
	return utils.YawRotation(step)
}
