package components

import "github.com/decker502/locomotion/pkg/camera"

// CameraComponent 角色的跟随相机。
// 运动系统每帧用视角输入旋转相机架，并在角色更新之后调用 LateUpdate，
// 使"相机更新后"回调看到本帧最终的相机朝向。
type CameraComponent struct {
	// Rig 跟随相机架
	Rig *camera.FollowRig

	// YawSpeed 视角输入满幅时的水平旋转速度（度/秒）
	YawSpeed float64
}
