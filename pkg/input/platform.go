//go:build !mobile

package input

import "os"

// IsTouchPlatform 检测当前是否在触屏设备上运行
// 桌面端编译时返回 false
// 可以通过设置环境变量 LOCOMOTION_MOBILE_EMULATE=1 强制启用触屏模式（用于本地调试）
func IsTouchPlatform() bool {
	return os.Getenv("LOCOMOTION_MOBILE_EMULATE") == "1"
}
