//go:build mobile

package input

// IsTouchPlatform 检测当前是否在触屏设备上运行
// 移动端编译时返回 true
func IsTouchPlatform() bool {
	return true
}
