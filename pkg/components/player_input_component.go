package components

import "github.com/decker502/locomotion/pkg/input"

// PlayerInputComponent 玩家输入
type PlayerInputComponent struct {
	Source input.Source

	// PushImpulse 调试推动的冲量大小，0 表示禁用调试推动
	PushImpulse float64
}
