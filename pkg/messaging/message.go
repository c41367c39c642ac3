// Package messaging 提供运动间的异步消息
//
// 冲击类运动（如被推开）通过消息激活或取消。
// 消息带有可变的"已处理/接收者"字段，处理方设置后即认领该消息，
// 保证同一条消息只被处理一次。
package messaging

import "github.com/go-gl/mathgl/mgl64"

// 消息 ID
const (
	// MsgUnknown 未知消息
	MsgUnknown = 0
	// MsgNavigatePushedBack 被推开，Data 为冲量向量（mgl64.Vec3）
	MsgNavigatePushedBack = 1300
	// MsgMotionActivate 请求激活指定名称的运动，Data 为运动名（string）
	MsgMotionActivate = 1401
	// MsgMotionContinue 请求当前冲击运动结束并继续后续运动
	MsgMotionContinue = 1402
	// MsgMotionDeactivate 请求当前冲击运动停用
	MsgMotionDeactivate = 1403
)

// Message 运动消息
type Message struct {
	ID   int
	Data interface{}

	// Delay 延迟投递时间（秒）
	Delay float64

	// IsHandled 是否已被处理
	IsHandled bool

	// Recipient 认领该消息的处理者
	Recipient interface{}
}

// NewPushMessage 创建携带冲量的"被推开"消息
func NewPushMessage(impulse mgl64.Vec3) *Message {
	return &Message{
		ID:   MsgNavigatePushedBack,
		Data: impulse,
	}
}

// Claim 认领消息
//
// 仅在消息尚未被处理时生效，返回是否认领成功。
func (m *Message) Claim(recipient interface{}) bool {
	if m == nil || m.IsHandled {
		return false
	}
	m.IsHandled = true
	m.Recipient = recipient
	return true
}

// Impulse 读取冲量数据
func (m *Message) Impulse() (mgl64.Vec3, bool) {
	if m == nil {
		return mgl64.Vec3{}, false
	}
	v, ok := m.Data.(mgl64.Vec3)
	return v, ok
}
