package messaging

import "log"

// Handler 消息处理者
type Handler interface {
	SendMessage(msg *Message)
}

// HandlerFunc 函数形式的消息处理者
type HandlerFunc func(msg *Message)

// SendMessage 实现 Handler
func (f HandlerFunc) SendMessage(msg *Message) {
	f(msg)
}

// Bus 消息总线
//
// Post 的消息在下一次 Dispatch 时按投递顺序分发给所有处理者，
// 直到某个处理者认领为止；带 Delay 的消息在延迟到期后才分发。
type Bus struct {
	handlers []Handler
	queue    []*pendingMessage
}

type pendingMessage struct {
	msg       *Message
	remaining float64
}

// NewBus 创建消息总线
func NewBus() *Bus {
	return &Bus{}
}

// Register 注册处理者
func (b *Bus) Register(h Handler) {
	b.handlers = append(b.handlers, h)
}

// Post 投递消息
func (b *Bus) Post(msg *Message) {
	if msg == nil {
		return
	}
	b.queue = append(b.queue, &pendingMessage{msg: msg, remaining: msg.Delay})
}

// Pending 返回待分发的消息数
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Dispatch 推进延迟并分发到期的消息
func (b *Bus) Dispatch(deltaTime float64) {
	if len(b.queue) == 0 {
		return
	}

	keep := b.queue[:0]
	due := make([]*Message, 0, len(b.queue))
	for _, p := range b.queue {
		p.remaining -= deltaTime
		if p.remaining > 0 {
			keep = append(keep, p)
			continue
		}
		due = append(due, p.msg)
	}
	b.queue = keep

	for _, msg := range due {
		for _, h := range b.handlers {
			h.SendMessage(msg)
			if msg.IsHandled {
				break
			}
		}
		if !msg.IsHandled {
			log.Printf("[MessageBus] Message %d was not handled", msg.ID)
		}
	}
}
