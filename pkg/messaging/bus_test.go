package messaging

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type recordingHandler struct {
	name     string
	claim    bool
	received []int
}

func (h *recordingHandler) SendMessage(msg *Message) {
	h.received = append(h.received, msg.ID)
	if h.claim {
		msg.Claim(h)
	}
}

// TestBus_DispatchOrder 测试按注册顺序分发，认领后停止传递
func TestBus_DispatchOrder(t *testing.T) {
	tests := []struct {
		name       string
		firstClaim bool
		wantSecond int
	}{
		{"第一个处理者认领", true, 0},
		{"第一个处理者未认领", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewBus()
			first := &recordingHandler{name: "first", claim: tt.firstClaim}
			second := &recordingHandler{name: "second", claim: true}
			bus.Register(first)
			bus.Register(second)

			msg := NewPushMessage(mgl64.Vec3{0, 0, -2})
			bus.Post(msg)
			if bus.Pending() != 1 {
				t.Fatalf("Pending() = %d, want 1", bus.Pending())
			}

			bus.Dispatch(1.0 / 60.0)
			if len(first.received) != 1 {
				t.Errorf("first 收到 %d 条消息, want 1", len(first.received))
			}
			if len(second.received) != tt.wantSecond {
				t.Errorf("second 收到 %d 条消息, want %d", len(second.received), tt.wantSecond)
			}
			if !msg.IsHandled {
				t.Errorf("消息应已被认领")
			}
			if bus.Pending() != 0 {
				t.Errorf("分发后 Pending() = %d, want 0", bus.Pending())
			}
		})
	}
}

// TestBus_Delay 测试延迟消息在到期后分发
func TestBus_Delay(t *testing.T) {
	bus := NewBus()
	h := &recordingHandler{claim: true}
	bus.Register(h)

	bus.Post(&Message{ID: MsgMotionDeactivate, Delay: 0.25})
	bus.Post(&Message{ID: MsgMotionContinue})

	bus.Dispatch(0.1)
	if len(h.received) != 1 || h.received[0] != MsgMotionContinue {
		t.Fatalf("received = %v, want [%d]", h.received, MsgMotionContinue)
	}
	if bus.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", bus.Pending())
	}

	bus.Dispatch(0.1)
	if len(h.received) != 1 {
		t.Errorf("延迟未到期时不应分发")
	}

	bus.Dispatch(0.1)
	if len(h.received) != 2 || h.received[1] != MsgMotionDeactivate {
		t.Errorf("received = %v, want 延迟消息已分发", h.received)
	}
}

// TestBus_HandlerFunc 测试函数形式处理者与空消息
func TestBus_HandlerFunc(t *testing.T) {
	bus := NewBus()
	var got mgl64.Vec3
	bus.Register(HandlerFunc(func(msg *Message) {
		if v, ok := msg.Impulse(); ok {
			got = v
			msg.Claim("func")
		}
	}))

	bus.Post(nil)
	if bus.Pending() != 0 {
		t.Errorf("nil 消息不应入队")
	}

	// 没有消息时分发是空操作
	bus.Dispatch(0.1)

	bus.Post(NewPushMessage(mgl64.Vec3{1, 0, 0}))
	bus.Dispatch(0.1)
	if got != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Impulse = %v, want (1,0,0)", got)
	}
}

// TestMessage_Claim 测试消息只能被认领一次
func TestMessage_Claim(t *testing.T) {
	msg := &Message{ID: MsgNavigatePushedBack}

	if !msg.Claim("a") {
		t.Fatalf("首次认领应成功")
	}
	if msg.Claim("b") {
		t.Errorf("重复认领应失败")
	}
	if msg.Recipient != "a" {
		t.Errorf("Recipient = %v, want a", msg.Recipient)
	}

	var nilMsg *Message
	if nilMsg.Claim("a") {
		t.Errorf("nil 消息不能被认领")
	}
	if _, ok := nilMsg.Impulse(); ok {
		t.Errorf("nil 消息没有冲量")
	}
	if _, ok := (&Message{Data: "x"}).Impulse(); ok {
		t.Errorf("非向量数据不应视为冲量")
	}
}
