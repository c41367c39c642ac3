package motions

import (
	"math"
	"testing"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/go-gl/mathgl/mgl64"
)

func newPushRig(t *testing.T, push config.PushConfig) (*testRig, *WalkRunStrafe, *PushedBack) {
	t.Helper()
	walk := NewWalkRunStrafe(motionConfig(config.MotionTypeWalkRunStrafe, "Walk", 5))
	cfg := motionConfig(config.MotionTypePushedBack, "PushedBack", 20)
	cfg.Push = push
	cfg.ApplyDefaults()
	pushed := NewPushedBack(cfg)

	r := newTestRig(t, walk, pushed)
	r.anim.registry.Register("Base Layer." + strafeStateMove)
	r.anim.enter(0, "Base Layer."+pushedBackState)
	r.rebind()
	return r, walk, pushed
}

// TestPushedBack_ActivatesOnMessage 测试推开消息激活运动并被认领
func TestPushedBack_ActivatesOnMessage(t *testing.T) {
	r, _, pushed := newPushRig(t, config.PushConfig{})

	msg := messaging.NewPushMessage(mgl64.Vec3{0, 0, -3})
	r.ctrl.SendMessage(msg)

	if !msg.IsHandled {
		t.Fatalf("推开消息应被认领")
	}
	if msg.Recipient != pushed {
		t.Errorf("Recipient = %v, want pushed-back motion", msg.Recipient)
	}

	r.step()
	if !pushed.IsActive() {
		t.Fatalf("收到消息后的下一帧应激活")
	}
	if n := r.anim.countPhase(PushedBackPhaseStart); n != 1 {
		t.Errorf("阶段写入次数 = %d, want 1", n)
	}
}

// TestPushedBack_DuplicateMessageIgnored 测试激活期间重复的推开消息无效
func TestPushedBack_DuplicateMessageIgnored(t *testing.T) {
	r, _, pushed := newPushRig(t, config.PushConfig{})

	first := messaging.NewPushMessage(mgl64.Vec3{0, 0, -3})
	r.ctrl.SendMessage(first)

	// 排队期间的重复消息
	queued := messaging.NewPushMessage(mgl64.Vec3{5, 0, 0})
	r.ctrl.SendMessage(queued)
	if queued.IsHandled {
		t.Errorf("排队期间的重复消息不应被认领")
	}

	r.step()
	velocity := pushed.Velocity()

	second := messaging.NewPushMessage(mgl64.Vec3{5, 0, 0})
	r.ctrl.SendMessage(second)
	if second.IsHandled {
		t.Errorf("激活期间的重复消息不应被认领")
	}
	if pushed.Velocity() != velocity {
		t.Errorf("重复消息改变了速度: %v -> %v", velocity, pushed.Velocity())
	}
}

// TestPushedBack_DragDecay 测试速度每个固定帧按 (1 - drag) 衰减
func TestPushedBack_DragDecay(t *testing.T) {
	const drag = 0.1
	r, _, pushed := newPushRig(t, config.PushConfig{Drag: drag, MinSpeed: 0.01, MaxAge: 100})

	v0 := mgl64.Vec3{0, 0, -4}
	r.ctrl.SendMessage(messaging.NewPushMessage(v0))
	r.step()

	for n := 1; n <= 10; n++ {
		r.ctrl.FixedUpdate(1.0 / 50.0)
		want := v0.Len() * math.Pow(1-drag, float64(n))
		if got := pushed.Velocity().Len(); !approxEqual(got, want, 1e-9) {
			t.Errorf("第%d个固定帧速度 = %.6f, want %.6f", n, got, want)
		}
	}
}

// TestPushedBack_SelfDeactivates 测试速度低于阈值或超过最长时间后自行停用
func TestPushedBack_SelfDeactivates(t *testing.T) {
	tests := []struct {
		name      string
		push      config.PushConfig
		maxFrames int
	}{
		{
			name: "速度低于阈值",
			// 4 * 0.9^n < 0.1 需要 36 个固定帧
			push:      config.PushConfig{Drag: 0.1, MinSpeed: 0.1, MaxAge: 100},
			maxFrames: 40,
		},
		{
			name: "超过最长时间",
			// 2 秒 = 120 帧
			push:      config.PushConfig{Drag: 0.0001, MinSpeed: 0.001, MaxAge: 2},
			maxFrames: 125,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, pushed := newPushRig(t, tt.push)
			r.ctrl.SendMessage(messaging.NewPushMessage(mgl64.Vec3{0, 0, -4}))
			r.step()
			if !pushed.IsActive() {
				t.Fatalf("应激活")
			}

			frames := 0
			for pushed.IsActive() && frames < tt.maxFrames+10 {
				r.ctrl.FixedUpdate(testDeltaTime)
				r.step()
				frames++
			}

			if pushed.IsActive() {
				t.Fatalf("%d 帧后仍未停用", frames)
			}
			if frames > tt.maxFrames {
				t.Errorf("停用用了 %d 帧, want <= %d", frames, tt.maxFrames)
			}
		})
	}
}

// TestPushedBack_StopMessages 测试继续/停用消息结束运动
func TestPushedBack_StopMessages(t *testing.T) {
	for _, id := range []int{messaging.MsgMotionContinue, messaging.MsgMotionDeactivate} {
		r, _, pushed := newPushRig(t, config.PushConfig{MaxAge: 100})
		r.ctrl.SendMessage(messaging.NewPushMessage(mgl64.Vec3{0, 0, -4}))
		r.step()

		msg := &messaging.Message{ID: id}
		r.ctrl.SendMessage(msg)
		if !msg.IsHandled {
			t.Errorf("消息 %d 应被激活中的推开运动认领", id)
		}
		r.step()
		if pushed.IsActive() {
			t.Errorf("消息 %d 后推开运动应停用", id)
		}
	}
}

// TestPushedBack_SnapshotOnInterrupt 测试被打断的运动快照输入并传给新运动
func TestPushedBack_SnapshotOnInterrupt(t *testing.T) {
	r, walk, pushed := newPushRig(t, config.PushConfig{})
	r.anim.enter(0, "Base Layer."+strafeStateMove)

	r.input.SetMovement(1, 0)
	r.step()
	if !walk.IsActive() {
		t.Fatalf("行走应激活")
	}

	r.ctrl.SendMessage(messaging.NewPushMessage(mgl64.Vec3{0, 0, -3}))
	r.step()

	if !pushed.IsActive() || walk.IsActive() {
		t.Fatalf("推开运动应取代行走")
	}
	forced, ok := walk.ForcedInput()
	if !ok {
		t.Fatalf("被打断的运动应记录强制输入")
	}
	if !approxEqual(forced.X(), 1, 1e-9) || !approxEqual(forced.Y(), 0, 1e-9) {
		t.Errorf("ForcedInput() = %v, want (1, 0)", forced)
	}
}

// TestPushedBack_MovesActor 测试推开速度作用于角色
func TestPushedBack_MovesActor(t *testing.T) {
	r, _, _ := newPushRig(t, config.PushConfig{MaxAge: 100})
	r.ctrl.SendMessage(messaging.NewPushMessage(mgl64.Vec3{0, 0, -3}))

	start := r.actor.Position()
	for i := 0; i < 10; i++ {
		r.step()
	}
	if moved := r.actor.Position().Sub(start); moved.Z() >= 0 {
		t.Errorf("角色应沿冲量方向移动，位移 = %v", moved)
	}
}

// TestPushedBack_AcceptsPushAfterQueueReplaced 测试排队槽被其它运动顶替后，后续推开消息仍然有效
func TestPushedBack_AcceptsPushAfterQueueReplaced(t *testing.T) {
	r, walk, pushed := newPushRig(t, config.PushConfig{MaxAge: 100})

	first := messaging.NewPushMessage(mgl64.Vec3{0, 0, -3})
	r.ctrl.SendMessage(first)
	if !first.IsHandled {
		t.Fatalf("第一条推开消息应被认领")
	}

	// 同一帧内按名称激活行走，顶替排队中的推开运动
	r.ctrl.SendMessage(&messaging.Message{ID: messaging.MsgMotionActivate, Data: "Walk"})
	r.step()
	if pushed.IsActive() {
		t.Fatalf("被顶替的推开运动不应激活")
	}
	if !walk.IsActive() {
		t.Fatalf("行走应被激活")
	}

	second := messaging.NewPushMessage(mgl64.Vec3{0, 0, -3})
	r.ctrl.SendMessage(second)
	if !second.IsHandled {
		t.Fatalf("顶替后的推开消息应被认领")
	}
	r.step()
	if !pushed.IsActive() {
		t.Errorf("第二条推开消息后推开运动应激活")
	}
}
