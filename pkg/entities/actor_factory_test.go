package entities

import (
	"testing"

	"github.com/decker502/locomotion/pkg/components"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func loadTestConfigs(t *testing.T) (*config.AnimatorConfig, *config.MotionSetConfig) {
	t.Helper()
	anim, err := config.LoadAnimatorConfig("../../data/animator.yaml")
	if err != nil {
		t.Fatalf("LoadAnimatorConfig() error = %v", err)
	}
	motionCfg, err := config.LoadMotionSetConfig("../../data/motions.yaml")
	if err != nil {
		t.Fatalf("LoadMotionSetConfig() error = %v", err)
	}
	return anim, motionCfg
}

func TestNewActorEntity(t *testing.T) {
	anim, motionCfg := loadTestConfigs(t)
	em := ecs.NewEntityManager()
	world := physics.NewWorld()
	src := input.NewScriptedSource()

	id, err := NewActorEntity(em, ActorOptions{
		Name:        "player",
		Position:    mgl64.Vec3{1, 0, 2},
		Yaw:         90,
		Animator:    anim,
		Motions:     motionCfg,
		World:       world,
		Input:       src,
		WithCamera:  true,
		PushImpulse: 3,
	})
	if err != nil {
		t.Fatalf("NewActorEntity() error = %v", err)
	}

	actorComp, ok := ecs.GetComponent[*components.ActorComponent](em, id)
	if !ok {
		t.Fatal("ActorComponent missing")
	}
	if actorComp.Actor.Position() != (mgl64.Vec3{1, 0, 2}) {
		t.Errorf("Position() = %v, want (1,0,2)", actorComp.Actor.Position())
	}

	ctrlComp, ok := ecs.GetComponent[*components.MotionControllerComponent](em, id)
	if !ok {
		t.Fatal("MotionControllerComponent missing")
	}
	ctrl := ctrlComp.Controller
	if ctrl.Input != src || ctrl.Raycaster == nil || ctrl.Animator == nil {
		t.Errorf("controller dependencies not wired: input=%v raycaster=%v animator=%v",
			ctrl.Input, ctrl.Raycaster, ctrl.Animator)
	}

	camComp, ok := ecs.GetComponent[*components.CameraComponent](em, id)
	if !ok {
		t.Fatal("CameraComponent missing")
	}
	if ctrl.Camera != camComp.Rig {
		t.Errorf("controller camera should be the entity's rig")
	}
	if camComp.Rig.Yaw() != 90 {
		t.Errorf("camera yaw = %.1f, want 90", camComp.Rig.Yaw())
	}

	inputComp, ok := ecs.GetComponent[*components.PlayerInputComponent](em, id)
	if !ok || inputComp.PushImpulse != 3 {
		t.Errorf("PlayerInputComponent not configured")
	}
	if !ecs.HasComponent[*components.AnimatorComponent](em, id) {
		t.Errorf("AnimatorComponent missing")
	}

	// 总线的处理者是控制器：推开消息由被推开运动认领
	msg := messaging.NewPushMessage(mgl64.Vec3{0, 0, -2})
	ctrlComp.Bus.Post(msg)
	ctrlComp.Bus.Dispatch(1.0 / 60.0)
	if !msg.IsHandled || msg.Recipient != ctrl.Motion("PushedBack") {
		t.Errorf("push message should be claimed by PushedBack, got %v", msg.Recipient)
	}
}

func TestNewActorEntity_Optional(t *testing.T) {
	anim, motionCfg := loadTestConfigs(t)
	em := ecs.NewEntityManager()

	id, err := NewActorEntity(em, ActorOptions{Name: "npc", Animator: anim, Motions: motionCfg})
	if err != nil {
		t.Fatalf("NewActorEntity() error = %v", err)
	}
	if ecs.HasComponent[*components.CameraComponent](em, id) {
		t.Errorf("actor without camera should not get CameraComponent")
	}
	if ecs.HasComponent[*components.PlayerInputComponent](em, id) {
		t.Errorf("actor without input should not get PlayerInputComponent")
	}
	ctrlComp, _ := ecs.GetComponent[*components.MotionControllerComponent](em, id)
	if ctrlComp.Controller.Camera != nil || ctrlComp.Controller.Raycaster != nil {
		t.Errorf("optional dependencies should stay nil")
	}
}

func TestNewActorEntity_Errors(t *testing.T) {
	anim, motionCfg := loadTestConfigs(t)

	tests := []struct {
		name string
		em   *ecs.EntityManager
		opts ActorOptions
	}{
		{"nil entity manager", nil, ActorOptions{Animator: anim, Motions: motionCfg}},
		{"missing animator", ecs.NewEntityManager(), ActorOptions{Motions: motionCfg}},
		{"missing motions", ecs.NewEntityManager(), ActorOptions{Animator: anim}},
		{"too few animator layers", ecs.NewEntityManager(), ActorOptions{
			Animator: &config.AnimatorConfig{Layers: anim.Layers[:1]},
			Motions:  motionCfg,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewActorEntity(tt.em, tt.opts); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestNewWallEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	world := physics.NewWorld()

	id, err := NewWallEntity(em, world, "wall", mgl64.Vec3{0, 1, 2}, mgl64.Vec3{4, 2, 0.2})
	if err != nil {
		t.Fatalf("NewWallEntity() error = %v", err)
	}
	if len(world.Boxes()) != 1 {
		t.Fatalf("wall should be added to the world")
	}
	collision, ok := ecs.GetComponent[*components.CollisionComponent](em, id)
	if !ok || collision.Box != world.Boxes()[0] {
		t.Errorf("CollisionComponent should reference the world box")
	}

	if _, err := NewWallEntity(em, world, "flat", mgl64.Vec3{}, mgl64.Vec3{1, 0, 1}); err == nil {
		t.Errorf("zero-height wall should be rejected")
	}
	if _, err := NewWallEntity(em, nil, "wall", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}); err == nil {
		t.Errorf("nil world should be rejected")
	}
}
