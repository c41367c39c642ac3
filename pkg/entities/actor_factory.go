package entities

import (
	"fmt"
	"log"

	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/camera"
	"github.com/decker502/locomotion/pkg/components"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/motions"
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCameraYawSpeed 视角输入满幅时的相机水平旋转速度（度/秒）
const DefaultCameraYawSpeed = 120.0

// ActorOptions 创建角色实体的参数
type ActorOptions struct {
	Name     string
	Position mgl64.Vec3
	// Yaw 初始朝向（度）
	Yaw float64

	Animator *config.AnimatorConfig
	Motions  *config.MotionSetConfig

	// World 碰撞与射线查询所用的场景，可为 nil
	World *physics.World
	// Input 输入源，可为 nil（角色不响应输入）
	Input input.Source

	// WithCamera 是否为角色创建跟随相机
	WithCamera bool
	// PushImpulse 调试推动冲量，0 表示禁用
	PushImpulse float64
}

// NewActorEntity 创建由运动控制器驱动的角色实体
//
// 参数:
//   - em: 实体管理器
//   - opts: 角色参数（Animator 与 Motions 必须提供）
//
// 返回:
//   - ecs.EntityID: 创建的角色实体ID，如果失败返回 0
//   - error: 如果创建失败返回错误信息
func NewActorEntity(em *ecs.EntityManager, opts ActorOptions) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if opts.Animator == nil || opts.Motions == nil {
		return 0, fmt.Errorf("actor %q needs animator and motion configs", opts.Name)
	}

	graph, err := animgraph.NewGraph(opts.Animator)
	if err != nil {
		return 0, fmt.Errorf("failed to build animator for %q: %w", opts.Name, err)
	}
	if graph.LayerCount() < len(opts.Motions.LayerNames) {
		return 0, fmt.Errorf("actor %q: motions use %d layers but animator has %d",
			opts.Name, len(opts.Motions.LayerNames), graph.LayerCount())
	}

	actor := physics.NewKinematicActor(opts.World, opts.Position)
	actor.SetRotation(utils.YawRotation(opts.Yaw))

	ctrl, err := motions.BuildController(actor, opts.Motions)
	if err != nil {
		return 0, fmt.Errorf("failed to build motion controller for %q: %w", opts.Name, err)
	}
	ctrl.Input = opts.Input
	if opts.World != nil {
		ctrl.Raycaster = opts.World
	}

	var rig *camera.FollowRig
	if opts.WithCamera {
		rig = camera.NewFollowRig(actor)
		rig.SetYaw(opts.Yaw)
		ctrl.Camera = rig
	}
	ctrl.BindAnimator(graph)

	bus := messaging.NewBus()
	bus.Register(ctrl)

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.ActorComponent{
		Name:  opts.Name,
		Actor: actor,
	})
	ecs.AddComponent(em, entityID, &components.AnimatorComponent{Graph: graph})
	ecs.AddComponent(em, entityID, &components.MotionControllerComponent{
		Controller: ctrl,
		Bus:        bus,
	})
	if opts.Input != nil {
		ecs.AddComponent(em, entityID, &components.PlayerInputComponent{
			Source:      opts.Input,
			PushImpulse: opts.PushImpulse,
		})
	}
	if rig != nil {
		ecs.AddComponent(em, entityID, &components.CameraComponent{
			Rig:      rig,
			YawSpeed: DefaultCameraYawSpeed,
		})
	}

	log.Printf("[ActorFactory] Created actor %q (entity %d) at %v", opts.Name, entityID, opts.Position)
	return entityID, nil
}

// NewWallEntity 创建静态碰撞盒实体并加入场景
func NewWallEntity(em *ecs.EntityManager, world *physics.World, name string, center, size mgl64.Vec3) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if world == nil {
		return 0, fmt.Errorf("world cannot be nil")
	}
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return 0, fmt.Errorf("wall %q has non-positive size %v", name, size)
	}

	box := physics.NewBox(name, center, size)
	world.AddBox(box)

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.CollisionComponent{Box: box})
	return entityID, nil
}
