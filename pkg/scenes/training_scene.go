package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/entities"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/decker502/locomotion/pkg/systems"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultPushImpulse 调试推动冲量（单位/秒）
const DefaultPushImpulse = 3.0

var backgroundColor = color.RGBA{R: 28, G: 30, B: 36, A: 255}

// TrainingSceneOptions 训练场景参数
type TrainingSceneOptions struct {
	Arena    *config.ArenaConfig
	Animator *config.AnimatorConfig
	Motions  *config.MotionSetConfig

	// Input 玩家输入源（桌面端为 EbitenSource，验证工具为 ScriptedSource）
	Input input.Source

	// PushImpulse 调试推动冲量，0 时使用 DefaultPushImpulse，负值禁用
	PushImpulse float64

	Verbose bool
}

// TrainingScene 训练场景
//
// 持有实体管理器、碰撞场景以及运动/渲染系统。
// 玩家角色带跟随相机；可选的陪练角色不响应输入。
type TrainingScene struct {
	entityManager *ecs.EntityManager
	world         *physics.World

	motionSystem *systems.MotionSystem
	renderSystem *systems.DebugRenderSystem

	playerID ecs.EntityID
	dummyID  ecs.EntityID
}

var _ Scene = (*TrainingScene)(nil)

// NewTrainingScene 根据场景配置创建训练场景
func NewTrainingScene(opts TrainingSceneOptions) (*TrainingScene, error) {
	if opts.Arena == nil {
		return nil, fmt.Errorf("arena config cannot be nil")
	}

	em := ecs.NewEntityManager()
	world := physics.NewWorld()

	for _, w := range opts.Arena.Walls {
		if _, err := entities.NewWallEntity(em, world, w.Name, vec3(w.Center), vec3(w.Size)); err != nil {
			return nil, fmt.Errorf("failed to create wall %s: %w", w.Name, err)
		}
	}

	pushImpulse := opts.PushImpulse
	if pushImpulse == 0 {
		pushImpulse = DefaultPushImpulse
	} else if pushImpulse < 0 {
		pushImpulse = 0
	}

	playerID, err := entities.NewActorEntity(em, entities.ActorOptions{
		Name:        "Player",
		Position:    vec3(opts.Arena.Spawn.Position),
		Yaw:         opts.Arena.Spawn.Yaw,
		Animator:    opts.Animator,
		Motions:     opts.Motions,
		World:       world,
		Input:       opts.Input,
		WithCamera:  true,
		PushImpulse: pushImpulse,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s := &TrainingScene{
		entityManager: em,
		world:         world,
		motionSystem:  systems.NewMotionSystem(em),
		renderSystem:  systems.NewDebugRenderSystem(em),
		playerID:      playerID,
	}
	s.motionSystem.Verbose = opts.Verbose

	if opts.Arena.Dummy != nil {
		s.dummyID, err = entities.NewActorEntity(em, entities.ActorOptions{
			Name:     "Dummy",
			Position: vec3(opts.Arena.Dummy.Position),
			Yaw:      opts.Arena.Dummy.Yaw,
			Animator: opts.Animator,
			Motions:  opts.Motions,
			World:    world,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create dummy: %w", err)
		}
	}

	log.Printf("[TrainingScene] Loaded arena %q: %d walls, player entity %d",
		opts.Arena.Name, len(opts.Arena.Walls), playerID)
	return s, nil
}

// Update 更新场景
func (s *TrainingScene) Update(deltaTime float64) {
	s.motionSystem.Update(deltaTime)
}

// Draw 绘制场景
func (s *TrainingScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.renderSystem.Draw(screen)
}

// EntityManager 返回场景的实体管理器
func (s *TrainingScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// World 返回碰撞场景
func (s *TrainingScene) World() *physics.World {
	return s.world
}

// PlayerID 返回玩家实体ID
func (s *TrainingScene) PlayerID() ecs.EntityID {
	return s.playerID
}

// DummyID 返回陪练实体ID，没有陪练时为 0
func (s *TrainingScene) DummyID() ecs.EntityID {
	return s.dummyID
}

// SetShowText 切换调试文本
func (s *TrainingScene) SetShowText(show bool) {
	s.renderSystem.ShowText = show
}

// ShowText 返回是否显示调试文本
func (s *TrainingScene) ShowText() bool {
	return s.renderSystem.ShowText
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
