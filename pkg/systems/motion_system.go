package systems

import (
	"log"

	"github.com/decker502/locomotion/pkg/components"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/decker502/locomotion/pkg/utils"
)

const (
	// DefaultFixedTimeStep 默认固定步长（秒）
	DefaultFixedTimeStep = 1.0 / 50.0

	// maxFixedStepsPerFrame 单帧最多执行的固定步数，防止卡顿后追帧过多
	maxFixedStepsPerFrame = 5

	LogOutputFrameInterval = 100 // 日志输出间隔（每N帧输出一次）
)

// frameUpdater 每帧开始时需要刷新的输入源（如 EbitenSource 刷新手柄列表）
type frameUpdater interface {
	Update()
}

// frameEnder 每帧结束时需要清理的输入源（如 ScriptedSource 的"刚按下"）
type frameEnder interface {
	EndFrame()
}

// MotionSystem 驱动所有角色的运动控制器
//
// 每个角色每帧的执行顺序：
//  1. 刷新输入、处理调试推动、分发到期消息
//  2. 固定步长更新（累加器，可能执行 0~N 次）
//  3. 视角输入旋转相机
//  4. 运动控制器 Update（仲裁、根运动）
//  5. 状态图 Update（消费本帧写入的阶段）
//  6. 角色 Update（结算位移与碰撞）
//  7. 相机 LateUpdate（触发"相机更新后"回调）
type MotionSystem struct {
	entityManager *ecs.EntityManager

	// Verbose 周期性输出各角色的活动运动
	Verbose bool

	logFrameCounter int
}

// NewMotionSystem 创建运动系统
func NewMotionSystem(em *ecs.EntityManager) *MotionSystem {
	return &MotionSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有角色与运动控制器的实体
func (s *MotionSystem) Update(deltaTime float64) {
	s.logFrameCounter++

	entities := ecs.GetEntitiesWith2[*components.ActorComponent, *components.MotionControllerComponent](s.entityManager)
	for _, id := range entities {
		s.updateEntity(id, deltaTime)
	}
}

func (s *MotionSystem) updateEntity(id ecs.EntityID, deltaTime float64) {
	actorComp, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
	if !ok || actorComp.Actor == nil {
		return
	}
	ctrlComp, ok := ecs.GetComponent[*components.MotionControllerComponent](s.entityManager, id)
	if !ok || ctrlComp.Controller == nil {
		return
	}
	animComp, _ := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id)
	camComp, _ := ecs.GetComponent[*components.CameraComponent](s.entityManager, id)
	inputComp, _ := ecs.GetComponent[*components.PlayerInputComponent](s.entityManager, id)

	var source input.Source
	if inputComp != nil {
		source = inputComp.Source
	}
	if u, ok := source.(frameUpdater); ok {
		u.Update()
	}

	if ctrlComp.Bus != nil {
		if inputComp != nil && inputComp.PushImpulse > 0 && source != nil && source.IsJustPressed(input.AliasPush) {
			// 调试推动：从角色正前方推向后方
			back := utils.ForwardOf(actorComp.Actor.Rotation()).Mul(-inputComp.PushImpulse)
			ctrlComp.Bus.Post(messaging.NewPushMessage(back))
			log.Printf("[MotionSystem] Debug push on %s: %v", actorComp.Name, back)
		}
		ctrlComp.Bus.Dispatch(deltaTime)
	}

	s.fixedUpdate(ctrlComp, deltaTime)

	if camComp != nil && camComp.Rig != nil && source != nil && source.IsEnabled() {
		camComp.Rig.AddYaw(source.ViewX() * camComp.YawSpeed * deltaTime)
	}

	ctrlComp.Controller.Update(deltaTime)
	if animComp != nil && animComp.Graph != nil {
		animComp.Graph.Update(deltaTime)
	}
	actorComp.Actor.Update(deltaTime)

	if camComp != nil && camComp.Rig != nil {
		camComp.Rig.LateUpdate(deltaTime)
	}

	if e, ok := source.(frameEnder); ok {
		e.EndFrame()
	}

	if s.Verbose && s.logFrameCounter%LogOutputFrameInterval == 1 {
		s.logActiveMotions(actorComp, ctrlComp)
	}
}

// fixedUpdate 按固定步长消耗累加的时间
func (s *MotionSystem) fixedUpdate(ctrlComp *components.MotionControllerComponent, deltaTime float64) {
	step := ctrlComp.FixedTimeStep
	if step <= 0 {
		step = DefaultFixedTimeStep
	}

	ctrlComp.Accumulator += deltaTime
	steps := 0
	for ctrlComp.Accumulator >= step && steps < maxFixedStepsPerFrame {
		ctrlComp.Controller.FixedUpdate(step)
		ctrlComp.Accumulator -= step
		steps++
	}
	if steps == maxFixedStepsPerFrame && ctrlComp.Accumulator >= step {
		// 丢弃追不上的时间
		ctrlComp.Accumulator = 0
	}
}

func (s *MotionSystem) logActiveMotions(actorComp *components.ActorComponent, ctrlComp *components.MotionControllerComponent) {
	for _, layer := range ctrlComp.Controller.Layers() {
		name := "<none>"
		if m := layer.ActiveMotion(); m != nil {
			name = m.Name()
		}
		log.Printf("[MotionSystem] %s layer %q active=%s pos=%v",
			actorComp.Name, layer.Name, name, actorComp.Actor.Position())
	}
}
