// Package motions 实现角色运动的激活状态机与根运动整形
//
// 每个运动是一个自包含的行为单元：决定何时激活、如何驱动外部动画状态图、
// 以及如何逐帧调整根运动的位移与旋转。
//
// 生命周期（由 Layer 仲裁）：
//
//	Inactive --TestActivate/Activate--> Active --TestUpdate=false/被打断--> Deactivate --> Inactive
//
// 激活帧（IsActivatedFrame）与退出中标志都是单帧伪状态，不单独存储。
package motions

import (
	"github.com/decker502/locomotion/pkg/animgraph"
	"github.com/decker502/locomotion/pkg/camera"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/messaging"
	"github.com/go-gl/mathgl/mgl64"
)

// Category 运动类别
type Category int

const (
	CategoryIdle Category = iota
	CategoryWalk
	CategoryCover
	CategoryImpact
	CategoryForm
)

// String 返回类别名
func (c Category) String() string {
	switch c {
	case CategoryIdle:
		return "idle"
	case CategoryWalk:
		return "walk"
	case CategoryCover:
		return "cover"
	case CategoryImpact:
		return "impact"
	case CategoryForm:
		return "form"
	default:
		return "unknown"
	}
}

// Motion 运动接口
type Motion interface {
	Name() string
	Category() Category
	Priority() int
	LayerIndex() int
	Form() int
	IsEnabled() bool
	IsActive() bool
	IsActivatedFrame() bool
	Age() float64

	// Movement 本帧运动自身输出的局部位移
	Movement() mgl64.Vec3
	// Rotation 本帧运动自身输出的旋转增量
	Rotation() mgl64.Quat
	// ForcedInput 最近一次被打断时快照的输入
	ForcedInput() (mgl64.Vec2, bool)

	// Base 返回共享的运动状态
	Base() *MotionBase

	// LoadAnimatorData 解析并缓存本运动拥有的状态/转换 ID
	LoadAnimatorData(registry *animgraph.Registry, layerName string)

	// TestActivate 是否应当激活（可每帧调用，不提交激活）
	TestActivate() bool
	// Activate 激活运动，prev 为之前的活动运动（可为 nil）
	Activate(prev Motion) bool
	// TestUpdate 是否继续保持激活；返回 false 是自终止运动唯一的停用触发
	TestUpdate() bool
	// TestInterruption other 即将取代本运动时调用，返回 true 允许打断
	TestInterruption(other Motion) bool
	// Update 每帧更新
	Update(deltaTime float64, updateIndex int)
	// UpdateRootMotion 整形根运动位移与旋转
	UpdateRootMotion(deltaTime float64, updateIndex int, movement *mgl64.Vec3, rotation *mgl64.Quat)
	// FixedUpdate 固定步长更新
	FixedUpdate(fixedDeltaTime float64)
	// Deactivate 停用运动
	Deactivate()
	// OnMessageReceived 处理消息
	OnMessageReceived(msg *messaging.Message)
}

// MotionBase 所有运动共享的身份与运行时状态
type MotionBase struct {
	name         string
	category     Category
	priority     int
	layerIndex   int
	form         int
	enabled      bool
	actionAlias  string
	stances      []int
	armsOverride string

	controller *Controller

	isActive         bool
	isActivatedFrame bool
	age              float64

	movement mgl64.Vec3
	rotation mgl64.Quat

	forcedInput    mgl64.Vec2
	hasForcedInput bool

	// motionIDs 本实例拥有的状态与转换 ID（绑定状态图时构建）
	motionIDs animgraph.IDSet

	cameraSub    *camera.Subscription
	armsActive   Motion
	restoreFlags []func()
}

func newMotionBase(cfg *config.MotionConfig, category Category) MotionBase {
	return MotionBase{
		name:         cfg.Name,
		category:     category,
		priority:     cfg.Priority,
		layerIndex:   cfg.Layer,
		form:         cfg.Form,
		enabled:      cfg.IsEnabled(),
		actionAlias:  cfg.ActionAlias,
		stances:      cfg.Stances(),
		armsOverride: cfg.ArmsOverride,
		rotation:     mgl64.QuatIdent(),
		motionIDs:    animgraph.NewIDSet(),
	}
}

// Name 运动名
func (b *MotionBase) Name() string { return b.name }

// Category 运动类别
func (b *MotionBase) Category() Category { return b.category }

// Priority 优先级（高者赢得仲裁）
func (b *MotionBase) Priority() int { return b.priority }

// LayerIndex 所在层
func (b *MotionBase) LayerIndex() int { return b.layerIndex }

// Form 运动形态
func (b *MotionBase) Form() int { return b.form }

// IsEnabled 是否启用
func (b *MotionBase) IsEnabled() bool { return b.enabled }

// SetEnabled 启用或禁用
func (b *MotionBase) SetEnabled(enabled bool) { b.enabled = enabled }

// IsActive 是否激活
func (b *MotionBase) IsActive() bool { return b.isActive }

// IsActivatedFrame 是否处于激活帧
func (b *MotionBase) IsActivatedFrame() bool { return b.isActivatedFrame }

// Age 激活以来的秒数
func (b *MotionBase) Age() float64 { return b.age }

// Movement 实现 Motion
func (b *MotionBase) Movement() mgl64.Vec3 { return b.movement }

// Rotation 实现 Motion
func (b *MotionBase) Rotation() mgl64.Quat { return b.rotation }

// ForcedInput 实现 Motion
func (b *MotionBase) ForcedInput() (mgl64.Vec2, bool) {
	return b.forcedInput, b.hasForcedInput
}

// Base 实现 Motion
func (b *MotionBase) Base() *MotionBase { return b }

// Controller 返回所属控制器
func (b *MotionBase) Controller() *Controller { return b.controller }

func (b *MotionBase) attach(c *Controller) {
	b.controller = c
}

// bindMotionIDs 注册本运动拥有的状态与转换
//
// states 为层内状态名；transitions 为 [源, 目标] 对，源可以是 config.AnyStateName。
// 状态图中不存在的名称解析为 InvalidID 并被忽略。
func (b *MotionBase) bindMotionIDs(registry *animgraph.Registry, layerName string, states []string, transitions [][2]string) map[string]int {
	b.motionIDs = animgraph.NewIDSet()
	resolved := make(map[string]int, len(states))

	for _, st := range states {
		id := registry.ID(config.StateFullName(layerName, st))
		resolved[st] = id
		b.motionIDs.Add(id)
	}
	for _, tr := range transitions {
		b.motionIDs.Add(registry.ID(config.TransitionFullName(layerName, tr[0], tr[1])))
	}
	return resolved
}

// IsInMotionState 层当前状态或转换是否属于本运动
func (b *MotionBase) IsInMotionState() bool {
	anim := b.animator()
	if anim == nil {
		return false
	}
	return b.IsInMotionStateIDs(anim.StateID(b.layerIndex), anim.TransitionID(b.layerIndex))
}

// IsInMotionStateIDs 给定的状态/转换 ID 是否属于本运动
func (b *MotionBase) IsInMotionStateIDs(stateID, transitionID int) bool {
	return b.motionIDs.Contains(stateID) || b.motionIDs.Contains(transitionID)
}

// OwnsID 是否拥有指定 ID
func (b *MotionBase) OwnsID(id int) bool {
	return b.motionIDs.Contains(id)
}

func (b *MotionBase) animator() animgraph.Animator {
	if b.controller == nil {
		return nil
	}
	return b.controller.Animator
}

// setPhase 写入一次性阶段信号
func (b *MotionBase) setPhase(phase int) {
	if anim := b.animator(); anim != nil {
		anim.SetMotionPhase(b.layerIndex, phase)
	}
}

// setPhaseWithParameter 写入参数与阶段信号
func (b *MotionBase) setPhaseWithParameter(phase, parameter int) {
	if anim := b.animator(); anim != nil {
		anim.SetMotionParameter(b.layerIndex, parameter)
		anim.SetMotionPhase(b.layerIndex, phase)
	}
}

// setForm 写入形态选择
func (b *MotionBase) setForm() {
	if anim := b.animator(); anim != nil {
		anim.SetMotionForm(b.layerIndex, b.form)
	}
}

// isTag 当前层状态是否带有标签
func (b *MotionBase) isTag(tag string) bool {
	anim := b.animator()
	return anim != nil && anim.IsTag(b.layerIndex, tag)
}

// canActivate 激活的公共前置条件：已启用、着地、姿态匹配
func (b *MotionBase) canActivate() bool {
	if !b.enabled || b.controller == nil || b.controller.Actor == nil {
		return false
	}
	if !b.controller.Actor.IsGrounded() {
		return false
	}
	return b.stanceAllowed()
}

func (b *MotionBase) stanceAllowed() bool {
	if len(b.stances) == 0 {
		return true
	}
	stance := b.controller.Actor.Stance()
	for _, s := range b.stances {
		if s == stance {
			return true
		}
	}
	return false
}

// isGrounded 角色是否着地（无角色时视为否）
func (b *MotionBase) isGrounded() bool {
	return b.controller != nil && b.controller.Actor != nil && b.controller.Actor.IsGrounded()
}

// Activate 重置激活期状态
func (b *MotionBase) Activate(prev Motion) bool {
	b.isActive = true
	b.isActivatedFrame = true
	b.age = 0
	b.movement = mgl64.Vec3{}
	b.rotation = mgl64.QuatIdent()
	b.hasForcedInput = false
	b.activateArmsOverride()
	return true
}

// TestInterruption 默认允许打断，并快照当前输入作为强制输入
func (b *MotionBase) TestInterruption(other Motion) bool {
	b.snapshotForcedInput()
	return true
}

// snapshotForcedInput 记录当前输入，使混合树在转换中保持最后的输入方向
func (b *MotionBase) snapshotForcedInput() {
	if b.controller == nil {
		return
	}
	b.forcedInput = mgl64.Vec2{b.controller.State.LocalInputX, b.controller.State.LocalInputY}
	b.hasForcedInput = true
}

// FixedUpdate 默认无操作
func (b *MotionBase) FixedUpdate(fixedDeltaTime float64) {}

// OnMessageReceived 默认不处理消息
func (b *MotionBase) OnMessageReceived(msg *messaging.Message) {}

// Deactivate 释放订阅、恢复被覆盖的角色标志、停用手臂覆盖运动
func (b *MotionBase) Deactivate() {
	b.releaseCamera()
	b.restoreActorFlags()
	b.deactivateArmsOverride()

	b.isActive = false
	b.isActivatedFrame = false
	b.age = 0
	b.movement = mgl64.Vec3{}
	b.rotation = mgl64.QuatIdent()
}

// subscribeCamera 订阅相机后更新回调（已订阅时不重复订阅）
//
// 无相机架时静默跳过。订阅在 Deactivate 中释放。
func (b *MotionBase) subscribeCamera(fn camera.PostLateUpdateFunc) {
	if b.controller == nil || b.controller.Camera == nil {
		return
	}
	if b.cameraSub != nil && !b.cameraSub.Released() {
		return
	}
	b.cameraSub = b.controller.Camera.SubscribePostLateUpdate(fn)
}

func (b *MotionBase) releaseCamera() {
	if b.cameraSub != nil {
		b.cameraSub.Release()
		b.cameraSub = nil
	}
}

// overrideUseTransformPosition 临时覆盖角色"使用变换位置"标志，停用时恢复原值
func (b *MotionBase) overrideUseTransformPosition(use bool) {
	if b.controller == nil || b.controller.Actor == nil {
		return
	}
	actor := b.controller.Actor
	previous := actor.UseTransformPosition()
	actor.SetUseTransformPosition(use)
	b.restoreFlags = append(b.restoreFlags, func() {
		actor.SetUseTransformPosition(previous)
	})
}

func (b *MotionBase) restoreActorFlags() {
	// 逆序恢复，保证多次覆盖后回到最初的值
	for i := len(b.restoreFlags) - 1; i >= 0; i-- {
		b.restoreFlags[i]()
	}
	b.restoreFlags = b.restoreFlags[:0]
}

// activateArmsOverride 当前角色形态与本运动形态不一致时激活手臂覆盖运动
func (b *MotionBase) activateArmsOverride() {
	if b.armsOverride == "" || b.controller == nil || b.controller.Actor == nil {
		return
	}
	if b.controller.Actor.Form() == b.form {
		return
	}

	override := b.controller.Motion(b.armsOverride)
	if override == nil || override.LayerIndex() == b.layerIndex {
		return
	}
	if fo, ok := override.(*FormOverride); ok {
		fo.SetOwner(b)
	}
	if b.controller.ActivateMotionNow(override) {
		b.armsActive = override
	}
}

func (b *MotionBase) deactivateArmsOverride() {
	if b.armsActive == nil {
		return
	}
	if b.armsActive.IsActive() {
		b.controller.DeactivateMotion(b.armsActive)
	}
	b.armsActive = nil
}

// tick 推进激活时长（激活帧不计时）
func (b *MotionBase) tick(deltaTime float64) {
	if !b.isActivatedFrame {
		b.age += deltaTime
	}
}

// endFrame 帧结束：清除激活帧标志
func (b *MotionBase) endFrame() {
	b.isActivatedFrame = false
}
