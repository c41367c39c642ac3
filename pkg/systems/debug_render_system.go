package systems

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/locomotion/pkg/components"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/motions"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DefaultPixelsPerUnit 俯视图缩放（像素/单位）
const DefaultPixelsPerUnit = 60.0

var (
	lowCoverColor     = color.RGBA{R: 120, G: 120, B: 140, A: 255}
	highCoverColor    = color.RGBA{R: 70, G: 70, B: 90, A: 255}
	actorColor        = color.RGBA{R: 230, G: 170, B: 60, A: 255}
	facingColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	coverRayColor     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	cameraColor       = color.RGBA{R: 90, G: 160, B: 255, A: 255}
	cameraAnchorColor = color.RGBA{R: 90, G: 160, B: 255, A: 128}
)

// lowCoverMaxHeight 低于此高度的碰撞盒按低掩体颜色绘制
const lowCoverMaxHeight = 1.2

// DebugRenderSystem 俯视调试渲染
//
// 世界 X 轴向右、Z 轴向上投影到屏幕；视图中心跟随第一个带相机的角色。
type DebugRenderSystem struct {
	entityManager *ecs.EntityManager

	PixelsPerUnit float64
	// ShowText 是否在左上角输出各层活动运动与状态图状态
	ShowText bool
}

// NewDebugRenderSystem 创建调试渲染系统
func NewDebugRenderSystem(em *ecs.EntityManager) *DebugRenderSystem {
	return &DebugRenderSystem{
		entityManager: em,
		PixelsPerUnit: DefaultPixelsPerUnit,
		ShowText:      true,
	}
}

// Draw 绘制场景
func (s *DebugRenderSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	center := s.viewCenter()
	view := screenProjection{
		center:        center,
		pixelsPerUnit: s.PixelsPerUnit,
		halfWidth:     float64(bounds.Dx()) / 2,
		halfHeight:    float64(bounds.Dy()) / 2,
	}

	for _, id := range ecs.GetEntitiesWith1[*components.CollisionComponent](s.entityManager) {
		collision, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		if collision == nil || collision.Box == nil {
			continue
		}
		s.drawBox(screen, view, collision)
	}

	var lines []string
	for _, id := range ecs.GetEntitiesWith1[*components.ActorComponent](s.entityManager) {
		actorComp, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
		if actorComp == nil || actorComp.Actor == nil {
			continue
		}
		ctrlComp, _ := ecs.GetComponent[*components.MotionControllerComponent](s.entityManager, id)
		animComp, _ := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id)
		camComp, _ := ecs.GetComponent[*components.CameraComponent](s.entityManager, id)

		s.drawActor(screen, view, actorComp, ctrlComp)
		if camComp != nil && camComp.Rig != nil {
			s.drawCamera(screen, view, camComp)
		}
		if s.ShowText {
			lines = append(lines, describeActor(actorComp, ctrlComp, animComp)...)
		}
	}

	if s.ShowText && len(lines) > 0 {
		ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 10, 10)
	}
}

// viewCenter 第一个带相机的角色的相机锚点，否则为原点
func (s *DebugRenderSystem) viewCenter() mgl64.Vec3 {
	for _, id := range ecs.GetEntitiesWith1[*components.CameraComponent](s.entityManager) {
		camComp, _ := ecs.GetComponent[*components.CameraComponent](s.entityManager, id)
		if camComp != nil && camComp.Rig != nil {
			return camComp.Rig.AnchorPosition()
		}
	}
	return mgl64.Vec3{}
}

func (s *DebugRenderSystem) drawBox(screen *ebiten.Image, view screenProjection, collision *components.CollisionComponent) {
	b := collision.Box
	x0, y0 := view.project(mgl64.Vec3{b.Min.X(), 0, b.Max.Z()})
	x1, y1 := view.project(mgl64.Vec3{b.Max.X(), 0, b.Min.Z()})

	clr := highCoverColor
	if b.Size().Y() < lowCoverMaxHeight {
		clr = lowCoverColor
	}
	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), clr, true)
}

func (s *DebugRenderSystem) drawActor(screen *ebiten.Image, view screenProjection, actorComp *components.ActorComponent, ctrlComp *components.MotionControllerComponent) {
	a := actorComp.Actor
	px, py := view.project(a.Position())
	radius := a.Radius * view.pixelsPerUnit
	vector.DrawFilledCircle(screen, float32(px), float32(py), float32(radius), actorColor, true)

	fx, fy := view.project(a.Position().Add(utils.ForwardOf(a.Rotation()).Mul(a.Radius * 1.8)))
	vector.StrokeLine(screen, float32(px), float32(py), float32(fx), float32(fy), 2, facingColor, true)

	if ctrlComp == nil || ctrlComp.Controller == nil {
		return
	}
	cover, ok := ctrlComp.Controller.ActiveMotion(0).(*motions.CoverStrafe)
	if !ok || cover.Prober() == nil {
		return
	}
	// 掩体激活时绘制朝墙的探测射线
	tip := a.Position().Add(utils.ForwardOf(a.Rotation()).Mul(cover.Prober().Distance))
	tx, ty := view.project(tip)
	vector.StrokeLine(screen, float32(px), float32(py), float32(tx), float32(ty), 1, coverRayColor, true)
}

func (s *DebugRenderSystem) drawCamera(screen *ebiten.Image, view screenProjection, camComp *components.CameraComponent) {
	ax, ay := view.project(camComp.Rig.AnchorPosition())
	vector.StrokeCircle(screen, float32(ax), float32(ay), 4, 1, cameraAnchorColor, true)

	cx, cy := view.project(camComp.Rig.Position())
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), 4, cameraColor, true)
	vector.StrokeLine(screen, float32(cx), float32(cy), float32(ax), float32(ay), 1, cameraAnchorColor, true)
}

// describeActor 生成角色的文本摘要（每层一行）
func describeActor(actorComp *components.ActorComponent, ctrlComp *components.MotionControllerComponent, animComp *components.AnimatorComponent) []string {
	pos := actorComp.Actor.Position()
	lines := []string{fmt.Sprintf("%s  pos(%.2f, %.2f, %.2f)  yaw %.0f",
		actorComp.Name, pos.X(), pos.Y(), pos.Z(), utils.YawOf(actorComp.Actor.Rotation()))}

	if ctrlComp == nil || ctrlComp.Controller == nil {
		return lines
	}
	for _, layer := range ctrlComp.Controller.Layers() {
		active := "-"
		if m := layer.ActiveMotion(); m != nil {
			active = m.Name()
		}
		state := ""
		if animComp != nil && animComp.Graph != nil {
			state = animComp.Graph.CurrentStateName(layer.Index)
		}
		lines = append(lines, fmt.Sprintf("  [%s] %s  %s", layer.Name, active, state))
	}
	return lines
}

// screenProjection 俯视投影：世界 XZ 平面到屏幕像素
type screenProjection struct {
	center        mgl64.Vec3
	pixelsPerUnit float64
	halfWidth     float64
	halfHeight    float64
}

// project 世界坐标 → 屏幕坐标（世界 +Z 朝屏幕上方）
func (p screenProjection) project(world mgl64.Vec3) (float64, float64) {
	x := p.halfWidth + (world.X()-p.center.X())*p.pixelsPerUnit
	y := p.halfHeight - (world.Z()-p.center.Z())*p.pixelsPerUnit
	return x, y
}
