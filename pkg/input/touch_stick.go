package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// DefaultStickRadius 摇杆满幅半径（像素）
	DefaultStickRadius = 80.0

	// tapMaxFrames/tapSlop 短按且几乎未移动的触摸视为轻点
	tapMaxFrames = 15
	tapSlop      = 12.0
)

// TouchStick 屏幕区域内的虚拟摇杆
//
// 在 [MinX, MaxX) 区域内按下的第一个触摸成为摇杆，
// 按下点为摇杆中心，拖动偏移量按 Radius 归一化为轴值。
type TouchStick struct {
	MinX, MaxX int
	Radius     float64

	active      bool
	touchID     ebiten.TouchID
	startX      int
	startY      int
	currentX    int
	currentY    int
	heldFrames  int
	maxTravel   float64
	justTapped  bool
	lastTouches []ebiten.TouchID
}

// NewTouchStick 创建覆盖 [minX, maxX) 区域的摇杆
func NewTouchStick(minX, maxX int) *TouchStick {
	return &TouchStick{
		MinX:   minX,
		MaxX:   maxX,
		Radius: DefaultStickRadius,
	}
}

// Update 更新摇杆状态（每帧调用一次）
func (s *TouchStick) Update() {
	s.justTapped = false
	s.lastTouches = ebiten.AppendTouchIDs(s.lastTouches[:0])

	if !s.active {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			x, y := ebiten.TouchPosition(id)
			if x >= s.MinX && x < s.MaxX {
				s.begin(id, x, y)
				return
			}
		}
		return
	}

	for _, id := range s.lastTouches {
		if id == s.touchID {
			x, y := ebiten.TouchPosition(id)
			s.move(x, y)
			return
		}
	}
	s.end()
}

func (s *TouchStick) begin(id ebiten.TouchID, x, y int) {
	s.active = true
	s.touchID = id
	s.startX, s.startY = x, y
	s.currentX, s.currentY = x, y
	s.heldFrames = 0
	s.maxTravel = 0
}

func (s *TouchStick) move(x, y int) {
	s.currentX, s.currentY = x, y
	s.heldFrames++
	travel := math.Hypot(float64(x-s.startX), float64(y-s.startY))
	s.maxTravel = math.Max(s.maxTravel, travel)
}

func (s *TouchStick) end() {
	s.justTapped = s.heldFrames <= tapMaxFrames && s.maxTravel <= tapSlop
	s.active = false
	s.touchID = -1
}

// IsActive 摇杆是否被按住
func (s *TouchStick) IsActive() bool {
	return s.active
}

// JustTapped 本帧是否完成了一次轻点
func (s *TouchStick) JustTapped() bool {
	return s.justTapped
}

// Axis 返回归一化轴值，x 正为右，y 正为前（屏幕上方）
func (s *TouchStick) Axis() (float64, float64) {
	if !s.active {
		return 0, 0
	}
	return stickAxis(s.currentX-s.startX, s.currentY-s.startY, s.Radius)
}

// stickAxis 像素偏移 → 单位圆内的轴值
func stickAxis(dx, dy int, radius float64) (float64, float64) {
	if radius <= 0 {
		return 0, 0
	}
	x := float64(dx) / radius
	y := -float64(dy) / radius
	if l := math.Hypot(x, y); l > 1 {
		x /= l
		y /= l
	}
	return x, y
}
