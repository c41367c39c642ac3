package input

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// axisKeys 由按键模拟的二维轴
type axisKeys struct {
	left, right, up, down []ebiten.Key
}

// EbitenSource 基于 ebiten 的键盘与标准手柄输入源
//
// 键盘轴与手柄左摇杆取幅度较大者；视角轴使用右摇杆或视角按键。
// 启用触屏后，左半屏为移动摇杆，右半屏为视角摇杆，轻点右半屏触发 tapAlias。
type EbitenSource struct {
	enabled  bool
	aliases  map[string][]ebiten.Key
	movement axisKeys
	view     axisKeys
	deadzone float64

	gamepadIDs []ebiten.GamepadID

	moveStick *TouchStick
	viewStick *TouchStick
	tapAlias  string
}

var _ Source = (*EbitenSource)(nil)

// NewEbitenSource 由绑定配置创建输入源
//
// 无法识别的按键名会被跳过并记录警告，不会导致失败。
func NewEbitenSource(cfg *config.InputBindingsConfig) (*EbitenSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("input bindings config is nil")
	}

	s := &EbitenSource{
		enabled:  true,
		aliases:  make(map[string][]ebiten.Key, len(cfg.Aliases)),
		deadzone: cfg.GamepadDeadzone,
	}

	for alias, names := range cfg.Aliases {
		s.aliases[alias] = parseKeys(names)
	}
	s.movement = axisKeys{
		left:  parseKeys(cfg.Movement.Left),
		right: parseKeys(cfg.Movement.Right),
		up:    parseKeys(cfg.Movement.Up),
		down:  parseKeys(cfg.Movement.Down),
	}
	s.view = axisKeys{
		left:  parseKeys(cfg.View.Left),
		right: parseKeys(cfg.View.Right),
		up:    parseKeys(cfg.View.Up),
		down:  parseKeys(cfg.View.Down),
	}

	return s, nil
}

func parseKeys(names []string) []ebiten.Key {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			log.Printf("[EbitenSource] Warning: unknown key name %q, skipped", name)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// EnableTouch 启用虚拟摇杆
//
// 参数：
//   - screenWidth: 逻辑屏幕宽度，左右各半分给移动/视角摇杆
//   - tapAlias: 轻点视角区域时触发的别名（如 "ChangeCover"），为空则不触发
func (s *EbitenSource) EnableTouch(screenWidth int, tapAlias string) {
	half := screenWidth / 2
	s.moveStick = NewTouchStick(0, half)
	s.viewStick = NewTouchStick(half, screenWidth)
	s.tapAlias = tapAlias
	log.Printf("[EbitenSource] Touch sticks enabled (split at x=%d, tap=%q)", half, tapAlias)
}

// Update 每帧刷新手柄列表与虚拟摇杆
func (s *EbitenSource) Update() {
	s.gamepadIDs = ebiten.AppendGamepadIDs(s.gamepadIDs[:0])
	if s.moveStick != nil {
		s.moveStick.Update()
		s.viewStick.Update()
	}
}

// SetEnabled 启用或禁用输入源
func (s *EbitenSource) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// IsEnabled 实现 Source
func (s *EbitenSource) IsEnabled() bool {
	return s.enabled
}

// IsPressed 实现 Source
func (s *EbitenSource) IsPressed(alias string) bool {
	if !s.enabled {
		return false
	}
	for _, k := range s.aliases[alias] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// IsJustPressed 实现 Source
func (s *EbitenSource) IsJustPressed(alias string) bool {
	if !s.enabled {
		return false
	}
	for _, k := range s.aliases[alias] {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return s.viewStick != nil && alias == s.tapAlias && s.viewStick.JustTapped()
}

// MovementX 实现 Source
func (s *EbitenSource) MovementX() float64 {
	x, _ := stickValue(s.moveStick)
	return s.axis(largerMagnitude(keyAxis(s.movement.left, s.movement.right), x), ebiten.StandardGamepadAxisLeftStickHorizontal, false)
}

// MovementY 实现 Source
func (s *EbitenSource) MovementY() float64 {
	_, y := stickValue(s.moveStick)
	// 手柄纵轴向下为正，这里取反使"向前"为正
	return s.axis(largerMagnitude(keyAxis(s.movement.down, s.movement.up), y), ebiten.StandardGamepadAxisLeftStickVertical, true)
}

// ViewX 实现 Source
func (s *EbitenSource) ViewX() float64 {
	x, _ := stickValue(s.viewStick)
	return s.axis(largerMagnitude(keyAxis(s.view.left, s.view.right), x), ebiten.StandardGamepadAxisRightStickHorizontal, false)
}

// ViewY 实现 Source
func (s *EbitenSource) ViewY() float64 {
	_, y := stickValue(s.viewStick)
	return s.axis(largerMagnitude(keyAxis(s.view.down, s.view.up), y), ebiten.StandardGamepadAxisRightStickVertical, true)
}

func stickValue(stick *TouchStick) (float64, float64) {
	if stick == nil {
		return 0, 0
	}
	return stick.Axis()
}

func largerMagnitude(a, b float64) float64 {
	if math.Abs(b) > math.Abs(a) {
		return b
	}
	return a
}

func (s *EbitenSource) axis(keyValue float64, gamepadAxis ebiten.StandardGamepadAxis, invert bool) float64 {
	if !s.enabled {
		return 0
	}

	value := keyValue
	for _, id := range s.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		v := ebiten.StandardGamepadAxisValue(id, gamepadAxis)
		if invert {
			v = -v
		}
		if math.Abs(v) < s.deadzone {
			continue
		}
		if math.Abs(v) > math.Abs(value) {
			value = v
		}
	}
	return value
}

func keyAxis(negative, positive []ebiten.Key) float64 {
	value := 0.0
	for _, k := range negative {
		if ebiten.IsKeyPressed(k) {
			value--
			break
		}
	}
	for _, k := range positive {
		if ebiten.IsKeyPressed(k) {
			value++
			break
		}
	}
	return value
}
