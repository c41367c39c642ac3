package input

import (
	"math"
	"testing"
)

// TestStickAxis 测试像素偏移到轴值的换算
func TestStickAxis(t *testing.T) {
	tests := []struct {
		name         string
		dx, dy       int
		radius       float64
		wantX, wantY float64
	}{
		{"中心", 0, 0, 80, 0, 0},
		{"向右半幅", 40, 0, 80, 0.5, 0},
		{"屏幕向上为前", 0, -80, 80, 0, 1},
		{"超出半径被限制在单位圆", 160, 0, 80, 1, 0},
		{"斜向超出", 80, -80, 80, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{"半径无效", 10, 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := stickAxis(tt.dx, tt.dy, tt.radius)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("stickAxis(%d, %d, %.0f) = (%.3f, %.3f), want (%.3f, %.3f)",
					tt.dx, tt.dy, tt.radius, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

// TestTouchStick_TapDetection 测试轻点与拖动的区分
func TestTouchStick_TapDetection(t *testing.T) {
	tests := []struct {
		name    string
		frames  int
		moveX   int
		wantTap bool
	}{
		{"短按不动", 5, 0, true},
		{"短按小幅移动", 5, 10, true},
		{"拖动", 5, 40, false},
		{"长按", tapMaxFrames + 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTouchStick(0, 100)
			s.begin(1, 50, 50)
			for i := 0; i < tt.frames; i++ {
				s.move(50+tt.moveX, 50)
			}
			if !s.IsActive() {
				t.Fatal("stick should be active while held")
			}
			s.end()
			if s.JustTapped() != tt.wantTap {
				t.Errorf("JustTapped() = %v, want %v", s.JustTapped(), tt.wantTap)
			}
			if x, y := s.Axis(); x != 0 || y != 0 {
				t.Errorf("released stick Axis() = (%v, %v), want 0", x, y)
			}
		})
	}
}

// TestTouchStick_Axis 测试按住时的轴值
func TestTouchStick_Axis(t *testing.T) {
	s := NewTouchStick(0, 100)
	s.begin(1, 50, 50)
	s.move(50, 10)
	x, y := s.Axis()
	if x != 0 || math.Abs(y-0.5) > 1e-9 {
		t.Errorf("Axis() = (%.3f, %.3f), want (0, 0.5)", x, y)
	}
}
