package motions

import (
	"testing"

	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// TestShapeMovement 测试根运动整形规则的优先级
func TestShapeMovement(t *testing.T) {
	pivot180 := mgl64.Vec3{0, 1, 0}
	toWall := mgl64.Vec3{}

	tests := []struct {
		name  string
		raw   mgl64.Vec3
		dt    float64
		rules RootMotionRules
		want  mgl64.Vec3
	}{
		{
			name: "原样通过",
			raw:  mgl64.Vec3{0.1, 0, 0.2},
			dt:   0.1,
			want: mgl64.Vec3{0.1, 0, 0.2},
		},
		{
			name:  "180度转身只保留竖直分量",
			raw:   mgl64.Vec3{0.1, 0.05, 0.2},
			dt:    0.1,
			rules: RootMotionRules{PivotMask: &pivot180, OverrideSpeed: 5},
			want:  mgl64.Vec3{0, 0.05, 0},
		},
		{
			name:  "转向墙面清零全部分量",
			raw:   mgl64.Vec3{0.1, 0.05, 0.2},
			dt:    0.1,
			rules: RootMotionRules{PivotMask: &toWall},
			want:  mgl64.Vec3{},
		},
		{
			name:  "覆盖速度替换长度",
			raw:   mgl64.Vec3{0, 0, 0.01},
			dt:    0.5,
			rules: RootMotionRules{OverrideSpeed: 4},
			want:  mgl64.Vec3{0, 0, 2},
		},
		{
			name:  "退化位移使用后备方向",
			raw:   mgl64.Vec3{},
			dt:    0.5,
			rules: RootMotionRules{OverrideSpeed: 2, FallbackDirection: mgl64.Vec3{-3, 0, 0}},
			want:  mgl64.Vec3{-1, 0, 0},
		},
		{
			name:  "无方向时不位移",
			raw:   mgl64.Vec3{},
			dt:    0.5,
			rules: RootMotionRules{OverrideSpeed: 2},
			want:  mgl64.Vec3{},
		},
		{
			name:  "停止时按阻尼缩放",
			raw:   mgl64.Vec3{0, 0, 0.4},
			dt:    0.1,
			rules: RootMotionRules{Stopping: true, StopDamping: 0.25},
			want:  mgl64.Vec3{0, 0, 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShapeMovement(tt.raw, tt.dt, tt.rules)
			if got.Sub(tt.want).Len() > 1e-9 {
				t.Errorf("ShapeMovement() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPivotMaskFor 测试按状态标签选择转身掩码
func TestPivotMaskFor(t *testing.T) {
	anim := newFakeAnimator()

	if PivotMaskFor(nil, 0) != nil {
		t.Errorf("无状态图时应返回 nil")
	}

	anim.enter(0, "Base Layer.Move")
	if PivotMaskFor(anim, 0) != nil {
		t.Errorf("无标签状态应返回 nil")
	}

	anim.enter(0, "Base Layer.Pivot", TagPivot180)
	if mask := PivotMaskFor(anim, 0); mask == nil || *mask != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Pivot180 掩码 = %v, want (0,1,0)", mask)
	}

	anim.enter(0, "Base Layer.ToWall", TagPivotToWall)
	if mask := PivotMaskFor(anim, 0); mask == nil || *mask != (mgl64.Vec3{}) {
		t.Errorf("PivotToWall 掩码 = %v, want (0,0,0)", mask)
	}
}

// TestPivotDriver 测试转身旋转的累计与单调性
func TestPivotDriver(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		progress []float64
		want     float64
	}{
		{"均匀推进", 120, []float64{0.25, 0.5, 0.75, 1}, 120},
		{"进度回退被忽略", -90, []float64{0.5, 0.3, 0.6, 1}, -90},
		{"进度越界被截断", 60, []float64{-0.5, 0.4, 1.5}, 60},
		{"一帧完成", 170, []float64{1}, 170},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p pivotDriver
			p.start(tt.angle)

			total := mgl64.QuatIdent()
			for _, progress := range tt.progress {
				total = p.step(progress).Mul(total)
			}

			got := utils.HorizontalAngleTo(utils.WorldForward, utils.ForwardOf(total), utils.WorldUp)
			if !approxEqual(got, tt.want, 1e-6) {
				t.Errorf("累计旋转 = %.4f, want %.4f", got, tt.want)
			}
			if p.running {
				t.Errorf("进度到 1 后应停止")
			}
			if q := p.step(1); !q.ApproxEqual(mgl64.QuatIdent()) {
				t.Errorf("停止后 step 应返回单位旋转")
			}
		})
	}
}

// TestPivotDriver_Stop 测试中途停止
func TestPivotDriver_Stop(t *testing.T) {
	var p pivotDriver
	p.start(90)
	p.step(0.5)
	p.stop()
	if p.running {
		t.Fatalf("stop 后不应运行")
	}
	if q := p.step(1); !q.ApproxEqual(mgl64.QuatIdent()) {
		t.Errorf("停止后 step 应返回单位旋转")
	}
}
