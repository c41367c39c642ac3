package utils

import (
	"math"
	"math/rand"
	"testing"
)

// TestSmoothedFloat_AveragePartialBuffer 测试缓冲区未写满时按实际样本数求平均
func TestSmoothedFloat_AveragePartialBuffer(t *testing.T) {
	sf := NewSmoothedFloat(5)
	sf.Add(1)
	sf.Add(3)

	if math.Abs(sf.Average()-2) > 1e-9 {
		t.Errorf("Average() = %v, want 2", sf.Average())
	}
	if sf.Value() != 3 {
		t.Errorf("Value() = %v, want 3", sf.Value())
	}
	if sf.Count() != 2 {
		t.Errorf("Count() = %d, want 2", sf.Count())
	}
}

// TestSmoothedFloat_EvictsOldest 测试写满后覆盖最旧样本
func TestSmoothedFloat_EvictsOldest(t *testing.T) {
	sf := NewSmoothedFloat(3)
	for _, v := range []float64{10, 20, 30, 40} {
		sf.Add(v)
	}

	// 剩余样本 20, 30, 40
	if math.Abs(sf.Average()-30) > 1e-9 {
		t.Errorf("Average() = %v, want 30", sf.Average())
	}
	if sf.Count() != 3 {
		t.Errorf("Count() = %d, want 3", sf.Count())
	}
}

// TestSmoothedFloat_ClearSeed 测试带种子清空后平均值立即等于种子
func TestSmoothedFloat_ClearSeed(t *testing.T) {
	tests := []struct {
		name string
		seed float64
	}{
		{"零种子", 0},
		{"正种子", 0.75},
		{"负种子", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := NewSmoothedFloat(10)
			for i := 0; i < 7; i++ {
				sf.Add(float64(i))
			}

			sf.Clear(tt.seed)
			if sf.Average() != tt.seed {
				t.Errorf("Average() after Clear(%v) = %v", tt.seed, sf.Average())
			}
			if tt.seed == 0 && sf.Count() != 0 {
				t.Errorf("Count() after Clear(0) = %d, want 0", sf.Count())
			}
			if tt.seed != 0 && sf.Count() != 1 {
				t.Errorf("Count() after Clear(%v) = %d, want 1", tt.seed, sf.Count())
			}
		})
	}
}

// TestSmoothedFloat_ZeroCapacityPassThrough 测试容量为 0 时直通
func TestSmoothedFloat_ZeroCapacityPassThrough(t *testing.T) {
	sf := NewSmoothedFloat(0)
	sf.Add(4)
	sf.Add(-2)

	if sf.Average() != -2 {
		t.Errorf("Average() = %v, want -2", sf.Average())
	}

	sf2 := NewSmoothedFloat(4)
	sf2.Add(1)
	sf2.Add(2)
	sf2.SetCapacity(0)
	if sf2.Average() != 2 {
		t.Errorf("Average() after SetCapacity(0) = %v, want 2", sf2.Average())
	}
	sf2.Add(9)
	if sf2.Average() != 9 {
		t.Errorf("Average() = %v, want 9", sf2.Average())
	}
}

// TestSmoothedFloat_SetCapacity 测试修改容量时保留最新样本
func TestSmoothedFloat_SetCapacity(t *testing.T) {
	sf := NewSmoothedFloat(4)
	for _, v := range []float64{1, 2, 3, 4, 5, 6} {
		sf.Add(v)
	}

	// 持有 3,4,5,6；缩容到 2 后保留 5,6
	sf.SetCapacity(2)
	if math.Abs(sf.Average()-5.5) > 1e-9 {
		t.Errorf("Average() after shrink = %v, want 5.5", sf.Average())
	}

	sf.SetCapacity(5)
	sf.Add(8)
	if math.Abs(sf.Average()-(5+6+8)/3.0) > 1e-9 {
		t.Errorf("Average() after grow = %v", sf.Average())
	}
}

// TestSmoothedFloat_AverageWithinWindowBounds 测试平均值始终落在最近 N 个样本的范围内
func TestSmoothedFloat_AverageWithinWindowBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, capacity := range []int{1, 2, 5, 20} {
		sf := NewSmoothedFloat(capacity)
		var history []float64

		for i := 0; i < 500; i++ {
			v := rng.Float64()*200 - 100
			sf.Add(v)
			history = append(history, v)

			start := len(history) - capacity
			if start < 0 {
				start = 0
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, s := range history[start:] {
				lo = math.Min(lo, s)
				hi = math.Max(hi, s)
			}

			avg := sf.Average()
			if avg < lo-1e-9 || avg > hi+1e-9 {
				t.Fatalf("capacity=%d step=%d: Average()=%v outside [%v, %v]", capacity, i, avg, lo, hi)
			}
		}
	}
}

func BenchmarkSmoothedFloat_Add(b *testing.B) {
	sf := NewSmoothedFloat(20)
	for i := 0; i < b.N; i++ {
		sf.Add(float64(i % 7))
	}
}
