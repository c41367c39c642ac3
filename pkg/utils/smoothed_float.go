package utils

// SmoothedFloat 固定容量的滚动平均缓冲区
//
// 用于平滑每帧的噪声输入（输入轴、输入幅度、掩体角度等）。
// 内部是一个环形缓冲区，Add 在写满后覆盖最旧的样本，
// Average 始终是当前持有样本的算术平均（缓冲区未写满时也一样）。
//
// 容量为 0 时退化为直通：Average 等于最后一次 Add 的值。
type SmoothedFloat struct {
	samples []float64
	next    int // 下一次写入的位置
	count   int // 当前持有的样本数
	sum     float64

	value   float64 // 最后一次写入的原始值
	average float64
}

// NewSmoothedFloat 创建指定容量的平滑缓冲区
func NewSmoothedFloat(capacity int) *SmoothedFloat {
	if capacity < 0 {
		capacity = 0
	}
	return &SmoothedFloat{
		samples: make([]float64, capacity),
	}
}

// NewSmoothedFloatSeeded 创建指定容量的平滑缓冲区，并以 seed 作为初始样本
func NewSmoothedFloatSeeded(capacity int, seed float64) *SmoothedFloat {
	sf := NewSmoothedFloat(capacity)
	sf.Clear(seed)
	return sf
}

// Value 返回最后一次写入的原始值
func (sf *SmoothedFloat) Value() float64 {
	return sf.value
}

// Average 返回当前的滚动平均值
func (sf *SmoothedFloat) Average() float64 {
	return sf.average
}

// Capacity 返回缓冲区容量
func (sf *SmoothedFloat) Capacity() int {
	return len(sf.samples)
}

// Count 返回当前持有的样本数
func (sf *SmoothedFloat) Count() int {
	return sf.count
}

// Add 追加一个样本并重新计算平均值
func (sf *SmoothedFloat) Add(sample float64) {
	sf.value = sample

	capacity := len(sf.samples)
	if capacity == 0 {
		sf.average = sample
		return
	}

	if sf.count == capacity {
		sf.sum -= sf.samples[sf.next]
	} else {
		sf.count++
	}

	sf.samples[sf.next] = sample
	sf.sum += sample
	sf.next = (sf.next + 1) % capacity

	// 每轮覆盖后重新求和，避免浮点累计误差
	if sf.next == 0 {
		sf.sum = 0
		for i := 0; i < sf.count; i++ {
			sf.sum += sf.samples[i]
		}
	}

	sf.average = sf.sum / float64(sf.count)
}

// Clear 清空缓冲区
//
// seed 非 0 时以 seed 作为唯一样本重新填充，Average 立即等于 seed，
// 避免激活后从 0 爬升造成的抖动。
func (sf *SmoothedFloat) Clear(seed float64) {
	for i := range sf.samples {
		sf.samples[i] = 0
	}
	sf.next = 0
	sf.count = 0
	sf.sum = 0
	sf.value = 0
	sf.average = 0

	if seed != 0 {
		sf.Add(seed)
	}
}

// SetCapacity 修改样本容量
//
// 扩容时保留已有样本；缩容时仅保留最新的 n 个样本。
// n <= 0 时退化为直通模式。
func (sf *SmoothedFloat) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	if n == len(sf.samples) {
		return
	}

	// 按从旧到新的顺序取出现有样本
	held := make([]float64, 0, sf.count)
	capacity := len(sf.samples)
	for i := 0; i < sf.count; i++ {
		idx := (sf.next - sf.count + i + capacity) % capacity
		held = append(held, sf.samples[idx])
	}
	if len(held) > n {
		held = held[len(held)-n:]
	}

	value := sf.value
	sf.samples = make([]float64, n)
	sf.next = 0
	sf.count = 0
	sf.sum = 0
	for _, s := range held {
		sf.Add(s)
	}
	sf.value = value
	if n == 0 {
		sf.average = value
	}
}
