package motions

import (
	"log"
	"sort"
)

// Layer 运动层：同一时刻至多一个活动运动
//
// 仲裁顺序（每帧）：
//  1. 活动运动的 TestUpdate 返回 false 时停用它（激活帧除外）
//  2. 若有排队运动，优先尝试激活它
//  3. 否则按优先级从高到低测试其它运动；
//     低于活动运动优先级的运动不参与，候选运动还须通过活动运动的 TestInterruption
//  4. 更新活动运动
type Layer struct {
	Name  string
	Index int

	controller *Controller
	motions    []Motion
	active     Motion
	queued     Motion

	// previous 本帧内刚被停用的运动，作为下一个激活运动的 prev
	previous Motion
}

func newLayer(c *Controller, index int, name string) *Layer {
	return &Layer{
		Name:       name,
		Index:      index,
		controller: c,
	}
}

// Motions 返回层内运动（按优先级降序）
func (l *Layer) Motions() []Motion {
	return l.motions
}

// ActiveMotion 当前活动运动
func (l *Layer) ActiveMotion() Motion {
	return l.active
}

func (l *Layer) add(m Motion) {
	l.motions = append(l.motions, m)
	// 稳定排序：同优先级保持注册顺序
	sort.SliceStable(l.motions, func(i, j int) bool {
		return l.motions[i].Priority() > l.motions[j].Priority()
	})
}

// QueueMotion 请求在下一次仲裁时激活 m
func (l *Layer) QueueMotion(m Motion) {
	if m == nil || m.LayerIndex() != l.Index {
		return
	}
	l.queued = m
}

// QueuedMotion 排队中的运动
func (l *Layer) QueuedMotion() Motion {
	return l.queued
}

// Update 执行仲裁并更新活动运动
func (l *Layer) Update(deltaTime float64, updateIndex int) {
	l.previous = nil

	if l.active != nil && !l.active.IsActivatedFrame() && !l.active.TestUpdate() {
		l.deactivateActive()
	}

	if l.queued != nil {
		m := l.queued
		l.queued = nil
		if m != l.active && m.IsEnabled() {
			if l.active == nil || l.active.TestInterruption(m) {
				l.activate(m)
			}
		}
	} else {
		l.arbitrate()
	}

	if l.active != nil {
		l.active.Base().tick(deltaTime)
		l.active.Update(deltaTime, updateIndex)
	}
}

func (l *Layer) arbitrate() {
	for _, m := range l.motions {
		if m == l.active {
			// 更低优先级的运动不能打断当前运动
			return
		}
		if !m.IsEnabled() {
			continue
		}
		if l.active != nil && m.Priority() < l.active.Priority() {
			return
		}
		if !m.TestActivate() {
			continue
		}
		if l.active != nil && !l.active.TestInterruption(m) {
			continue
		}
		l.activate(m)
		return
	}
}

// ActivateNow 立即激活 m（跳过 TestActivate），返回是否成功
func (l *Layer) ActivateNow(m Motion) bool {
	if m == nil || m.LayerIndex() != l.Index {
		return false
	}
	if m == l.active {
		return true
	}
	if l.active != nil && !l.active.TestInterruption(m) {
		return false
	}
	l.activate(m)
	return l.active == m
}

// activationPreparer 在停用当前运动之前确认能否激活的运动
type activationPreparer interface {
	PrepareActivation() bool
}

func (l *Layer) activate(m Motion) {
	if p, ok := m.(activationPreparer); ok && !p.PrepareActivation() {
		log.Printf("[MotionLayer] Motion %q not ready on layer %q, keeping current motion", m.Name(), l.Name)
		return
	}

	prev := l.active
	if prev != nil {
		prev.Deactivate()
	} else {
		prev = l.previous
	}
	l.active = nil

	if !m.Activate(prev) {
		log.Printf("[MotionLayer] Motion %q refused activation on layer %q", m.Name(), l.Name)
		if m.IsActive() {
			m.Deactivate()
		}
		return
	}
	l.active = m
	l.previous = nil
}

// Deactivate 停用 m（若为当前活动运动）
func (l *Layer) Deactivate(m Motion) {
	if m == nil || m != l.active {
		return
	}
	l.deactivateActive()
}

func (l *Layer) deactivateActive() {
	m := l.active
	l.active = nil
	m.Deactivate()
	l.previous = m
}

func (l *Layer) endFrame() {
	if l.active != nil {
		l.active.Base().endFrame()
	}
}
