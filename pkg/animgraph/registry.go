// Package animgraph 提供动画状态图的标识表与运行时
//
// 运动逻辑与动画状态图之间只通过整数 ID 同步：
//   - 状态 ID：层当前所在的状态节点
//   - 转换 ID：层正在进行的转换（0 表示没有转换）
//   - 阶段（phase）：运动写入的一次性触发信号
//
// 名称到 ID 的映射在加载状态图时一次性建立（Registry），
// 之后只按 ID 查询。
package animgraph

// InvalidID 未注册名称的哨兵 ID
//
// 状态图未初始化时运动持有的 ID 保持为 InvalidID，
// 所有成员测试都会失败，从而让运动安全地退出而不是崩溃。
const InvalidID = -1

// NoTransition 没有进行中的转换
const NoTransition = 0

// Registry 名称 -> 稠密整数 ID 的映射表
//
// ID 从 1 开始分配，0 保留给"无转换"。
type Registry struct {
	ids   map[string]int
	names []string // names[id-1] = 名称
}

// NewRegistry 创建空的映射表
func NewRegistry() *Registry {
	return &Registry{
		ids:   make(map[string]int),
		names: make([]string, 0),
	}
}

// Register 注册名称并返回其 ID（重复注册返回相同 ID）
func (r *Registry) Register(name string) int {
	if id, ok := r.ids[name]; ok {
		return id
	}
	r.names = append(r.names, name)
	id := len(r.names)
	r.ids[name] = id
	return id
}

// ID 查询名称对应的 ID，未注册时返回 InvalidID
//
// 对 nil 映射表调用也返回 InvalidID。
func (r *Registry) ID(name string) int {
	if r == nil {
		return InvalidID
	}
	if id, ok := r.ids[name]; ok {
		return id
	}
	return InvalidID
}

// Name 查询 ID 对应的名称，未知 ID 返回空字符串
func (r *Registry) Name(id int) string {
	if r == nil || id < 1 || id > len(r.names) {
		return ""
	}
	return r.names[id-1]
}

// Len 返回已注册的名称数
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// IDSet 运动拥有的状态/转换 ID 集合
//
// 每个运动实例在绑定状态图时各自构建，不共享。
type IDSet map[int]struct{}

// NewIDSet 由 ID 列表构建集合，InvalidID 会被忽略
func NewIDSet(ids ...int) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Add 加入一个 ID，InvalidID 与 NoTransition 会被忽略
func (s IDSet) Add(id int) {
	if id == InvalidID || id == NoTransition {
		return
	}
	s[id] = struct{}{}
}

// Contains 判断 ID 是否在集合中
func (s IDSet) Contains(id int) bool {
	if id == InvalidID {
		return false
	}
	_, ok := s[id]
	return ok
}
