package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnyStateName 任意状态转换的源状态名
const AnyStateName = "AnyState"

// AnimatorConfig 动画状态图配置
//
// 描述外部动画状态图的层、状态和转换。
// 运动逻辑只通过状态/转换 ID 与状态图同步，
// 此配置让状态图运行时（animgraph.Graph）可以在没有引擎的情况下驱动。
//
// 配置文件位置: data/animator.yaml
type AnimatorConfig struct {
	// Layers 动画层列表，索引即层号（0 为基础层，驱动根运动）
	Layers []AnimatorLayerConfig `yaml:"layers"`
}

// AnimatorLayerConfig 动画层配置
type AnimatorLayerConfig struct {
	Name         string                     `yaml:"name"`
	DefaultState string                     `yaml:"defaultState"`
	States       []AnimatorStateConfig      `yaml:"states"`
	Transitions  []AnimatorTransitionConfig `yaml:"transitions"`
}

// AnimatorStateConfig 动画状态配置
type AnimatorStateConfig struct {
	// Name 状态名（层内唯一，如 "BasicIdle-SM.IdlePose"）
	Name string `yaml:"name"`

	// Tags 状态标签（如 "Exit", "Pivot180"）
	Tags []string `yaml:"tags,omitempty"`

	// Duration 单次播放时长（秒），用于计算归一化时间
	Duration float64 `yaml:"duration"`

	// Loop 是否循环
	Loop bool `yaml:"loop,omitempty"`

	// RootMotion 根运动配置
	RootMotion RootMotionConfig `yaml:"rootMotion,omitempty"`
}

// RootMotionConfig 状态的根运动
//
// Mode:
//   - "fixed"（默认）: 使用固定的局部速度 Velocity
//   - "input": 方向取自 InputX/InputY 浮点参数，速度为 Speed * 输入幅度
type RootMotionConfig struct {
	Mode            string    `yaml:"mode,omitempty"`
	Velocity        []float64 `yaml:"velocity,omitempty"` // 局部速度 [x, y, z]（单位/秒）
	Speed           float64   `yaml:"speed,omitempty"`
	AngularVelocity float64   `yaml:"angularVelocity,omitempty"` // 绕上方向的角速度（度/秒）
}

// AnimatorTransitionConfig 动画转换配置
//
// 条件为空的字段不参与判断；Phase 与 ExitTime 至少需要一个。
type AnimatorTransitionConfig struct {
	From      string   `yaml:"from"` // 源状态名，AnyStateName 表示任意状态
	To        string   `yaml:"to"`
	Phase     int      `yaml:"phase,omitempty"`
	Form      *int     `yaml:"form,omitempty"`
	Parameter *int     `yaml:"parameter,omitempty"`
	ExitTime  float64  `yaml:"exitTime,omitempty"` // 源状态归一化时间阈值
	Duration  float64  `yaml:"duration,omitempty"` // 过渡时长（秒）
	Tags      []string `yaml:"tags,omitempty"`
}

// LoadAnimatorConfig 从文件加载动画状态图配置
func LoadAnimatorConfig(path string) (*AnimatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read animator config: %w", err)
	}
	return ParseAnimatorConfig(data)
}

// ParseAnimatorConfig 解析 YAML 格式的动画状态图配置并验证
func ParseAnimatorConfig(data []byte) (*AnimatorConfig, error) {
	var config AnimatorConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse animator config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animator config: %w", err)
	}

	return &config, nil
}

// Validate 验证配置有效性
//
// 检查项：
//   - 至少一个层，每层至少一个状态，默认状态存在
//   - 状态名层内唯一，时长为正
//   - 转换引用的状态存在，且带有 phase 或 exitTime 条件
//   - 任意状态转换必须带 phase 条件
func (c *AnimatorConfig) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("no layers defined")
	}

	for li, layer := range c.Layers {
		if layer.Name == "" {
			return fmt.Errorf("layer %d has no name", li)
		}
		if len(layer.States) == 0 {
			return fmt.Errorf("layer %s has no states", layer.Name)
		}

		names := make(map[string]bool, len(layer.States))
		for _, st := range layer.States {
			if st.Name == "" {
				return fmt.Errorf("layer %s has a state without name", layer.Name)
			}
			if names[st.Name] {
				return fmt.Errorf("layer %s: duplicate state %s", layer.Name, st.Name)
			}
			if st.Duration <= 0 {
				return fmt.Errorf("layer %s: state %s duration must be positive, got %.3f", layer.Name, st.Name, st.Duration)
			}
			switch st.RootMotion.Mode {
			case "", "fixed":
				if len(st.RootMotion.Velocity) != 0 && len(st.RootMotion.Velocity) != 3 {
					return fmt.Errorf("layer %s: state %s velocity must have 3 components", layer.Name, st.Name)
				}
			case "input":
			default:
				return fmt.Errorf("layer %s: state %s has unknown root motion mode %q", layer.Name, st.Name, st.RootMotion.Mode)
			}
			names[st.Name] = true
		}

		if !names[layer.DefaultState] {
			return fmt.Errorf("layer %s: default state %q not found", layer.Name, layer.DefaultState)
		}

		for ti, tr := range layer.Transitions {
			if tr.From != AnyStateName && !names[tr.From] {
				return fmt.Errorf("layer %s: transition %d source %q not found", layer.Name, ti, tr.From)
			}
			if !names[tr.To] {
				return fmt.Errorf("layer %s: transition %d target %q not found", layer.Name, ti, tr.To)
			}
			if tr.Phase == 0 && tr.ExitTime <= 0 {
				return fmt.Errorf("layer %s: transition %s -> %s needs a phase or exitTime condition", layer.Name, tr.From, tr.To)
			}
			if tr.From == AnyStateName && tr.Phase == 0 {
				return fmt.Errorf("layer %s: any-state transition to %s needs a phase condition", layer.Name, tr.To)
			}
			if tr.Duration < 0 {
				return fmt.Errorf("layer %s: transition %s -> %s has negative duration", layer.Name, tr.From, tr.To)
			}
		}
	}

	return nil
}

// StateFullName 返回状态的全路径名 "<层名>.<状态名>"
func StateFullName(layerName, stateName string) string {
	return layerName + "." + stateName
}

// TransitionFullName 返回转换的全路径名 "<层名>.<源> -> <层名>.<目标>"
func TransitionFullName(layerName, from, to string) string {
	return StateFullName(layerName, from) + " -> " + StateFullName(layerName, to)
}
