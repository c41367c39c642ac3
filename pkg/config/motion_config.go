package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 运动类型
const (
	MotionTypeIdle          = "idle"
	MotionTypeWalkRunStrafe = "walk_run_strafe"
	MotionTypeWalkRunPivot  = "walk_run_pivot"
	MotionTypeCoverStrafe   = "cover_strafe"
	MotionTypePushedBack    = "pushed_back"
	MotionTypeFormOverride  = "form_override"
)

// MotionSetConfig 一个角色的全部运动配置
//
// 配置文件位置: data/motions.yaml
type MotionSetConfig struct {
	// LayerNames 运动层名（索引即动画层号）
	LayerNames []string `yaml:"layers"`

	// InputSmoothingSamples 控制器输入幅度趋势的平滑样本数
	InputSmoothingSamples int `yaml:"inputSmoothingSamples"`

	Motions []MotionConfig `yaml:"motions"`
}

// MotionConfig 单个运动的配置
type MotionConfig struct {
	Type     string `yaml:"type"`
	Name     string `yaml:"name"`
	Layer    int    `yaml:"layer"`
	Priority int    `yaml:"priority"`
	Enabled  *bool  `yaml:"enabled,omitempty"`

	// Form 运动形态（如持武器/徒手），0 表示默认
	Form int `yaml:"form"`

	// ActionAlias 激活/切换用的输入别名
	ActionAlias string `yaml:"actionAlias,omitempty"`

	// RequiredStances 允许激活的姿态 ID 列表（逗号分隔，空表示不限）
	RequiredStances string `yaml:"requiredStances,omitempty"`

	// ArmsOverride 形态不一致时在其它层激活的手臂覆盖运动名
	ArmsOverride string `yaml:"armsOverride,omitempty"`

	// SmoothingSamples 输入平滑样本数
	SmoothingSamples int `yaml:"smoothingSamples"`

	// RotationSpeed 最大旋转角速度（度/秒），0 表示瞬间旋转
	RotationSpeed float64 `yaml:"rotationSpeed"`

	RotateWithCamera bool `yaml:"rotateWithCamera,omitempty"`
	RotateWithInput  bool `yaml:"rotateWithInput,omitempty"`

	// ActivationThreshold 激活所需的输入幅度
	ActivationThreshold float64 `yaml:"activationThreshold"`

	// StopDelay 输入接近零多久后停止（秒）
	StopDelay float64 `yaml:"stopDelay"`

	// DefaultToRun 默认奔跑（按住动作键时步行）
	DefaultToRun bool `yaml:"defaultToRun,omitempty"`

	// WalkSpeed/RunSpeed 覆盖速度（单位/秒），0 表示使用根运动
	WalkSpeed float64 `yaml:"walkSpeed"`
	RunSpeed  float64 `yaml:"runSpeed"`

	// StopDamping 停止状态下根运动的缩放
	StopDamping float64 `yaml:"stopDamping"`

	// TapDelay 轻点判定窗口（秒）
	TapDelay float64 `yaml:"tapDelay"`

	// TapThreshold 开始轻点计时的输入幅度
	TapThreshold float64 `yaml:"tapThreshold"`

	// MinPivotAngle 触发原地转身的最小输入角度（度）
	MinPivotAngle float64 `yaml:"minPivotAngle"`

	Cover CoverConfig `yaml:"cover,omitempty"`
	Push  PushConfig  `yaml:"push,omitempty"`

	// defaulted 已按类型填充默认值（解码时设置），ApplyDefaults 不再覆盖显式的 0
	defaulted bool
}

// CoverConfig 掩体运动配置
type CoverConfig struct {
	Distance       float64 `yaml:"distance"`       // 掩体检测距离
	HighHeight     float64 `yaml:"highHeight"`     // 高掩体射线高度
	LowHeight      float64 `yaml:"lowHeight"`      // 低掩体射线高度
	WallOffset     float64 `yaml:"wallOffset"`     // 贴墙时与墙面的距离
	StrafeSpeed    float64 `yaml:"strafeSpeed"`    // 沿墙横移速度
	ViewDistance   float64 `yaml:"viewDistance"`   // 拐角探测的侧向偏移
	CornerStep     float64 `yaml:"cornerStep"`     // 拐角探测步长
	CameraOffset   float64 `yaml:"cameraOffset"`   // 拐角处相机横向偏移
	CameraSpeed    float64 `yaml:"cameraSpeed"`    // 相机锚点移动速度
	ExitDistance   float64 `yaml:"exitDistance"`   // 离开掩体的后退距离
	ExitDuration   float64 `yaml:"exitDuration"`   // 离开掩体耗时
	ExitEasing     string  `yaml:"exitEasing"`     // 离开掩体缓动
	ExitInputAngle float64 `yaml:"exitInputAngle"` // 输入背离墙面超过此角度时离开
}

// PushConfig 被推开运动配置
type PushConfig struct {
	Drag       float64 `yaml:"drag"`       // 每个固定帧的速度衰减系数
	MinSpeed   float64 `yaml:"minSpeed"`   // 低于此速度结束
	MaxAge     float64 `yaml:"maxAge"`     // 最长持续时间（秒）
	FaceImpact bool    `yaml:"faceImpact"` // 是否转向冲击来源
}

// IsEnabled 运动是否启用（未配置时默认启用）
func (c *MotionConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Stances 解析允许的姿态列表
func (c *MotionConfig) Stances() []int {
	return ParseStanceList(c.RequiredStances)
}

// ParseStanceList 解析逗号分隔的姿态 ID 列表
//
// 无法解析的片段会被跳过，不会报错。
func ParseStanceList(list string) []int {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	parts := strings.Split(list, ",")
	stances := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			log.Printf("[MotionConfig] Warning: skipping invalid stance %q", part)
			continue
		}
		stances = append(stances, v)
	}
	return stances
}

// UnmarshalYAML 先按 type 填充默认值再解码
//
// 与 SettingsManager.Load 相同，从默认值开始解码：未出现的字段保持默认，
// 显式写出的 0（如 rotationSpeed: 0 表示瞬间旋转）会被保留。
func (c *MotionConfig) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}

	defaults := MotionConfig{Type: head.Type}
	defaults.ApplyDefaults()

	type plain MotionConfig
	decoded := plain(defaults)
	if err := value.Decode(&decoded); err != nil {
		return err
	}

	*c = MotionConfig(decoded)
	c.defaulted = true
	return nil
}

// ApplyDefaults 按运动类型填充未配置的参数
//
// 代码构造的配置以 0 表示未配置；从 yaml 解码的配置已填充过默认值，此处跳过。
func (c *MotionConfig) ApplyDefaults() {
	if c.defaulted {
		return
	}
	if c.SmoothingSamples == 0 {
		c.SmoothingSamples = 10
	}
	if c.StopDelay == 0 {
		c.StopDelay = 0.2
	}

	switch c.Type {
	case MotionTypeIdle:
		if c.RotationSpeed == 0 {
			c.RotationSpeed = 180
		}
	case MotionTypeWalkRunStrafe:
		if c.ActivationThreshold == 0 {
			c.ActivationThreshold = 0.49
		}
		if c.RotationSpeed == 0 {
			c.RotationSpeed = 360
		}
		if c.StopDamping == 0 {
			c.StopDamping = 0.5
		}
	case MotionTypeWalkRunPivot:
		if c.ActivationThreshold == 0 {
			c.ActivationThreshold = 0.49
		}
		if c.RotationSpeed == 0 {
			c.RotationSpeed = 360
		}
		if c.TapDelay == 0 {
			c.TapDelay = 0.2
		}
		if c.TapThreshold == 0 {
			c.TapThreshold = 0.1
		}
		if c.MinPivotAngle == 0 {
			c.MinPivotAngle = 20
		}
		if c.StopDamping == 0 {
			c.StopDamping = 0.5
		}
	case MotionTypeCoverStrafe:
		c.Cover.applyDefaults()
		if c.RotationSpeed == 0 {
			c.RotationSpeed = 540
		}
	case MotionTypePushedBack:
		c.Push.applyDefaults()
		if c.RotationSpeed == 0 {
			c.RotationSpeed = 720
		}
	}
}

func (c *CoverConfig) applyDefaults() {
	if c.Distance == 0 {
		c.Distance = 0.91
	}
	if c.HighHeight == 0 {
		c.HighHeight = 1.5
	}
	if c.LowHeight == 0 {
		c.LowHeight = 0.7
	}
	if c.WallOffset == 0 {
		c.WallOffset = 0.35
	}
	if c.StrafeSpeed == 0 {
		c.StrafeSpeed = 1.6
	}
	if c.ViewDistance == 0 {
		c.ViewDistance = 0.5
	}
	if c.CornerStep == 0 {
		c.CornerStep = 0.05
	}
	if c.CameraOffset == 0 {
		c.CameraOffset = 0.6
	}
	if c.CameraSpeed == 0 {
		c.CameraSpeed = 3
	}
	if c.ExitDistance == 0 {
		c.ExitDistance = 0.4
	}
	if c.ExitDuration == 0 {
		c.ExitDuration = 0.25
	}
	if c.ExitEasing == "" {
		c.ExitEasing = "outCubic"
	}
	if c.ExitInputAngle == 0 {
		c.ExitInputAngle = 135
	}
}

func (c *PushConfig) applyDefaults() {
	if c.Drag == 0 {
		c.Drag = 0.1
	}
	if c.MinSpeed == 0 {
		c.MinSpeed = 0.1
	}
	if c.MaxAge == 0 {
		c.MaxAge = 2
	}
}

// Validate 验证单个运动配置
func (c *MotionConfig) Validate() error {
	switch c.Type {
	case MotionTypeIdle, MotionTypeWalkRunStrafe, MotionTypeWalkRunPivot,
		MotionTypeCoverStrafe, MotionTypePushedBack, MotionTypeFormOverride:
	default:
		return fmt.Errorf("motion %q has unknown type %q", c.Name, c.Type)
	}
	if c.Name == "" {
		return fmt.Errorf("motion of type %s has no name", c.Type)
	}
	if c.Layer < 0 {
		return fmt.Errorf("motion %s: negative layer %d", c.Name, c.Layer)
	}
	if c.SmoothingSamples < 0 {
		return fmt.Errorf("motion %s: negative smoothingSamples", c.Name)
	}
	if c.RotationSpeed < 0 {
		return fmt.Errorf("motion %s: negative rotationSpeed", c.Name)
	}
	if c.WalkSpeed < 0 || c.RunSpeed < 0 {
		return fmt.Errorf("motion %s: override speeds must not be negative", c.Name)
	}
	if c.Type == MotionTypePushedBack && (c.Push.Drag <= 0 || c.Push.Drag >= 1) {
		return fmt.Errorf("motion %s: push drag must be in (0, 1), got %.3f", c.Name, c.Push.Drag)
	}
	if c.Type == MotionTypeCoverStrafe {
		if c.Cover.LowHeight >= c.Cover.HighHeight {
			return fmt.Errorf("motion %s: cover lowHeight(%.2f) must be below highHeight(%.2f)",
				c.Name, c.Cover.LowHeight, c.Cover.HighHeight)
		}
		if c.Cover.CornerStep <= 0 {
			return fmt.Errorf("motion %s: cover cornerStep must be positive", c.Name)
		}
	}
	return nil
}

// LoadMotionSetConfig 从文件加载运动配置
func LoadMotionSetConfig(path string) (*MotionSetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read motion config: %w", err)
	}
	return ParseMotionSetConfig(data)
}

// ParseMotionSetConfig 解析运动配置，填充默认值并验证
func ParseMotionSetConfig(data []byte) (*MotionSetConfig, error) {
	var config MotionSetConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse motion config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid motion config: %w", err)
	}

	return &config, nil
}

// ApplyDefaults 为所有运动填充默认值
func (c *MotionSetConfig) ApplyDefaults() {
	if len(c.LayerNames) == 0 {
		c.LayerNames = []string{"Base Layer"}
	}
	if c.InputSmoothingSamples == 0 {
		c.InputSmoothingSamples = 5
	}
	for i := range c.Motions {
		c.Motions[i].ApplyDefaults()
	}
}

// Validate 验证运动配置集合
func (c *MotionSetConfig) Validate() error {
	names := make(map[string]bool, len(c.Motions))
	for i := range c.Motions {
		m := &c.Motions[i]
		if err := m.Validate(); err != nil {
			return err
		}
		if names[m.Name] {
			return fmt.Errorf("duplicate motion name %s", m.Name)
		}
		if m.Layer >= len(c.LayerNames) {
			return fmt.Errorf("motion %s: layer %d out of range (%d layers)", m.Name, m.Layer, len(c.LayerNames))
		}
		names[m.Name] = true
	}
	for i := range c.Motions {
		m := &c.Motions[i]
		if m.ArmsOverride != "" && !names[m.ArmsOverride] {
			return fmt.Errorf("motion %s: arms override %q not found", m.Name, m.ArmsOverride)
		}
	}
	return nil
}

// Find 按名称查找运动配置
func (c *MotionSetConfig) Find(name string) *MotionConfig {
	for i := range c.Motions {
		if c.Motions[i].Name == name {
			return &c.Motions[i]
		}
	}
	return nil
}
