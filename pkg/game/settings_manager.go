package game

import (
	"fmt"
	"log"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MotionSettings 用户可调的运动设置
// 覆盖 data/motions.yaml 中行走/奔跑运动的部分参数
type MotionSettings struct {
	// DefaultToRun 默认奔跑（按住奔跑键时步行）
	DefaultToRun bool `yaml:"defaultToRun"`

	// PivotLocomotion 使用转身型移动（WalkRunPivot）代替横移型移动（WalkRunStrafe）
	PivotLocomotion bool `yaml:"pivotLocomotion"`

	// WalkSpeed/RunSpeed 覆盖速度（单位/秒），0 表示使用根运动
	WalkSpeed float64 `yaml:"walkSpeed"`
	RunSpeed  float64 `yaml:"runSpeed"`

	// RotationSpeed 旋转角速度（度/秒），0 表示保留配置值
	RotationSpeed float64 `yaml:"rotationSpeed"`

	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *MotionSettings {
	return &MotionSettings{
		DefaultToRun:    false,
		PivotLocomotion: false,
		WalkSpeed:       0,
		RunSpeed:        0,
		RotationSpeed:   0,
		Fullscreen:      false,
	}
}

// ApplyTo 把设置写入运动集配置
//
// 只修改行走/奔跑类运动；两种移动方式中只启用 PivotLocomotion 选中的一种。
func (s *MotionSettings) ApplyTo(cfg *config.MotionSetConfig) {
	if cfg == nil {
		return
	}

	for i := range cfg.Motions {
		m := &cfg.Motions[i]
		switch m.Type {
		case config.MotionTypeWalkRunStrafe, config.MotionTypeWalkRunPivot:
		default:
			continue
		}

		m.DefaultToRun = s.DefaultToRun
		if s.WalkSpeed > 0 {
			m.WalkSpeed = s.WalkSpeed
		}
		if s.RunSpeed > 0 {
			m.RunSpeed = s.RunSpeed
		}
		if s.RotationSpeed > 0 {
			m.RotationSpeed = s.RotationSpeed
		}

		enabled := (m.Type == config.MotionTypeWalkRunPivot) == s.PivotLocomotion
		m.Enabled = &enabled
	}
}

// SettingsManager 设置管理器
// 负责运动设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *MotionSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "motion"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留用于未来的初始化错误（加载失败不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或设置不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 从默认值开始解码，缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.clamp()

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *MotionSettings {
	return sm.settings
}

// SetDefaultToRun 设置默认奔跑
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDefaultToRun(enabled bool) {
	sm.settings.DefaultToRun = enabled
}

// SetPivotLocomotion 切换转身型/横移型移动
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetPivotLocomotion(enabled bool) {
	sm.settings.PivotLocomotion = enabled
}

// SetSpeeds 设置步行/奔跑覆盖速度，负值被限制为 0
func (sm *SettingsManager) SetSpeeds(walk, run float64) {
	sm.settings.WalkSpeed = clampNonNegative(walk)
	sm.settings.RunSpeed = clampNonNegative(run)
}

// SetRotationSpeed 设置旋转角速度，负值被限制为 0
func (sm *SettingsManager) SetRotationSpeed(degreesPerSecond float64) {
	sm.settings.RotationSpeed = clampNonNegative(degreesPerSecond)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

func (s *MotionSettings) clamp() {
	s.WalkSpeed = clampNonNegative(s.WalkSpeed)
	s.RunSpeed = clampNonNegative(s.RunSpeed)
	s.RotationSpeed = clampNonNegative(s.RotationSpeed)
}

// clampNonNegative 将负值限制为 0
func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
