package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InputBindingsConfig 输入别名绑定配置
//
// 配置文件位置: data/input_bindings.yaml
type InputBindingsConfig struct {
	// Aliases 别名 -> ebiten 按键名列表（如 "ShiftLeft", "C"）
	Aliases map[string][]string `yaml:"aliases"`

	// Movement 移动轴按键
	Movement AxisKeysConfig `yaml:"movement"`

	// View 视角轴按键
	View AxisKeysConfig `yaml:"view"`

	// GamepadDeadzone 手柄摇杆死区
	GamepadDeadzone float64 `yaml:"gamepadDeadzone"`
}

// AxisKeysConfig 由按键模拟的二维轴
type AxisKeysConfig struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
}

// LoadInputBindingsConfig 从文件加载输入绑定
func LoadInputBindingsConfig(path string) (*InputBindingsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input bindings: %w", err)
	}
	return ParseInputBindingsConfig(data)
}

// ParseInputBindingsConfig 解析并验证输入绑定
func ParseInputBindingsConfig(data []byte) (*InputBindingsConfig, error) {
	var config InputBindingsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse input bindings: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input bindings: %w", err)
	}
	return &config, nil
}

// Validate 验证配置有效性
func (c *InputBindingsConfig) Validate() error {
	if c.GamepadDeadzone < 0 || c.GamepadDeadzone >= 1 {
		return fmt.Errorf("gamepadDeadzone must be in [0, 1), got %.2f", c.GamepadDeadzone)
	}
	for alias, keys := range c.Aliases {
		if alias == "" {
			return fmt.Errorf("empty alias name")
		}
		if len(keys) == 0 {
			return fmt.Errorf("alias %s has no keys", alias)
		}
	}
	return nil
}
