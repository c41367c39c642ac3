package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArenaConfig 演示场景配置
// 定义了碰撞盒（墙体/掩体）和角色出生点
//
// 配置文件位置: data/arena.yaml
type ArenaConfig struct {
	Name  string       `yaml:"name"`  // 场景名称
	Spawn SpawnConfig  `yaml:"spawn"` // 玩家出生点
	Walls []WallConfig `yaml:"walls"` // 碰撞盒列表
	Dummy *SpawnConfig `yaml:"dummy"` // 可选：无输入的陪练角色
}

// SpawnConfig 出生点
type SpawnConfig struct {
	Position [3]float64 `yaml:"position"` // 世界坐标 (x, y, z)
	Yaw      float64    `yaml:"yaw"`      // 初始朝向（度）
}

// WallConfig 轴对齐碰撞盒
type WallConfig struct {
	Name   string     `yaml:"name"`
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`
}

// LoadArenaConfig 从文件加载场景配置
func LoadArenaConfig(path string) (*ArenaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read arena config: %w", err)
	}
	return ParseArenaConfig(data)
}

// ParseArenaConfig 解析并验证场景配置
func ParseArenaConfig(data []byte) (*ArenaConfig, error) {
	var config ArenaConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse arena config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arena config: %w", err)
	}
	return &config, nil
}

// Validate 验证配置有效性
func (c *ArenaConfig) Validate() error {
	names := make(map[string]bool, len(c.Walls))
	for i, w := range c.Walls {
		if w.Name == "" {
			return fmt.Errorf("wall %d has no name", i)
		}
		if names[w.Name] {
			return fmt.Errorf("duplicate wall name: %s", w.Name)
		}
		names[w.Name] = true
		for axis, v := range w.Size {
			if v <= 0 {
				return fmt.Errorf("wall %s: size[%d] must be > 0, got %.2f", w.Name, axis, v)
			}
		}
	}
	return nil
}
