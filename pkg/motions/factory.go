package motions

import (
	"fmt"
	"log"

	"github.com/decker502/locomotion/pkg/config"
)

// NewMotion 按配置类型创建运动
func NewMotion(cfg config.MotionConfig) (Motion, error) {
	switch cfg.Type {
	case config.MotionTypeIdle:
		return NewIdle(cfg), nil
	case config.MotionTypeWalkRunStrafe:
		return NewWalkRunStrafe(cfg), nil
	case config.MotionTypeWalkRunPivot:
		return NewWalkRunPivot(cfg), nil
	case config.MotionTypeCoverStrafe:
		return NewCoverStrafe(cfg), nil
	case config.MotionTypePushedBack:
		return NewPushedBack(cfg), nil
	case config.MotionTypeFormOverride:
		return NewFormOverride(cfg), nil
	default:
		return nil, fmt.Errorf("unknown motion type %q for motion %q", cfg.Type, cfg.Name)
	}
}

// BuildController 由运动集配置创建控制器并注册全部运动
//
// 参数:
//   - actor: 被驱动的角色
//   - cfg: 已应用默认值并校验过的运动集配置
//
// 返回:
//   - *Controller: 尚未绑定状态图的控制器
//   - error: 配置中存在无法创建的运动时返回错误
func BuildController(actor Actor, cfg *config.MotionSetConfig) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("motion set config is nil")
	}

	c := NewController(actor, cfg.LayerNames, cfg.InputSmoothingSamples)
	for _, mc := range cfg.Motions {
		m, err := NewMotion(mc)
		if err != nil {
			return nil, err
		}
		if !c.AddMotion(m) {
			return nil, fmt.Errorf("failed to add motion %q", mc.Name)
		}
	}

	log.Printf("[MotionController] Built controller: %d layers, %d motions", len(c.layers), len(cfg.Motions))
	return c, nil
}
