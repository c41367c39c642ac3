package config

import (
	"strings"
	"testing"
)

// TestParseArenaConfig 测试场景配置解析与验证
func TestParseArenaConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "有效配置",
			yaml: `
name: Test
spawn: {position: [1, 0, 2], yaw: 45}
walls:
  - {name: A, center: [0, 1, 3], size: [4, 2, 0.4]}
`,
		},
		{
			name:    "墙体缺少名称",
			yaml:    `walls: [{center: [0, 0, 0], size: [1, 1, 1]}]`,
			wantErr: "has no name",
		},
		{
			name: "墙体重名",
			yaml: `
walls:
  - {name: A, center: [0, 0, 0], size: [1, 1, 1]}
  - {name: A, center: [2, 0, 0], size: [1, 1, 1]}
`,
			wantErr: "duplicate wall name",
		},
		{
			name:    "尺寸为零",
			yaml:    `walls: [{name: A, center: [0, 0, 0], size: [1, 0, 1]}]`,
			wantErr: "size[1] must be > 0",
		},
		{
			name:    "YAML 格式错误",
			yaml:    `walls: [`,
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseArenaConfig([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseArenaConfig() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArenaConfig() error = %v", err)
			}
			if cfg.Spawn.Position != [3]float64{1, 0, 2} || cfg.Spawn.Yaw != 45 {
				t.Errorf("Spawn = %+v", cfg.Spawn)
			}
			if cfg.Dummy != nil {
				t.Errorf("Dummy should be nil when omitted")
			}
		})
	}
}

// TestLoadArenaConfig_DataFile 测试项目中的场景文件
func TestLoadArenaConfig_DataFile(t *testing.T) {
	cfg, err := LoadArenaConfig("../../data/arena.yaml")
	if err != nil {
		t.Fatalf("LoadArenaConfig() error = %v", err)
	}
	if len(cfg.Walls) < 2 {
		t.Errorf("expected at least 2 walls, got %d", len(cfg.Walls))
	}
	if cfg.Dummy == nil {
		t.Errorf("expected a dummy spawn")
	}

	// 至少一堵高墙和一个矮掩体
	var high, low bool
	for _, w := range cfg.Walls {
		if w.Size[1] >= 1.5 {
			high = true
		} else if w.Size[1] >= 0.7 {
			low = true
		}
	}
	if !high || !low {
		t.Errorf("arena should contain high and low cover: high=%v low=%v", high, low)
	}
}
