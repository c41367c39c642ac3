package config

import (
	"strings"
	"testing"
)

func TestParseInputBindingsConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid config",
			yamlContent: `
aliases:
  Run: ["ShiftLeft"]
movement:
  left: ["A"]
  right: ["D"]
gamepadDeadzone: 0.2
`,
		},
		{
			name:        "deadzone out of range",
			yamlContent: `gamepadDeadzone: 1.0`,
			wantErr:     true,
			errContains: "gamepadDeadzone",
		},
		{
			name: "alias without keys",
			yamlContent: `
aliases:
  Run: []
`,
			wantErr:     true,
			errContains: "has no keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInputBindingsConfig([]byte(tt.yamlContent))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInputBindingsConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}

func TestLoadInputBindingsConfig_DataFile(t *testing.T) {
	cfg, err := LoadInputBindingsConfig("../../data/input_bindings.yaml")
	if err != nil {
		t.Fatalf("failed to load data/input_bindings.yaml: %v", err)
	}
	for _, alias := range []string{"Run", "ChangeCover", "CameraRotate", "DebugPush"} {
		if len(cfg.Aliases[alias]) == 0 {
			t.Errorf("alias %s not bound", alias)
		}
	}
	if len(cfg.Movement.Up) == 0 || len(cfg.Movement.Down) == 0 {
		t.Errorf("movement axis not bound")
	}
}
