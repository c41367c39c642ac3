package config

import (
	"strings"
	"testing"
)

func TestParseAnimatorConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid config",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states:
      - { name: "Idle", duration: 1 }
      - { name: "Move", duration: 1, rootMotion: { mode: input, speed: 2 } }
    transitions:
      - { from: AnyState, to: "Move", phase: 100 }
      - { from: "Move", to: "Idle", exitTime: 1 }
`,
		},
		{
			name:        "no layers",
			yamlContent: `layers: []`,
			wantErr:     true,
			errContains: "no layers",
		},
		{
			name: "missing default state",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Missing"
    states: [{ name: "Idle", duration: 1 }]
`,
			wantErr:     true,
			errContains: "default state",
		},
		{
			name: "duplicate state",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1 }, { name: "Idle", duration: 1 }]
`,
			wantErr:     true,
			errContains: "duplicate state",
		},
		{
			name: "non positive duration",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 0 }]
`,
			wantErr:     true,
			errContains: "duration",
		},
		{
			name: "bad velocity",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1, rootMotion: { velocity: [1, 2] } }]
`,
			wantErr:     true,
			errContains: "3 components",
		},
		{
			name: "unknown root motion mode",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1, rootMotion: { mode: curve } }]
`,
			wantErr:     true,
			errContains: "root motion mode",
		},
		{
			name: "transition without condition",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1 }, { name: "Move", duration: 1 }]
    transitions: [{ from: "Idle", to: "Move" }]
`,
			wantErr:     true,
			errContains: "phase or exitTime",
		},
		{
			name: "any state needs phase",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1 }, { name: "Move", duration: 1 }]
    transitions: [{ from: AnyState, to: "Move", exitTime: 0.5 }]
`,
			wantErr:     true,
			errContains: "any-state",
		},
		{
			name: "unknown target",
			yamlContent: `
layers:
  - name: "Base Layer"
    defaultState: "Idle"
    states: [{ name: "Idle", duration: 1 }]
    transitions: [{ from: "Idle", to: "Run", phase: 1 }]
`,
			wantErr:     true,
			errContains: "target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseAnimatorConfig([]byte(tt.yamlContent))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAnimatorConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if len(cfg.Layers) != 1 || len(cfg.Layers[0].Transitions) != 2 {
				t.Errorf("unexpected parsed config: %+v", cfg)
			}
		})
	}
}

func TestFullNames(t *testing.T) {
	if got := StateFullName("Base Layer", "Idle-SM.IdlePose"); got != "Base Layer.Idle-SM.IdlePose" {
		t.Errorf("StateFullName() = %q", got)
	}
	want := "Base Layer.AnyState -> Base Layer.Idle"
	if got := TransitionFullName("Base Layer", AnyStateName, "Idle"); got != want {
		t.Errorf("TransitionFullName() = %q, want %q", got, want)
	}
}

func TestLoadAnimatorConfig_DataFile(t *testing.T) {
	cfg, err := LoadAnimatorConfig("../../data/animator.yaml")
	if err != nil {
		t.Fatalf("failed to load data/animator.yaml: %v", err)
	}

	motions, err := LoadMotionSetConfig("../../data/motions.yaml")
	if err != nil {
		t.Fatalf("failed to load data/motions.yaml: %v", err)
	}
	// 运动层名必须与状态图层顺序一致
	if len(cfg.Layers) != len(motions.LayerNames) {
		t.Fatalf("animator has %d layers, motions expect %d", len(cfg.Layers), len(motions.LayerNames))
	}
	for i, name := range motions.LayerNames {
		if cfg.Layers[i].Name != name {
			t.Errorf("layer %d = %q, want %q", i, cfg.Layers[i].Name, name)
		}
	}
}
