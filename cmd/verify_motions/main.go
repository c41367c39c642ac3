// Package main provides a headless motion verification tool.
//
// It loads the training arena, drives the player with a scripted input
// source and prints a timeline of motion activations and animator phase
// writes. No window is opened.
//
// Usage:
//
//	go run ./cmd/verify_motions [flags]
//
// Flags:
//
//	--scenario <name>  walk | run | cover | push | pivot | all (default: all)
//	--data <dir>       Directory containing the yaml configs (default: "data")
//	--fps <n>          Simulated frames per second (default: 60)
//	--verbose          Enable verbose logging
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/locomotion/pkg/components"
	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/ecs"
	"github.com/decker502/locomotion/pkg/game"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/scenes"
)

var (
	scenarioFlag = flag.String("scenario", "all", "Scenario to run (walk, run, cover, push, pivot, all)")
	dataFlag     = flag.String("data", "data", "Directory containing yaml configs")
	fpsFlag      = flag.Int("fps", 60, "Simulated frames per second")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging")
)

// scriptStep 一段脚本输入：开始时调用 apply，然后运行 duration 秒
type scriptStep struct {
	label    string
	duration float64
	apply    func(src *input.ScriptedSource)
}

// scenario 验证场景
type scenario struct {
	name     string
	settings game.MotionSettings
	steps    []scriptStep
}

func move(x, y float64) func(*input.ScriptedSource) {
	return func(src *input.ScriptedSource) { src.SetMovement(x, y) }
}

func scenarios() []scenario {
	return []scenario{
		{
			name: "walk",
			steps: []scriptStep{
				{"idle", 0.5, move(0, 0)},
				{"forward", 1.5, move(0, 1)},
				{"release", 1.0, move(0, 0)},
			},
		},
		{
			name: "run",
			steps: []scriptStep{
				{"run forward", 1.5, func(src *input.ScriptedSource) {
					src.Press(input.AliasRun)
					src.SetMovement(0, 1)
				}},
				{"strafe right", 1.0, move(1, 0)},
				{"release", 1.0, func(src *input.ScriptedSource) {
					src.Release(input.AliasRun)
					src.SetMovement(0, 0)
				}},
			},
		},
		{
			name: "cover",
			steps: []scriptStep{
				{"approach wall", 3.0, move(0, 1)},
				{"take cover", 0.5, func(src *input.ScriptedSource) {
					src.SetMovement(0, 0)
					src.Tap(input.AliasCover)
				}},
				{"strafe right", 2.5, move(1, 0)},
				{"strafe left", 2.5, move(-1, 0)},
				{"leave cover", 1.0, func(src *input.ScriptedSource) {
					src.SetMovement(0, 0)
					src.Tap(input.AliasCover)
				}},
			},
		},
		{
			name: "push",
			steps: []scriptStep{
				{"idle", 0.5, move(0, 0)},
				{"push", 2.5, func(src *input.ScriptedSource) { src.Tap(input.AliasPush) }},
			},
		},
		{
			name:     "pivot",
			settings: game.MotionSettings{PivotLocomotion: true},
			steps: []scriptStep{
				{"forward", 1.5, move(0, 1)},
				{"tap back", 0.1, move(0, -1)},
				{"release", 1.0, move(0, 0)},
				{"hold back", 1.5, move(0, -1)},
				{"release", 1.0, move(0, 0)},
			},
		},
	}
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}
	if *fpsFlag <= 0 {
		fmt.Fprintf(os.Stderr, "invalid --fps %d\n", *fpsFlag)
		os.Exit(2)
	}

	selected := scenarios()
	if *scenarioFlag != "all" {
		var filtered []scenario
		for _, s := range selected {
			if s.name == *scenarioFlag {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenarioFlag)
			os.Exit(2)
		}
		selected = filtered
	}

	failed := false
	for _, s := range selected {
		if err := run(s, *dataFlag, 1.0/float64(*fpsFlag)); err != nil {
			fmt.Fprintf(os.Stderr, "scenario %s: %v\n", s.name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// run 运行单个场景并输出时间线
func run(s scenario, dataDir string, deltaTime float64) error {
	arena, err := config.LoadArenaConfig(filepath.Join(dataDir, "arena.yaml"))
	if err != nil {
		return err
	}
	anim, err := config.LoadAnimatorConfig(filepath.Join(dataDir, "animator.yaml"))
	if err != nil {
		return err
	}
	motionCfg, err := config.LoadMotionSetConfig(filepath.Join(dataDir, "motions.yaml"))
	if err != nil {
		return err
	}
	s.settings.ApplyTo(motionCfg)

	src := input.NewScriptedSource()
	scene, err := scenes.NewTrainingScene(scenes.TrainingSceneOptions{
		Arena:    arena,
		Animator: anim,
		Motions:  motionCfg,
		Input:    src,
		Verbose:  *verboseFlag,
	})
	if err != nil {
		return err
	}

	em := scene.EntityManager()
	actorComp, _ := ecs.GetComponent[*components.ActorComponent](em, scene.PlayerID())
	ctrlComp, _ := ecs.GetComponent[*components.MotionControllerComponent](em, scene.PlayerID())
	animComp, _ := ecs.GetComponent[*components.AnimatorComponent](em, scene.PlayerID())
	if actorComp == nil || ctrlComp == nil || animComp == nil {
		return fmt.Errorf("player entity is incomplete")
	}

	fmt.Printf("=== %s ===\n", s.name)
	t := newTimeline(ctrlComp, animComp)

	elapsed := 0.0
	for _, step := range s.steps {
		step.apply(src)
		fmt.Printf("%7.3fs  > %s\n", elapsed, step.label)

		frames := int(step.duration/deltaTime + 0.5)
		for i := 0; i < frames; i++ {
			scene.Update(deltaTime)
			elapsed += deltaTime
			t.record(elapsed, actorComp)
		}
	}

	pos := actorComp.Actor.Position()
	fmt.Printf("%7.3fs  = final pos(%.2f, %.2f, %.2f)  %s\n\n",
		elapsed, pos.X(), pos.Y(), pos.Z(), t.activeSummary())
	return nil
}

// timeline 记录运动切换与阶段写入
type timeline struct {
	ctrl       *components.MotionControllerComponent
	anim       *components.AnimatorComponent
	active     map[int]string
	phaseCount int
}

func newTimeline(ctrl *components.MotionControllerComponent, anim *components.AnimatorComponent) *timeline {
	return &timeline{
		ctrl:   ctrl,
		anim:   anim,
		active: make(map[int]string),
	}
}

func (t *timeline) record(elapsed float64, actorComp *components.ActorComponent) {
	for _, layer := range t.ctrl.Controller.Layers() {
		name := "-"
		if m := layer.ActiveMotion(); m != nil {
			name = m.Name()
		}
		if prev, ok := t.active[layer.Index]; !ok || prev != name {
			pos := actorComp.Actor.Position()
			fmt.Printf("%7.3fs  [%s] %s -> %s  pos(%.2f, %.2f, %.2f)\n",
				elapsed, layer.Name, orDash(prev), name, pos.X(), pos.Y(), pos.Z())
			t.active[layer.Index] = name
		}
	}

	writes := t.anim.Graph.PhaseWrites()
	for _, w := range writes[t.phaseCount:] {
		fmt.Printf("%7.3fs    phase L%d = %d  (%s)\n",
			elapsed, w.Layer, w.Phase, t.anim.Graph.CurrentStateName(w.Layer))
	}
	t.phaseCount = len(writes)
}

func (t *timeline) activeSummary() string {
	layers := make([]int, 0, len(t.active))
	for idx := range t.active {
		layers = append(layers, idx)
	}
	sort.Ints(layers)

	parts := make([]string, 0, len(layers))
	for _, idx := range layers {
		parts = append(parts, fmt.Sprintf("L%d=%s", idx, t.active[idx]))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
