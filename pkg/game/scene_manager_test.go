package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type countingScene struct {
	updates int
	lastDt  float64
}

func (s *countingScene) Update(deltaTime float64) {
	s.updates++
	s.lastDt = deltaTime
}

func (s *countingScene) Draw(screen *ebiten.Image) {}

// TestSceneManager_Update 测试只有活动场景会被更新
func TestSceneManager_Update(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Fatal("new SceneManager should have no scene")
	}
	// 没有场景时不应崩溃
	sm.Update(0.1)

	first := &countingScene{}
	second := &countingScene{}
	sm.SwitchTo(first)
	sm.Update(0.1)
	sm.SwitchTo(second)
	sm.Update(0.2)

	if first.updates != 1 || second.updates != 1 {
		t.Errorf("updates = %d/%d, want 1/1", first.updates, second.updates)
	}
	if second.lastDt != 0.2 {
		t.Errorf("lastDt = %v, want 0.2", second.lastDt)
	}
}

// TestSceneManager_Reload 测试工厂重建与失败时保留当前场景
func TestSceneManager_Reload(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Reload(); err == nil {
		t.Error("Reload() without factory should fail")
	}

	builds := 0
	fail := false
	sm.SetSceneFactory(func() (Scene, error) {
		if fail {
			return nil, errors.New("boom")
		}
		builds++
		return &countingScene{}, nil
	})

	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	current := sm.GetCurrentScene()
	if current == nil || builds != 1 {
		t.Fatalf("Reload() did not switch scene (builds=%d)", builds)
	}

	fail = true
	if err := sm.Reload(); err == nil {
		t.Error("Reload() should report factory error")
	}
	if sm.GetCurrentScene() != current {
		t.Error("failed Reload() should keep the current scene")
	}
}
