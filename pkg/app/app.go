// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/locomotion/pkg/config"
	"github.com/decker502/locomotion/pkg/embedded"
	"github.com/decker502/locomotion/pkg/game"
	"github.com/decker502/locomotion/pkg/input"
	"github.com/decker502/locomotion/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

const (
	// WindowWidth/WindowHeight 逻辑屏幕尺寸
	WindowWidth  = 960
	WindowHeight = 640

	// AppName gdata 存储目录名
	AppName = "locomotion"

	deltaTime = 1.0 / 60.0
)

// 数据文件路径（相对于嵌入的 data/ 目录）
const (
	arenaConfigPath    = "data/arena.yaml"
	animatorConfigPath = "data/animator.yaml"
	motionsConfigPath  = "data/motions.yaml"
	bindingsConfigPath = "data/input_bindings.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Pivot 强制使用转身型移动（覆盖已保存的设置）
	Pivot bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
//
// 快捷键：
//   - F11: 切换全屏
//   - F2:  切换横移型/转身型移动（保存设置并重建场景）
//   - F3:  切换调试文本
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	input           *input.EbitenSource
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	bindingsData, err := embedded.ReadFile(bindingsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("输入绑定读取失败: %w", err)
	}
	bindings, err := config.ParseInputBindingsConfig(bindingsData)
	if err != nil {
		return nil, fmt.Errorf("输入绑定加载失败: %w", err)
	}
	source, err := input.NewEbitenSource(bindings)
	if err != nil {
		return nil, fmt.Errorf("输入源创建失败: %w", err)
	}
	if input.IsTouchPlatform() {
		source.EnableTouch(WindowWidth, input.AliasCover)
	}

	// gdata 打开失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置管理器创建失败: %w", err)
	}
	if cfg.Pivot {
		settingsManager.SetPivotLocomotion(true)
	}
	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	a := &App{
		sceneManager:    game.NewSceneManager(),
		settingsManager: settingsManager,
		input:           source,
		verbose:         cfg.Verbose,
	}
	a.sceneManager.SetSceneFactory(a.buildScene)

	if err := a.sceneManager.Reload(); err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}
	return a, nil
}

// buildScene 读取嵌入配置、应用设置并创建训练场景
func (a *App) buildScene() (game.Scene, error) {
	arenaData, err := embedded.ReadFile(arenaConfigPath)
	if err != nil {
		return nil, err
	}
	arena, err := config.ParseArenaConfig(arenaData)
	if err != nil {
		return nil, err
	}

	animData, err := embedded.ReadFile(animatorConfigPath)
	if err != nil {
		return nil, err
	}
	anim, err := config.ParseAnimatorConfig(animData)
	if err != nil {
		return nil, err
	}

	motionsData, err := embedded.ReadFile(motionsConfigPath)
	if err != nil {
		return nil, err
	}
	motionCfg, err := config.ParseMotionSetConfig(motionsData)
	if err != nil {
		return nil, err
	}
	a.settingsManager.GetSettings().ApplyTo(motionCfg)

	log.Printf("[App] Building scene (pivot locomotion: %v)", a.settingsManager.GetSettings().PivotLocomotion)
	return scenes.NewTrainingScene(scenes.TrainingSceneOptions{
		Arena:    arena,
		Animator: anim,
		Motions:  motionCfg,
		Input:    a.input,
		Verbose:  a.verbose,
	})
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// F2 切换移动方式
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		settings := a.settingsManager.GetSettings()
		a.settingsManager.SetPivotLocomotion(!settings.PivotLocomotion)
		if err := a.settingsManager.Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
		if err := a.sceneManager.Reload(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	// F3 切换调试文本
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		if scene, ok := a.sceneManager.GetCurrentScene().(*scenes.TrainingScene); ok {
			scene.SetShowText(!scene.ShowText())
		}
	}

	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}

	a.settingsManager.SetFullscreen(!a.settingsManager.GetSettings().Fullscreen)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
