package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/locomotion/pkg/app"
	"github.com/decker502/locomotion/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	pivot := flag.Bool("pivot", false, "使用转身型移动（WalkRunPivot）")
	flag.Parse()

	// 初始化嵌入数据
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Pivot:   *pivot,
	})
	if err != nil {
		// NewApp 在非 verbose 模式下会关闭日志输出
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Locomotion Motions")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
