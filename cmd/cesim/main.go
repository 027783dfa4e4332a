package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/config"
	"github.com/rhmoon-github/cesimAnalyze/internal/report"
	"github.com/rhmoon-github/cesimAnalyze/internal/server"
	"github.com/rhmoon-github/cesimAnalyze/internal/util"
)

var (
	inputDir  = flag.String("input", "", "结果文件目录 (覆盖配置文件)")
	outputDir = flag.String("output", "", "报告输出目录 (覆盖配置文件)")
	team      = flag.String("team", "", "仅生成指定队伍的报告")
	serve     = flag.Bool("serve", false, "以服务模式启动")
	port      = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode   = flag.Bool("dev", false, "开发模式")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Cesim - 企业模拟经营战报分析工具")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *inputDir != "" {
		cfg.Data.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.Data.OutputDir = *outputDir
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	if *serve {
		runServer(cfg)
		return
	}

	runBatch(cfg, *team)
}

// runBatch 批处理模式：读取结果文件，生成报告写入输出目录
func runBatch(cfg *config.AppConfig, team string) {
	fmt.Printf("结果目录: %s\n", cfg.Data.InputDir)

	result, err := analyzer.New(cfg).Run()
	if err != nil {
		log.Fatalf("分析失败: %v", err)
	}

	outDir, err := config.EnsureOutputDir(cfg)
	if err != nil {
		log.Fatalf("创建输出目录失败: %v", err)
	}

	if team != "" {
		md, err := report.Team(result, team, cfg.Analysis.Regions)
		if err != nil {
			log.Fatalf("生成队伍报告失败: %v", err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s-分析报告.md", team))
		if err := os.WriteFile(path, []byte(md), 0644); err != nil {
			log.Fatalf("写入报告失败: %v", err)
		}
		fmt.Printf("队伍报告已生成: %s\n", path)

		gapMD, err := report.Gap(result, team)
		if err != nil {
			log.Fatalf("生成差距对比报告失败: %v", err)
		}
		gapPath := filepath.Join(outDir, fmt.Sprintf("%s-差距对比分析.md", team))
		if err := os.WriteFile(gapPath, []byte(gapMD), 0644); err != nil {
			log.Fatalf("写入差距对比报告失败: %v", err)
		}
		fmt.Printf("差距对比报告已生成: %s\n", gapPath)
		return
	}

	md := report.Comprehensive(result, cfg.Analysis.Regions)
	path := filepath.Join(outDir, "综合分析报告.md")
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		log.Fatalf("写入报告失败: %v", err)
	}
	fmt.Printf("综合报告已生成: %s\n", path)

	// 顺带为每支队伍生成单独报告
	for _, t := range result.Teams {
		teamMD, err := report.Team(result, t, cfg.Analysis.Regions)
		if err != nil {
			log.Printf("生成 %s 报告失败: %v", t, err)
			continue
		}
		teamPath := filepath.Join(outDir, fmt.Sprintf("%s-分析报告.md", t))
		if err := os.WriteFile(teamPath, []byte(teamMD), 0644); err != nil {
			log.Printf("写入 %s 报告失败: %v", t, err)
			continue
		}
		fmt.Printf("队伍报告已生成: %s\n", teamPath)
	}
}

// runServer 服务模式：启动 HTTP 服务并打开浏览器
func runServer(cfg *config.AppConfig) {
	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭数据库失败: %v", err)
	}
}
