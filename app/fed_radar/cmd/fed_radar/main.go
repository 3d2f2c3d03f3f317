package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/engine"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/query"
)

var (
	flagconf   string
	keywords   string
	dateFilter string
	outPath    string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&keywords, "keywords", "", "comma separated keywords, eg: -keywords \"NSF,CHIPS Act\"")
	flag.StringVar(&dateFilter, "date", query.DefaultDateFilter, "date filter: d, w, m or y")
	flag.StringVar(&outPath, "out", "output/report.md", "markdown report output path")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动联邦动态雷达...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 组装引擎
	e, err := engine.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	// 4. 执行
	resp := e.Run(ctx, engine.RunOptions{
		Keywords:   splitKeywords(keywords),
		DateFilter: dateFilter,
		ProgressCallback: func(status string, progress int) {
			logger.Log.Debugf("进度 %3d%% %s", progress, status)
		},
	})
	if resp.Status != engine.StatusSuccess {
		logger.Log.Fatalf("处理失败: %s", resp.Message)
	}
	logger.Log.Info(resp.Message)

	if resp.ReportContent == "" {
		return
	}

	// 5. 写出报告
	if err := writeReport(outPath, resp.ReportContent); err != nil {
		logger.Log.Fatalf("写入报告失败: %v", err)
	}
	logger.Log.Infof("✅ 报告已生成: %s", outPath)
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func writeReport(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
