package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/storefront-next/internal/app"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	release := cfg.Server.Mode == "release"
	for _, warning := range startupWarnings(cfg) {
		if release && warning.fatal {
			stdLog.Fatalf("%s", warning.message)
		}
		stdLog.Printf("警告: %s", warning.message)
	}
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

type startupWarning struct {
	message string
	fatal   bool // release 模式下拒绝启动
}

func startupWarnings(cfg *config.Config) []startupWarning {
	var warnings []startupWarning
	if isWeakSecret(cfg.UserJWT.SecretKey) {
		warnings = append(warnings, startupWarning{message: "用户 JWT secret 过弱或仍为默认值，请配置强随机密钥", fatal: true})
	}
	if strings.EqualFold(cfg.Storage.Driver, constants.StorageDriverMemory) {
		warnings = append(warnings, startupWarning{message: "storage.driver=memory，重启后购物车与账号数据会丢失"})
	}
	if !cfg.Notify.Enabled {
		warnings = append(warnings, startupWarning{message: "邮件中继未启用，通知仅记录到设备日志"})
	}
	return warnings
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║                 🛒 Storefront-Next API 启动中                 ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "  ___ _                __                  _   " + ansiReset)
	fmt.Println(ansiCyan + " / __| |_ ___ _ _ ___ / _|_ _ ___ _ _  _ _| |_ " + ansiReset)
	fmt.Println(ansiCyan + " \\__ \\  _/ _ \\ '_/ -_)  _| '_/ _ \\ ' \\| |  _|" + ansiReset)
	fmt.Println(ansiCyan + " |___/\\__\\___/_| \\___|_| |_| \\___/_||_|_|\\__|" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Modes" + ansiReset)
	fmt.Println(ansiBlue + "• all:     HTTP API + 通知 Worker（队列启用时）" + ansiReset)
	fmt.Println(ansiBlue + "• api:     仅 HTTP API" + ansiReset)
	fmt.Println(ansiBlue + "• worker:  仅通知 Worker" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
