package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/config"
	"github.com/talkincode/voltdesk/internal/adminapi"
	"github.com/talkincode/voltdesk/internal/app"
	"github.com/talkincode/voltdesk/internal/webserver"
)

var (
	confFile = flag.String("c", "voltdesk.yml", "config file")
	showVer  = flag.Bool("v", false, "print version and exit")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Printf("voltdesk %s\n", version)
		return
	}

	_ = godotenv.Load()

	cfg := config.LoadConfig(*confFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webserver.Instance().Start(ctx); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
	}
	zap.L().Info("voltdesk shutdown complete")
}
