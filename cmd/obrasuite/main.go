package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/obrasuite/obrasuite/config"
	"github.com/obrasuite/obrasuite/internal/adminapi"
	"github.com/obrasuite/obrasuite/internal/app"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"go.uber.org/zap"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "/etc/obrasuite.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema")
)

var version = "dev"

func printHelp() {
	if *h {
		ustr := fmt.Sprintf("obrasuite version: %s, usage: obrasuite -h\nOptions:", version)
		fmt.Fprintf(os.Stderr, "%s\n", ustr)
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	if *showVer {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	_ = os.MkdirAll(cfg.System.Workdir, 0o755)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	webserver.Init(application)
	adminapi.Init()

	errc := make(chan error, 1)
	go func() {
		errc <- webserver.Listen()
	}()

	select {
	case err := <-errc:
		zap.L().Fatal("web server stopped", zap.Error(err))
	case <-ctx.Done():
		zap.L().Info("shutting down")
	}
}
