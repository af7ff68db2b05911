package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/unicity-bridge/internal/app"
	"github.com/meshplus/unicity-bridge/internal/loggers"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/urfave/cli"
)

var startCMD = cli.Command{
	Name:   "start",
	Usage:  "Start a long-running daemon process",
	Action: start,
}

func start(ctx *cli.Context) error {
	fmt.Println(getVersion(true))

	repoRoot, err := repo.PathRootWithDefault(ctx.GlobalString("repo"))
	if err != nil {
		return err
	}

	repo.SetPath(repoRoot)

	config, err := repo.UnmarshalConfig(repoRoot)
	if err != nil {
		return fmt.Errorf("init config error: %s", err)
	}

	err = log.Initialize(
		log.WithReportCaller(config.Log.ReportCaller),
		log.WithPersist(true),
		log.WithFilePath(filepath.Join(repoRoot, config.Log.Dir)),
		log.WithFileName(config.Log.Filename),
		log.WithMaxSize(2*1024*1024),
		log.WithMaxAge(24*time.Hour),
		log.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("log initialize: %w", err)
	}
	loggers.InitializeLogger(config)

	if err := repo.InitConfig(filepath.Join(repoRoot, repo.ConfigName), loggers.Logger(loggers.App)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	bridge, err := app.NewApp(repoRoot, config)
	if err != nil {
		return err
	}

	fmt.Printf("Program ID: %s\n", config.Bridge.ProgramID)
	runPProf(config.Port.PProf)

	if err := bridge.Start(); err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	if err := bridge.Stop(); err != nil {
		return err
	}

	logger.Info("Bridge exits")
	return nil
}

func runPProf(port int64) {
	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		fmt.Printf("Pprof on localhost:%d\n\n", port)
		err := http.ListenAndServe(addr, nil)
		if err != nil {
			fmt.Println(err)
			panic(err)
		}
	}()
}
