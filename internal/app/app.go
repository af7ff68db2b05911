package app

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/bitxhub-kit/storage/leveldb"
	"github.com/meshplus/unicity-bridge/api"
	"github.com/meshplus/unicity-bridge/internal/bridge"
	"github.com/meshplus/unicity-bridge/internal/eventlog"
	"github.com/meshplus/unicity-bridge/internal/host"
	"github.com/meshplus/unicity-bridge/internal/loggers"
	"github.com/meshplus/unicity-bridge/internal/monitor"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/sirupsen/logrus"
)

// App represents the necessary data for running the bridge daemon
type App struct {
	storage storage.Storage
	log     *eventlog.Log
	host    *host.Host
	program *bridge.Program
	monitor *monitor.LockMonitor
	server  api.Service
	config  *repo.Config
	logger  logrus.FieldLogger
}

// NewApp instantiates the bridge daemon.
func NewApp(repoRoot string, config *repo.Config) (*App, error) {
	store, err := leveldb.New(repo.StorePath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("read from datastore %w", err)
	}

	app, err := newApp(store, config)
	if err != nil {
		store.Close()
		return nil, err
	}

	return app, nil
}

func newApp(store storage.Storage, config *repo.Config) (*App, error) {
	programID, err := solana.PublicKeyFromBase58(config.Bridge.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id %s: %w", config.Bridge.ProgramID, err)
	}

	addrs, err := bridge.DeriveAddresses(programID)
	if err != nil {
		return nil, err
	}

	l, err := eventlog.New(store, loggers.Logger(loggers.EventLog))
	if err != nil {
		return nil, fmt.Errorf("load event log: %w", err)
	}

	h := host.New(store, l, host.WithLogger(loggers.Logger(loggers.Host)))
	program := bridge.New(h, addrs, bridge.WithLogger(loggers.Logger(loggers.Bridge)))

	var mon *monitor.LockMonitor
	if config.Monitor.Enable {
		logger := loggers.Logger(loggers.Monitor)
		mon, err = monitor.New(l, store, monitor.NewLogHandler(logger), logger,
			monitor.WithRetryInterval(config.Monitor.RetryInterval),
			monitor.WithRetryAttempts(config.Monitor.RetryAttempts))
		if err != nil {
			return nil, fmt.Errorf("create monitor: %w", err)
		}
	}

	server, err := api.NewServer(program, h, l, mon, config, loggers.Logger(loggers.ApiServer))
	if err != nil {
		return nil, err
	}

	return &App{
		storage: store,
		log:     l,
		host:    h,
		program: program,
		monitor: mon,
		server:  server,
		config:  config,
		logger:  loggers.Logger(loggers.App),
	}, nil
}

// Start starts the lock monitor and then the http service
func (app *App) Start() error {
	addrs := app.program.Addresses()
	app.logger.WithFields(logrus.Fields{
		"program_id": addrs.ProgramID.String(),
		"ledger":     addrs.Ledger.String(),
		"escrow":     addrs.Escrow.String(),
		"events":     app.log.Last(),
	}).Info("Bridge information")

	if app.monitor != nil {
		if err := app.monitor.Start(); err != nil {
			return fmt.Errorf("monitor start: %w", err)
		}
	}

	if err := app.server.Start(); err != nil {
		return fmt.Errorf("api start: %w", err)
	}

	return nil
}

// Stop stops the http service first so no invocation runs while the store
// is closed
func (app *App) Stop() error {
	if err := app.server.Stop(); err != nil {
		return fmt.Errorf("api stop: %w", err)
	}

	if app.monitor != nil {
		if err := app.monitor.Stop(); err != nil {
			return fmt.Errorf("monitor stop: %w", err)
		}
	}

	return app.storage.Close()
}

func (app *App) Program() *bridge.Program {
	return app.program
}

func (app *App) Host() *host.Host {
	return app.host
}
