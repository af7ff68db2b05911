package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"github.com/meshplus/unicity-bridge/internal/bridge"
	"github.com/meshplus/unicity-bridge/internal/eventlog"
	"github.com/meshplus/unicity-bridge/internal/host"
	"github.com/meshplus/unicity-bridge/internal/monitor"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

var _ Service = (*Server)(nil)

type Server struct {
	router   *gin.Engine
	srv      *http.Server
	program  *bridge.Program
	host     *host.Host
	log      *eventlog.Log
	monitor  *monitor.LockMonitor
	usedSigs *lru.Cache
	config   *repo.Config
	logger   logrus.FieldLogger
}

// NewServer builds the http service. mon may be nil when the lock monitor
// is disabled.
func NewServer(program *bridge.Program, h *host.Host, log *eventlog.Log, mon *monitor.LockMonitor,
	config *repo.Config, logger logrus.FieldLogger) (*Server, error) {
	usedSigs, err := lru.New(usedSignatureCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create signature cache: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		program:  program,
		host:     h,
		log:      log,
		monitor:  mon,
		usedSigs: usedSigs,
		config:   config,
		logger:   logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery())
	v1 := s.router.Group("/v1")
	{
		v1.POST(InitializeUrl, s.verifySigner, s.initialize)
		v1.POST(LockUrl, s.verifySigner, s.lock)
		v1.POST(WithdrawUrl, s.verifySigner, s.withdraw)
		if s.config.Bridge.Airdrop {
			v1.POST(AirdropUrl, s.airdrop)
		}

		v1.GET(StateUrl, s.state)
		v1.GET(VaultUrl, s.vault)
		v1.GET(BalanceUrl+"/:account", s.balance)
		v1.GET(EventsUrl, s.events)
		v1.GET(EventsRootUrl, s.eventsRoot)
		v1.GET(MonitorUrl, s.monitorCursor)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port.Http),
		Handler: s.router,
	}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithField("error", err).Error("Http service stopped")
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"port":    s.config.Port.Http,
		"airdrop": s.config.Bridge.Airdrop,
	}).Info("Http service started")

	return nil
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http service: %w", err)
	}

	s.logger.Infoln("http service stop")
	return nil
}

// fail writes err with the status its kind maps to
func (s *Server) fail(c *gin.Context, err error) {
	res := &ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	if e, ok := bridge.AsError(err); ok {
		res.Code = e.Code
		res.Name = e.Name
		res.Error = e.Msg
		status = http.StatusBadRequest
		if errors.Is(err, bridge.ErrUnauthorized) {
			status = http.StatusForbidden
		}
	} else {
		switch {
		case errors.Is(err, bridge.ErrNotInitialized):
			status = http.StatusNotFound
		case errors.Is(err, host.ErrAccountInUse):
			status = http.StatusConflict
		case errors.Is(err, host.ErrInsufficientFunds), errors.Is(err, host.ErrBalanceOverflow):
			status = http.StatusBadRequest
		}
	}

	if status == http.StatusInternalServerError {
		s.logger.WithField("error", err).Error("Request failed")
	}
	c.AbortWithStatusJSON(status, res)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
}
