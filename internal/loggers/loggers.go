package loggers

import (
	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/sirupsen/logrus"
)

const (
	ApiServer = "api_server"
	App       = "app"
	Bridge    = "bridge"
	EventLog  = "event_log"
	Host      = "host"
	Monitor   = "monitor"
)

var w *loggerWrapper

type loggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func InitializeLogger(config *repo.Config) {
	m := make(map[string]*logrus.Entry)
	m[ApiServer] = log.NewWithModule(ApiServer)
	m[ApiServer].Logger.SetLevel(log.ParseLevel(config.Log.Module.ApiServer))
	m[App] = log.NewWithModule(App)
	m[App].Logger.SetLevel(log.ParseLevel(config.Log.Level))
	m[Bridge] = log.NewWithModule(Bridge)
	m[Bridge].Logger.SetLevel(log.ParseLevel(config.Log.Module.Bridge))
	m[EventLog] = log.NewWithModule(EventLog)
	m[EventLog].Logger.SetLevel(log.ParseLevel(config.Log.Module.EventLog))
	m[Host] = log.NewWithModule(Host)
	m[Host].Logger.SetLevel(log.ParseLevel(config.Log.Module.Host))
	m[Monitor] = log.NewWithModule(Monitor)
	m[Monitor].Logger.SetLevel(log.ParseLevel(config.Log.Module.Monitor))

	w = &loggerWrapper{loggers: m}
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
