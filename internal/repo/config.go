package repo

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/meshplus/bitxhub-kit/fileutil"
	"github.com/spf13/viper"
)

// Config represents the necessary config data for starting the bridge
type Config struct {
	RepoRoot string
	Title    string  `toml:"title" json:"title"`
	Port     Port    `toml:"port" json:"port"`
	Bridge   Bridge  `toml:"bridge" json:"bridge"`
	Monitor  Monitor `toml:"monitor" json:"monitor"`
	Log      Log     `toml:"log" json:"log"`
}

// Port are ports providing http and pprof service
type Port struct {
	Http  int64 `toml:"http" json:"http"`
	PProf int64 `toml:"pprof" json:"pprof"`
}

// Bridge are configs about the deployed bridge program
type Bridge struct {
	ProgramID string `mapstructure:"program_id" toml:"program_id" json:"program_id"`
	Airdrop   bool   `toml:"airdrop" json:"airdrop"`
}

type Monitor struct {
	Enable        bool          `toml:"enable" json:"enable"`
	RetryInterval time.Duration `mapstructure:"retry_interval" toml:"retry_interval" json:"retry_interval"`
	RetryAttempts uint          `mapstructure:"retry_attempts" toml:"retry_attempts" json:"retry_attempts"`
}

// Log are config about log
type Log struct {
	Dir          string    `toml:"dir" json:"dir"`
	Filename     string    `toml:"filename" json:"filename"`
	ReportCaller bool      `mapstructure:"report_caller"`
	Level        string    `toml:"level" json:"level"`
	Module       LogModule `toml:"module" json:"module"`
}

type LogModule struct {
	ApiServer string `mapstructure:"api_server" toml:"api_server" json:"api_server"`
	Bridge    string `toml:"bridge" json:"bridge"`
	EventLog  string `mapstructure:"event_log" toml:"event_log" json:"event_log"`
	Host      string `toml:"host" json:"host"`
	Monitor   string `toml:"monitor" json:"monitor"`
}

// DefaultConfig returns config with default value
func DefaultConfig() *Config {
	return &Config{
		RepoRoot: DefaultPathName,
		Title:    "unicity bridge configuration file",
		Port: Port{
			Http:  8899,
			PProf: 44556,
		},
		Bridge: Bridge{
			ProgramID: "9q5thPnZG7FKKNr61wceXdfuy2QRLYky8RTJonh2YzyB",
			Airdrop:   false,
		},
		Monitor: Monitor{
			Enable:        true,
			RetryInterval: time.Second,
			RetryAttempts: 5,
		},
		Log: Log{
			Level:    "info",
			Dir:      "logs",
			Filename: "bridge.log",
			Module: LogModule{
				ApiServer: "info",
				Bridge:    "info",
				EventLog:  "info",
				Host:      "info",
				Monitor:   "info",
			},
		},
	}
}

// UnmarshalConfig read from config files under config path
func UnmarshalConfig(repoRoot string) (*Config, error) {
	configPath := filepath.Join(repoRoot, ConfigName)

	if !fileutil.Exist(configPath) {
		return nil, fmt.Errorf("please initialize bridge firstly")
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("BRIDGE")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	config := DefaultConfig()

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	config.RepoRoot = repoRoot

	return config, nil
}
