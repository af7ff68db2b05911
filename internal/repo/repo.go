package repo

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gagliardetto/solana-go"
	"github.com/gobuffalo/packd"
	packr2 "github.com/gobuffalo/packr/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DefaultPathName is the default config dir name
	DefaultPathName = ".unicity-bridge"

	// DefaultPathRoot is the path to the default config dir location.
	DefaultPathRoot = "~/" + DefaultPathName

	// EnvDir is the environment variable used to change the path root.
	EnvDir = "BRIDGE_PATH"

	// ConfigName is config name
	ConfigName = "bridge.toml"

	// config path
	ConfigPath = "../../config"

	// KeyName is the operator keypair, in solana-keygen json format
	KeyName = "key.json"

	// StoreName is the directory of the ledger store
	StoreName = "store"
)

var RootPath string

// Initialize creates the repo path with the default configuration and a
// fresh operator key.
func Initialize(repoRoot string) error {
	if _, err := os.Stat(repoRoot); os.IsNotExist(err) {
		err := os.MkdirAll(repoRoot, 0755)
		if err != nil {
			return err
		}
	}

	box := packr2.New("box", ConfigPath)

	privKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return fmt.Errorf("create private key error: %s", err)
	}

	if err := StorePrivateKey(privKey, KeyPath(repoRoot)); err != nil {
		return fmt.Errorf("persist key: %s", err)
	}

	if err := box.Walk(func(s string, file packd.File) error {
		p := filepath.Join(repoRoot, s)
		dir := filepath.Dir(p)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			err := os.MkdirAll(dir, 0755)
			if err != nil {
				return err
			}
		}
		return ioutil.WriteFile(p, []byte(file.String()), 0644)
	}); err != nil {
		return err
	}

	return nil
}

// InitConfig reads the config file at path and watches it. Changes are
// reported through logger, they take effect on restart.
func InitConfig(path string, logger logrus.FieldLogger) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("BRIDGE")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.WithFields(logrus.Fields{
			"file": e.Name,
			"op":   e.Op.String(),
		}).Warn("Config file changed, restart to apply")
	})
	viper.WatchConfig()

	return nil
}

// PathRoot returns root path (default .unicity-bridge)
func PathRoot() (string, error) {
	if RootPath != "" {
		return RootPath, nil
	}
	dir := os.Getenv(EnvDir)
	var err error
	if len(dir) == 0 {
		dir, err = homedir.Expand(DefaultPathRoot)
	}

	return dir, err
}

// SetPath sets global config path
func SetPath(root string) {
	RootPath = root
}

// PathRootWithDefault gets current config path with default value
func PathRootWithDefault(path string) (string, error) {
	if len(path) == 0 {
		return PathRoot()
	}

	return path, nil
}

func KeyPath(repoRoot string) string {
	return filepath.Join(repoRoot, KeyName)
}

func StorePath(repoRoot string) string {
	return filepath.Join(repoRoot, StoreName)
}

// StorePrivateKey writes key as a json array of bytes, the format
// solana-keygen uses.
func StorePrivateKey(key solana.PrivateKey, path string) error {
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, data, 0600)
}

// LoadPrivateKey loads private key from the given key file
func LoadPrivateKey(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load key %s: %w", path, err)
	}

	return key, nil
}
