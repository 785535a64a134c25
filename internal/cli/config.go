package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TODOS"
)

// envKeys are the settings that TODOS_* variables may override. data_dir
// is resolved separately so that config.yaml wins over TODOS_DATA_DIR.
var envKeys = []string{
	"backend",
	"sqlite.sync_strategy",
	"sqlite.batch_size",
	"sqlite.batch_interval",
	"log.level",
	"log.format",
	"server.addr",
	"server.shutdown_timeout",
}

const configHeader = `# todos configuration
#
# backend: sqlite, gorm or memory
# data_dir: empty means --data-dir, then $TODOS_DATA_DIR, then $(CWD)/.todos-db
# sqlite.sync_strategy: immediate, on_close or batch
# log.level: debug, info, warn or error; log.format: text or json

`

// defaultConfig is the configuration written to config.yaml on first run.
func defaultConfig() types.Config {
	return types.Config{
		Backend: types.BackendSQLite,
		SQLiteConfig: &types.SQLiteConfig{
			SyncStrategy:  types.SyncImmediate,
			BatchSize:     types.DefaultBatchSize,
			BatchInterval: types.DefaultBatchInterval,
		},
		Log: types.LogConfig{Level: "info", Format: "text"},
		Server: types.ServerConfig{
			Addr:            types.DefaultServerAddr,
			ShutdownTimeout: types.DefaultShutdownTimeout,
		},
	}
}

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault("backend", types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates config.yaml if it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	cfg := defaultConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// load resolves directories, reads the config and applies flag overrides.
func (a *app) load() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemErr(err)
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.dataDir, cfg.DataDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve data dir: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.configDir = configDir
	a.config = cfg
	a.log = logging.New(cfg.Log, a.stderr)
	return nil
}
