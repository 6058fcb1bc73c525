package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"taskdeck/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Load merges the global config, then the project config, then environment
// overrides over DefaultConfig(). Missing files are skipped.
func Load() (*Config, error) {
	return LoadFrom(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFrom merges the given files in order; later files win.
func LoadFrom(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := loadFile(p, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
	}
	applyEnv(cfg)
	if _, err := cfg.Transitions(); err != nil {
		return nil, err
	}
	if _, err := model.ParseViewType(cfg.View.Default); err != nil {
		return nil, fmt.Errorf("view.default: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

var envKeys = map[string]string{
	"data_dir":                "TASKDECK_DATA_DIR",
	"notifications.retention": "TASKDECK_NOTIFICATIONS_RETENTION",
	"log.level":               "TASKDECK_LOG_LEVEL",
	"view.default":            "TASKDECK_VIEW_DEFAULT",
}

func applyEnv(cfg *Config) {
	v := viper.New()
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("notifications.retention") {
		if n := v.GetInt("notifications.retention"); n > 0 {
			cfg.Notifications.Retention = n
		}
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("view.default") {
		cfg.View.Default = v.GetString("view.default")
	}
	if dbg, err := strconv.ParseBool(os.Getenv("TASKDECK_DEBUG")); err == nil && dbg {
		cfg.Log.Level = "debug"
	}
}

// Logger builds a stderr logger at the configured level. Unknown levels fall
// back to warn.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(strings.TrimSpace(c.Log.Level))
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}

// Transitions parses status.transitions. An empty table yields nil, which
// allows every transition.
func (c *Config) Transitions() (model.TransitionTable, error) {
	if len(c.Status.Transitions) == 0 {
		return nil, nil
	}
	t, err := model.ParseTransitionTable(c.Status.Transitions)
	if err != nil {
		return nil, fmt.Errorf("status.transitions: %w", err)
	}
	return t, nil
}

func (c *Config) DefaultView() model.ViewType {
	v, err := model.ParseViewType(c.View.Default)
	if err != nil {
		return model.ViewKanban
	}
	return v
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".taskdeck", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".taskdeck", "config.yaml")
}
