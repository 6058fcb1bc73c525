package config

import (
	"os"
	"path/filepath"

	"taskdeck/internal/store"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Notifications: NotificationsConfig{
			Retention: store.DefaultNotificationRetention,
		},
		Log:  LogConfig{Level: "warn"},
		View: ViewConfig{Default: "kanban"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskdeck"
	}
	return filepath.Join(home, ".taskdeck", "data")
}

const defaultHeader = `# taskdeck configuration
#
# status.transitions restricts task status changes, e.g.
#   status:
#     transitions:
#       todo: [in-progress, blocked]
#       in-progress: [done, blocked, todo]
#       blocked: [todo, in-progress]
#       done: [todo]
`

// WriteDefault writes cfg (or the defaults when nil) as YAML.
func WriteDefault(path string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(defaultHeader), b...), 0o644)
}
