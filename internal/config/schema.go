package config

// Config is the merged configuration from ~/.taskdeck/config.yaml,
// ./.taskdeck/config.yaml and TASKDECK_* environment variables.
type Config struct {
	// DataDir holds the SQLite snapshot, session and TUI state.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	View          ViewConfig          `yaml:"view" mapstructure:"view"`
	Status        StatusConfig        `yaml:"status" mapstructure:"status"`
}

type NotificationsConfig struct {
	Retention int `yaml:"retention" mapstructure:"retention"`
}

type LogConfig struct {
	// Level is a logrus level name: panic|fatal|error|warn|info|debug|trace.
	Level string `yaml:"level" mapstructure:"level"`
}

type ViewConfig struct {
	// Default is the project tab opened first: kanban|list|calendar|timeline.
	Default string `yaml:"default" mapstructure:"default"`
}

type StatusConfig struct {
	// Transitions maps a status to the statuses it may move to. Empty means
	// any transition is allowed.
	Transitions map[string][]string `yaml:"transitions" mapstructure:"transitions"`
}
