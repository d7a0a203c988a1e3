package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all program configuration.
type Config struct {
	Logger    LoggerConfig
	GitHub    GitHubConfig
	OmniFocus OmniFocusConfig
	Sync      SyncConfig
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GitHubConfig struct {
	// APIURL is the API root, overridable for GitHub Enterprise installs.
	APIURL string
	// AccessToken is a personal access token. Required.
	AccessToken string
	// RequestsPerSecond caps outbound GitHub calls across the run.
	RequestsPerSecond int
}

// OmniFocusConfig names the projects each category syncs into and the tags
// that mark a task as owned by this program. AppTag is applied to every task;
// the per-category tags partition the flat projects by category.
type OmniFocusConfig struct {
	AppTag               string
	AssignedProject      string
	AssignedTag          string
	ReviewProject        string
	ReviewTag            string
	NotificationsProject string
	NotificationTag      string
}

type SyncConfig struct {
	// SetDueDates gives notification and review tasks a due date of
	// end-of-day. Assigned tasks never get one.
	SetDueDates bool
	// MaxConcurrent bounds the fan-out width of sink mutations and the
	// notification join step.
	MaxConcurrent int
	// RequestTimeout applies per sink mutation and per join fetch.
	RequestTimeout time.Duration
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., and
// $HOME/.config/github-task-sync/.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "github-task-sync"))
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.GitHub.APIURL = viper.GetString("github.api_url")
	cfg.GitHub.AccessToken = viper.GetString("github.access_token")
	cfg.GitHub.RequestsPerSecond = viper.GetInt("github.requests_per_second")
	if token := viper.GetString("github_token"); token != "" {
		cfg.GitHub.AccessToken = token
	}

	cfg.OmniFocus.AppTag = viper.GetString("omnifocus.app_tag")
	cfg.OmniFocus.AssignedProject = viper.GetString("omnifocus.assigned_project")
	cfg.OmniFocus.AssignedTag = viper.GetString("omnifocus.assigned_tag")
	cfg.OmniFocus.ReviewProject = viper.GetString("omnifocus.review_project")
	cfg.OmniFocus.ReviewTag = viper.GetString("omnifocus.review_tag")
	cfg.OmniFocus.NotificationsProject = viper.GetString("omnifocus.notifications_project")
	cfg.OmniFocus.NotificationTag = viper.GetString("omnifocus.notification_tag")

	cfg.Sync.SetDueDates = viper.GetBool("sync.set_due_dates")
	cfg.Sync.MaxConcurrent = viper.GetInt("sync.max_concurrent")
	cfg.Sync.RequestTimeout = viper.GetDuration("sync.request_timeout")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GitHub.AccessToken == "" {
		return fmt.Errorf("github.access_token is required (or set GITHUB_TOKEN)")
	}
	if c.Sync.MaxConcurrent < 1 {
		c.Sync.MaxConcurrent = 1
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", false)

	viper.SetDefault("github.api_url", "https://api.github.com")
	viper.SetDefault("github.requests_per_second", 8)

	viper.SetDefault("omnifocus.app_tag", "github")
	viper.SetDefault("omnifocus.assigned_project", "GitHub Assigned")
	viper.SetDefault("omnifocus.assigned_tag", "assigned")
	viper.SetDefault("omnifocus.review_project", "GitHub Reviews")
	viper.SetDefault("omnifocus.review_tag", "review")
	viper.SetDefault("omnifocus.notifications_project", "GitHub Notifications")
	viper.SetDefault("omnifocus.notification_tag", "notification")

	viper.SetDefault("sync.set_due_dates", true)
	viper.SetDefault("sync.max_concurrent", 8)
	viper.SetDefault("sync.request_timeout", "30s")
}
