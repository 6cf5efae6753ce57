// Package config builds the immutable process configuration once at
// startup. All tunables come from PROVISIONER_* environment variables
// (or flags bound through viper); core packages receive the struct and
// never read the environment themselves.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/matryer/resync"
	"github.com/spf13/viper"
)

// Config holds every externally supplied setting for one process.
// It is constructed once by Load and treated as read-only afterwards.
type Config struct {
	// ListenAddr is the address the webhook HTTP server binds to.
	ListenAddr string `mapstructure:"listen_addr"`

	// OrgID is the numeric organization id whose resource hierarchy is
	// snapshotted before validation.
	OrgID string `mapstructure:"org_id"`

	// BaseBranch is the branch pull requests are opened against.
	BaseBranch string `mapstructure:"base_branch"`

	// BudgetLimit is the exclusive upper bound on the dev budget for
	// auto-approved pull requests, in euros.
	BudgetLimit float64 `mapstructure:"budget_limit"`

	JiraBaseURL string `mapstructure:"jira_base_url"`
	JiraUser    string `mapstructure:"jira_user"`
	JiraToken   string `mapstructure:"jira_token"`

	GitHubBaseURL string `mapstructure:"github_base_url"`
	GitHubToken   string `mapstructure:"github_token"`
	RepoOwner     string `mapstructure:"repo_owner"`
	RepoName      string `mapstructure:"repo_name"`

	AssetBaseURL string `mapstructure:"asset_base_url"`
	AssetToken   string `mapstructure:"asset_token"`
}

var (
	loadOnce resync.Once
	loaded   *Config
	loadErr  error
)

// Load reads the configuration exactly once per process. Subsequent
// calls return the same struct. Tests reset with ResetForTesting.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		loaded, loadErr = read()
	})
	return loaded, loadErr
}

// ResetForTesting clears the cached configuration so tests can load
// with a fresh environment.
func ResetForTesting() {
	loadOnce.Reset()
	loaded = nil
	loadErr = nil
}

func read() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("provisioner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("base_branch", "main")
	v.SetDefault("budget_limit", 150.0)
	v.SetDefault("github_base_url", "https://api.github.com")
	v.SetDefault("asset_base_url", "https://cloudasset.googleapis.com")

	// AutomaticEnv alone does not surface keys into Unmarshal; bind
	// each known key explicitly.
	for _, key := range []string{
		"listen_addr", "org_id", "base_branch", "budget_limit",
		"jira_base_url", "jira_user", "jira_token",
		"github_base_url", "github_token", "repo_owner", "repo_name",
		"asset_base_url", "asset_token",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot default sensibly. Errors
// are collected so a misconfigured deployment reports everything at
// once instead of one variable per restart.
func (c *Config) Validate() error {
	var problems []string

	if c.OrgID == "" || !govalidator.IsNumeric(c.OrgID) {
		problems = append(problems, "org_id must be a numeric organization id")
	}
	if !govalidator.IsRequestURL(c.JiraBaseURL) {
		problems = append(problems, "jira_base_url must be a valid URL")
	}
	if !govalidator.IsRequestURL(c.GitHubBaseURL) {
		problems = append(problems, "github_base_url must be a valid URL")
	}
	if !govalidator.IsRequestURL(c.AssetBaseURL) {
		problems = append(problems, "asset_base_url must be a valid URL")
	}
	if c.RepoOwner == "" || c.RepoName == "" {
		problems = append(problems, "repo_owner and repo_name are required")
	}
	if c.BudgetLimit <= 0 {
		problems = append(problems, "budget_limit must be positive")
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
