package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration, loaded once from YAML. Secrets are
// never stored in the file; Load pulls them from the environment.
type Config struct {
	GitHub  GitHub  `yaml:"github"`
	Ranking Ranking `yaml:"ranking"`
	LLM     LLM     `yaml:"llm"`
	Email   Email   `yaml:"email"`
}

type GitHub struct {
	SearchKeywords   string  `yaml:"search_keywords"`
	MinStars         int     `yaml:"min_stars"`
	Language         string  `yaml:"language"`
	MaxResults       int     `yaml:"max_results"`
	UpdateWithinDays int     `yaml:"update_within_days"`
	MinForkRatio     float64 `yaml:"min_fork_ratio"`
	ExcludeForks     bool    `yaml:"exclude_forks"`
	SortBy           string  `yaml:"sort_by"`
	SortOrder        string  `yaml:"sort_order"`

	Token string `yaml:"-"`
}

type Ranking struct {
	Profile      string  `yaml:"profile"`
	MinScore     float64 `yaml:"min_score"`
	MinAgeDays   float64 `yaml:"min_age_days"`
	MaxStaleDays float64 `yaml:"max_stale_days"`
}

type LLM struct {
	Model                  string `yaml:"model"`
	APIURL                 string `yaml:"api_url"`
	MaxTokens              int    `yaml:"max_tokens"`
	RequestIntervalSeconds int    `yaml:"request_interval_seconds"`

	APIKey string `yaml:"-"`
}

type Email struct {
	SMTPServer  string   `yaml:"smtp_server"`
	SMTPPort    int      `yaml:"smtp_port"`
	SenderEmail string   `yaml:"sender_email"`
	Recipients  []string `yaml:"recipients"`
	Subject     string   `yaml:"subject"`

	SenderPassword string `yaml:"-"`
}

// Load reads and validates the configuration file. Missing required keys
// are a fatal error listing every absent key; optional knobs get explicit
// defaults here, nowhere else.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	cfg.Email.SenderPassword = os.Getenv("SMTP_PASSWORD")

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GitHub.MinForkRatio == 0 {
		c.GitHub.MinForkRatio = 0.05
	}
	if c.GitHub.SortBy == "" {
		c.GitHub.SortBy = "stars"
	}
	if c.GitHub.SortOrder == "" {
		c.GitHub.SortOrder = "desc"
	}
	if c.Ranking.Profile == "" {
		c.Ranking.Profile = "trending"
	}
	if c.Ranking.MinScore == 0 {
		c.Ranking.MinScore = 60
	}
	if c.Ranking.MinAgeDays == 0 {
		c.Ranking.MinAgeDays = 7
	}
	if c.Ranking.MaxStaleDays == 0 {
		c.Ranking.MaxStaleDays = 7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.LLM.RequestIntervalSeconds == 0 {
		c.LLM.RequestIntervalSeconds = 3
	}
	if c.Email.Subject == "" {
		c.Email.Subject = "GitHub Quality Project Report"
	}
}

// Validate reports every missing required key at once, so a fresh setup
// needs one round trip instead of several.
func (c *Config) Validate() error {
	var missing []string

	if c.GitHub.MinStars <= 0 {
		missing = append(missing, "github.min_stars")
	}
	if c.GitHub.MaxResults <= 0 {
		missing = append(missing, "github.max_results")
	}
	if c.GitHub.UpdateWithinDays <= 0 {
		missing = append(missing, "github.update_within_days")
	}
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN (env)")
	}
	if c.LLM.Model == "" {
		missing = append(missing, "llm.model")
	}
	if c.LLM.APIURL == "" {
		missing = append(missing, "llm.api_url")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY (env)")
	}
	if c.Email.SMTPServer == "" {
		missing = append(missing, "email.smtp_server")
	}
	if c.Email.SMTPPort == 0 {
		missing = append(missing, "email.smtp_port")
	}
	if c.Email.SenderEmail == "" {
		missing = append(missing, "email.sender_email")
	}
	if len(c.Email.Recipients) == 0 {
		missing = append(missing, "email.recipients")
	}
	if c.Email.SenderPassword == "" {
		missing = append(missing, "SMTP_PASSWORD (env)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Keywords splits the comma-separated keyword list, dropping empties.
func (g GitHub) Keywords() []string {
	if g.SearchKeywords == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(g.SearchKeywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func (l LLM) RequestInterval() time.Duration {
	return time.Duration(l.RequestIntervalSeconds) * time.Second
}
