package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the devbot agent
type Config struct {
	// Server settings
	Port int

	// AI Provider selection
	Provider string // "anthropic" or "gemini"

	// Anthropic settings
	AnthropicAPIKey  string
	AnthropicBaseURL string // Optional: custom API endpoint

	// Gemini settings
	GeminiAPIKey string

	// Model settings
	Model     string
	MaxTokens int

	// GitHub access: either a personal token or a GitHub App
	GitHubToken          string
	GitHubAppID          string
	GitHubPrivateKey     string
	GitHubInstallationID string
	WebhookSecret        string

	// Repository settings
	RepoName   string // "owner/repo"
	RepoPath   string // local checkout the agent mutates
	BaseBranch string

	// Run settings
	TurnBudget   int
	BranchPrefix string
	ShellTimeout time.Duration

	// Plan and report locations, relative to RepoPath unless absolute
	PlansDir   string
	ReportsDir string

	// Queue settings
	QueueSize int
	Workers   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	privateKey := normalizePrivateKey(os.Getenv("GITHUB_PRIVATE_KEY"))

	cfg := &Config{
		Port:                 getEnvInt("PORT", 8000),
		Provider:             getEnv("PROVIDER", "anthropic"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:     os.Getenv("ANTHROPIC_BASE_URL"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		Model:                getEnv("MODEL", "claude-3-5-sonnet-20240620"),
		MaxTokens:            getEnvInt("MAX_TOKENS", 4096),
		GitHubToken:          os.Getenv("GITHUB_TOKEN"),
		GitHubAppID:          os.Getenv("GITHUB_APP_ID"),
		GitHubPrivateKey:     privateKey,
		GitHubInstallationID: os.Getenv("GITHUB_INSTALLATION_ID"),
		WebhookSecret:        os.Getenv("WEBHOOK_SECRET"),
		RepoName:             os.Getenv("REPO_NAME"),
		RepoPath:             getEnv("REPO_PATH", "."),
		BaseBranch:           getEnv("BASE_BRANCH", "main"),
		TurnBudget:           getEnvInt("TURN_BUDGET", 15),
		BranchPrefix:         getEnv("BRANCH_PREFIX", "devbot"),
		ShellTimeout:         time.Duration(getEnvInt("SHELL_TIMEOUT_SECONDS", 120)) * time.Second,
		PlansDir:             getEnv("PLANS_DIR", "ai-docs"),
		ReportsDir:           getEnv("REPORTS_DIR", "ai-plans"),
		QueueSize:            getEnvInt("QUEUE_SIZE", 16),
		Workers:              getEnvInt("WORKERS", 1),
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func normalizePrivateKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
		trimmed = strings.TrimPrefix(trimmed, "\"")
		trimmed = strings.TrimSuffix(trimmed, "\"")
	}
	if strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
		trimmed = strings.TrimPrefix(trimmed, "'")
		trimmed = strings.TrimSuffix(trimmed, "'")
	}

	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	trimmed = strings.ReplaceAll(trimmed, "\r", "\n")
	if strings.Contains(trimmed, "\\n") {
		trimmed = strings.ReplaceAll(trimmed, "\\r", "")
		trimmed = strings.ReplaceAll(trimmed, "\\n", "\n")
	}

	return trimmed
}

// validate checks that all required configuration is present
func (c *Config) validate() error {
	if err := c.validateGitHubCredentials(); err != nil {
		return err
	}

	if err := c.validateProviderConfig(); err != nil {
		return err
	}

	c.applyRunDefaults()
	return c.validateRunConfig()
}

func (c *Config) validateGitHubCredentials() error {
	if c.RepoName == "" {
		return fmt.Errorf("REPO_NAME is required (format: owner/repo)")
	}
	if parts := strings.Split(c.RepoName, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("REPO_NAME must be in owner/repo format, got %q", c.RepoName)
	}

	if c.GitHubToken != "" {
		return nil
	}
	if c.GitHubAppID == "" && c.GitHubPrivateKey == "" && c.GitHubInstallationID == "" {
		return fmt.Errorf("GITHUB_TOKEN or GitHub App credentials (GITHUB_APP_ID, GITHUB_PRIVATE_KEY, GITHUB_INSTALLATION_ID) are required")
	}
	if c.GitHubAppID == "" {
		return fmt.Errorf("GITHUB_APP_ID is required when using GitHub App auth")
	}
	if c.GitHubPrivateKey == "" {
		return fmt.Errorf("GITHUB_PRIVATE_KEY is required when using GitHub App auth")
	}
	if c.GitHubInstallationID == "" {
		return fmt.Errorf("GITHUB_INSTALLATION_ID is required when using GitHub App auth")
	}
	return nil
}

func (c *Config) validateProviderConfig() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for gemini provider")
		}
	default:
		return fmt.Errorf("invalid provider: %s (must be 'anthropic' or 'gemini')", c.Provider)
	}
	return nil
}

func (c *Config) applyRunDefaults() {
	if c.TurnBudget <= 0 {
		c.TurnBudget = 15
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	if c.ShellTimeout <= 0 {
		c.ShellTimeout = 120 * time.Second
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 16
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

func (c *Config) validateRunConfig() error {
	if c.RepoPath == "" {
		return fmt.Errorf("REPO_PATH must not be empty")
	}
	if c.BaseBranch == "" {
		return fmt.Errorf("BASE_BRANCH must not be empty")
	}
	if c.BranchPrefix == "" {
		return fmt.Errorf("BRANCH_PREFIX must not be empty")
	}
	if c.PlansDir == "" {
		return fmt.Errorf("PLANS_DIR must not be empty")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("REPORTS_DIR must not be empty")
	}
	return nil
}

// PlansPath returns PlansDir resolved against RepoPath.
func (c *Config) PlansPath() string {
	if filepath.IsAbs(c.PlansDir) {
		return c.PlansDir
	}
	return filepath.Join(c.RepoPath, c.PlansDir)
}

// Owner returns the owner half of RepoName.
func (c *Config) Owner() string {
	parts := strings.SplitN(c.RepoName, "/", 2)
	return parts[0]
}

// Repo returns the repository half of RepoName.
func (c *Config) Repo() string {
	if i := strings.Index(c.RepoName, "/"); i >= 0 {
		return c.RepoName[i+1:]
	}
	return ""
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
