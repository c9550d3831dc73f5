package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Empty-prompt policies. The web handler consults this before invoking the
// summarizer: "summarize" forwards the empty text to the model as-is,
// "reject" skips both the model call and persistence.
const (
	EmptyPromptsSummarize = "summarize"
	EmptyPromptsReject    = "reject"
)

const (
	// DefaultSummaryMaxLen bounds the summary length in words.
	DefaultSummaryMaxLen = 200
	// DefaultSummaryMinLen is the lower summary length bound in words.
	DefaultSummaryMinLen = 30

	// defaultSecretKey is a non-secret placeholder. Production deployments
	// override it through the secrets file.
	defaultSecretKey = "dev"

	// secretsFileName is the well-known secrets file inside the data directory.
	secretsFileName = "secrets.yaml"
)

// Profile is configuration to start main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol)
	LLMProvider string // Provider identifier: openai, deepseek, ollama, or any compatible endpoint
	LLMAPIKey   string // API key; empty means the extractive summarizer is used instead
	LLMBaseURL  string // Base URL (optional, has default per provider)
	LLMModel    string // Model name: gpt-4o, deepseek-chat, llama3.1, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	// Summarization bounds, forwarded verbatim to the summarizer.
	SummaryMaxLen int
	SummaryMinLen int

	// EmptyPrompts decides what a submit with an empty prompt does.
	EmptyPrompts string

	// SecretKey signs session material. Never ship the placeholder default.
	SecretKey string

	Mode    string
	Addr    string
	Port    int
	Data    string
	Driver  string
	DSN     string
	Version string
}

// Provider default configurations for the LLM boundary.
// Used when the base URL or model is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads LLM and policy configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("BRIEFD_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("BRIEFD_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("BRIEFD_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("BRIEFD_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("BRIEFD_LLM_TIMEOUT_SECONDS", 60)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("unknown LLM provider, treating as generic OpenAI-compatible endpoint", "provider", p.LLMProvider)
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	if policy := os.Getenv("BRIEFD_EMPTY_PROMPTS"); policy != "" {
		p.EmptyPrompts = policy
	}
}

// Overrides carries test-supplied configuration. When non-nil it is applied
// over the defaults and the secrets file is never consulted.
type Overrides struct {
	SecretKey     *string
	SummaryMaxLen *int
	SummaryMinLen *int
	EmptyPrompts  *string
	DSN           *string
}

// Resolve finalizes the layered configuration: built-in defaults, then either
// the supplied overrides or the secrets file from the data directory. Only one
// of the latter two sources is ever consulted. Resolve never fails because of
// a missing or malformed secrets file.
func (p *Profile) Resolve(overrides *Overrides) {
	if p.SummaryMaxLen <= 0 {
		p.SummaryMaxLen = DefaultSummaryMaxLen
	}
	if p.SummaryMinLen <= 0 {
		p.SummaryMinLen = DefaultSummaryMinLen
	}
	if p.SecretKey == "" {
		p.SecretKey = defaultSecretKey
	}
	if p.EmptyPrompts != EmptyPromptsSummarize && p.EmptyPrompts != EmptyPromptsReject {
		if p.EmptyPrompts != "" {
			slog.Warn("unknown empty-prompts policy, defaulting to summarize", "policy", p.EmptyPrompts)
		}
		p.EmptyPrompts = EmptyPromptsSummarize
	}

	if overrides != nil {
		p.applyOverrides(overrides)
		return
	}
	p.loadSecretsFile()
}

func (p *Profile) applyOverrides(overrides *Overrides) {
	if overrides.SecretKey != nil {
		p.SecretKey = *overrides.SecretKey
	}
	if overrides.SummaryMaxLen != nil {
		p.SummaryMaxLen = *overrides.SummaryMaxLen
	}
	if overrides.SummaryMinLen != nil {
		p.SummaryMinLen = *overrides.SummaryMinLen
	}
	if overrides.EmptyPrompts != nil {
		p.EmptyPrompts = *overrides.EmptyPrompts
	}
	if overrides.DSN != nil {
		p.DSN = *overrides.DSN
	}
}

// loadSecretsFile applies keys from <data>/secrets.yaml over the defaults.
// A missing file is expected on fresh installs; a malformed file is logged
// and ignored so a bad edit can never take the service down.
func (p *Profile) loadSecretsFile() {
	path := filepath.Join(p.Data, secretsFileName)
	if _, err := os.Stat(path); err != nil {
		return
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		slog.Warn("ignoring malformed secrets file", "path", path, "error", err)
		return
	}

	if v.IsSet("secret-key") {
		p.SecretKey = v.GetString("secret-key")
	}
	if v.IsSet("summary-max-len") {
		p.SummaryMaxLen = v.GetInt("summary-max-len")
	}
	if v.IsSet("summary-min-len") {
		p.SummaryMinLen = v.GetInt("summary-min-len")
	}
	if v.IsSet("empty-prompts") {
		p.EmptyPrompts = v.GetString("empty-prompts")
	}
	if v.IsSet("llm-api-key") {
		p.LLMAPIKey = v.GetString("llm-api-key")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "briefd")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/briefd"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("briefd_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
