package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

// ExecutionMode gates production-only behavior (CAPTCHA enforcement, email
// dispatch, response verbosity). Anything other than "prod" is treated as a
// development mode.
type ExecutionMode string

// ModeProduction is the only mode in which CAPTCHA is enforced, magic links
// are emailed instead of echoed, and store failures are never tolerated.
const ModeProduction ExecutionMode = "prod"

// IsProduction reports whether the mode is the production mode.
func (m ExecutionMode) IsProduction() bool {
	return m == ModeProduction
}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Captcha configuration for the siteverify call; required in production.
	Captcha *CaptchaConfig `json:"captcha" yaml:"captcha"`

	// Email configuration for the transactional email API; required in production.
	Email *EmailConfig `json:"email" yaml:"email"`

	// Queue configuration for grading job publishing.
	Queue *QueueConfig `json:"queue" yaml:"queue"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig holds the primary database connection settings.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"dbName" yaml:"dbName"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`
}

// AuthConfig defines the passwordless authentication settings.
type AuthConfig struct {
	// SessionSecret signs session identifiers; AuditHashKey keys the HMAC
	// hashes stored in auth logs instead of raw email/IP values.
	SessionSecret string `json:"sessionSecret" yaml:"sessionSecret"`
	AuditHashKey  string `json:"auditHashKey" yaml:"auditHashKey"`

	// AllowedDomain restricts sign-in to addresses of one email domain.
	AllowedDomain string `json:"allowedDomain" yaml:"allowedDomain"`

	// LinkBaseURL is the public base for building magic links, e.g.
	// "https://oj.example.edu/auth/continue".
	LinkBaseURL string `json:"linkBaseUrl" yaml:"linkBaseUrl"`

	TokenTTL   time.Duration `json:"tokenTtl" yaml:"tokenTtl"`
	SessionTTL time.Duration `json:"sessionTtl" yaml:"sessionTtl"`

	// Sliding-window abuse limits: token issuance per email, failed
	// verifications per client IP.
	IssueLimit   int           `json:"issueLimit" yaml:"issueLimit"`
	IssueWindow  time.Duration `json:"issueWindow" yaml:"issueWindow"`
	VerifyLimit  int           `json:"verifyLimit" yaml:"verifyLimit"`
	VerifyWindow time.Duration `json:"verifyWindow" yaml:"verifyWindow"`
}

// CaptchaConfig defines the CAPTCHA verification service settings.
type CaptchaConfig struct {
	Secret    string `json:"secret" yaml:"secret"`
	VerifyURL string `json:"verifyUrl" yaml:"verifyUrl"`
}

// EmailConfig defines the transactional email API settings.
type EmailConfig struct {
	APIKey   string `json:"apiKey" yaml:"apiKey"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	From     string `json:"from" yaml:"from"`
}

// QueueConfig defines grading job queue settings.
type QueueConfig struct {
	// Provider type: "local" for local HTTP push or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

const (
	defaultTokenTTL    = 5 * time.Minute
	defaultSessionTTL  = 7 * 24 * time.Hour
	defaultIssueLimit  = 5
	defaultVerifyLimit = 20
	defaultQuotaWindow = time.Hour
	defaultCaptchaURL  = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	defaultEmailAPI    = "https://api.resend.com/emails"
)

// Mode returns the execution mode derived from the environment name.
func (c *Config) Mode() ExecutionMode {
	return ExecutionMode(strings.ToLower(strings.TrimSpace(c.Env.Env)))
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: AUTH_SESSIONSECRET -> auth.sessionSecret (not auth.sessionsecret)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = defaultSessionTTL
	}
	if c.Auth.IssueLimit <= 0 {
		c.Auth.IssueLimit = defaultIssueLimit
	}
	if c.Auth.IssueWindow <= 0 {
		c.Auth.IssueWindow = defaultQuotaWindow
	}
	if c.Auth.VerifyLimit <= 0 {
		c.Auth.VerifyLimit = defaultVerifyLimit
	}
	if c.Auth.VerifyWindow <= 0 {
		c.Auth.VerifyWindow = defaultQuotaWindow
	}
	if c.Captcha != nil && c.Captcha.VerifyURL == "" {
		c.Captcha.VerifyURL = defaultCaptchaURL
	}
	if c.Email != nil && c.Email.Endpoint == "" {
		c.Email.Endpoint = defaultEmailAPI
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
