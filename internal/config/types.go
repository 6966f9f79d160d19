package config

// Config is the root configuration for chatgate.
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	Assistant AssistantConfig `yaml:"assistant,omitempty"`
	Auth      AuthConfig      `yaml:"auth,omitempty"`
	Audit     AuditConfig     `yaml:"audit,omitempty"`
	Static    StaticConfig    `yaml:"static,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// ServerConfig controls the gateway HTTP server.
type ServerConfig struct {
	Port           int       `yaml:"port,omitempty"`
	Bind           string    `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string    `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string  `yaml:"allowedOrigins,omitempty"`
	TLS            TLSConfig `yaml:"tls,omitempty"`
}

// TLSConfig configures TLS for the gateway.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// AssistantConfig holds the remote assistant service credentials and
// polling policy.
type AssistantConfig struct {
	APIKey      string `yaml:"apiKey,omitempty"`
	AssistantID string `yaml:"assistantId,omitempty"`
	BaseURL     string `yaml:"baseUrl,omitempty"` // custom API endpoint; empty = provider default
	// PollIntervalMs is the delay between run status polls (default 1000).
	PollIntervalMs int `yaml:"pollIntervalMs,omitempty"`
	// PollTimeoutMs bounds the whole poll loop (default 120000). A run that
	// has not reached a terminal status by then fails the request.
	PollTimeoutMs int `yaml:"pollTimeoutMs,omitempty"`
}

// AuthConfig configures the session identity gate.
type AuthConfig struct {
	// CookieName is the identity cookie set by the upstream SSO flow.
	CookieName string `yaml:"cookieName,omitempty"`
	// LoginURL is where unauthenticated requests are redirected.
	LoginURL string `yaml:"loginUrl,omitempty"`
	// SigningSecret enables HMAC verification of the cookie value. When
	// empty the gate trusts cookie presence alone, matching the upstream
	// SSO deployment where the cookie host is the trust boundary.
	SigningSecret string `yaml:"signingSecret,omitempty"`
}

// AuditConfig controls the exchange log store.
type AuditConfig struct {
	DBPath string `yaml:"dbPath,omitempty"`
	// WritePolicy is "strict" (a failed log write fails the chat request)
	// or "best-effort" (the response is still returned, failure is logged).
	WritePolicy string `yaml:"writePolicy,omitempty"`
}

// StaticConfig optionally serves a frontend directory at /.
type StaticConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// WritePolicyStrict fails the chat request when the audit write fails.
const WritePolicyStrict = "strict"

// WritePolicyBestEffort returns the response even when the audit write fails.
const WritePolicyBestEffort = "best-effort"
