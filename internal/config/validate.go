package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	if cfg.Server.TLS.Enabled {
		if cfg.Server.TLS.CertPath == "" || cfg.Server.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "server.tls",
				Message: "certPath and keyPath are required when TLS is enabled",
			})
		}
	}

	if cfg.Assistant.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "assistant.apiKey",
			Message: "required (set CHATGATE_API_KEY or assistant.apiKey)",
		})
	}
	if cfg.Assistant.AssistantID == "" {
		issues = append(issues, ValidationIssue{
			Path:    "assistant.assistantId",
			Message: "required (set CHATGATE_ASSISTANT_ID or assistant.assistantId)",
		})
	}
	if cfg.Assistant.PollIntervalMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "assistant.pollIntervalMs",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Assistant.PollIntervalMs),
		})
	}
	if cfg.Assistant.PollTimeoutMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "assistant.pollTimeoutMs",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Assistant.PollTimeoutMs),
		})
	}

	if cfg.Auth.LoginURL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "auth.loginUrl",
			Message: "required: unauthenticated requests need a redirect target",
		})
	}

	validPolicies := []string{WritePolicyStrict, WritePolicyBestEffort}
	if cfg.Audit.WritePolicy != "" && !slices.Contains(validPolicies, cfg.Audit.WritePolicy) {
		issues = append(issues, ValidationIssue{
			Path:    "audit.writePolicy",
			Message: fmt.Sprintf("must be one of %v, got %q", validPolicies, cfg.Audit.WritePolicy),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
