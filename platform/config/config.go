// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// TenancyConfig provides settings for tenant resolution.
type TenancyConfig interface {
	GetTenantsDir() string
	GetTenantHeader() string
	GetTenantFromDID() bool
}

// AdminConfig provides the shared secret for the catalog admin surface.
type AdminConfig interface {
	GetAdminAPIKey() string
}

// AIConfig provides settings for the reasoning oracle and slot extractor.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

// SpeechConfig provides settings for speech synthesis.
type SpeechConfig interface {
	GetGeminiAPIKey() string
	GetSpeechModel() string
	GetAudioDir() string
}

// EmailConfig provides settings for the notification sender.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetNotificationsEmail() string
}

// SessionConfig provides settings for the session store.
type SessionConfig interface {
	GetSessionBackend() string
	GetRedisURL() string
	GetSessionTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetLeadFollowUpDelay() time.Duration
}

// DialogConfig provides settings for the dialog orchestrator.
type DialogConfig interface {
	GetTimezone() string
}

// RateLimitConfig provides settings for the public rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll bool
	CORSOrigins  []string

	TenantsDir    string
	TenantHeader  string
	TenantFromDID bool

	AdminAPIKey string

	GeminiAPIKey string
	GeminiModel  string
	SpeechModel  string
	AudioDir     string

	EmailEnabled       bool
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	EmailFromName      string
	EmailFromAddress   string
	NotificationsEmail string

	SessionBackend string
	RedisURL       string
	SessionTTL     time.Duration

	AsynqQueueName    string
	AsynqConcurrency  int
	LeadFollowUpDelay time.Duration

	Timezone string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, with .env as a fallback.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		CORSAllowAll: getBool("CORS_ALLOW_ALL", true),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "")),

		TenantsDir:    getEnv("TENANTS_DIR", "tenants"),
		TenantHeader:  getEnv("TENANT_HEADER", "X-Tenant"),
		TenantFromDID: getBool("TENANT_FROM_DID", true),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SpeechModel:  getEnv("GEMINI_SPEECH_MODEL", "gemini-2.5-flash-preview-tts"),
		AudioDir:     getEnv("AUDIO_DIR", "audio_responses"),

		EmailEnabled:       getBool("EMAIL_ENABLED", false),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getInt("SMTP_PORT", 587),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Rental Voice Notifications"),
		EmailFromAddress:   getEnv("EMAIL_FROM_ADDRESS", "no-reply@localhost"),
		NotificationsEmail: os.Getenv("NOTIFICATIONS_EMAIL"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),

		AsynqQueueName:    getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:  getInt("ASYNQ_CONCURRENCY", 10),
		LeadFollowUpDelay: getDuration("LEAD_FOLLOWUP_DELAY", 24*time.Hour),

		Timezone: getEnv("TIMEZONE", "America/Los_Angeles"),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.SessionBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetHTTPAddr() string     { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool   { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetTenantsDir() string  { return c.TenantsDir }
func (c *Config) GetTenantHeader() string { return c.TenantHeader }
func (c *Config) GetTenantFromDID() bool  { return c.TenantFromDID }

func (c *Config) GetAdminAPIKey() string { return c.AdminAPIKey }

func (c *Config) GetGeminiAPIKey() string { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string  { return c.GeminiModel }
func (c *Config) GetSpeechModel() string  { return c.SpeechModel }
func (c *Config) GetAudioDir() string     { return c.AudioDir }

func (c *Config) GetEmailEnabled() bool        { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string          { return c.SMTPHost }
func (c *Config) GetSMTPPort() int             { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string      { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string      { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string     { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string  { return c.EmailFromAddress }
func (c *Config) GetNotificationsEmail() string { return c.NotificationsEmail }

func (c *Config) GetSessionBackend() string     { return c.SessionBackend }
func (c *Config) GetRedisURL() string           { return c.RedisURL }
func (c *Config) GetSessionTTL() time.Duration  { return c.SessionTTL }

func (c *Config) GetAsynqQueueName() string            { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int             { return c.AsynqConcurrency }
func (c *Config) GetLeadFollowUpDelay() time.Duration  { return c.LeadFollowUpDelay }

func (c *Config) GetTimezone() string { return c.Timezone }

func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
