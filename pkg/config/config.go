package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/nasa"
	ConfigFileName    = "nasa.yml"
)

// NasaConfig holds all gateway configuration settings
type NasaConfig struct {
	// Port is the HTTP listen port
	Port int `yaml:"port" json:"port"`

	// BindAddress is the HTTP listen address
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// DatabaseURL selects the store, postgres:// or sqlite://
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// NasaAPIKey is sent as api_key on every upstream call
	NasaAPIKey string `yaml:"nasa_api_key" json:"nasa_api_key"`

	// NasaBaseURL is the upstream API host
	NasaBaseURL string `yaml:"nasa_base_url" json:"nasa_base_url"`

	// UpstreamTimeout bounds each upstream call
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" json:"upstream_timeout"`

	// TokenTTL is the lifetime of issued bearer tokens
	TokenTTL time.Duration `yaml:"token_ttl" json:"token_ttl"`

	// TokenIssuer is the iss claim of issued tokens
	TokenIssuer string `yaml:"token_issuer" json:"token_issuer"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// TrustedProxies is a list of CIDR ranges whose forwarding headers are honored
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// AuditEnabled turns on the RFC 5424 audit trail
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`
	// AuditDatabase also stores audit events in the audit_messages table
	AuditDatabase bool `yaml:"audit_database" json:"audit_database"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *NasaConfig {
	return &NasaConfig{
		Port:               8080,
		BindAddress:        "127.0.0.1",
		NasaAPIKey:         "DEMO_KEY",
		NasaBaseURL:        "https://api.nasa.gov",
		UpstreamTimeout:    30 * time.Second,
		TokenTTL:           30 * time.Minute,
		TokenIssuer:        "self",
		CORSAllowedOrigins: []string{},
		TrustedProxies:     []string{},
		LogLevel:           "info",
		LogFormat:          "text",
		sources:            make(map[string]string),
	}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*NasaConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("NASA_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig NasaConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"port", "bind_address", "database_url", "nasa_api_key", "nasa_base_url",
		"upstream_timeout", "token_ttl", "token_issuer", "cors_allowed_origins",
		"trusted_proxies", "log_level", "log_format", "audit_enabled",
		"audit_database",
	}
}

func (c *NasaConfig) applyFileConfig(file *NasaConfig) {
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.NasaAPIKey != "" {
		c.NasaAPIKey = file.NasaAPIKey
		c.sources["nasa_api_key"] = "file"
	}
	if file.NasaBaseURL != "" {
		c.NasaBaseURL = file.NasaBaseURL
		c.sources["nasa_base_url"] = "file"
	}
	if file.UpstreamTimeout != 0 {
		c.UpstreamTimeout = file.UpstreamTimeout
		c.sources["upstream_timeout"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.TokenIssuer != "" {
		c.TokenIssuer = file.TokenIssuer
		c.sources["token_issuer"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
		c.sources["log_format"] = "file"
	}
	if file.AuditEnabled {
		c.AuditEnabled = true
		c.sources["audit_enabled"] = "file"
	}
	if file.AuditDatabase {
		c.AuditDatabase = true
		c.sources["audit_database"] = "file"
	}
}

func (c *NasaConfig) applyEnvConfig() error {
	if val := os.Getenv("PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", val, err)
		}
		c.Port = i
		c.sources["port"] = "environment"
	}
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("NASA_API_KEY"); val != "" {
		c.NasaAPIKey = val
		c.sources["nasa_api_key"] = "environment"
	}
	if val := os.Getenv("NASA_BASE_URL"); val != "" {
		c.NasaBaseURL = val
		c.sources["nasa_base_url"] = "environment"
	}
	if val := os.Getenv("NASA_UPSTREAM_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid NASA_UPSTREAM_TIMEOUT %q: %w", val, err)
		}
		c.UpstreamTimeout = d
		c.sources["upstream_timeout"] = "environment"
	}
	if val := os.Getenv("NASA_TOKEN_TTL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid NASA_TOKEN_TTL %q: %w", val, err)
		}
		c.TokenTTL = d
		c.sources["token_ttl"] = "environment"
	}
	if val := os.Getenv("NASA_TOKEN_ISSUER"); val != "" {
		c.TokenIssuer = val
		c.sources["token_issuer"] = "environment"
	}
	if val := os.Getenv("NASA_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("NASA_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.LogFormat = val
		c.sources["log_format"] = "environment"
	}
	if val := os.Getenv("NASA_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("NASA_AUDIT_DATABASE"); val != "" {
		c.AuditDatabase = val == "true" || val == "1"
		c.sources["audit_database"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *NasaConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *NasaConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ListenAddress joins the bind address and port
func (c *NasaConfig) ListenAddress() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *NasaConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *NasaConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream_timeout must be positive, got %s", c.UpstreamTimeout)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.TokenIssuer == "" {
		return fmt.Errorf("token_issuer must not be empty")
	}
	if u, err := url.Parse(c.NasaBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid nasa_base_url: %q", c.NasaBaseURL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q, want text or json", c.LogFormat)
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are masked.
func (c *NasaConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "nasa_api_key", Value: maskSecret(c.NasaAPIKey), Source: c.Source("nasa_api_key")},
		{Name: "nasa_base_url", Value: c.NasaBaseURL, Source: c.Source("nasa_base_url")},
		{Name: "upstream_timeout", Value: c.UpstreamTimeout.String(), Source: c.Source("upstream_timeout")},
		{Name: "token_ttl", Value: c.TokenTTL.String(), Source: c.Source("token_ttl")},
		{Name: "token_issuer", Value: c.TokenIssuer, Source: c.Source("token_issuer")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "audit_database", Value: strconv.FormatBool(c.AuditDatabase), Source: c.Source("audit_database")},
	}
}

// FormatText returns a text representation of the configuration
func (c *NasaConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *NasaConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// maskSecret hides all but the last four characters of s
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
