package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// AI defaults
	v.SetDefault("ai.model", "gemini/gemini-2.0-flash")
	v.SetDefault("ai.timeout", "90s")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.maxOutputTokens", 4096)

	// Circuit breaker defaults
	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", "60s")
	v.SetDefault("ai.circuitBreaker.timeout", "30s")
	v.SetDefault("ai.circuitBreaker.minRequests", 5)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "120s")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.maxUploadSize", 16*1024*1024)

	// TLS defaults
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.autoReload.enabled", false)
	v.SetDefault("server.tls.autoReload.debounceDelay", "1s")

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", true)
	v.SetDefault("server.rateLimit.window", "1m")

	// App defaults
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})

	// Vault defaults
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.mountPath", "secret")
	v.SetDefault("vault.timeout", "10s")

	// Observability defaults
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "rescreen")
	v.SetDefault("observability.serviceVersion", "dev")
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", "30s")
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "")
	v.SetDefault("observability.otlp.insecure", false)
	v.SetDefault("observability.healthCheck.timeout", "5s")
	v.SetDefault("observability.healthCheck.modelCheckTimeout", "10s")
}

// applyFallbacks fills in values from environment variables that do not follow
// the RESCREEN_ prefix convention. AI_API_KEY and AI_MODEL_NAME are the names
// used by existing deployments, so they keep working.
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("AI_API_KEY")
	}
	if model := os.Getenv("AI_MODEL_NAME"); model != "" {
		c.AI.Model = model
	}

	if len(c.Server.APIKeys) == 0 {
		if keys := os.Getenv("RESCREEN_API_KEYS"); keys != "" {
			for _, key := range strings.Split(keys, ",") {
				if key = strings.TrimSpace(key); key != "" {
					c.Server.APIKeys = append(c.Server.APIKeys, key)
				}
			}
		}
	}

	if c.Observability.ServiceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		c.Observability.ServiceInstance = hostname
	}
}

// IsAuthEnabled returns true when the server requires API key authentication
func (c *Config) IsAuthEnabled() bool {
	return len(c.Server.APIKeys) > 0
}

// GracefulShutdownTimeout is how long the server waits for in-flight
// screening requests to finish before forcing exit.
const GracefulShutdownTimeout = 30 * time.Second
