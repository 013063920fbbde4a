package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Optimize operation defaults
	v.SetDefault("ai.optimize.provider", "gemini")
	v.SetDefault("ai.optimize.model", "")
	v.SetDefault("ai.optimize.timeout", 90*time.Second) // Rewriting a full resume takes a while
	v.SetDefault("ai.optimize.apiKey", "")
	v.SetDefault("ai.optimize.maxRetries", 2)
	v.SetDefault("ai.optimize.temperature", 0.3) // Lower temperature for consistency
	v.SetDefault("ai.optimize.useSystemPrompts", true)

	// Circuit Breaker Configuration defaults
	v.SetDefault("ai.optimize.circuitBreaker.enabled", true)
	v.SetDefault("ai.optimize.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.optimize.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.optimize.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.optimize.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.optimize.circuitBreaker.failureThreshold", 0.6)

	// Scoring Configuration
	v.SetDefault("scoring.simple.keyword", 0.5)
	v.SetDefault("scoring.simple.semantic", 0.3)
	v.SetDefault("scoring.simple.format", 0.2)
	v.SetDefault("scoring.full.skills", 0.4)
	v.SetDefault("scoring.full.experience", 0.3)
	v.SetDefault("scoring.full.education", 0.2)
	v.SetDefault("scoring.full.keywords", 0.1)
	v.SetDefault("scoring.min_score", 0.7)

	// Index Configuration
	v.SetDefault("index.enabled", true)
	v.SetDefault("index.path", "data/resume_index.json")

	// Keyword Catalog Configuration
	v.SetDefault("keywords.catalogPath", "")
	v.SetDefault("keywords.watch", false)
	v.SetDefault("keywords.debounceDelay", time.Second)

	// Optimizer Configuration
	v.SetDefault("optimizer.targetScore", 0.8)
	v.SetDefault("optimizer.outputSuffix", "_optimized")

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")           // TLS 1.2 minimum
	v.SetDefault("server.tls.cipherSuites", []string{})    // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "atscore")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.scoringMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.scoringMetrics.trackScoreDistribution", true)
	v.SetDefault("observability.customMetrics.scoringMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackIndexSize", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
