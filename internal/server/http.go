package server

import (
	"time"

	"atscore/internal/config"
	atsErrors "atscore/internal/errors"
	"atscore/internal/index"
	"atscore/internal/keywords"
	"atscore/internal/scoring"
	"atscore/internal/types"
)

// ScoreRequest represents the request body for the score endpoint
type ScoreRequest struct {
	Resume         string            `json:"resume"`
	JobDescription string            `json:"jobDescription"`
	Full           bool              `json:"full,omitempty"`
	Job            types.JobMetadata `json:"job,omitempty"`
}

// OptimizeRequest represents the request body for the optimize endpoint
type OptimizeRequest struct {
	Resume         string  `json:"resume"`
	JobDescription string  `json:"jobDescription"`
	TargetScore    float64 `json:"targetScore,omitempty"`
}

// SimilarRequest represents the request body for the similar endpoint
type SimilarRequest struct {
	JobDescription string `json:"jobDescription"`
	Limit          int    `json:"limit,omitempty"`
}

// OptimizeResponse carries the optimized resume text alongside the result
type OptimizeResponse struct {
	types.OptimizationResult
	OptimizedResume string `json:"optimizedResume"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Scoring engine and similarity index, wired during Start
	Engine         *scoring.Engine
	Index          *index.Index
	catalogWatcher *keywords.CatalogWatcher

	// Logger
	Logger *atsErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *atsErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
