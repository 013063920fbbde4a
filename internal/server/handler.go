package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"atscore/internal/ai"
	"atscore/internal/observability"
	"atscore/internal/optimizer"
	"atscore/internal/parser"
	"atscore/internal/render"
	"atscore/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		// Parse request
		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateResumeAndJob(req.Resume, req.JobDescription, w, span); err != nil {
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Bool("request.full_mode", req.Full),
			attribute.String("operation", "score"),
		)

		resume := parser.Parse(req.Resume)

		var details types.ScoreDetails
		if req.Full {
			details = s.Engine.ScoreFull(resume, req.JobDescription)
		} else {
			details = s.Engine.Score(resume, req.JobDescription)
		}

		if s.AppConfig.Index.Enabled {
			if _, err := s.Engine.Record(resume, req.JobDescription, "", details, req.Job); err != nil {
				s.Logger.Warn("Failed to record score in similarity index", "error", err)
			}
		}

		// Record success metrics
		metrics := om.GetMetrics()
		metrics.RecordScoringMetric(ctx, "resume_scored", true, om,
			attribute.Bool("full_mode", req.Full),
			attribute.Bool("should_proceed", details.ShouldProceed))
		metrics.RecordScoreValue(ctx, details.TotalScore, om,
			attribute.Bool("full_mode", req.Full))
		if s.Index != nil {
			metrics.RecordIndexSize(ctx, int64(s.Index.Len()), om)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.total_score", details.TotalScore),
			attribute.Bool("response.should_proceed", details.ShouldProceed),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(details); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createOptimizeHandler wraps the optimize handler with observability
func (s *Server) createOptimizeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.optimize")
		defer span.End()

		var req OptimizeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateResumeAndJob(req.Resume, req.JobDescription, w, span); err != nil {
			return
		}
		if req.TargetScore < 0 || req.TargetScore > 1 {
			err := fmt.Errorf("invalid target score: %v", req.TargetScore)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid target score", "targetScore must be between 0 and 1", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "optimize"),
		)

		// Create AI service for the optimize operation. A misconfigured
		// provider degrades to the template rewrite instead of failing.
		var provider ai.AIProvider
		optimizeConfig := s.AppConfig.GetOptimizeConfig()
		aiService, err := ai.NewService(&optimizeConfig, "optimize", s.Logger)
		if err != nil {
			s.Logger.Warn("AI provider unavailable, using template optimization", "error", err)
			span.SetAttributes(attribute.Bool("ai.fallback", true))
		} else {
			provider = aiService.Provider
			defer func() {
				if err := aiService.Provider.Close(); err != nil {
					s.Logger.Warn("Failed to close AI provider", "error", err)
				}
			}()
		}

		optimizerCfg := s.AppConfig.Optimizer
		if req.TargetScore > 0 {
			optimizerCfg.TargetScore = req.TargetScore
		}

		o := optimizer.New(s.Engine, provider, render.New(s.Logger), optimizerCfg, s.Logger)
		optimized, result, err := o.Optimize(ctx, parser.Parse(req.Resume), req.JobDescription)

		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "optimization"))
			metrics.RecordScoringMetric(ctx, "resume_optimized", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to optimize resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordScoringMetric(ctx, "resume_optimized", true, om,
			attribute.Int("keywords_added", len(result.KeywordsAdded)))
		metrics.RecordScoreValue(ctx, result.OptimizedScore, om,
			attribute.Bool("optimized", true))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.original_score", result.OriginalScore),
			attribute.Float64("response.optimized_score", result.OptimizedScore),
			attribute.Int("response.keywords_added", len(result.KeywordsAdded)),
		)

		response := OptimizeResponse{
			OptimizationResult: result,
			OptimizedResume:    parser.Reconstruct(optimized),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createSimilarHandler wraps the similarity search handler with observability
func (s *Server) createSimilarHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.similar")
		defer span.End()

		if s.Index == nil {
			writeErrorResponse(w, "Similarity index disabled", "enable the index to use this endpoint", http.StatusServiceUnavailable)
			return
		}

		var req SimilarRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.limit", req.Limit),
			attribute.String("operation", "similar"),
		)

		hits := s.Index.Search(req.JobDescription, req.Limit)

		metrics := om.GetMetrics()
		metrics.RecordScoringMetric(ctx, "similar_search", true, om,
			attribute.Int("hits", len(hits)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.hits", len(hits)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hits); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// validateResumeAndJob applies the shared request validation for endpoints
// taking a resume and job description. It writes the error response itself
// and returns a non-nil error when the request was rejected.
func (s *Server) validateResumeAndJob(resume, jobDescription string, w http.ResponseWriter, span oteltrace.Span) error {
	if strings.TrimSpace(resume) == "" {
		err := fmt.Errorf("missing resume")
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Missing resume", "resume field is required", http.StatusBadRequest)
		return err
	}
	if strings.TrimSpace(jobDescription) == "" {
		err := fmt.Errorf("missing job description")
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
		return err
	}

	// Size validation
	if s.MaxRequestSize > 0 {
		if len(resume) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume too large: %d chars", len(resume))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume too large", fmt.Sprintf("resume exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return err
		}
		if len(jobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(jobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return err
		}
	}

	return nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordScoringMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
