package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"rescreen/internal/ai"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "rescreen",
		"version": s.Version,
	}

	modelStatus := s.checkModelHealth()
	response["ai_model"] = modelStatus

	response["circuit_breaker"] = s.checkCircuitBreakerHealth()

	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
	}

	if !modelStatus.Available {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkModelHealth checks the availability of the configured screening model
func (s *Server) checkModelHealth() *ai.ModelInfo {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiService, err := ai.NewService(s.AppConfig, s.Logger)
	if err != nil {
		return &ai.ModelInfo{
			Name:      s.AppConfig.AI.Model,
			Available: false,
			Error:     fmt.Sprintf("Failed to create AI service: %v", err),
		}
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			s.Logger.Debug("Failed to close AI service", "error", err)
		}
	}()

	return aiService.GetModelInfo(ctx)
}

// checkCircuitBreakerHealth reports circuit breaker state for the screening
// backend
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	if !s.AppConfig.AI.CircuitBreaker.Enabled {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"enabled": true,
		"message": "Circuit breaker integrated with screening service",
	}
}

// checkCertificateHealth reports TLS certificate status when hot-reload is
// active
func (s *Server) checkCertificateHealth() map[string]any {
	if s.certReloader == nil {
		return nil
	}

	certStatus := map[string]any{
		"auto_reload": true,
	}

	timeToExpiry, err := s.certReloader.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= 24*time.Hour:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= 7*24*time.Hour:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}

	certStatus["reload_count"] = s.certReloader.ReloadCount()

	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "rescreen",
		"version": s.Version,
		"server": map[string]any{
			"max_upload_size_bytes": s.MaxUploadSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
