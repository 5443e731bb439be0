package ai

import (
	"errors"
	"testing"
	"time"

	"rescreen/internal/config"

	"google.golang.org/genai"
)

func enabledBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
}

func TestCompletionCircuitBreaker(t *testing.T) {
	cb := NewCompletionCircuitBreaker(enabledBreakerConfig(), nil)

	t.Run("stats expose name and closed state", func(t *testing.T) {
		stats := cb.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}
		if name != "AI-Completion" {
			t.Errorf("Expected circuit breaker name 'AI-Completion', got '%s'", name)
		}

		state, ok := stats["state"].(string)
		if !ok {
			t.Fatal("Circuit breaker state not found")
		}
		if state != "closed" {
			t.Errorf("Expected initial state 'closed', got '%s'", state)
		}

		enabled, ok := stats["enabled"].(bool)
		if !ok {
			t.Fatal("Circuit breaker enabled status not found")
		}
		if !enabled {
			t.Error("Circuit breaker should be enabled")
		}
	})

	t.Run("healthy initially", func(t *testing.T) {
		if !cb.IsHealthy() {
			t.Error("Circuit breaker should be healthy initially")
		}
	})

	t.Run("passes through results and errors", func(t *testing.T) {
		want := &genai.GenerateContentResponse{}
		got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return want, nil
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got != want {
			t.Error("Execute() did not return the function result")
		}

		wantErr := errors.New("upstream down")
		_, err = cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("Execute() error = %v, want %v", err, wantErr)
		}
	})
}

func TestModelCircuitBreaker(t *testing.T) {
	cb := NewModelCircuitBreaker(enabledBreakerConfig(), nil)

	stats := cb.GetModelStats()
	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Model" {
		t.Errorf("Expected circuit breaker name 'AI-Model', got '%s'", name)
	}

	if !cb.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabled := config.CircuitBreakerConfig{Enabled: false}

	cb := NewCompletionCircuitBreaker(disabled, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker still executes the function directly
	want := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != want {
		t.Error("Execute() did not pass through when disabled")
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Disabled breaker stats should report enabled=false")
	}

	if !cb.IsHealthy() {
		t.Error("Disabled breaker should report healthy")
	}

	mcb := NewModelCircuitBreaker(disabled, nil)
	if mcb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}
	if !mcb.IsModelHealthy() {
		t.Error("Disabled model breaker should report healthy")
	}
}
