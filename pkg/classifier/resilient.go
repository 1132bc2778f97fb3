package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/echohealth-screening-server/internal/domain"
)

// ResilientClient wraps a RemoteClassifier with a circuit breaker and a
// small in-process memo of successful responses. While the breaker is open,
// a memoized response for the same profile is served instead of failing.
type ResilientClient struct {
	inner   RemoteClassifier
	breaker *gobreaker.CircuitBreaker
	memo    *lru.Cache
	log     *logrus.Logger
}

// NewResilientClient creates a resilient classifier wrapper.
func NewResilientClient(inner RemoteClassifier, memoSize int, logger *logrus.Logger) (*ResilientClient, error) {
	if memoSize <= 0 {
		memoSize = 64
	}

	memo, err := lru.New(memoSize)
	if err != nil {
		return nil, fmt.Errorf("creating response memo: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			// Authentication failures reflect the caller's session, not the
			// service's health; they must not trip the breaker.
			return err == nil || errors.Is(err, domain.ErrUnauthorized)
		},
	})

	return &ResilientClient{
		inner:   inner,
		breaker: breaker,
		memo:    memo,
		log:     logger,
	}, nil
}

// Classify runs the wrapped client through the circuit breaker.
func (r *ResilientClient) Classify(ctx context.Context, profile *domain.SymptomProfile, token string) (*Response, error) {
	key := profileKey(profile)

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.Classify(ctx, profile, token)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			if cached, ok := r.memo.Get(key); ok {
				r.log.Debug("Serving memoized classifier response while breaker is open")
				return cached.(*Response), nil
			}
			return nil, fmt.Errorf("classifier circuit open: %w", domain.ErrRemoteUnavailable)
		}
		return nil, err
	}

	resp := result.(*Response)
	r.memo.Add(key, resp)
	return resp, nil
}

// State exposes the breaker state for health reporting.
func (r *ResilientClient) State() gobreaker.State {
	return r.breaker.State()
}

// profileKey hashes the identifying fields of a profile into a memo key.
func profileKey(p *domain.SymptomProfile) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("classify:%x", sum[:8])
}
