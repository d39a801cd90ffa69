package context

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider aggregates retrievers into a map of prompt facts.
type Provider struct {
	retrievers []Retriever
	timeout    time.Duration
	logger     *zap.Logger
}

// NewProvider creates a Provider. timeout bounds each retriever separately;
// zero means no bound beyond the caller's context.
func NewProvider(logger *zap.Logger, timeout time.Duration, retrievers ...Retriever) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		retrievers: retrievers,
		timeout:    timeout,
		logger:     logger,
	}
}

// AddRetriever appends a retriever.
func (p *Provider) AddRetriever(r Retriever) {
	p.retrievers = append(p.retrievers, r)
}

// GetContext runs every retriever in order and returns the trimmed, non-empty
// values keyed by retriever name. Failing retrievers are logged and skipped.
func (p *Provider) GetContext(ctx context.Context) map[string]string {
	return p.GetContextForTypes(ctx, nil)
}

// GetContextForTypes is like GetContext but only runs the named retrievers.
// An empty types list runs all of them.
func (p *Provider) GetContextForTypes(ctx context.Context, types []string) map[string]string {
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			wanted[t] = true
		}
	}

	result := make(map[string]string)
	for _, r := range p.retrievers {
		if len(wanted) > 0 && !wanted[r.Name()] {
			continue
		}

		value, err := p.retrieve(ctx, r)
		if err != nil {
			p.logger.Debug("context retriever failed",
				zap.String("retriever", r.Name()),
				zap.Error(err))
			continue
		}

		if value = strings.TrimSpace(value); value != "" {
			result[r.Name()] = value
		}
	}
	return result
}

func (p *Provider) retrieve(ctx context.Context, r Retriever) (value string, err error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			value, err = "", fmt.Errorf("retriever panicked: %v", rec)
		}
	}()

	start := time.Now()
	value, err = r.GetContext(ctx)
	p.logger.Debug("context retrieved",
		zap.String("retriever", r.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return value, err
}
