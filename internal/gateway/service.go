package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"time"

	"github.com/nulzo/metasearch/internal/llm"
	"github.com/nulzo/metasearch/internal/llm/processing"
	"github.com/nulzo/metasearch/internal/store/cache"
	"github.com/nulzo/metasearch/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	tracerName   = "github.com/nulzo/metasearch/internal/gateway"
	cacheTimeout = 2 * time.Second
)

// Service fans a query out to every registered provider.
type Service interface {
	// RegisterProvider appends a provider. Registration order is response order.
	RegisterProvider(ctx context.Context, p llm.Provider) error

	// Providers returns the registered providers in order.
	Providers() []llm.Provider

	// Process calls every provider concurrently and waits for all of them.
	// Provider failures are entries in the result; the returned error is only
	// set when the query cannot be dispatched at all.
	Process(ctx context.Context, q api.Query) (*api.AggregateResult, error)
}

type Option func(*service)

// WithCache stores fully successful results for ttl.
func WithCache(c cache.CacheService, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

type service struct {
	logger   *zap.Logger
	registry *registry
	tracer   trace.Tracer
	cache    cache.CacheService
	cacheTTL time.Duration
}

func NewService(logger *zap.Logger, opts ...Option) Service {
	s := &service{
		logger:   logger,
		registry: newRegistry(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RegisterProvider(ctx context.Context, p llm.Provider) error {
	return s.registry.add(p)
}

func (s *service) Providers() []llm.Provider {
	return s.registry.snapshot()
}

func (s *service) Process(ctx context.Context, q api.Query) (*api.AggregateResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	providers := s.registry.snapshot()
	if len(providers) == 0 {
		return nil, api.NoProvidersError()
	}

	ctx, span := s.tracer.Start(ctx, "aggregate.process", trace.WithAttributes(
		attribute.Int("providers", len(providers)),
		attribute.Bool("image", q.Image != nil),
	))
	defer span.End()

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}

	var key string
	if s.cache != nil {
		key = CacheKey(q, names)
		if cached, ok := s.lookup(ctx, key, names); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}

	// each goroutine writes only its own slot, so assembly below does not
	// depend on completion order
	outcomes := make([]api.Outcome, len(providers))

	var eg errgroup.Group
	for i, p := range providers {
		eg.Go(func() error {
			outcomes[i] = s.invokeSafe(ctx, p, q)
			return nil
		})
	}
	_ = eg.Wait()

	result := api.NewAggregateResult(len(providers))
	for i, name := range names {
		result.Set(name, outcomes[i])
	}

	s.store(ctx, key, result)

	return result, nil
}

// invokeSafe runs one provider call and turns a panic or an empty outcome into
// an Unknown failure, so a fault never reaches sibling calls.
func (s *service) invokeSafe(ctx context.Context, p llm.Provider, q api.Query) (out api.Outcome) {
	name := p.Name()

	ctx, span := s.tracer.Start(ctx, "provider.call", trace.WithAttributes(
		attribute.String("provider.name", name),
		attribute.String("provider.type", p.Type()),
	))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Provider call panicked",
				zap.String("provider", name),
				zap.Any("panic", r),
			)
			out = processing.Recovered(name, r)
		}
		if out.Response == nil && out.Err == nil {
			out = processing.Recovered(name, "provider returned no outcome")
		}
		s.record(span, name, out, time.Since(start))
		span.End()
	}()

	return p.Call(ctx, q.Question, q.Image)
}

func (s *service) record(span trace.Span, name string, out api.Outcome, elapsed time.Duration) {
	if out.OK() {
		span.SetAttributes(attribute.String("outcome", "success"))
		span.SetStatus(codes.Ok, "")
		s.logger.Info("Provider answered",
			zap.String("provider", name),
			zap.Duration("elapsed", elapsed),
		)
		return
	}

	span.SetAttributes(
		attribute.String("outcome", "failure"),
		attribute.String("cause", string(out.Err.Cause)),
	)
	span.SetStatus(codes.Error, out.Err.Message)
	s.logger.Warn("Provider failed",
		zap.String("provider", name),
		zap.String("cause", string(out.Err.Cause)),
		zap.String("error", out.Err.Message),
		zap.Duration("elapsed", elapsed),
	)
}

// lookup returns a cached result only if it holds exactly the registered
// providers in registration order.
func (s *service) lookup(ctx context.Context, key string, names []string) (*api.AggregateResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	var cached api.AggregateResult
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && slices.Equal(cached.Providers(), names):
		s.logger.Debug("Serving cached result", zap.String("key", key))
		return &cached, true
	case err == nil:
		s.logger.Debug("Ignoring cached result for a different provider set",
			zap.String("key", key),
			zap.Strings("cached", cached.Providers()),
		)
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("Cache lookup failed", zap.Error(err))
	}
	return nil, false
}

// store caches results in which every provider succeeded. Failures are always
// retried on the next identical query.
func (s *service) store(ctx context.Context, key string, result *api.AggregateResult) {
	if s.cache == nil || !result.AllSucceeded() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("Cache store failed", zap.Error(err))
	}
}

// CacheKey identifies a query by the ordered provider set, the question and
// the image content. Compare is not part of the key because it does not change
// the result.
func CacheKey(q api.Query, providers []string) string {
	h := sha256.New()
	for _, name := range providers {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	h.Write([]byte{0})
	h.Write([]byte(q.Question))
	h.Write([]byte{0})
	if q.Image != nil {
		h.Write([]byte(q.Image.MimeType))
		h.Write([]byte{0})
		h.Write(q.Image.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
