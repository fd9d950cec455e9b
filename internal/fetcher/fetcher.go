// Package fetcher resolves the secrets of a vault into values.
//
// Pages of the catalog are walked one after another. The secrets of a page are
// fetched concurrently with at most MaxConcurrentRequests calls in flight, and
// the page is complete only once every launched fetch has returned.
package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/pkg/models"
)

const (
	// MaxConcurrentRequests bounds the in-flight value requests for one page.
	// The vault service throttles clients that exceed its own rate limits.
	MaxConcurrentRequests = 10

	// DefaultRequestTimeout bounds a single value request
	DefaultRequestTimeout = 30 * time.Second
)

// Fetcher resolves pages of secret references into values
type Fetcher struct {
	filter      string
	logger      *zap.Logger
	timeout     time.Duration
	limiter     *rate.Limiter
	concurrency int
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithFilter only resolves secrets whose identifier contains filter
func WithFilter(filter string) Option {
	return func(f *Fetcher) {
		f.filter = filter
	}
}

// WithLogger sets the sink for per-secret failures
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRequestTimeout bounds each value request; zero disables the timeout
func WithRequestTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithRateLimit caps value requests per second across all goroutines;
// zero or negative disables the limit
func WithRateLimit(perSecond float64) Option {
	return func(f *Fetcher) {
		if perSecond <= 0 {
			f.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a Fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		logger:      zap.NewNop(),
		timeout:     DefaultRequestTimeout,
		concurrency: MaxConcurrentRequests,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns the configured identifier filter
func (f *Fetcher) Filter() string {
	return f.filter
}

// Matches reports whether ref passes the identifier filter
func (f *Fetcher) Matches(ref models.SecretRef) bool {
	return f.filter == "" || strings.Contains(ref.ID, f.filter)
}

// ResolvePage fetches the value of every matching secret in page.
// Failed fetches are logged and yield an empty value; the page never fails as a whole.
func (f *Fetcher) ResolvePage(ctx context.Context, client provider.SecretGetter, page []models.SecretRef) []models.SecretValue {
	p := pool.NewWithResults[models.SecretValue]().WithMaxGoroutines(f.concurrency)

	for _, ref := range page {
		if !f.Matches(ref) {
			continue
		}

		p.Go(func() models.SecretValue {
			return f.resolve(ctx, client, ref)
		})
	}

	return p.Wait()
}

func (f *Fetcher) resolve(ctx context.Context, client provider.SecretGetter, ref models.SecretRef) models.SecretValue {
	name := ref.Name()

	value, err := f.get(ctx, client, name)
	if err != nil && ctx.Err() != nil {
		// the walk reports the cancellation
		return models.SecretValue{ID: ref.ID}
	}
	if err != nil {
		err = errs.Fetch(err, "failed to get secret "+name)
		fields := []zap.Field{
			zap.String("secret", name),
			zap.String("id", ref.ID),
			zap.Error(err),
		}
		if hints := errs.Hints(err); len(hints) > 0 {
			fields = append(fields, zap.Strings("hints", hints))
		}
		f.logger.Error("Error fetching secret", fields...)
		return models.SecretValue{ID: ref.ID}
	}

	f.logger.Debug("Fetched secret", zap.String("secret", name))
	return models.SecretValue{ID: ref.ID, Value: value}
}

func (f *Fetcher) get(ctx context.Context, client provider.SecretGetter, name string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	return client.GetSecret(ctx, name)
}
