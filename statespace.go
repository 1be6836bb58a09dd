package statespace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/gate"
	"github.com/aretw0/statespace/pkg/ports"
	"github.com/aretw0/statespace/pkg/product"
)

// ErrNoLoader is returned by LoadSet and ListSets when no SetLoader was configured.
var ErrNoLoader = errors.New("no set loader configured")

// Engine is the high-level entry point for the statespace library.
// It runs the gate, the generator and the serializer, and adds the optional
// concerns hosts need: named sets, an export cache, limits and hooks.
//
// An Engine is safe for concurrent use as long as its loader and cache are.
type Engine struct {
	loader    ports.SetLoader
	cache     ports.ExportCache
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	gate      gate.Options
	maxStates int
	csv       export.Options
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects the SetLoader used by LoadSet and ListSets.
func WithLoader(l ports.SetLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCache enables the export cache.
func WithCache(c ports.ExportCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPolicy selects the gate policy (default: gate.PolicyStrict).
func WithPolicy(p gate.Policy) Option {
	return func(e *Engine) {
		e.gate.Policy = p
	}
}

// WithUniqueNames enables the uniqueness check in the gate.
func WithUniqueNames(enabled bool) Option {
	return func(e *Engine) {
		e.gate.UniqueNames = enabled
	}
}

// WithMaxStates makes Generate fail with product.ErrTooManyStates instead of
// allocating more than n states. Zero means no limit.
func WithMaxStates(n int) Option {
	return func(e *Engine) {
		e.maxStates = n
	}
}

// WithCSVOptions sets the CSV variant used by Export.
func WithCSVOptions(opts export.Options) Option {
	return func(e *Engine) {
		e.csv = opts
	}
}

// New initializes a new Engine. Without options it behaves exactly like the
// package-level Generate: strict gate, no limit, no cache.
func New(opts ...Option) *Engine {
	eng := &Engine{
		gate: gate.Options{Policy: gate.PolicyStrict},
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return eng
}

// With returns a copy of the engine with opts applied on top, sharing its
// loader, cache and hooks. Hosts use it for per-request settings.
func (e *Engine) With(opts ...Option) *Engine {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Generate runs the strict gate over set and returns the state space.
// A malformed or empty set yields the empty space.
func Generate(set domain.VariableSet) domain.StateSpace {
	res := gate.Check(set)
	if !res.Passed {
		return domain.StateSpace{}
	}
	return product.Product(res.Eligible)
}

// Check runs the configured gate without generating.
func (e *Engine) Check(set domain.VariableSet) gate.Result {
	return gate.CheckWith(set, e.gate)
}

// Generate runs the gate and, when it passes, the generator.
// A rejected set is not an error: the space is empty and the gate result tells why.
// The only error is product.ErrTooManyStates when a limit is configured.
func (e *Engine) Generate(ctx context.Context, set domain.VariableSet) (domain.StateSpace, gate.Result, error) {
	start := time.Now()
	res := e.Check(set)

	if !res.Passed {
		issues := make([]string, len(res.Issues))
		reasons := make([]string, len(res.Issues))
		for i, issue := range res.Issues {
			issues[i] = issue.String()
			reasons[i] = string(issue.Reason)
		}
		e.logger.Info("gate rejected variable set", "variables", len(set), "issues", issues)
		if e.hooks.OnGateRejected != nil {
			e.hooks.OnGateRejected(ctx, &domain.GateEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventGateRejected},
				Variables: len(set),
				Reasons:   reasons,
			})
		}
		e.emitGenerate(ctx, len(set), 0, start)
		return domain.StateSpace{}, res, nil
	}

	space, err := product.Bounded(res.Eligible, e.maxStates)
	if err != nil {
		e.logger.Warn("state space refused", "variables", len(res.Eligible), "err", err)
		return nil, res, err
	}

	e.logger.Debug("state space generated", "variables", len(res.Eligible), "states", len(space), "gate", string(e.gate.Policy))
	e.emitGenerate(ctx, len(res.Eligible), len(space), start)
	return space, res, nil
}

func (e *Engine) emitGenerate(ctx context.Context, vars, states int, start time.Time) {
	if e.hooks.OnGenerate == nil {
		return
	}
	e.hooks.OnGenerate(ctx, &domain.GenerateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventGenerate},
		Variables: vars,
		States:    states,
		Duration:  time.Since(start),
	})
}

// Output is an encoded state space.
type Output struct {
	Format   export.Format
	Data     []byte
	OK       bool // false when there is nothing to write (empty CSV)
	CacheHit bool
}

// Export generates the space for set and encodes it in format.
// With a cache configured, identical requests are served from it; cache
// failures only cost a recomputation.
func (e *Engine) Export(ctx context.Context, set domain.VariableSet, format export.Format) (*Output, error) {
	key, keyErr := e.cacheKey(set, format)

	if e.cache != nil && keyErr == nil {
		data, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			out := &Output{Format: format, Data: data, OK: len(data) > 0 || format != export.FormatCSV, CacheHit: true}
			e.logger.Debug("export served from cache", "format", string(format), "bytes", len(data))
			e.emitExport(ctx, out)
			return out, nil
		case !errors.Is(err, ports.ErrCacheMiss):
			e.logger.Warn("export cache read failed", "err", err)
		}
	}

	space, _, err := e.Generate(ctx, set)
	if err != nil {
		return nil, err
	}
	data, ok, err := export.Render(format, space, e.csv)
	if err != nil {
		return nil, err
	}
	out := &Output{Format: format, Data: data, OK: ok}

	if e.cache != nil && keyErr == nil {
		if err := e.cache.Set(ctx, key, data); err != nil {
			e.logger.Warn("export cache write failed", "err", err)
		}
	}

	e.emitExport(ctx, out)
	return out, nil
}

func (e *Engine) emitExport(ctx context.Context, out *Output) {
	if e.hooks.OnExport == nil {
		return
	}
	e.hooks.OnExport(ctx, &domain.ExportEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventExport},
		Format:    string(out.Format),
		Bytes:     len(out.Data),
		CacheHit:  out.CacheHit,
	})
}

// cacheKey hashes every input that can change an export.
func (e *Engine) cacheKey(set domain.VariableSet, format export.Format) (string, error) {
	if _, err := export.ParseFormat(string(format)); err != nil {
		return "", err
	}
	payload, err := json.Marshal(struct {
		Set       domain.VariableSet `json:"set"`
		Gate      gate.Options       `json:"gate"`
		MaxStates int                `json:"max_states"`
		Format    export.Format      `json:"format"`
		CSV       export.Options     `json:"csv"`
	}{set, e.gate, e.maxStates, format, e.csv})
	if err != nil {
		return "", fmt.Errorf("failed to build cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// LoadSet resolves a named set through the configured loader.
func (e *Engine) LoadSet(ctx context.Context, name string) (domain.VariableSet, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	return e.loader.LoadSet(ctx, name)
}

// ListSets lists the named sets of the configured loader.
func (e *Engine) ListSets(ctx context.Context) ([]string, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	return e.loader.ListSets(ctx)
}

// Loader returns the underlying SetLoader, or nil.
func (e *Engine) Loader() ports.SetLoader {
	return e.loader
}

// MaxStates returns the state limit in effect, zero when unlimited.
func (e *Engine) MaxStates() int {
	return e.maxStates
}

// GateOptions returns the gate configuration in effect.
func (e *Engine) GateOptions() gate.Options {
	return e.gate
}

// CSVOptions returns the CSV variant used by Export.
func (e *Engine) CSVOptions() export.Options {
	return e.csv
}
