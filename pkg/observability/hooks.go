package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/statespace/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event on logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			logger.InfoContext(ctx, "generate",
				"variables", e.Variables,
				"states", e.States,
				"duration", e.Duration,
			)
		},
		OnGateRejected: func(ctx context.Context, e *domain.GateEvent) {
			logger.InfoContext(ctx, "gate_rejected",
				"variables", e.Variables,
				"reasons", e.Reasons,
			)
		},
		OnExport: func(ctx context.Context, e *domain.ExportEvent) {
			logger.InfoContext(ctx, "export",
				"format", e.Format,
				"bytes", e.Bytes,
				"cache_hit", e.CacheHit,
			)
		},
	}
}

// Combine merges hook sets. Each event is delivered to every non-nil callback in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnGenerate != nil {
			prev, next := out.OnGenerate, h.OnGenerate
			out.OnGenerate = func(ctx context.Context, e *domain.GenerateEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnGateRejected != nil {
			prev, next := out.OnGateRejected, h.OnGateRejected
			out.OnGateRejected = func(ctx context.Context, e *domain.GateEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnExport != nil {
			prev, next := out.OnExport, h.OnExport
			out.OnExport = func(ctx context.Context, e *domain.ExportEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
