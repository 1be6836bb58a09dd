package middleware

import "github.com/aretw0/statespace/pkg/ports"

// Middleware allows wrapping an ExportCache to add behavior.
type Middleware func(ports.ExportCache) ports.ExportCache

// Chain applies middlewares so that the first one is the outermost.
func Chain(cache ports.ExportCache, mws ...Middleware) ports.ExportCache {
	for i := len(mws) - 1; i >= 0; i-- {
		cache = mws[i](cache)
	}
	return cache
}
