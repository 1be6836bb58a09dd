/*
Package observability provides tools for monitoring the statespace engine.

Everything here plugs into the engine through domain.LifecycleHooks: Metrics
records Prometheus counters and histograms, LogHooks writes structured log
lines, and Combine fans one event out to several hook sets.
*/
package observability
