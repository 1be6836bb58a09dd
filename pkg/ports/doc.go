/*
Package ports defines the driven ports (interfaces) for the statespace engine.

These interfaces decouple the generator from where variable sets come from
and where encoded exports may be cached.

# Key Interfaces

  - SetLoader: Resolves named variable sets (e.g., from a YAML file, a Loam directory or memory).
  - ExportCache: Stores encoded exports keyed by a content hash (e.g., memory or Redis).
*/
package ports
