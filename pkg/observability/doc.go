/*
Package observability provides tools for monitoring runs of the execution engine.

Metrics are recorded through domain.LifecycleHooks, so the engine itself never
depends on prometheus.
*/
package observability
