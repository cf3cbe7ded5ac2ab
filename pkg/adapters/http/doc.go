// Package http exposes simulation and validation of machine definitions as a
// small JSON API routed with chi.
//
//	POST /v1/simulate   run a definition to completion (or to max_steps)
//	POST /v1/validate   parse a definition and list lint issues
//	GET  /metrics       prometheus collectors, when a Gatherer is configured
//	GET  /healthz       liveness probe
package http
