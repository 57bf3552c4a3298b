// Package worker hosts the scheduled mode of the tagger: a cron scheduler
// that runs the pipeline without overlap and an HTTP server exposing
// health probes and Prometheus metrics.
package worker
