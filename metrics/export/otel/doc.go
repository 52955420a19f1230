// Package otel bridges client metrics into an OpenTelemetry meter via
// observable instruments, pull-style: nothing is recorded until the
// reader collects.
package otel
