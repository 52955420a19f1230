// Package prometheus renders client metrics in the Prometheus text
// exposition format, pull-style, without taking a dependency on the
// Prometheus client library.
package prometheus
