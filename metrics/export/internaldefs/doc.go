// Package internaldefs carries the shared metric name table and bucket
// helpers used by the Prometheus and OTel exporters. It exists so both
// exporters render identical series names without importing each other.
package internaldefs
