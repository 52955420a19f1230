package internaldefs

import (
	"github.com/anirudhv/accredauth"
)

// CounterDef maps one internal counter onto an exported series name.
type CounterDef struct {
	ID   accredauth.MetricID
	Name string
	Help string
}

// HistogramDef maps one internal histogram onto an exported series name.
type HistogramDef struct {
	ID   accredauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter, in export order.
var CounterDefs = []CounterDef{
	{ID: accredauth.MetricOTPRequestSuccess, Name: "accredauth_otp_request_success_total", Help: "Accepted credential submissions."},
	{ID: accredauth.MetricOTPRequestFailure, Name: "accredauth_otp_request_failure_total", Help: "Rejected credential submissions."},
	{ID: accredauth.MetricOTPRequestRateLimited, Name: "accredauth_otp_request_rate_limited_total", Help: "Rate-limited credential submissions."},
	{ID: accredauth.MetricOTPRequestNetworkError, Name: "accredauth_otp_request_network_error_total", Help: "Credential submissions that reached no server."},
	{ID: accredauth.MetricVerifySuccess, Name: "accredauth_verify_success_total", Help: "Successful OTP verifications."},
	{ID: accredauth.MetricVerifyFailure, Name: "accredauth_verify_failure_total", Help: "Failed OTP verifications."},
	{ID: accredauth.MetricVerifyDuplicateDrop, Name: "accredauth_verify_duplicate_drop_total", Help: "OTP submissions dropped by the in-flight gate."},
	{ID: accredauth.MetricSessionSaved, Name: "accredauth_session_saved_total", Help: "Session store writes."},
	{ID: accredauth.MetricSessionCleared, Name: "accredauth_session_cleared_total", Help: "Session store clears."},
	{ID: accredauth.MetricSessionMalformed, Name: "accredauth_session_malformed_total", Help: "Stored session records that failed to parse."},
	{ID: accredauth.MetricLogout, Name: "accredauth_logout_total", Help: "Logout operations."},
	{ID: accredauth.MetricFederatedStarted, Name: "accredauth_federated_started_total", Help: "Initiated federated redirects."},
	{ID: accredauth.MetricFederatedSignIn, Name: "accredauth_federated_sign_in_total", Help: "Federated sign-in completions."},
	{ID: accredauth.MetricFederatedSignOut, Name: "accredauth_federated_sign_out_total", Help: "Federated sign-out notifications."},
	{ID: accredauth.MetricFederatedError, Name: "accredauth_federated_error_total", Help: "Federated provider failures."},
}

// HistogramDefs lists every exported histogram, in export order.
var HistogramDefs = []HistogramDef{
	{ID: accredauth.MetricRequestLatency, Name: "accredauth_request_latency_seconds", Help: "Auth-service round-trip latency histogram."},
}

// HistogramBounds are the Prometheus le labels for the fixed buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe variants of the bounds for
// exporters that cannot carry labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice into the fixed
// bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
