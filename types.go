package accredauth

import (
	"io"

	internalaudit "github.com/anirudhv/accredauth/internal/audit"
	internalmetrics "github.com/anirudhv/accredauth/internal/metrics"
)

// Role is the coarse authorization level carried by a session. The model
// has exactly two variants; any unrecognized or absent value degrades to
// [RoleUser].
type Role string

const (
	// RoleAdmin grants access to admin-only routes and forms.
	RoleAdmin Role = "admin"
	// RoleUser can authenticate and navigate but is redirected away from
	// admin-only routes.
	RoleUser Role = "user"
)

// ParseRole maps a stored role string onto the two-variant model.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the derived, in-memory view of "who is logged in". It is
// recomputed from the session record on every read, never persisted, and
// zeroed by logout.
type Identity struct {
	User          string
	Role          Role
	Authenticated bool
	Admin         bool
}

// FederatedOutcome is the result of evaluating the federated callback view.
type FederatedOutcome int

const (
	// FederatedPending means the provider has not settled yet; stay on the
	// callback view and subscribe for auth events.
	FederatedPending FederatedOutcome = iota
	// FederatedDashboard means a provider session exists.
	FederatedDashboard
	// FederatedLogin means the provider reported an explicit error.
	FederatedLogin
)

// AuditEvent is a structured audit record emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricOTPRequestSuccess counts accepted credential submissions.
	MetricOTPRequestSuccess = internalmetrics.MetricOTPRequestSuccess
	// MetricOTPRequestFailure counts rejected credential submissions.
	MetricOTPRequestFailure = internalmetrics.MetricOTPRequestFailure
	// MetricOTPRequestRateLimited counts 429 responses to credential submissions.
	MetricOTPRequestRateLimited = internalmetrics.MetricOTPRequestRateLimited
	// MetricOTPRequestNetworkError counts credential submissions that got no response.
	MetricOTPRequestNetworkError = internalmetrics.MetricOTPRequestNetworkError
	// MetricVerifySuccess counts successful OTP verifications.
	MetricVerifySuccess = internalmetrics.MetricVerifySuccess
	// MetricVerifyFailure counts failed OTP verifications.
	MetricVerifyFailure = internalmetrics.MetricVerifyFailure
	// MetricVerifyDuplicateDrop counts verify submissions dropped by the in-flight gate.
	MetricVerifyDuplicateDrop = internalmetrics.MetricVerifyDuplicateDrop
	// MetricSessionSaved counts session-store writes.
	MetricSessionSaved = internalmetrics.MetricSessionSaved
	// MetricSessionCleared counts session-store clears.
	MetricSessionCleared = internalmetrics.MetricSessionCleared
	// MetricSessionMalformed counts stored records that failed to parse.
	MetricSessionMalformed = internalmetrics.MetricSessionMalformed
	// MetricLogout counts logout operations.
	MetricLogout = internalmetrics.MetricLogout
	// MetricFederatedStarted counts initiated federated redirects.
	MetricFederatedStarted = internalmetrics.MetricFederatedStarted
	// MetricFederatedSignIn counts federated sign-in completions.
	MetricFederatedSignIn = internalmetrics.MetricFederatedSignIn
	// MetricFederatedSignOut counts federated sign-out notifications.
	MetricFederatedSignOut = internalmetrics.MetricFederatedSignOut
	// MetricFederatedError counts federated provider failures.
	MetricFederatedError = internalmetrics.MetricFederatedError
	// MetricRequestLatency is the auth-service round-trip latency histogram.
	MetricRequestLatency = internalmetrics.MetricRequestLatency
)

// Metrics holds atomic counters and an optional latency histogram.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
