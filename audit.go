package accredauth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/accredauth/internal/audit"
)

// Audit event type names. Kept stable: downstream sinks filter on them.
const (
	eventOTPRequested     = "otp.request"
	eventOTPRequestFailed = "otp.request_failed"
	eventOTPVerified      = "otp.verify"
	eventOTPVerifyFailed  = "otp.verify_failed"
	eventLogout           = "logout"
	eventFederatedStarted = "federated.started"
	eventFederatedSignIn  = "federated.sign_in"
	eventFederatedPending = "federated.pending"
	eventFederatedSignOut = "federated.sign_out"
	eventFederatedError   = "federated.error"
)

// emitAudit builds and dispatches one audit event. Safe to call with a
// nil dispatcher (auditing disabled).
func (c *Client) emitAudit(ctx context.Context, eventType string, success bool, user, route string, opErr error) {
	if c.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		EventID:   uuid.NewString(),
		User:      user,
		Success:   success,
		Route:     route,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	c.audit.Emit(ctx, event)
}
