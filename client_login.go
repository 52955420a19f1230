package accredauth

import (
	"context"
	"errors"

	"github.com/anirudhv/accredauth/internal/flows"
	internalmetrics "github.com/anirudhv/accredauth/internal/metrics"
	"github.com/anirudhv/accredauth/session"
)

// RequestOTP submits email and password to the auth service. On success
// it returns the OTP-entry route to navigate to, carrying the email in
// the query string; no session exists yet at this point. A submission
// while another is in flight returns [ErrRequestInFlight] and does
// nothing.
//
// Use [UserMessage] to turn a returned error into display text.
func (c *Client) RequestOTP(ctx context.Context, email, password string) (string, error) {
	return flows.RunRequestOTP(ctx, email, password, c.loginDeps())
}

// VerifyOTP submits the one-time code for the given email. On success the
// session is persisted before the dashboard route is returned, so any
// guard evaluated after navigation observes it. A false success flag from
// the server, a transport failure, or a non-2xx status all surface as
// [ErrVerificationFailed]; no session is written in any failure case.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	return flows.RunVerifyOTP(ctx, email, otp, c.loginDeps())
}

func (c *Client) loginDeps() flows.LoginDeps {
	return flows.LoginDeps{
		BeginRequest: func() bool { return c.requestInFlight.CompareAndSwap(false, true) },
		EndRequest:   func() { c.requestInFlight.Store(false) },
		BeginVerify:  func() bool { return c.verifyInFlight.CompareAndSwap(false, true) },
		EndVerify:    func() { c.verifyInFlight.Store(false) },

		PostLogin: c.backend.RequestOTP,
		PostVerify: func(ctx context.Context, email, otp string) (string, bool, error) {
			resp, err := c.backend.VerifyOTP(ctx, email, otp)
			if err != nil {
				return "", false, err
			}
			return resp.Token, resp.Success, nil
		},

		ClassifyError: classifyRequestError,
		FailureMetric: func(err error) int {
			switch {
			case errors.Is(err, ErrNetwork):
				return int(internalmetrics.MetricOTPRequestNetworkError)
			case errors.Is(err, ErrRateLimited):
				return int(internalmetrics.MetricOTPRequestRateLimited)
			default:
				return int(internalmetrics.MetricOTPRequestFailure)
			}
		},

		// The role is intentionally absent here: the credential flow never
		// learns it, and the record round-trips without a role key.
		SaveSession: func(ctx context.Context, email, token string) error {
			return c.auth.setSession(ctx, &session.Session{Email: email, Token: token})
		},

		OTPRoute:       OTPFormRoute,
		DashboardRoute: c.config.Guard.DashboardRoute,

		MetricInc: func(id int) { c.metrics.Inc(internalmetrics.MetricID(id)) },
		EmitAudit: c.emitAudit,

		Metrics: flows.LoginMetrics{
			RequestSuccess:      int(internalmetrics.MetricOTPRequestSuccess),
			VerifySuccess:       int(internalmetrics.MetricVerifySuccess),
			VerifyFailure:       int(internalmetrics.MetricVerifyFailure),
			VerifyDuplicateDrop: int(internalmetrics.MetricVerifyDuplicateDrop),
			SessionSaved:        int(internalmetrics.MetricSessionSaved),
		},
		Events: flows.LoginEvents{
			OTPRequested:     eventOTPRequested,
			OTPRequestFailed: eventOTPRequestFailed,
			OTPVerified:      eventOTPVerified,
			OTPVerifyFailed:  eventOTPVerifyFailed,
		},
		Errors: flows.LoginErrors{
			ClientNotReady:     ErrClientNotReady,
			RequestInFlight:    ErrRequestInFlight,
			VerifyInFlight:     ErrVerifyInFlight,
			VerificationFailed: ErrVerificationFailed,
		},
	}
}
