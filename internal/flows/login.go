package flows

import (
	"context"
	"fmt"
)

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	RequestSuccess      int
	VerifySuccess       int
	VerifyFailure       int
	VerifyDuplicateDrop int
	SessionSaved        int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	OTPRequested     string
	OTPRequestFailed string
	OTPVerified      string
	OTPVerifyFailed  string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	ClientNotReady     error
	RequestInFlight    error
	VerifyInFlight     error
	VerificationFailed error
}

// LoginDeps captures the login flow's collaborators.
//
// BeginRequest/BeginVerify acquire the single-flight gates; a false return
// means an attempt is already in flight and the submission must be a no-op.
// ClassifyError maps transport failures onto the host's error taxonomy and
// FailureMetric picks the counter for a classified error.
type LoginDeps struct {
	BeginRequest func() bool
	EndRequest   func()
	BeginVerify  func() bool
	EndVerify    func()

	PostLogin  func(ctx context.Context, email, password string) error
	PostVerify func(ctx context.Context, email, otp string) (token string, ok bool, err error)

	ClassifyError func(error) error
	FailureMetric func(error) int

	SaveSession func(ctx context.Context, email, token string) error

	OTPRoute       func(email string) string
	DashboardRoute string

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, user, route string, err error)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

func (d *LoginDeps) fillDefaults() {
	if d.MetricInc == nil {
		d.MetricInc = func(int) {}
	}
	if d.EmitAudit == nil {
		d.EmitAudit = func(context.Context, string, bool, string, string, error) {}
	}
	if d.ClassifyError == nil {
		d.ClassifyError = func(err error) error { return err }
	}
	if d.FailureMetric == nil {
		d.FailureMetric = func(error) int { return -1 }
	}
	if d.BeginRequest == nil {
		d.BeginRequest = func() bool { return true }
	}
	if d.EndRequest == nil {
		d.EndRequest = func() {}
	}
	if d.BeginVerify == nil {
		d.BeginVerify = func() bool { return true }
	}
	if d.EndVerify == nil {
		d.EndVerify = func() {}
	}
}

// RunRequestOTP executes CollectingCredentials → RequestingOtp → AwaitingOtp.
// On success it returns the OTP-entry route carrying the email, so the
// address survives a full navigation rather than living only in memory.
func RunRequestOTP(ctx context.Context, email, password string, deps LoginDeps) (string, error) {
	deps.fillDefaults()
	if deps.PostLogin == nil || deps.OTPRoute == nil {
		return "", deps.Errors.ClientNotReady
	}

	if !deps.BeginRequest() {
		return "", deps.Errors.RequestInFlight
	}
	defer deps.EndRequest()

	if err := deps.PostLogin(ctx, email, password); err != nil {
		classified := deps.ClassifyError(err)
		if id := deps.FailureMetric(classified); id >= 0 {
			deps.MetricInc(id)
		}
		deps.EmitAudit(ctx, deps.Events.OTPRequestFailed, false, email, "", classified)
		return "", classified
	}

	route := deps.OTPRoute(email)
	deps.MetricInc(deps.Metrics.RequestSuccess)
	deps.EmitAudit(ctx, deps.Events.OTPRequested, true, email, route, nil)

	return route, nil
}

// RunVerifyOTP executes AwaitingOtp → VerifyingOtp → Authenticated. The
// session write happens before the dashboard route is returned, so a guard
// re-evaluating on arrival always observes the persisted session.
func RunVerifyOTP(ctx context.Context, email, otp string, deps LoginDeps) (string, error) {
	deps.fillDefaults()
	if deps.PostVerify == nil || deps.SaveSession == nil {
		return "", deps.Errors.ClientNotReady
	}

	if !deps.BeginVerify() {
		deps.MetricInc(deps.Metrics.VerifyDuplicateDrop)
		return "", deps.Errors.VerifyInFlight
	}
	defer deps.EndVerify()

	token, ok, err := deps.PostVerify(ctx, email, otp)
	if err != nil {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		failure := fmt.Errorf("%w: %v", deps.Errors.VerificationFailed, err)
		deps.EmitAudit(ctx, deps.Events.OTPVerifyFailed, false, email, "", failure)
		return "", failure
	}
	if !ok {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		deps.EmitAudit(ctx, deps.Events.OTPVerifyFailed, false, email, "", deps.Errors.VerificationFailed)
		return "", deps.Errors.VerificationFailed
	}

	if err := deps.SaveSession(ctx, email, token); err != nil {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		deps.EmitAudit(ctx, deps.Events.OTPVerifyFailed, false, email, "", err)
		return "", err
	}

	deps.MetricInc(deps.Metrics.SessionSaved)
	deps.MetricInc(deps.Metrics.VerifySuccess)
	deps.EmitAudit(ctx, deps.Events.OTPVerified, true, email, deps.DashboardRoute, nil)

	return deps.DashboardRoute, nil
}
