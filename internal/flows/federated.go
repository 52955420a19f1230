package flows

import "context"

// FederatedSession is a flow-local view of the identity-provider session.
type FederatedSession struct {
	Email string
	Token string
	Role  string
}

// Outcome is the result of evaluating the federated callback.
type Outcome int

const (
	// OutcomePending means the provider has not yet settled; the caller
	// stays on the callback view and waits for an auth event.
	OutcomePending Outcome = iota
	// OutcomeDashboard means a provider session exists.
	OutcomeDashboard
	// OutcomeLogin means the provider reported an explicit error.
	OutcomeLogin
)

// FederatedMetrics carries metric IDs needed by the federated flow.
type FederatedMetrics struct {
	SignIn  int
	SignOut int
	Error   int
}

// FederatedEvents carries audit event names used by the federated flow.
type FederatedEvents struct {
	CallbackSignIn  string
	CallbackPending string
	CallbackError   string
	SignedIn        string
	SignedOut       string
}

// FederatedErrors carries host-level sentinel errors used by the flow.
type FederatedErrors struct {
	ClientNotReady error
	ProviderError  error
}

// FederatedDeps captures the federated flow's collaborators. Reconcile
// writes the provider session into the client's own session store and
// ClearSession removes it again on provider sign-out; both are nil when
// unification is disabled, reproducing the split-session behavior of the
// source system.
type FederatedDeps struct {
	CurrentSession func(ctx context.Context) (*FederatedSession, error)
	IsNoSession    func(error) bool

	Reconcile    func(ctx context.Context, sess *FederatedSession) error
	ClearSession func(ctx context.Context) error

	DashboardRoute string
	LoginRoute     string

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, user, route string, err error)

	Metrics FederatedMetrics
	Events  FederatedEvents
	Errors  FederatedErrors
}

func (d *FederatedDeps) fillDefaults() {
	if d.MetricInc == nil {
		d.MetricInc = func(int) {}
	}
	if d.EmitAudit == nil {
		d.EmitAudit = func(context.Context, string, bool, string, string, error) {}
	}
	if d.IsNoSession == nil {
		d.IsNoSession = func(error) bool { return false }
	}
}

// RunFederatedCallback evaluates the three callback outcomes: session
// present, explicit provider error, or transient absence (pending).
func RunFederatedCallback(ctx context.Context, deps FederatedDeps) (Outcome, string, error) {
	deps.fillDefaults()
	if deps.CurrentSession == nil {
		return OutcomeLogin, deps.LoginRoute, deps.Errors.ClientNotReady
	}

	sess, err := deps.CurrentSession(ctx)
	switch {
	case err == nil && sess != nil:
		if rerr := deps.reconcile(ctx, sess); rerr != nil {
			deps.MetricInc(deps.Metrics.Error)
			deps.EmitAudit(ctx, deps.Events.CallbackError, false, sess.Email, deps.LoginRoute, rerr)
			return OutcomeLogin, deps.LoginRoute, rerr
		}
		deps.MetricInc(deps.Metrics.SignIn)
		deps.EmitAudit(ctx, deps.Events.CallbackSignIn, true, sess.Email, deps.DashboardRoute, nil)
		return OutcomeDashboard, deps.DashboardRoute, nil

	case err != nil && deps.IsNoSession(err):
		deps.EmitAudit(ctx, deps.Events.CallbackPending, true, "", "", nil)
		return OutcomePending, "", nil

	default:
		if err == nil {
			err = deps.Errors.ProviderError
		}
		deps.MetricInc(deps.Metrics.Error)
		deps.EmitAudit(ctx, deps.Events.CallbackError, false, "", deps.LoginRoute, err)
		return OutcomeLogin, deps.LoginRoute, err
	}
}

// RunFederatedEvent handles an asynchronous provider notification received
// while the callback view is active: signed-in routes to the dashboard,
// signed-out routes to login.
func RunFederatedEvent(ctx context.Context, signedIn bool, sess *FederatedSession, deps FederatedDeps) (string, error) {
	deps.fillDefaults()

	if !signedIn {
		// A provider sign-out invalidates the reconciled session too;
		// leaving it in the store would keep the guard authenticated.
		if err := deps.clearSession(ctx); err != nil {
			deps.MetricInc(deps.Metrics.Error)
			deps.EmitAudit(ctx, deps.Events.CallbackError, false, "", deps.LoginRoute, err)
			return deps.LoginRoute, err
		}
		deps.MetricInc(deps.Metrics.SignOut)
		deps.EmitAudit(ctx, deps.Events.SignedOut, true, "", deps.LoginRoute, nil)
		return deps.LoginRoute, nil
	}

	if sess == nil {
		// Signed-in notification without a session is a provider fault.
		deps.MetricInc(deps.Metrics.Error)
		deps.EmitAudit(ctx, deps.Events.CallbackError, false, "", deps.LoginRoute, deps.Errors.ProviderError)
		return deps.LoginRoute, deps.Errors.ProviderError
	}

	if err := deps.reconcile(ctx, sess); err != nil {
		deps.MetricInc(deps.Metrics.Error)
		deps.EmitAudit(ctx, deps.Events.CallbackError, false, sess.Email, deps.LoginRoute, err)
		return deps.LoginRoute, err
	}

	deps.MetricInc(deps.Metrics.SignIn)
	deps.EmitAudit(ctx, deps.Events.SignedIn, true, sess.Email, deps.DashboardRoute, nil)
	return deps.DashboardRoute, nil
}

func (d *FederatedDeps) reconcile(ctx context.Context, sess *FederatedSession) error {
	if d.Reconcile == nil {
		return nil
	}
	return d.Reconcile(ctx, sess)
}

func (d *FederatedDeps) clearSession(ctx context.Context) error {
	if d.ClearSession == nil {
		return nil
	}
	return d.ClearSession(ctx)
}
