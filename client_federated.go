package accredauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/anirudhv/accredauth/federated"
	"github.com/anirudhv/accredauth/internal/flows"
	internalmetrics "github.com/anirudhv/accredauth/internal/metrics"
	"github.com/anirudhv/accredauth/session"
)

// StartFederatedLogin builds the identity-provider redirect URL with a
// fresh anti-forgery state value. The caller performs the actual redirect
// and later lands on [Client.HandleFederatedCallback].
func (c *Client) StartFederatedLogin(ctx context.Context) (url, state string, err error) {
	if c.provider == nil {
		return "", "", ErrFederatedDisabled
	}
	state = uuid.NewString()
	url = c.provider.AuthorizeURL(state)
	c.metrics.Inc(internalmetrics.MetricFederatedStarted)
	c.emitAudit(ctx, eventFederatedStarted, true, "", "", nil)
	return url, state, nil
}

// HandleFederatedCallback evaluates the provider's state after the
// redirect. [FederatedDashboard] and [FederatedLogin] carry the route to
// navigate to; [FederatedPending] means the provider has not settled yet
// and the caller should stay put and [Client.SubscribeFederatedEvents].
func (c *Client) HandleFederatedCallback(ctx context.Context) (FederatedOutcome, string, error) {
	if c.provider == nil {
		return FederatedLogin, c.config.Guard.LoginRoute, ErrFederatedDisabled
	}
	outcome, route, err := flows.RunFederatedCallback(ctx, c.federatedDeps())
	return mapFederatedOutcome(outcome), route, err
}

// SubscribeFederatedEvents registers onRoute to receive the navigation
// target produced by each provider auth event: the dashboard route after
// a sign-in, the login route after a sign-out or provider fault. The
// session store is already updated when onRoute runs. Callers must
// Unsubscribe when their view goes away.
func (c *Client) SubscribeFederatedEvents(ctx context.Context, onRoute func(route string, err error)) (federated.Subscription, error) {
	if c.provider == nil {
		return nil, ErrFederatedDisabled
	}
	deps := c.federatedDeps()
	sub := c.provider.Subscribe(func(event federated.Event) {
		var sess *flows.FederatedSession
		if event.Session != nil {
			sess = &flows.FederatedSession{
				Email: event.Session.Email,
				Token: event.Session.Token,
				Role:  event.Session.Role,
			}
		}
		route, err := flows.RunFederatedEvent(ctx, event.Kind == federated.SignedIn, sess, deps)
		if onRoute != nil {
			onRoute(route, err)
		}
	})
	return sub, nil
}

func (c *Client) federatedDeps() flows.FederatedDeps {
	deps := flows.FederatedDeps{
		CurrentSession: func(ctx context.Context) (*flows.FederatedSession, error) {
			sess, err := c.provider.CurrentSession(ctx)
			if err != nil {
				return nil, err
			}
			return &flows.FederatedSession{Email: sess.Email, Token: sess.Token, Role: sess.Role}, nil
		},
		IsNoSession: func(err error) bool { return errors.Is(err, federated.ErrNoSession) },

		DashboardRoute: c.config.Guard.DashboardRoute,
		LoginRoute:     c.config.Guard.LoginRoute,

		MetricInc: func(id int) { c.metrics.Inc(internalmetrics.MetricID(id)) },
		EmitAudit: c.emitAudit,

		Metrics: flows.FederatedMetrics{
			SignIn:  int(internalmetrics.MetricFederatedSignIn),
			SignOut: int(internalmetrics.MetricFederatedSignOut),
			Error:   int(internalmetrics.MetricFederatedError),
		},
		Events: flows.FederatedEvents{
			CallbackSignIn:  eventFederatedSignIn,
			CallbackPending: eventFederatedPending,
			CallbackError:   eventFederatedError,
			SignedIn:        eventFederatedSignIn,
			SignedOut:       eventFederatedSignOut,
		},
		Errors: flows.FederatedErrors{
			ClientNotReady: ErrClientNotReady,
			ProviderError:  ErrFederatedProvider,
		},
	}

	if c.config.Federated.UnifySessionStore {
		deps.ClearSession = func(ctx context.Context) error {
			if err := c.auth.Logout(ctx); err != nil {
				return err
			}
			c.metrics.Inc(internalmetrics.MetricSessionCleared)
			return nil
		}
		deps.Reconcile = func(ctx context.Context, fs *flows.FederatedSession) error {
			if fs.Email == "" {
				return fmt.Errorf("%w: session without email", ErrFederatedProvider)
			}
			sess := &session.Session{Email: fs.Email, Token: fs.Token, Role: fs.Role}
			if err := c.auth.setSession(ctx, sess); err != nil {
				return err
			}
			c.metrics.Inc(internalmetrics.MetricSessionSaved)
			return nil
		}
	}

	return deps
}

func mapFederatedOutcome(o flows.Outcome) FederatedOutcome {
	switch o {
	case flows.OutcomeDashboard:
		return FederatedDashboard
	case flows.OutcomeLogin:
		return FederatedLogin
	default:
		return FederatedPending
	}
}
