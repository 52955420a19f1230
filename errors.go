package accredauth

import (
	"errors"

	"github.com/anirudhv/accredauth/internal/backend"
)

var (
	// ErrClientNotReady is returned when a Client method is called before
	// required collaborators were wired through [Builder.Build].
	ErrClientNotReady = errors.New("client not initialized")
	// ErrNetwork classifies credential submissions that reached no server
	// at all.
	ErrNetwork = errors.New("network error")
	// ErrInvalidCredentials classifies a 401 from the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateLimited classifies a 429 from the login endpoint.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer classifies any other non-2xx login response; it wraps the
	// server-provided detail when one was present.
	ErrServer = errors.New("server error")
	// ErrVerificationFailed covers every way OTP verification can fail: a
	// false success flag, a non-2xx response, or a transport error.
	ErrVerificationFailed = errors.New("otp verification failed")
	// ErrRequestInFlight is returned when a credential submission arrives
	// while one is already in flight. The submission is a no-op.
	ErrRequestInFlight = errors.New("otp request already in flight")
	// ErrVerifyInFlight is returned when an OTP submission arrives while a
	// verification is already in flight. The submission is a no-op.
	ErrVerifyInFlight = errors.New("otp verification already in flight")
	// ErrFederatedDisabled is returned by federated operations when no
	// provider is configured.
	ErrFederatedDisabled = errors.New("federated login not configured")
	// ErrFederatedProvider is returned when the identity provider reported
	// an explicit failure.
	ErrFederatedProvider = errors.New("federated provider error")
)

// classifyRequestError maps auth-service transport failures onto the
// package taxonomy. The mapping is a test-parity surface: 401 is invalid
// credentials, 429 is rate limiting, anything else with a status is a
// server error carrying the server's detail, and no response at all is a
// network error.
func classifyRequestError(err error) error {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 401:
			return ErrInvalidCredentials
		case 429:
			return ErrRateLimited
		default:
			if statusErr.Detail != "" {
				return errorWithDetail{sentinel: ErrServer, detail: statusErr.Detail}
			}
			return ErrServer
		}
	}
	return errorWithDetail{sentinel: ErrNetwork, detail: err.Error()}
}

// errorWithDetail pairs a sentinel with server or transport detail while
// keeping errors.Is matching against the sentinel.
type errorWithDetail struct {
	sentinel error
	detail   string
}

func (e errorWithDetail) Error() string {
	return e.sentinel.Error() + ": " + e.detail
}

func (e errorWithDetail) Unwrap() error {
	return e.sentinel
}

// UserMessage maps an error from a login operation onto the message the
// dashboard has always shown. In-flight no-ops return "": the view shows
// nothing and keeps its loading state.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRequestInFlight), errors.Is(err, ErrVerifyInFlight):
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password!"
	case errors.Is(err, ErrVerificationFailed):
		return "Invalid OTP!"
	case errors.Is(err, ErrNetwork):
		return "Network error, please try again!"
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts, please try again later!"
	case errors.Is(err, ErrServer):
		var detailed errorWithDetail
		if errors.As(err, &detailed) && detailed.detail != "" {
			return "Server error: " + detailed.detail
		}
		return "Server error, please try again!"
	default:
		return "Something went wrong, please try again!"
	}
}
