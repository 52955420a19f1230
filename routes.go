package accredauth

import "net/url"

// Route constants for the dashboard's navigable surface. Flow code
// returns these rather than touching any router directly, so hosts can
// map them onto HTTP redirects, SPA pushes, or CLI output.
const (
	RouteLogin             = "/login"
	RouteDashboard         = "/dashboard"
	RouteOTPForm           = "/otp-form"
	RouteFederatedCallback = "/auth/callback"
)

// OTPFormRoute builds the OTP entry route for the given account, carrying
// the email as a query parameter so the second step can resubmit it.
func OTPFormRoute(email string) string {
	return RouteOTPForm + "?email=" + url.QueryEscape(email)
}
