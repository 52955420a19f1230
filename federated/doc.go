// Package federated models the third-party identity provider used by the
// redirect-based login flow.
//
// The [Provider] interface is the seam: a production integration wraps the
// provider's SDK, tests wrap closures. [RedirectProvider] covers the
// redirect-building half (authorize URL with offline access and forced
// consent) and fans provider notifications out to scoped subscriptions, so
// a callback view can listen for the signed-in/signed-out transition and
// stop listening the moment it navigates away.
package federated
