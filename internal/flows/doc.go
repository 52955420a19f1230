// Package flows contains the orchestration logic of the accredauth client:
// the two-step OTP login flow and the federated-callback reconciliation.
//
// Flows are plain functions taking a dependency struct. The root package
// wires real collaborators (backend client, session store, audit, metrics)
// into the struct; tests wire closures. Flows never import the root package:
// sentinel errors, metric IDs and event names are all injected.
package flows
