// Package api implements the HTTP transport shared by every Hopx SDK call.
//
// A Client talks either to the control plane (authenticated with a static
// API key) or to the agent inside a single sandbox (authenticated with a
// short-lived bearer token that can be refreshed through a callback).
// Exactly one credential is active per client instance.
//
// Every request funnels through Do, which owns the retry loop:
//
//	attempt -> success: done
//	        -> network error / 5xx: exponential backoff, retry up to the budget
//	        -> 401: refresh the credential at most once per request, retry
//	        -> anything else: translate to a typed error and return
//
// The 401 path is deliberately outside the retry ladder. A credential
// refresh is not a transient failure, and conflating the two would either
// burn the retry budget on a fixable auth problem or loop forever on a
// broken refresh callback. The single-refresh invariant is what keeps a
// refresh callback that returns an already-expired token from causing
// unbounded retries.
//
// Terminal failures are converted by Translate into the closed taxonomy in
// package apierrors. The caller always receives exactly one typed error.
package api
