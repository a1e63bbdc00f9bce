// Package authclient manages the client side of a bearer-token auth session:
// decoding credential claims, persisting the active token, deriving the
// current user, arming an auto-logout timer ahead of expiry, and talking to
// the remote auth API.
//
// Session lifecycle:
//   - Manager is the single source of truth for "who is logged in". It reads
//     the stored credential on Initialize, publishes a derived User to
//     subscribers on every Apply/Clear, and owns the one outstanding expiry
//     timer. Observers never see a partially updated user.
//   - Gateway issues login, registration, password and refresh requests and
//     reconciles every response into the Manager: an ambiguous or failed
//     auth response always clears the session rather than leaving a stale
//     credential active.
//
// External identity:
//   - The social subpackage wraps third-party identity widgets behind a
//     normalized exchange contract and implements the login-then-register
//     fallback for first-time social sign-ins.
//
// Navigation:
//   - Guards are pure predicates over the Manager used by a host router to
//     allow or redirect navigation. They never mutate session state.
package authclient
