// Package client talks to the hosted identity, document and blob service.
//
// # Overview
//
// The package provides:
//  1. The Client interface: sign-in, sign-up, profile update, sign-out and
//     account deletion; adding, listing, querying and deleting documents;
//     uploading and deleting blobs.
//  2. RESTClient, the implementation over the service's REST/JSON surface.
//     It reads and writes the session through a *session.Manager, attaches
//     the ID token as a bearer header, and on a 401 refreshes the token once
//     and retries the call once.
//
// # Error Handling
//
// Failures are reported as *APIError values that unwrap to one of the
// sentinel errors, so callers match them with errors.Is: ErrAuth,
// ErrNotFound, ErrAlreadyExists, ErrRequest, ErrNetwork, ErrStorage.
// A refresh whose result arrives after the session was replaced returns
// session.ErrSessionChanged.
//
// # Concurrency
//
// RESTClient is safe for concurrent use. All network operations honor the
// context passed to them; no goroutines are started.
package client
