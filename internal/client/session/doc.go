// Package session holds the signed-in user's identity and credentials.
//
// A Manager is created by the caller and handed to whatever needs the
// session; there is no package-level state. The Manager serializes writes,
// persists every change through a Backend (three keys, see common.SessionKeys)
// and applies token refreshes with compare-and-swap on the refresh token, so a
// refresh that races with a new sign-in or a sign-out is rejected with
// ErrSessionChanged instead of silently mixing two sessions.
package session
