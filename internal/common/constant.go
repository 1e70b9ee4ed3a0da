// Package common contains constants and small helpers shared across the
// namecard client packages.
package common

// Keys of the local metadata store that together hold a persisted session.
// All three must be present for a session to be restored.
const (
	SessionUserKey    = "session_user"
	SessionTokenKey   = "session_token"
	SessionRefreshKey = "session_refresh"
)

// SessionKeys lists the persisted session keys in write order.
var SessionKeys = []string{SessionUserKey, SessionTokenKey, SessionRefreshKey}

const (
	CollectionUsers     = "users"
	CollectionNameCards = "nameCards"
)
