package models

import (
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/client/value"
)

// UserProfile is the users/<uid> document kept next to the identity account.
type UserProfile struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	CreatedAt   time.Time
}

func NewUserProfile(u session.User, now time.Time) UserProfile {
	return UserProfile{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		CreatedAt:   now,
	}
}

func (p UserProfile) Fields() value.Map {
	m := value.Map{
		"uid":         value.String(p.UID),
		"email":       value.String(p.Email),
		"displayName": value.String(p.DisplayName),
		"createdAt":   value.Timestamp(p.CreatedAt),
	}
	if p.PhotoURL != "" {
		m["photoURL"] = value.String(p.PhotoURL)
	}
	return m
}

func UserProfileFromDocument(d client.Document) UserProfile {
	return UserProfile{
		UID:         str(d.Fields, "uid"),
		Email:       str(d.Fields, "email"),
		DisplayName: str(d.Fields, "displayName"),
		PhotoURL:    str(d.Fields, "photoURL"),
		CreatedAt:   timestamp(d.Fields, "createdAt"),
	}
}
