// Package models defines the documents the namecard client stores and their
// mapping to and from document fields.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/value"
)

var ErrMissingField = errors.New("required field is empty")

// CardInput is what the user fills in when creating a card.
type CardInput struct {
	FullName         string
	PhoneticSpelling string
	Pronouns         string
	Description      string
	Languages        []string
	Theme            string
}

// Validate checks the fields a card cannot be created without.
func (in CardInput) Validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("full name: %w", ErrMissingField)
	}
	if strings.TrimSpace(in.PhoneticSpelling) == "" {
		return fmt.Errorf("phonetic spelling: %w", ErrMissingField)
	}
	return nil
}

// NameCard is a stored card in the nameCards collection.
type NameCard struct {
	ID string

	FullName         string
	PhoneticSpelling string
	Pronouns         string
	Description      string
	Languages        []string
	Theme            string

	AudioURL  string
	AudioPath string

	UserID    string
	UserName  string
	UserPhoto string

	CreatedAt time.Time
	ShareID   string
}

// Fields encodes the card for the document store. ID is not part of the
// document body.
func (c NameCard) Fields() value.Map {
	langs := make([]value.Value, 0, len(c.Languages))
	for _, l := range c.Languages {
		langs = append(langs, value.String(l))
	}
	theme := c.Theme
	if theme == "" {
		theme = "default"
	}
	photo := value.Null()
	if c.UserPhoto != "" {
		photo = value.String(c.UserPhoto)
	}

	return value.Map{
		"fullName":         value.String(c.FullName),
		"phoneticSpelling": value.String(c.PhoneticSpelling),
		"pronouns":         value.String(c.Pronouns),
		"description":      value.String(c.Description),
		"languages":        value.Array(langs...),
		"theme":            value.String(theme),
		"audioUrl":         value.String(c.AudioURL),
		"audioPath":        value.String(c.AudioPath),
		"userId":           value.String(c.UserID),
		"userName":         value.String(c.UserName),
		"userPhoto":        photo,
		"createdAt":        value.Timestamp(c.CreatedAt),
		"shareId":          value.String(c.ShareID),
	}
}

// NameCardFromDocument decodes a stored card. Missing or mistyped fields
// are left at their zero value.
func NameCardFromDocument(d client.Document) NameCard {
	f := d.Fields
	c := NameCard{
		ID:               d.ID,
		FullName:         str(f, "fullName"),
		PhoneticSpelling: str(f, "phoneticSpelling"),
		Pronouns:         str(f, "pronouns"),
		Description:      str(f, "description"),
		Theme:            str(f, "theme"),
		AudioURL:         str(f, "audioUrl"),
		AudioPath:        str(f, "audioPath"),
		UserID:           str(f, "userId"),
		UserName:         str(f, "userName"),
		UserPhoto:        str(f, "userPhoto"),
		ShareID:          str(f, "shareId"),
		CreatedAt:        timestamp(f, "createdAt"),
	}
	if arr, ok := f["languages"].AsArray(); ok {
		for _, v := range arr {
			if s, ok := v.AsString(); ok && s != "" {
				c.Languages = append(c.Languages, s)
			}
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = d.CreateTime
	}
	return c
}

func NameCardsFromDocuments(docs []client.Document) []NameCard {
	out := make([]NameCard, 0, len(docs))
	for _, d := range docs {
		out = append(out, NameCardFromDocument(d))
	}
	return out
}

func str(f value.Map, key string) string {
	s, _ := f[key].AsString()
	return s
}

func timestamp(f value.Map, key string) time.Time {
	v := f[key]
	if t, ok := v.AsTime(); ok {
		return t
	}
	// cards written by other clients may carry the time as a string
	if s, ok := v.AsString(); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
