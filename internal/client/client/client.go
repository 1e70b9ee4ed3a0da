package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/client/value"
)

type Client interface {
	SignInWithPassword(ctx context.Context, email, password string) (*session.User, error)
	SignUp(ctx context.Context, email, password string) (*session.User, error)
	UpdateDisplayName(ctx context.Context, name string) error
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	CurrentUser() (*session.User, bool)
	GoogleSignInURL(state string) string

	AddDocument(ctx context.Context, collection string, fields value.Map) (string, error)
	AddDocumentWithID(ctx context.Context, collection, id string, fields value.Map) error
	ListDocuments(ctx context.Context, collection string, opts ListOptions) ([]Document, error)
	QueryDocuments(ctx context.Context, collection, field, op string, v value.Value) ([]Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error

	UploadFile(ctx context.Context, path string, data []byte) (string, error)
	DeleteFile(ctx context.Context, path string) error
}

// Document is a stored document. ID is the last segment of its resource
// name.
type Document struct {
	ID         string
	Fields     value.Map
	CreateTime time.Time
	UpdateTime time.Time
}

// ListOptions controls ListDocuments. OrderBy sorts descending by the named
// field; Limit of 0 means the service default page size.
type ListOptions struct {
	OrderBy string
	Limit   int
}
