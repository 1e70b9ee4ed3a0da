package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/client/value"
)

// fakeClient is an in-memory client.Client. Only EQUAL queries on string
// fields are supported.
type fakeClient struct {
	mu sync.Mutex

	user  *session.User
	docs  map[string]map[string]value.Map // collection -> id -> fields
	files map[string][]byte
	seq   int

	signInErr     error
	signUpErr     error
	updateNameErr error
	addErr        error
	addWithIDErr  error
	queryErr      error
	deleteDocErr  error
	uploadErr     error
	deleteFileErr error
	deleteAccErr  error

	deletedFiles []string
	deletedDocs  []string
	accountGone  bool
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{docs: map[string]map[string]value.Map{}, files: map[string][]byte{}}
}

func (f *fakeClient) signIn(uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &session.User{UID: uid, Email: uid + "@example.com"}
}

func (f *fakeClient) SignInWithPassword(_ context.Context, email, _ string) (*session.User, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &session.User{UID: "uid-" + email, Email: email}
	u := *f.user
	return &u, nil
}

func (f *fakeClient) SignUp(ctx context.Context, email, password string) (*session.User, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.SignInWithPassword(ctx, email, password)
}

func (f *fakeClient) UpdateDisplayName(_ context.Context, name string) error {
	if f.updateNameErr != nil {
		return f.updateNameErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return client.ErrAuth
	}
	f.user.DisplayName = name
	return nil
}

func (f *fakeClient) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	return nil
}

func (f *fakeClient) DeleteAccount(ctx context.Context) error {
	if f.deleteAccErr != nil {
		return f.deleteAccErr
	}
	f.mu.Lock()
	f.accountGone = true
	f.mu.Unlock()
	return f.SignOut(ctx)
}

func (f *fakeClient) CurrentUser() (*session.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil, false
	}
	u := *f.user
	return &u, true
}

func (f *fakeClient) GoogleSignInURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeClient) put(collection, id string, fields value.Map) {
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]value.Map{}
	}
	f.docs[collection][id] = fields
}

func (f *fakeClient) AddDocument(_ context.Context, collection string, fields value.Map) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("doc-%d", f.seq)
	f.put(collection, id, fields)
	return id, nil
}

func (f *fakeClient) AddDocumentWithID(_ context.Context, collection, id string, fields value.Map) error {
	if f.addWithIDErr != nil {
		return f.addWithIDErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[collection][id]; ok {
		return &client.APIError{Op: "add document", Status: 409, Err: client.ErrAlreadyExists}
	}
	f.put(collection, id, fields)
	return nil
}

func (f *fakeClient) ListDocuments(_ context.Context, collection string, opts client.ListOptions) ([]client.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []client.Document
	for id, fields := range f.docs[collection] {
		out = append(out, client.Document{ID: id, Fields: fields})
	}
	if opts.OrderBy != "" {
		sortDesc(out, opts.OrderBy)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeClient) QueryDocuments(_ context.Context, collection, field, op string, v value.Value) ([]client.Document, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if client.QueryOperator(op) != "EQUAL" {
		return nil, fmt.Errorf("fake: unsupported op %s", op)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []client.Document
	for id, fields := range f.docs[collection] {
		if value.Equal(fields[field], v) {
			out = append(out, client.Document{ID: id, Fields: fields})
		}
	}
	return out, nil
}

func (f *fakeClient) DeleteDocument(_ context.Context, collection, id string) error {
	if f.deleteDocErr != nil {
		return f.deleteDocErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[collection][id]; !ok {
		return client.ErrNotFound
	}
	delete(f.docs[collection], id)
	f.deletedDocs = append(f.deletedDocs, collection+"/"+id)
	return nil
}

func (f *fakeClient) UploadFile(_ context.Context, path string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return "https://files.example.com/" + path, nil
}

func (f *fakeClient) DeleteFile(_ context.Context, path string) error {
	if f.deleteFileErr != nil {
		return f.deleteFileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	f.deletedFiles = append(f.deletedFiles, path)
	return nil
}

func sortDesc(docs []client.Document, field string) {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0; j-- {
			a, _ := docs[j-1].Fields[field].AsTime()
			b, _ := docs[j].Fields[field].AsTime()
			if !a.Before(b) {
				break
			}
			docs[j-1], docs[j] = docs[j], docs[j-1]
		}
	}
}
