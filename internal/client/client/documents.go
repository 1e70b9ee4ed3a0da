package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/value"
	"golang.org/x/oauth2"
)

// wireDocument is a document as the document store encodes it.
type wireDocument struct {
	Name       string    `json:"name,omitempty"`
	Fields     value.Map `json:"fields"`
	CreateTime time.Time `json:"createTime,omitzero"`
	UpdateTime time.Time `json:"updateTime,omitzero"`
}

func (w wireDocument) document() Document {
	fields := w.Fields
	if fields == nil {
		fields = value.Map{}
	}
	return Document{
		ID:         lastSegment(w.Name),
		Fields:     fields,
		CreateTime: w.CreateTime,
		UpdateTime: w.UpdateTime,
	}
}

func (c *RESTClient) documentsURL() string {
	return strings.TrimRight(c.cfg.FirestoreURL, "/") + "/v1/projects/" + url.PathEscape(c.cfg.ProjectID) +
		"/databases/(default)/documents"
}

func (c *RESTClient) collectionURL(collection string) string {
	return c.documentsURL() + "/" + url.PathEscape(collection)
}

func requestError(op string) func(*http.Response) error {
	return func(resp *http.Response) error {
		return statusError(op, resp, ErrRequest)
	}
}

func (c *RESTClient) AddDocument(ctx context.Context, collection string, fields value.Map) (string, error) {
	const op = "add document"

	doc, err := c.createDocument(ctx, op, c.collectionURL(collection), fields)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// AddDocumentWithID creates collection/id. An existing document is reported
// as ErrAlreadyExists and left untouched.
func (c *RESTClient) AddDocumentWithID(ctx context.Context, collection, id string, fields value.Map) error {
	const op = "add document"

	u := c.collectionURL(collection) + "?" + url.Values{"documentId": {id}}.Encode()
	_, err := c.createDocument(ctx, op, u, fields)
	return err
}

func (c *RESTClient) createDocument(ctx context.Context, op, u string, fields value.Map) (Document, error) {
	if fields == nil {
		fields = value.Map{}
	}
	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		req, err := newJSONRequest(ctx, http.MethodPost, u, wireDocument{Fields: fields})
		if err != nil {
			return nil, err
		}
		bearer(req, tok)
		return req, nil
	}

	var out wireDocument
	if err := c.authorized(ctx, op, build, &out, requestError(op)); err != nil {
		return Document{}, err
	}
	return out.document(), nil
}

func (c *RESTClient) ListDocuments(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	const op = "list documents"

	q := url.Values{}
	if opts.OrderBy != "" {
		q.Set("orderBy", opts.OrderBy+" desc")
	}
	if opts.Limit > 0 {
		q.Set("pageSize", strconv.Itoa(opts.Limit))
	}
	u := c.collectionURL(collection)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	build := func(ctx context.Context, _ *oauth2.Token) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodGet, u, nil)
	}

	var out struct {
		Documents []wireDocument `json:"documents"`
	}
	if err := c.do(ctx, op, build, &out, requestError(op)); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(out.Documents))
	for _, d := range out.Documents {
		docs = append(docs, d.document())
	}
	return docs, nil
}

var queryOperators = map[string]string{
	"==": "EQUAL",
	"!=": "NOT_EQUAL",
	"<":  "LESS_THAN",
	"<=": "LESS_THAN_OR_EQUAL",
	">":  "GREATER_THAN",
	">=": "GREATER_THAN_OR_EQUAL",
}

// QueryOperator normalizes op to the document store's operator name.
func QueryOperator(op string) string {
	if mapped, ok := queryOperators[strings.TrimSpace(op)]; ok {
		return mapped
	}
	return strings.ToUpper(strings.TrimSpace(op))
}

type fieldFilter struct {
	Field struct {
		FieldPath string `json:"fieldPath"`
	} `json:"field"`
	Op    string      `json:"op"`
	Value value.Value `json:"value"`
}

type structuredQuery struct {
	From []struct {
		CollectionID string `json:"collectionId"`
	} `json:"from"`
	Where struct {
		FieldFilter fieldFilter `json:"fieldFilter"`
	} `json:"where"`
}

func newStructuredQuery(collection, field, op string, v value.Value) structuredQuery {
	var q structuredQuery
	q.From = []struct {
		CollectionID string `json:"collectionId"`
	}{{CollectionID: collection}}
	q.Where.FieldFilter.Field.FieldPath = field
	q.Where.FieldFilter.Op = QueryOperator(op)
	q.Where.FieldFilter.Value = v
	return q
}

// QueryDocuments returns the documents of collection whose field satisfies
// op against v. op accepts both operator names (EQUAL, LESS_THAN, ...) and
// their symbolic forms (==, <, ...).
func (c *RESTClient) QueryDocuments(ctx context.Context, collection, field, op string, v value.Value) ([]Document, error) {
	const opName = "query documents"

	body := map[string]any{"structuredQuery": newStructuredQuery(collection, field, op, v)}
	build := func(ctx context.Context, _ *oauth2.Token) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodPost, c.documentsURL()+":runQuery", body)
	}

	var out []struct {
		Document *wireDocument `json:"document"`
	}
	if err := c.do(ctx, opName, build, &out, requestError(opName)); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(out))
	for _, item := range out {
		if item.Document == nil {
			continue
		}
		docs = append(docs, item.Document.document())
	}
	return docs, nil
}

func (c *RESTClient) DeleteDocument(ctx context.Context, collection, id string) error {
	const op = "delete document"

	u := c.collectionURL(collection) + "/" + url.PathEscape(id)
	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		req, err := newJSONRequest(ctx, http.MethodDelete, u, nil)
		if err != nil {
			return nil, err
		}
		bearer(req, tok)
		return req, nil
	}
	return c.authorized(ctx, op, build, nil, requestError(op))
}
