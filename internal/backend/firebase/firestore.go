package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"taskhub/internal/service"
)

const (
	// DefaultFirestoreEndpoint is the Firestore REST base URL.
	DefaultFirestoreEndpoint = "https://firestore.googleapis.com/v1/"

	// listPageSize is the page size used when draining a collection.
	listPageSize = 300
)

// StoreOptions configures NewStore.
type StoreOptions struct {
	ProjectID  string
	DatabaseID string

	// Endpoint overrides DefaultFirestoreEndpoint.
	Endpoint string

	// HTTPClient must authorize requests, e.g. oauth2.NewClient over
	// Identity.TokenSource.
	HTTPClient *http.Client

	Timeout time.Duration
	Logger  *slog.Logger
}

// Store implements service.DocumentStore on the Firestore REST API.
type Store struct {
	client  *http.Client
	base    string // endpoint + "projects/{p}/databases/{d}/documents"
	timeout time.Duration
	log     *slog.Logger
}

var _ service.DocumentStore = (*Store)(nil)

// NewStore creates a Firestore client for one database.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("firebase: project id required")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("firebase: http client required")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultFirestoreEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	database := opts.DatabaseID
	if database == "" {
		database = "(default)"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Store{
		client:  opts.HTTPClient,
		base:    endpoint + "projects/" + url.PathEscape(opts.ProjectID) + "/databases/" + database + "/documents",
		timeout: timeout,
		log:     logger,
	}, nil
}

// Add creates a document with a server-assigned ID.
func (s *Store) Add(ctx context.Context, collection string, fields service.Fields) (string, error) {
	body, err := encodeDocument(fields)
	if err != nil {
		return "", err
	}

	var created document
	if err := s.do(ctx, http.MethodPost, s.collectionURL(collection), nil, body, &created); err != nil {
		return "", wrapError(err)
	}
	id := path.Base(created.Name)
	s.log.Debug("document added", "collection", collection, "id", id)
	return id, nil
}

// GetAll drains every page of the collection.
func (s *Store) GetAll(ctx context.Context, collection string) ([]service.Document, error) {
	docs := []service.Document{}
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(listPageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page listResponse
		if err := s.do(ctx, http.MethodGet, s.collectionURL(collection), q, nil, &page); err != nil {
			return nil, wrapError(err)
		}
		for _, d := range page.Documents {
			doc, err := d.decode()
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	s.log.Debug("documents listed", "collection", collection, "count", len(docs))
	return docs, nil
}

// GetByID returns *service.NotFoundError for unknown IDs.
func (s *Store) GetByID(ctx context.Context, collection, id string) (service.Document, error) {
	var d document
	err := s.do(ctx, http.MethodGet, s.documentURL(collection, id), nil, nil, &d)
	if isNotFound(err) {
		return service.Document{}, &service.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return service.Document{}, wrapError(err)
	}
	return d.decode()
}

// Update patches only the named fields and requires the document to exist.
func (s *Store) Update(ctx context.Context, collection, id string, fields service.Fields) error {
	body, err := encodeDocument(fields)
	if err != nil {
		return err
	}

	q := url.Values{}
	for _, name := range sortedKeys(fields) {
		q.Add("updateMask.fieldPaths", fieldPath(name))
	}
	q.Set("currentDocument.exists", "true")

	err = s.do(ctx, http.MethodPatch, s.documentURL(collection, id), q, body, nil)
	if isNotFound(err) {
		return &service.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return wrapError(err)
	}
	s.log.Debug("document updated", "collection", collection, "id", id, "fields", len(fields))
	return nil
}

// Delete removes the document. Firestore treats unknown IDs as success.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.do(ctx, http.MethodDelete, s.documentURL(collection, id), nil, nil, nil); err != nil {
		return wrapError(err)
	}
	s.log.Debug("document deleted", "collection", collection, "id", id)
	return nil
}

func (s *Store) collectionURL(collection string) string {
	return s.base + "/" + url.PathEscape(collection)
}

func (s *Store) documentURL(collection, id string) string {
	return s.collectionURL(collection) + "/" + url.PathEscape(id)
}

// do sends one JSON request and decodes the response into out when non-nil.
func (s *Store) do(ctx context.Context, method, rawURL string, query url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// wrapError adds user-facing context to transport and permission failures.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("permission denied (run: taskhub login): %w", err)
		}
	}
	return err
}

var simpleFieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// fieldPath quotes names that are not simple identifiers.
func fieldPath(name string) string {
	if simpleFieldName.MatchString(name) {
		return name
	}
	r := strings.NewReplacer(`\`, `\\`, "`", "\\`")
	return "`" + r.Replace(name) + "`"
}

func sortedKeys(fields service.Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
