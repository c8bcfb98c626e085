package firebase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeFirebase serves the Identity Toolkit, secure token and Firestore
// endpoints from memory.
type fakeFirebase struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]fakeUser // by email
	docs      map[string]map[string]document
	order     map[string][]string
	nextID    int
	pageLimit int

	// validTokens are ID tokens Firestore accepts.
	validTokens map[string]string // token -> uid
	refreshes   int
	patchQuery  []string
}

type fakeUser struct {
	uid      string
	password string
}

func newFakeFirebase(t *testing.T) *fakeFirebase {
	t.Helper()
	f := &fakeFirebase{
		users:       make(map[string]fakeUser),
		docs:        make(map[string]map[string]document),
		order:       make(map[string][]string),
		pageLimit:   2,
		validTokens: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Post("/identitytoolkit/v3/relyingparty/verifyPassword", f.verifyPassword)
	r.Post("/identitytoolkit/v3/relyingparty/signupNewUser", f.signupNewUser)
	r.Post("/token", f.refreshToken)
	r.Route("/v1/projects/{project}/databases/{database}/documents/{collection}", func(r chi.Router) {
		r.Use(f.requireToken)
		r.Post("/", f.createDocument)
		r.Get("/", f.listDocuments)
		r.Get("/{id}", f.getDocument)
		r.Patch("/{id}", f.patchDocument)
		r.Delete("/{id}", f.deleteDocument)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeFirebase) options(sessionPath string) Options {
	return Options{
		APIKey:            "test-key",
		ProjectID:         "demo",
		SessionPath:       sessionPath,
		AuthEndpoint:      f.URL + "/identitytoolkit/v3/relyingparty/",
		TokenEndpoint:     f.URL + "/token",
		FirestoreEndpoint: f.URL + "/v1/",
		HTTPClient:        f.Client(),
	}
}

func (f *fakeFirebase) addUser(email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid := fmt.Sprintf("uid-%d", len(f.users)+1)
	f.users[email] = fakeUser{uid: uid, password: password}
	return uid
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors":  []map[string]string{{"message": message, "domain": "global", "reason": "invalid"}},
		},
	})
}

type credentials struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

func (f *fakeFirebase) signedIn(w http.ResponseWriter, uid, email string) {
	token := "id-" + uid
	f.validTokens[token] = uid
	writeJSON(w, http.StatusOK, map[string]any{
		"localId":      uid,
		"email":        email,
		"idToken":      token,
		"refreshToken": "refresh-" + uid,
		"expiresIn":    "3600",
	})
}

func (f *fakeFirebase) verifyPassword(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[c.Email]
	if !ok {
		writeError(w, http.StatusBadRequest, "EMAIL_NOT_FOUND")
		return
	}
	if u.password != c.Password {
		writeError(w, http.StatusBadRequest, "INVALID_PASSWORD")
		return
	}
	f.signedIn(w, u.uid, c.Email)
}

func (f *fakeFirebase) signupNewUser(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[c.Email]; ok {
		writeError(w, http.StatusBadRequest, "EMAIL_EXISTS")
		return
	}
	if len(c.Password) < 6 {
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
		return
	}
	uid := fmt.Sprintf("uid-%d", len(f.users)+1)
	f.users[c.Email] = fakeUser{uid: uid, password: c.Password}
	f.signedIn(w, uid, c.Email)
}

func (f *fakeFirebase) refreshToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if r.URL.Query().Get("key") != "test-key" || r.PostForm.Get("grant_type") != "refresh_token" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	uid, ok := strings.CutPrefix(r.PostForm.Get("refresh_token"), "refresh-")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_REFRESH_TOKEN")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	token := fmt.Sprintf("fresh-%s-%d", uid, f.refreshes)
	f.validTokens[token] = uid
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  token,
		"id_token":      token,
		"refresh_token": "refresh-" + uid,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"user_id":       uid,
	})
}

func (f *fakeFirebase) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		_, ok := f.validTokens[token]
		f.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Request had invalid authentication credentials.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeFirebase) docName(r *http.Request, id string) string {
	return fmt.Sprintf("projects/%s/databases/%s/documents/%s/%s",
		chi.URLParam(r, "project"), chi.URLParam(r, "database"), chi.URLParam(r, "collection"), id)
}

func (f *fakeFirebase) createDocument(w http.ResponseWriter, r *http.Request) {
	var d document
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	coll := chi.URLParam(r, "collection")
	f.nextID++
	id := fmt.Sprintf("doc%04d", f.nextID)
	d.Name = f.docName(r, id)
	if f.docs[coll] == nil {
		f.docs[coll] = make(map[string]document)
	}
	f.docs[coll][id] = d
	f.order[coll] = append(f.order[coll], id)
	writeJSON(w, http.StatusOK, d)
}

func (f *fakeFirebase) listDocuments(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	coll := chi.URLParam(r, "collection")
	start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if size <= 0 || size > f.pageLimit {
		size = f.pageLimit
	}

	ids := f.order[coll]
	resp := listResponse{}
	for i := start; i < len(ids) && i < start+size; i++ {
		resp.Documents = append(resp.Documents, f.docs[coll][ids[i]])
	}
	if start+size < len(ids) {
		resp.NextPageToken = strconv.Itoa(start + size)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeFirebase) getDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.docs[chi.URLParam(r, "collection")][chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Document not found.")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (f *fakeFirebase) patchDocument(w http.ResponseWriter, r *http.Request) {
	var patch document
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patchQuery = append(f.patchQuery, r.URL.RawQuery)
	coll, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	d, ok := f.docs[coll][id]
	if !ok {
		writeError(w, http.StatusNotFound, "No document to update")
		return
	}
	for _, field := range r.URL.Query()["updateMask.fieldPaths"] {
		if v, ok := patch.Fields[field]; ok {
			d.Fields[field] = v
		} else {
			delete(d.Fields, field)
		}
	}
	f.docs[coll][id] = d
	writeJSON(w, http.StatusOK, d)
}

func (f *fakeFirebase) deleteDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	coll, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	delete(f.docs[coll], id)
	ids := f.order[coll]
	for i, v := range ids {
		if v == id {
			f.order[coll] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}
