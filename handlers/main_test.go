package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// seedCredentials match the bundled first-run template.
const (
	seedUsername = "sang"
	seedPassword = "changeme"
)

type testEnv struct {
	store      *store.Store
	uploadsDir string
	userID     string
}

// newTestEnv opens a store in a temp dir, which seeds the default
// roster and a challenge covering the current week.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "db.json"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	db, err := st.Read(context.Background())
	require.NoError(t, err)

	env := &testEnv{store: st, uploadsDir: filepath.Join(dir, "uploads")}
	for _, u := range db.Users {
		if u.Username == seedUsername {
			env.userID = u.ID
		}
	}
	require.NotEmpty(t, env.userID)
	return env
}

// authedRouter wires the entry routes the way main does, with the
// session middleware replaced by a stub that injects the member id.
func (env *testEnv) authedRouter(t *testing.T) *mux.Router {
	t.Helper()

	photos := services.NewPhotoService(env.uploadsDir)
	entryHandler := NewEntryHandler(services.NewEntryService(env.store, photos))
	uploadHandler := NewUploadHandler(photos)

	r := mux.NewRouter()
	r.HandleFunc("/uploads/{file}", uploadHandler.ServeUpload).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, env.userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	api.HandleFunc("/entries", entryHandler.SaveEntry).Methods("POST")
	api.HandleFunc("/entries", entryHandler.ListMyEntries).Methods("GET")
	api.HandleFunc("/entries/{entryId}", entryHandler.DeleteEntry).Methods("DELETE")
	return r
}
