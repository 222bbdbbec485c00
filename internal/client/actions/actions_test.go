package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/client/api"
	"github.com/electrodrive/catalog-api/internal/client/state"
	"github.com/electrodrive/catalog-api/internal/models"
)

func newFixture(t *testing.T, handler http.Handler) (*Actions, *state.Store, *api.MemoryTokenStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	tokens := api.NewMemoryTokenStore()
	client := api.NewClient(srv.URL, tokens, logger)
	store := state.NewStore()

	return New(client, store, logger), store, tokens
}

func TestLoginDispatchesFulfilled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-1",
			"data": map[string]any{
				"id":       "u-1",
				"username": "alice",
				"email":    "alice@example.com",
				"role":     "user",
			},
		})
	})

	acts, store, _ := newFixture(t, mux)

	require.NoError(t, acts.Login(context.Background(), "alice@example.com", "secret123"))

	st := store.GetState()
	assert.Equal(t, state.StatusAuthenticated, st.Auth.Status)
	assert.Equal(t, "alice", st.Auth.User.Username)
	assert.Equal(t, "tok-1", st.Auth.Token)

	// success notification lands in the UI slice
	require.Len(t, st.UI.Notifications, 1)
	assert.Equal(t, state.NotifySuccess, st.UI.Notifications[0].Level)
}

func TestLoginFailureNotifiesAndStaysAnonymous(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "invalid email or password"})
	})

	acts, store, _ := newFixture(t, mux)

	err := acts.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)

	st := store.GetState()
	assert.Equal(t, state.StatusAnonymous, st.Auth.Status)
	assert.Equal(t, "invalid email or password", st.Auth.Error)
	require.Len(t, st.UI.Notifications, 1)
	assert.Equal(t, state.NotifyError, st.UI.Notifications[0].Level)
}

func TestSessionExpiryClearsIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "authentication required"})
	})

	acts, store, tokens := newFixture(t, mux)
	require.NoError(t, tokens.Save("stale-token"))

	err := acts.CheckAuth(context.Background())
	require.Error(t, err)

	st := store.GetState()
	assert.Equal(t, state.StatusAnonymous, st.Auth.Status)
	assert.Nil(t, st.Auth.User)
	assert.Empty(t, tokens.Load())

	var sawExpiry bool
	for _, n := range st.UI.Notifications {
		if n.Message == "session expired, please log in again" {
			sawExpiry = true
		}
	}
	assert.True(t, sawExpiry)
}

func TestFetchMotorsUsesStoreFilters(t *testing.T) {
	var gotQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/motors", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"count":      1,
			"total":      1,
			"pagination": map[string]any{"pages": 1, "page": 2, "limit": 5},
			"data": []map[string]any{
				{"id": "m-1", "name": "Motor 1", "model": "M-1", "power": 7},
			},
		})
	})

	acts, store, _ := newFixture(t, mux)
	store.Dispatch(state.SetLimit{Limit: 5})
	store.Dispatch(state.SetPage{Page: 2})
	min := 5.0
	store.Dispatch(state.SetMinPower{MinPower: &min})

	require.NoError(t, acts.FetchMotors(context.Background()))

	// SetMinPower reset the page, the fetch carries page 1
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"5"}, gotQuery["limit"])
	assert.Equal(t, []string{"5"}, gotQuery["minPower"])

	st := store.GetState().Catalog
	require.Len(t, st.Motors, 1)
	assert.Equal(t, "m-1", st.Motors[0].ID)
	assert.Equal(t, 1, st.Total)
	assert.False(t, st.Loading)
}

func TestDeleteMotorRemovesFromList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/motors/m-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	})

	acts, store, _ := newFixture(t, mux)
	store.Dispatch(state.FetchMotorsFulfilled{
		Seq:    store.NextFetchSeq(),
		Motors: []models.Motor{{ID: "m-1"}, {ID: "m-2"}},
		Total:  2,
	})

	require.NoError(t, acts.DeleteMotor(context.Background(), "m-1"))

	st := store.GetState().Catalog
	require.Len(t, st.Motors, 1)
	assert.Equal(t, "m-2", st.Motors[0].ID)
}
