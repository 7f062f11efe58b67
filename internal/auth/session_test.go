package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, "vitrine_session", 7*24*time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	err := store.Create(ctx, rec, &User{ID: "u1", Name: "Maria"})
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "vitrine_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookies[0])

	profile, err := store.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "Maria", profile.Name)
}

func TestLoadWithoutCookie(t *testing.T) {
	store := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	_, err := store.Load(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDestroyInvalidatesSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, store.Create(ctx, rec, &User{ID: "u1", Name: "Maria"}))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	require.NoError(t, store.Destroy(ctx, rec2, req))

	expired := rec2.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, -1, expired[0].MaxAge)

	req2 := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req2.AddCookie(cookie)
	_, err := store.Load(ctx, req2)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMiddlewareGuardsAndInjectsProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var seen Profile
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := ProfileFromContext(r.Context())
		require.True(t, ok)
		seen = profile
		w.WriteHeader(http.StatusOK)
	})
	guarded := store.Middleware(next)

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	create := httptest.NewRecorder()
	require.NoError(t, store.Create(ctx, create, &User{ID: "u1", Name: "Maria"}))

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.AddCookie(create.Result().Cookies()[0])
	rec2 := httptest.NewRecorder()
	guarded.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "u1", seen.ID)
}
