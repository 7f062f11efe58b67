package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession signals a request without a valid session cookie.
var ErrNoSession = errors.New("no active session")

// SessionStore keeps cookie based sessions in Redis. One key per session,
// expiring with the cookie.
type SessionStore struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

type sessionPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func NewSessionStore(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionStore {
	return &SessionStore{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Create opens a session for the user and sets the cookie on the response.
func (s *SessionStore) Create(ctx context.Context, w http.ResponseWriter, user *User) error {
	id := uuid.NewString()
	payload, err := json.Marshal(sessionPayload{UserID: user.ID, Name: user.Name})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(s.ttl),
	})
	return nil
}

// Load resolves the request's session cookie to the signed-in profile.
func (s *SessionStore) Load(ctx context.Context, r *http.Request) (Profile, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return Profile{}, ErrNoSession
	}

	data, err := s.client.Get(ctx, s.key(cookie.Value)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Profile{}, ErrNoSession
	}
	if err != nil {
		return Profile{}, err
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Profile{}, err
	}
	return Profile{ID: payload.UserID, Name: payload.Name}, nil
}

// Destroy deletes the session and expires the cookie.
func (s *SessionStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	if err := s.client.Del(ctx, s.key(cookie.Value)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}

type contextKey struct{}

// ProfileFromContext returns the profile stored by the session middleware.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	profile, ok := ctx.Value(contextKey{}).(Profile)
	return profile, ok
}

// Middleware rejects requests without a valid session and stores the
// resolved profile in the request context.
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.Load(r.Context(), r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
