package restapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/localstore"
	"taskboard/internal/service"
)

type recordedCall struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu       sync.Mutex
	calls    []recordedCall
	sessions int
}

func (r *fakeRecorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{method, route, status})
}

func (r *fakeRecorder) SessionEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions++
}

func newTestClient(t *testing.T, h http.HandlerFunc, store localstore.Store) (*Client, *fakeRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &fakeRecorder{}
	c, err := New(context.Background(), Options{
		BaseURL: srv.URL + "/api/",
		Store:   store,
		Metrics: rec,
	})
	require.NoError(t, err)
	return c, rec
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestNew_LoadsPersistedToken(t *testing.T) {
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), localstore.KeyToken, "persisted"))

	var got string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, store)

	assert.Equal(t, "persisted", c.Token())
	require.NoError(t, c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"}, nil))
	assert.Equal(t, "Bearer persisted", got)
}

func TestSend_NoTokenNoHeader(t *testing.T) {
	var got []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	require.NoError(t, c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/projects/"}, nil))
	assert.Empty(t, got)
}

func TestSend_CallerAuthorizationWins(t *testing.T) {
	var got string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, nil)
	require.NoError(t, c.SetToken(context.Background(), "session"))

	err := c.Send(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/projects/",
		Header: http.Header{"Authorization": {"Bearer other"}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer other", got)
}

func TestSetToken_PersistsAndClears(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	var got string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, store)

	require.NoError(t, c.SetToken(ctx, "abc"))
	v, err := store.Get(ctx, localstore.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, c.Send(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, nil))
	assert.Equal(t, "Bearer abc", got)

	require.NoError(t, c.SetToken(ctx, ""))
	assert.Equal(t, "", c.Token())
	_, err = store.Get(ctx, localstore.KeyToken)
	assert.ErrorIs(t, err, localstore.ErrNotFound)

	require.NoError(t, c.Send(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, nil))
	assert.Equal(t, "", got)
}

func TestSend_UnauthorizedEndsSession(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, localstore.KeyToken, "stale"))
	require.NoError(t, store.Set(ctx, localstore.KeyUser, `{"id":1,"username":"alice"}`))

	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	}, store)

	var events []SessionEnded
	cancel := c.SessionEvents().Listen(func(ev SessionEnded) {
		// The token is already gone when listeners run.
		assert.Equal(t, "", c.Token())
		events = append(events, ev)
	})
	defer cancel()

	err := c.Send(ctx, Request{Method: http.MethodGet, Path: "/projects/"}, nil)
	require.Error(t, err)

	var apiErr *service.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Could not validate credentials", apiErr.Detail)
	assert.True(t, service.IsSessionEnded(err))

	assert.Equal(t, "", c.Token())
	_, err = store.Get(ctx, localstore.KeyToken)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
	_, err = store.Get(ctx, localstore.KeyUser)
	assert.ErrorIs(t, err, localstore.ErrNotFound)

	require.Len(t, events, 1)
	assert.Equal(t, "/projects/", events[0].Path)
	assert.Equal(t, 1, rec.sessions)
}

func TestSend_LoginUnauthorizedKeepsSession(t *testing.T) {
	ctx := context.Background()
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Incorrect username or password"}`)
	}, nil)
	require.NoError(t, c.SetToken(ctx, "existing"))

	fired := false
	defer c.SessionEvents().Listen(func(SessionEnded) { fired = true })()

	err := c.Send(ctx, Request{Method: http.MethodPost, Path: LoginPath}, nil)
	require.Error(t, err)
	assert.False(t, service.IsSessionEnded(err))
	assert.Equal(t, "Incorrect username or password", service.ErrorDetail(err))
	assert.Equal(t, "existing", c.Token())
	assert.False(t, fired)
	assert.Equal(t, 0, rec.sessions)
}

func TestSend_ErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"string", `{"detail":"Project not found"}`, "Project not found"},
		{"validation list", `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"no detail", `{"error":"boom"}`, ""},
		{"not json", `Internal Server Error`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			}, nil)

			err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/projects/1"}, nil)
			var apiErr *service.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.False(t, apiErr.SessionEnded)
		})
	}
}

func TestSend_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &fakeRecorder{}
	c, err := New(context.Background(), Options{BaseURL: url, Metrics: rec})
	require.NoError(t, err)

	err = c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/projects/"}, nil)
	require.Error(t, err)
	var apiErr *service.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "", service.ErrorDetail(err))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, recordedCall{http.MethodGet, "/projects/", 0}, rec.calls[0])
}

func TestSend_RecordsRouteTemplate(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":7,"name":"p"}`)
	}, nil)

	var p service.Project
	require.NoError(t, c.Send(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/projects/7",
		Route:  "/projects/{id}",
	}, &p))
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, []recordedCall{{http.MethodGet, "/projects/{id}", 200}}, rec.calls)
}

func TestSend_DecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	}, nil)

	var p service.Project
	err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/projects/7"}, &p)
	assert.Error(t, err)
}
