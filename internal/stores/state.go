// Package stores holds the client-side state of the tracker: the signed-in
// user, the project list and the tasks of the open project.
//
// Stores never return errors. Operations report success with a non-nil
// result or true; on failure the message is available from Error(). Every
// change to store state is published on the store's hub.
package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskboard/internal/logging"
	"taskboard/internal/notify"
	"taskboard/internal/service"
)

// Store names used in Change events.
const (
	StoreAuth     = "auth"
	StoreProjects = "projects"
	StoreTasks    = "tasks"
)

// Fields used in Change events.
const (
	FieldLoading        = "loading"
	FieldError          = "error"
	FieldUser           = "user"
	FieldToken          = "token"
	FieldProjects       = "projects"
	FieldCurrentProject = "current_project"
	FieldTasks          = "tasks"
)

// Change says which part of a store changed. Subscribers re-read the store.
type Change struct {
	Store string
	Field string
}

// Options configures a store.
type Options struct {
	Logger *zap.Logger

	// Messages supplies fallback error messages. Defaults to English.
	Messages Catalog
}

// state is the part every store shares: the loading flag, the last error
// and the change hub. mu also guards the embedding store's own fields and
// is never held across a network call.
type state struct {
	name   string
	hub    *notify.Hub[Change]
	logger *zap.Logger
	msgs   Catalog

	mu      sync.RWMutex
	loading bool
	err     string
}

func newState(name string, opts Options) *state {
	logger := logging.Component(opts.Logger, name+"_store")
	msgs := opts.Messages
	if msgs == nil {
		msgs = CatalogFor(DefaultLocale)
	}
	return &state{
		name:   name,
		hub:    notify.NewHub[Change](logger),
		logger: logger,
		msgs:   msgs,
	}
}

// Loading reports whether an operation is in flight. With overlapping
// operations the last one to finish decides the value.
func (s *state) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the message of the last failed operation, or "".
func (s *state) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Changes returns the store's change hub.
func (s *state) Changes() *notify.Hub[Change] {
	return s.hub
}

// Subscribe is shorthand for Changes().Subscribe.
func (s *state) Subscribe(ctx context.Context) (<-chan Change, string) {
	return s.hub.Subscribe(ctx)
}

// update runs fn under the lock and then announces fields.
func (s *state) update(fn func(), fields ...string) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.publish(fields...)
}

func (s *state) publish(fields ...string) {
	for _, f := range fields {
		s.hub.Publish(Change{Store: s.name, Field: f})
	}
}

// begin marks an operation as started and clears the previous error.
func (s *state) begin() {
	s.update(func() {
		s.loading = true
		s.err = ""
	}, FieldLoading, FieldError)
}

// end marks an operation as finished, whatever its outcome.
func (s *state) end() {
	s.update(func() { s.loading = false }, FieldLoading)
}

// fail records the message for err: the server's detail when it sent one,
// the fallback for key otherwise. A response that ended the session is
// handled by the application and records nothing here.
func (s *state) fail(op string, err error, key MessageKey) {
	if service.IsSessionEnded(err) {
		s.logger.Debug("operation rejected, session ended", zap.String("op", op))
		return
	}
	msg := service.ErrorDetail(err)
	if msg == "" {
		msg = s.msgs.Text(key)
	}
	s.logger.Debug("operation failed", zap.String("op", op), zap.Error(err))
	s.update(func() { s.err = msg }, FieldError)
}
