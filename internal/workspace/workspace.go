// Package workspace bundles the screen state of one signed-in user: the
// calendar view, the employee roster browser, the flagged review queue and
// the chat history.
package workspace

import (
	"context"
	"errors"
	"sync"

	"wellness/internal/calendar"
	"wellness/internal/chat"
	"wellness/internal/models"
	"wellness/internal/roster"
)

// ErrStale is returned when a load finished after the screen it was started
// for was left or a newer load was started.
var ErrStale = errors.New("load result discarded")

// Workspace is safe for concurrent use. Fetches run outside the lock and
// their results are applied only while their load generation is current.
type Workspace struct {
	mu         sync.Mutex
	calendar   *calendar.View
	roster     *roster.Browser
	chat       *chat.History
	flagged    []models.FlaggedEmployee
	rosterGen  uint64
	flaggedGen uint64
	loaded     bool
	chatLoaded bool
}

// New creates a workspace with the calendar showing today's month.
func New(today models.Date, pageSize int, opts ...calendar.Option) *Workspace {
	return &Workspace{
		calendar: calendar.NewView(today, opts...),
		roster:   roster.NewBrowser(pageSize),
		chat:     chat.NewHistory(),
	}
}

// Calendar runs fn with exclusive access to the calendar view.
func (w *Workspace) Calendar(fn func(v *calendar.View) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.calendar)
}

// Roster returns the employee browser.
func (w *Workspace) Roster() *roster.Browser { return w.roster }

// Chat returns the chat history.
func (w *Workspace) Chat() *chat.History { return w.chat }

// RosterLoaded reports whether a roster load has been applied.
func (w *Workspace) RosterLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// LoadRoster fetches and applies a new employee collection. On a fetch error
// the previous collection stays in place and the error is returned with the
// current page.
func (w *Workspace) LoadRoster(ctx context.Context, fetch func(ctx context.Context) ([]models.Employee, error)) (roster.Page, error) {
	w.mu.Lock()
	w.rosterGen++
	gen := w.rosterGen
	w.mu.Unlock()

	employees, err := fetch(ctx)
	if err != nil {
		return w.roster.Current(), err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.rosterGen || ctx.Err() != nil {
		return w.roster.Current(), ErrStale
	}
	w.loaded = true
	return w.roster.SetEmployees(employees), nil
}

// LoadFlagged fetches and applies the flagged review queue.
func (w *Workspace) LoadFlagged(ctx context.Context, fetch func(ctx context.Context) ([]models.FlaggedEmployee, error)) ([]models.FlaggedEmployee, error) {
	w.mu.Lock()
	w.flaggedGen++
	gen := w.flaggedGen
	w.mu.Unlock()

	flagged, err := fetch(ctx)
	if err != nil {
		return w.Flagged(), err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.flaggedGen || ctx.Err() != nil {
		return cloneFlagged(w.flagged), ErrStale
	}
	w.flagged = cloneFlagged(flagged)
	return cloneFlagged(w.flagged), nil
}

// Flagged returns a copy of the flagged queue.
func (w *Workspace) Flagged() []models.FlaggedEmployee {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneFlagged(w.flagged)
}

// SetFlaggedReviewed sets the reviewed flag of one flagged employee.
func (w *Workspace) SetFlaggedReviewed(id int64, reviewed bool) (models.FlaggedEmployee, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.flagged {
		if w.flagged[i].ID == id {
			w.flagged[i].Reviewed = reviewed
			return w.flagged[i], true
		}
	}
	return models.FlaggedEmployee{}, false
}

// LoadChat fills the chat history from fetch the first time it is called.
// A failed fetch is retried on the next call.
func (w *Workspace) LoadChat(ctx context.Context, fetch func(ctx context.Context) ([]chat.Message, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chatLoaded {
		return nil
	}
	msgs, err := fetch(ctx)
	if err != nil {
		return err
	}
	w.chat.Replace(msgs)
	w.chatLoaded = true
	return nil
}

// Leave invalidates in-flight loads, as when the user navigates away.
func (w *Workspace) Leave() {
	w.mu.Lock()
	w.rosterGen++
	w.flaggedGen++
	w.mu.Unlock()
}

func cloneFlagged(in []models.FlaggedEmployee) []models.FlaggedEmployee {
	out := make([]models.FlaggedEmployee, len(in))
	copy(out, in)
	return out
}

// Registry keeps one workspace per session id.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	factory    func() *Workspace
}

// NewRegistry creates a registry building new workspaces with factory.
func NewRegistry(factory func() *Workspace) *Registry {
	return &Registry{workspaces: make(map[string]*Workspace), factory: factory}
}

// Get returns the session's workspace, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[sessionID]
	if !ok {
		w = r.factory()
		r.workspaces[sessionID] = w
	}
	return w
}

// Drop discards the session's workspace, cancelling the effect of any
// pending load.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
	if ok {
		w.Leave()
	}
}
