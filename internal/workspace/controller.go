// Package workspace keeps the client-side view of a user's lists and tasks
// consistent with the remote store while requests overlap.
//
// The Controller owns every cached list and task. Callers read snapshots
// and express intents through methods; network calls never run with the
// state lock held, and results that arrive after the controller was closed
// or superseded are dropped.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"showmetasks/internal/service"
	"showmetasks/internal/session"
	"showmetasks/internal/telemetry"
)

var (
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("workspace closed")

	// ErrSuperseded is returned by a list load that a newer load replaced.
	ErrSuperseded = errors.New("list load superseded")
)

// Phase is the list-loading lifecycle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithReporter sets where failures are reported.
func WithReporter(r telemetry.Reporter) Option {
	return func(c *Controller) { c.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides the time source used for dated list names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller is the workspace state controller. It is safe for concurrent use.
type Controller struct {
	svc      service.Service
	reporter telemetry.Reporter
	logger   *log.Logger
	now      func() time.Time

	root   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	sess   *session.Session
	bound  bool

	loadGen    uint64
	loadCancel context.CancelFunc
	taskGen    uint64
	taskCancel context.CancelFunc

	phase         Phase
	lists         []service.TaskList
	selected      *service.TaskList
	selectionMode bool
	selectedIDs   map[int64]struct{}
	panel         PanelView
	search        string
}

// New creates a controller. sess is the credentials every call is made
// with; it can be replaced later with SetSession.
func New(svc service.Service, sess *session.Session, opts ...Option) *Controller {
	root, cancel := context.WithCancel(context.Background())
	c := &Controller{
		svc:         svc,
		reporter:    telemetry.Discard{},
		logger:      log.StandardLogger(),
		now:         time.Now,
		root:        root,
		cancel:      cancel,
		sess:        sess,
		selectedIDs: make(map[int64]struct{}),
		panel:       ActiveView,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close tears the controller down. In-flight calls are cancelled and any
// response arriving afterwards is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

// SetSession installs new credentials. When the token differs from the
// previous one (or this is the first call) a full list fetch starts in the
// background, superseding any fetch still running. The returned channel is
// closed once that fetch has been applied or discarded.
func (c *Controller) SetSession(sess *session.Session) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(done)
		return done
	}
	changed := !c.bound || sess.Key() != c.sess.Key()
	c.sess = sess
	c.bound = true
	if !changed {
		c.mu.Unlock()
		close(done)
		return done
	}
	if sess.Key() == "" {
		// Signed out: nothing to fetch, but stop whatever was loading.
		if c.loadCancel != nil {
			c.loadCancel()
			c.loadCancel = nil
		}
		c.loadGen++
		c.phase = Idle
		c.mu.Unlock()
		close(done)
		return done
	}
	ctx, gen := c.beginLoadLocked(context.Background())
	c.mu.Unlock()

	go func() {
		defer close(done)
		_ = c.load(ctx, gen, "fetch_lists")
	}()
	return done
}

// Refresh fetches all lists and waits for the result.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	lctx, gen := c.beginLoadLocked(ctx)
	c.mu.Unlock()
	return c.load(lctx, gen, "fetch_lists")
}

// resync is the recovery refetch after a failed optimistic mutation.
func (c *Controller) resync(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	lctx, gen := c.beginLoadLocked(ctx)
	c.mu.Unlock()
	return c.load(lctx, gen, "resync_lists")
}

func (c *Controller) beginLoadLocked(parent context.Context) (context.Context, uint64) {
	if c.loadCancel != nil {
		c.loadCancel()
	}
	c.loadGen++
	ctx, cancel := c.deriveLocked(parent)
	c.loadCancel = cancel
	c.phase = Loading
	return ctx, c.loadGen
}

func (c *Controller) load(ctx context.Context, gen uint64, op string) error {
	lists, err := c.svc.ListLists(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if gen != c.loadGen {
		c.logger.WithField("op", op).Debug("workspace.load.discarded")
		return ErrSuperseded
	}
	c.loadCancel()
	c.loadCancel = nil
	c.phase = Loaded
	if err != nil {
		c.reporter.Report(ctx, op, err)
		return err
	}

	c.lists = cloneLists(lists)
	c.reconcileSelectionLocked()
	return nil
}

// reconcileSelectionLocked keeps an existing selection pointed at the fresh
// copy of its list and falls back to the first list when nothing is selected.
func (c *Controller) reconcileSelectionLocked() {
	if c.selected != nil {
		if i := c.indexLocked(c.selected.ID); i >= 0 {
			fresh := c.lists[i].Clone()
			c.selected = &fresh
		} else {
			c.selected = nil
		}
	}
	if c.selected == nil && len(c.lists) > 0 {
		first := c.lists[0].Clone()
		c.selected = &first
	}
	for id := range c.selectedIDs {
		if c.indexLocked(id) < 0 {
			delete(c.selectedIDs, id)
		}
	}
}

// deriveLocked returns a context cancelled by either parent or Close, and
// carrying the current session.
func (c *Controller) deriveLocked(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(c.root, cancel)
	return session.NewContext(ctx, c.sess), func() {
		stop()
		cancel()
	}
}

// State is a point-in-time copy of the controller state.
type State struct {
	Phase         Phase
	Lists         []service.TaskList
	Selected      *service.TaskList
	SelectionMode bool
	SelectedIDs   []int64
	PanelView     PanelView
	Search        string
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Phase:         c.phase,
		Lists:         cloneLists(c.lists),
		SelectionMode: c.selectionMode,
		SelectedIDs:   c.selectedIDsLocked(),
		PanelView:     c.panel,
		Search:        c.search,
	}
	if c.selected != nil {
		sel := c.selected.Clone()
		st.Selected = &sel
	}
	return st
}

// Selected returns a copy of the selected list.
func (c *Controller) Selected() (service.TaskList, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return service.TaskList{}, false
	}
	return c.selected.Clone(), true
}

// Phase returns the list-loading phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) indexLocked(id int64) int {
	for i := range c.lists {
		if c.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneLists(lists []service.TaskList) []service.TaskList {
	if lists == nil {
		return nil
	}
	out := make([]service.TaskList, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}
