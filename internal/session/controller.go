package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/leaderboard"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type DataSource interface {
	ReadRoster(ctx context.Context) ([]domain.Player, error)
	ReadRankSnapshots(ctx context.Context, queue domain.Queue) ([]domain.RankSnapshot, error)
	ReadMatchHistories(ctx context.Context, queue domain.Queue) ([]domain.MatchHistory, error)
	ReadPresence(ctx context.Context) ([]domain.PresenceRecord, error)
}

// RefreshTrigger asks the remote backend to refresh its rank data.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context) error
}

// View is an immutable projection published after every state change.
type View struct {
	Rows       []domain.DisplayRow `json:"rows"`
	Summary    domain.Summary      `json:"summary"`
	Banner     *domain.Banner      `json:"banner"`
	Notice     *domain.Notice      `json:"notice"`
	Search     string              `json:"search"`
	Refreshing bool                `json:"refreshing"`
}

type Options struct {
	Queue            domain.Queue
	PresenceInterval time.Duration
}

// Controller owns the aggregation store for one leaderboard session. All state below the
// marker is touched only by the loop goroutine; I/O runs elsewhere and posts results back.
type Controller struct {
	source  DataSource
	trigger RefreshTrigger
	logger  zerolog.Logger
	opts    Options
	now     func() time.Time

	events chan func()
	view   atomic.Pointer[View]

	subsMu sync.Mutex
	subs   map[chan View]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	// loop-owned
	store       *leaderboard.Store
	queue       domain.Queue
	search      string
	generation  uint64
	loading     bool
	refreshing  bool
	lastFetchAt time.Time
	banner      *domain.Banner
	notice      *domain.Notice
}

func New(source DataSource, trigger RefreshTrigger, logger zerolog.Logger, opts Options) *Controller {
	if !opts.Queue.Valid() {
		opts.Queue = domain.QueueSolo
	}
	if opts.PresenceInterval <= 0 {
		opts.PresenceInterval = constants.PresenceInterval
	}

	c := &Controller{
		source:  source,
		trigger: trigger,
		logger:  logger.With().Str("component", "session").Logger(),
		opts:    opts,
		now:     time.Now,
		events:  make(chan func(), 64),
		subs:    make(map[chan View]struct{}),
		store:   leaderboard.NewStore(),
		queue:   opts.Queue,
	}
	c.publish()
	return c
}

// Start runs the event loop and the presence poller and kicks off the first fetch cycle.
// The context bounds the whole session, so callers should not pass a request-scoped one.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.group, c.ctx = errgroup.WithContext(ctx)

	c.group.Go(func() error { return c.loop(c.ctx) })
	c.group.Go(func() error { return c.pollPresence(c.ctx) })

	c.logger.Info().
		Str("queue", string(c.opts.Queue)).
		Dur("presence_interval", c.opts.PresenceInterval).
		Msg("session started")

	c.post(c.startCycle)
}

func (c *Controller) Stop() error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	err := c.group.Wait()
	c.logger.Info().Msg("session stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Controller) View() View {
	return *c.view.Load()
}

// Subscribe delivers the latest View whenever it changes. Slow readers only see the newest one.
func (c *Controller) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)

	// publish stores before it notifies under subsMu, so no view falls between these two steps
	c.subsMu.Lock()
	ch <- c.View()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, ch)
			c.subsMu.Unlock()
			close(ch)
		})
	}
}

func (c *Controller) SetQueue(queue domain.Queue) error {
	if !queue.Valid() {
		return fmt.Errorf("unknown queue %q", queue)
	}
	c.post(func() {
		c.logger.Debug().Str("queue", string(queue)).Msg("queue selected")
		c.queue = queue
		c.startCycle()
	})
	return nil
}

// SetSearchTerm re-projects without fetching.
func (c *Controller) SetSearchTerm(term string) {
	c.post(func() {
		c.search = term
		c.publish()
	})
}

func (c *Controller) TriggerManualRefresh() {
	c.post(c.beginManualRefresh)
}

func (c *Controller) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.events:
			fn()
		}
	}
}

// post hands fn to the loop goroutine. It reports false once the session is stopped.
func (c *Controller) post(fn func()) bool {
	if c.ctx == nil {
		return false
	}
	select {
	case c.events <- fn:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// spawn runs blocking work off the loop; must be called from the loop.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.group.Go(func() error {
		fn(c.ctx)
		return nil
	})
}

func (c *Controller) beginManualRefresh() {
	if c.refreshing {
		c.logger.Debug().Msg("manual refresh already in flight")
		return
	}
	c.refreshing = true
	c.publish()

	c.spawn(func(ctx context.Context) {
		kickCtx, cancel := context.WithTimeout(ctx, constants.RefreshTimeout)
		err := c.trigger.TriggerRefresh(kickCtx)
		cancel()
		c.post(func() { c.finishManualRefresh(err) })
	})
}

func (c *Controller) finishManualRefresh(err error) {
	c.refreshing = false

	if err != nil {
		var remoteErr *domain.RemoteTriggerError
		msg := "Refresh failed: " + err.Error()
		if errors.As(err, &remoteErr) {
			msg = fmt.Sprintf("Refresh failed (status %d)", remoteErr.StatusCode)
		}
		c.logger.Warn().Err(err).Msg("remote refresh failed")
		c.showNotice(domain.BannerError, msg)
		c.publish()
		return
	}

	c.logger.Info().Msg("remote refresh triggered")
	c.showNotice(domain.BannerInfo, "Refresh started")
	c.startCycle()
}

func (c *Controller) showNotice(kind domain.BannerKind, msg string) {
	n := &domain.Notice{Kind: kind, Message: msg, At: c.now()}
	c.notice = n
	time.AfterFunc(constants.NoticeTTL, func() {
		c.post(func() {
			if c.notice == n {
				c.notice = nil
				c.publish()
			}
		})
	})
}

func (c *Controller) publish() {
	rows := leaderboard.Project(c.store, c.queue, c.search)

	v := &View{
		Rows: rows,
		Summary: domain.Summary{
			PlayerCount: len(rows),
			Queue:       c.queue,
			QueueLabel:  c.queue.Label(),
			Loading:     c.loading,
		},
		Banner:     c.banner,
		Notice:     c.notice,
		Search:     c.search,
		Refreshing: c.refreshing,
	}
	if !c.lastFetchAt.IsZero() {
		t := c.lastFetchAt
		v.Summary.LastFetchAt = &t
	}

	c.view.Store(v)
	c.notify(*v)
}

func (c *Controller) notify(v View) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- v:
		default:
			// drop the stale view the reader has not picked up yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
