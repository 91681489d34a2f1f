package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/config"
	"github.com/dmitrijs2005/osheen/internal/client/services"
	"github.com/dmitrijs2005/osheen/internal/client/session"
	"github.com/dmitrijs2005/osheen/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Session is the read side of the session manager used by the CLI.
type Session interface {
	Snapshot() session.State
	Subscribe(fn session.Handler) func()
	Watch(ctx context.Context, interval time.Duration)
}

type App struct {
	config      *config.Config
	authService services.AuthService
	session     Session
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config, as services.AuthService, s Session, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config:      c,
		authService: as,
		session:     s,
		log:         log.With("component", "cli"),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode records the connectivity mode and reports whether it changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	return true
}

// Run starts the watchers and the REPL and blocks until the user exits or
// stdin is closed. The watchers are stopped before Run returns.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := a.session.Subscribe(a.onSessionEvent)
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.session.Watch(ctx, a.config.CheckInterval)
	}()
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.PingInterval)
	}()

	printlnFn("Welcome to Osheen Oracle (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))

	cancel()
	wg.Wait()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

func (a *App) getStatus() string {
	s := ""
	if st := a.session.Snapshot(); st.IsAuthenticated {
		s = st.User.Email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) onSessionEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventLoggedIn:
		if st := a.session.Snapshot(); st.User != nil {
			printlnFn("Logged in as", st.User.Email)
		}
	case session.EventLoggedOut:
		printlnFn("Logged out")
	case session.EventEvicted:
		printlnFn("Your session has expired, please log in again")
	}
}

// StartOnlineStatusWatcher pings the backend every interval and tracks the
// connectivity mode. When the backend comes back after being unreachable the
// session is reconciled, since earlier checks may have been inconclusive.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.log.Debug(ctx, "backend unreachable", "err", err)
				a.setMode(ModeOffline)
				continue
			}

			wasOffline := a.Mode() == ModeOffline
			if a.setMode(ModeOnline) && wasOffline {
				res := a.authService.Refresh(ctx)
				a.log.Debug(ctx, "session rechecked", "outcome", res.Outcome)
			}

		case <-ctx.Done():
			return
		}
	}
}
