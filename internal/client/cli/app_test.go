package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/models"
	"github.com/dmitrijs2005/osheen/internal/client/session"
	"github.com/stretchr/testify/require"
)

// syncPrints captures printlnFn output from several goroutines.
func syncPrints(t *testing.T) func() []string {
	t.Helper()
	var (
		mu    sync.Mutex
		lines []string
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		mu.Unlock()
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func TestGetStatus(t *testing.T) {
	capturePrints(t)
	a, _ := newTestApp(t)

	if got := a.getStatus(); got != "" {
		t.Fatalf("want empty status, got %q", got)
	}

	a.setMode(ModeOnline)
	if got := a.getStatus(); got != "(online)" {
		t.Fatalf("got %q", got)
	}

	u := &models.User{ID: "u1", Email: "a@b.com"}
	require.NoError(t, a.session.(*session.Manager).Login(context.Background(), "abc123", u))
	if got := a.getStatus(); got != "(a@b.com online)" {
		t.Fatalf("got %q", got)
	}
}

func TestSetMode_ChangesAndReportsOnce(t *testing.T) {
	lines := capturePrints(t)
	a, _ := newTestApp(t)

	if !a.setMode(ModeOnline) || a.Mode() != ModeOnline {
		t.Fatalf("expected mode to be %q, got %q", ModeOnline, a.Mode())
	}
	if len(*lines) != 1 {
		t.Fatalf("expected one notice on mode change, got %v", *lines)
	}

	if a.setMode(ModeOnline) {
		t.Fatal("same mode must not count as a change")
	}
	if len(*lines) != 1 {
		t.Fatalf("expected no output when mode doesn't change, got %v", *lines)
	}

	a.setMode(ModeOffline)
	if a.Mode() != ModeOffline || len(*lines) != 2 {
		t.Fatalf("expected switch to offline, got %q %v", a.Mode(), *lines)
	}
}

func TestOnSessionEvent_Evicted(t *testing.T) {
	lines := capturePrints(t)
	a, _ := newTestApp(t)

	a.onSessionEvent(session.Event{Kind: session.EventEvicted})
	if len(*lines) != 1 || !strings.Contains((*lines)[0], "expired") {
		t.Fatalf("got %v", *lines)
	}
}

func TestStartOnlineStatusWatcher_RechecksWhenBackOnline(t *testing.T) {
	syncPrints(t)
	a, f := newTestApp(t)
	f.setPingErr(errors.New("down"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)
	if _, refreshes := f.counts(); refreshes != 0 {
		t.Fatalf("no refresh expected while offline, got %d", refreshes)
	}

	f.setPingErr(nil)
	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { _, r := f.counts(); return r == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	if _, refreshes := f.counts(); refreshes != 1 {
		t.Fatalf("refresh must happen once per reconnect, got %d", refreshes)
	}
}

func TestStartOnlineStatusWatcher_DisabledByZeroInterval(t *testing.T) {
	a, f := newTestApp(t)
	a.StartOnlineStatusWatcher(context.Background(), 0)
	if pings, _ := f.counts(); pings != 0 {
		t.Fatalf("unexpected pings: %d", pings)
	}
}

func TestRun_WelcomesAndExits(t *testing.T) {
	printed := syncPrints(t)
	a, _ := newTestApp(t)
	a.config.CheckInterval = 0
	a.config.PingInterval = 0
	a.reader = bufio.NewReader(strings.NewReader("help\nexit\n"))

	done := make(chan struct{})
	go func() {
		a.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	got := strings.Join(printed(), "\n")
	for _, s := range []string{"Welcome to Osheen Oracle", "Available commands: register", "Bye!"} {
		if !strings.Contains(got, s) {
			t.Fatalf("missing %q in %q", s, got)
		}
	}
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	syncPrints(t)
	a, _ := newTestApp(t)
	a.reader = bufio.NewReader(strings.NewReader("help\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
