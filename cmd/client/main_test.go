package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/config"
	"github.com/dmitrijs2005/osheen/internal/client/storage"
	"github.com/dmitrijs2005/osheen/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStdin makes the REPL read input from a file for the duration of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)

	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = orig
		_ = f.Close()
	})
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.ServerBaseURL = baseURL
	cfg.StorePath = filepath.Join(t.TempDir(), "data", "osheen.db")
	cfg.RequestTimeout = 5 * time.Second
	cfg.CheckInterval = 0
	cfg.PingInterval = 0
	return &cfg
}

func TestRun_WaitsForStartupCheckBeforeClosingStore(t *testing.T) {
	// the profile request only ends when the client gives up on it
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx := context.Background()
	cfg := testConfig(t, srv.URL)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.StorePath), 0o700))

	db, err := storage.Open(ctx, cfg.StorePath)
	require.NoError(t, err)
	require.NoError(t, storage.NewSQLiteRepository(db).SetMany(ctx, map[string]string{
		storage.KeyToken: "abc123",
		storage.KeyUser:  `{"id":"u1","email":"a@b.com"}`,
	}))
	require.NoError(t, db.Close())

	withStdin(t, "exit\n")
	var logs bytes.Buffer
	logger := logging.New(&logs, "debug", "text")

	require.NoError(t, run(ctx, cfg, logger))

	// the startup check has finished and logged its outcome
	assert.Contains(t, logs.String(), "op=check")

	db, err = storage.Open(ctx, cfg.StorePath)
	require.NoError(t, err)
	defer db.Close()
	tok, ok, err := storage.NewSQLiteRepository(db).Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok, "an unfinished check must not evict the session")
	assert.Equal(t, "abc123", tok)
}

func TestRun_ReturnsStartupErrors(t *testing.T) {
	withStdin(t, "exit\n")
	cfg := testConfig(t, "not a url")

	err := run(context.Background(), cfg, logging.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base url")
}
