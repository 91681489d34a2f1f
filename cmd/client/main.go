package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/osheen/internal/buildinfo"
	"github.com/dmitrijs2005/osheen/internal/client/cli"
	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/client/config"
	"github.com/dmitrijs2005/osheen/internal/client/services"
	"github.com/dmitrijs2005/osheen/internal/client/session"
	"github.com/dmitrijs2005/osheen/internal/client/storage"
	"github.com/dmitrijs2005/osheen/internal/filex"
	"github.com/dmitrijs2005/osheen/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error(context.Background(), "client stopped", "err", err)
		os.Exit(1)
	}
}

// run wires the client together and blocks until the REPL exits. Every
// goroutine it starts has returned before the store is closed.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	storePath, err := filex.EnsureParentDir(cfg.StorePath)
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	apiClient, err := client.NewHTTPClient(cfg.ServerBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithEndpoints(cfg.Endpoints),
	)
	if err != nil {
		return err
	}

	sess := session.New(storage.NewSQLiteRepository(db), apiClient,
		session.WithLogger(logger),
		session.WithReconcileTimeout(cfg.RequestTimeout),
	)
	sess.Initialize(ctx)
	ctx = session.NewContext(ctx, sess)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	as := services.NewAuthService(apiClient, sess, logger)

	// reconcile in the background so the prompt is available right away
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.CheckAuth(ctx)
	}()

	app := cli.NewApp(cfg, as, sess, logger)
	app.Run(ctx)

	cancel()
	wg.Wait()
	return nil
}
