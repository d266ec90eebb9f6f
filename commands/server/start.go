package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/notify"
	"github.com/iov-one/gatekeeper/store/iavl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHTTP  = "http"
	flagDebug = "debug"

	shutdownTimeout = 5 * time.Second
)

// AppGenerator builds the application engine on top of a store. Options
// passed by the server configure logging, events and metrics.
type AppGenerator func(kv gatekeeper.CommitKVStore, opts ...app.Option) (*app.Engine, error)

func parseFlags(cfg *Config, args []string) error {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.HTTPAddr, flagHTTP, cfg.HTTPAddr, "address the HTTP API listens on")
	startFlags.BoolVar(&cfg.Debug, flagDebug, cfg.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// StartCmd initializes the application, loads the genesis on the first run
// and serves the HTTP API until the process is interrupted.
func StartCmd(gen AppGenerator, msgs *app.MsgRegistry, logger log.Logger, home string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return start(ctx, gen, msgs, logger, home, args)
}

func start(ctx context.Context, gen AppGenerator, msgs *app.MsgRegistry, logger log.Logger, home string, args []string) error {
	cfg, err := LoadConfig(home)
	if err != nil {
		return err
	}
	if err := parseFlags(&cfg, args); err != nil {
		return err
	}
	logger, err = FilterLogger(logger, cfg.LogLevel)
	if err != nil {
		return err
	}

	kv, err := openStore(cfg, home)
	if err != nil {
		return err
	}
	defer kv.Close()

	journal, err := notify.OpenJournal(path(home, cfg.JournalFile), logger)
	if err != nil {
		return err
	}
	defer journal.Close()
	hub := notify.NewHub(logger, cfg.CORSOrigins)

	registry := prometheus.NewRegistry()
	engine, err := gen(kv,
		app.WithLogger(logger),
		app.WithSink(notify.Fanout{notify.NewLogSink(logger), journal, hub}),
		app.WithMetrics(app.NewMetrics(registry)),
	)
	if err != nil {
		return err
	}

	if engine.ChainID() == "" {
		genesis, err := app.LoadGenesis(filepath.Join(home, GenesisFile))
		if err != nil {
			return err
		}
		if err := engine.InitGenesis(ctx, genesis); err != nil {
			return err
		}
	}

	node := Node{
		Engine:   engine,
		Messages: msgs,
		Events:   journal,
		Stream:   hub,
		Gatherer: registry,
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHTTPHandler(node, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting HTTP API", "addr", cfg.HTTPAddr, "chain_id", engine.ChainID())
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrapf(errors.ErrInput, "cannot serve: %s", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore opens the state database configured for the daemon.
func openStore(cfg Config, home string) (*iavl.CommitStore, error) {
	if cfg.DBBackend == iavl.MemDBBackend {
		return iavl.MockCommitStore(), nil
	}
	dbPath := path(home, cfg.DBName)
	if dbPath == "" {
		return nil, errors.Wrap(errors.ErrInput, "missing database name")
	}
	// The backend adds the extension itself.
	dbPath = strings.TrimSuffix(dbPath, filepath.Ext(dbPath))
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot create database directory: %s", err)
	}
	return iavl.NewCommitStore(cfg.DBBackend, filepath.Dir(dbPath), filepath.Base(dbPath))
}
