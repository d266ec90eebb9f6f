package app

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/x/allowlist"
	"github.com/sasha-s/go-deadlock"
	"github.com/tendermint/tendermint/libs/log"
)

// Engine processes operations one at a time against a committed store.
//
// Every write runs on a cache of the store. The cache is written back and
// committed only if the handler succeeded, otherwise it is dropped, so a
// failed operation leaves no trace. Events raised by a handler are published
// to the sink after the commit.
type Engine struct {
	mu deadlock.RWMutex

	store     gatekeeper.CommitKVStore
	handler   gatekeeper.Handler
	queries   *QueryRouter
	init      gatekeeper.Initializer
	allowlist allowlist.Reader
	sink      gatekeeper.EventSink
	logger    log.Logger
	metrics   *Metrics
	now       func() time.Time

	// chainID is loaded from db, empty until the genesis is loaded
	chainID string
}

// Option configures an engine.
type Option func(*Engine)

// WithLogger sets the logger, a nop logger is used by default.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSink sets where events are published, they are dropped by default.
func WithSink(s gatekeeper.EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithInitializer sets the code used to load the genesis.
func WithInitializer(i gatekeeper.Initializer) Option {
	return func(e *Engine) { e.init = i }
}

// WithAllowlist sets the reader used by IsAllowed.
func WithAllowlist(r allowlist.Reader) Option {
	return func(e *Engine) { e.allowlist = r }
}

// WithClock overwrites the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine processing operations with given handler,
// usually a Router.
func NewEngine(store gatekeeper.CommitKVStore, handler gatekeeper.Handler, queries *QueryRouter, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:     store,
		handler:   NewRecovery(handler),
		queries:   queries,
		init:      gatekeeper.ChainInitializers(),
		allowlist: allowlist.NewStore(),
		sink:      gatekeeper.NopSink,
		logger:    log.NewNopLogger(),
		now:       time.Now,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.logger = e.logger.With("module", "engine")

	view := store.CacheWrap()
	chainID, err := loadChainID(view)
	view.Discard()
	if err != nil {
		return nil, err
	}
	e.chainID = chainID
	return e, nil
}

// ChainID returns the chain id loaded with the genesis, or an empty
// string if the genesis was not loaded yet.
func (e *Engine) ChainID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chainID
}

// InitGenesis loads the genesis state. It can be done only once for a
// given store.
func (e *Engine) InitGenesis(ctx context.Context, gen Genesis) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", e.chainID)
	}
	ctx = gatekeeper.WithLogger(ctx, e.logger)

	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := e.init.FromGenesis(ctx, gen.AppOptions, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "cannot load genesis")
	}
	if err := e.commit(cache); err != nil {
		return err
	}
	e.chainID = gen.ChainID
	e.logger.Info("genesis loaded", "chain_id", gen.ChainID)
	return nil
}

// Check runs the operation without persisting any change. It returns the
// error Deliver would return for the current state.
func (e *Engine) Check(ctx context.Context, tx gatekeeper.Tx) (res *gatekeeper.CheckResult, err error) {
	defer func(start time.Time) { e.metrics.observe("check", txPath(tx), err, start) }(time.Now())

	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.initialized(); err != nil {
		return nil, err
	}

	ctx, _ = gatekeeper.WithEventBuffer(gatekeeper.WithLogger(ctx, e.logger))
	cache := e.store.CacheWrap()
	defer cache.Discard()

	return e.handler.Check(ctx, cache, tx)
}

// Deliver runs the operation and persists its result. On success all
// events raised by the operation are published and returned with the
// result.
func (e *Engine) Deliver(ctx context.Context, tx gatekeeper.Tx) (res *gatekeeper.DeliverResult, err error) {
	path := txPath(tx)
	defer func(start time.Time) { e.metrics.observe("deliver", path, err, start) }(time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initialized(); err != nil {
		return nil, err
	}

	ctx, buf := gatekeeper.WithEventBuffer(gatekeeper.WithLogger(ctx, e.logger.With("path", path)))
	cache := e.store.CacheWrap()

	res, err = e.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		e.logger.Debug("operation rejected", "path", path, "code", errors.Code(err), "err", err)
		return nil, err
	}
	if err := e.commit(cache); err != nil {
		return nil, err
	}
	if res == nil {
		res = &gatekeeper.DeliverResult{}
	}
	res.Events = e.publish(buf.Events())
	return res, nil
}

// commit writes the cache to the store and persists a new version.
func (e *Engine) commit(cache gatekeeper.KVCacheWrap) error {
	if err := cache.Write(); err != nil {
		cache.Discard()
		return errors.Wrap(err, "cannot write cache")
	}
	if _, err := e.store.Commit(); err != nil {
		return errors.Wrap(err, "cannot commit")
	}
	return nil
}

// publish stamps the events and hands them to the sink in order.
func (e *Engine) publish(events []gatekeeper.Event) []gatekeeper.Event {
	if len(events) == 0 {
		return nil
	}
	now := e.now().UTC()
	for i := range events {
		events[i].ID = uuid.New().String()
		events[i].Time = now
		e.sink.Publish(events[i])
	}
	e.metrics.published(len(events))
	return events
}

// Query returns the result of the query handler registered for path.
func (e *Engine) Query(path string, data []byte) (res interface{}, err error) {
	defer func(start time.Time) { e.metrics.observe("query", path, err, start) }(time.Now())

	h := e.queries.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	view := e.store.CacheWrap()
	defer view.Discard()
	return h.Query(view, data)
}

// IsAllowed returns the allowlist status of an address at the latest
// committed state.
func (e *Engine) IsAllowed(addr gatekeeper.Address) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	view := e.store.CacheWrap()
	defer view.Discard()
	return e.allowlist.IsAllowed(view, addr)
}

// LatestVersion returns the last committed version of the store.
func (e *Engine) LatestVersion() (gatekeeper.CommitID, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.LatestVersion()
}

func (e *Engine) initialized() error {
	if e.chainID == "" {
		return errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	return nil
}

// txPath returns the path of the transaction message, used as a label.
func txPath(tx gatekeeper.Tx) string {
	if tx == nil {
		return "unknown"
	}
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return "unknown"
	}
	return msg.Path()
}

func itoa(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
