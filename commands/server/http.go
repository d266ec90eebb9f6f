package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/x/identity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	maxBodySize   = 1 << 20
	defaultLimit  = 100
	maxEventLimit = 1000
)

// EventLog gives access to already published events.
type EventLog interface {
	Recent(limit int, kind gatekeeper.EventKind) ([]gatekeeper.Event, error)
}

// Node is everything the HTTP API exposes.
type Node struct {
	Engine   *app.Engine
	Messages *app.MsgRegistry
	Events   EventLog
	Stream   http.Handler
	Gatherer prometheus.Gatherer
}

type api struct {
	node         Node
	callerHeader string
	debug        bool
	logger       log.Logger
}

// NewHTTPHandler returns the HTTP API of a node.
//
//	GET  /healthz              chain id and last committed version
//	GET  /messages             paths of all accepted messages
//	POST /tx/{path}            deliver a message, ?check=1 for a dry run
//	GET  /query/{path}?data=   run a query
//	GET  /allowlist/{address}  allowlist status of an address
//	GET  /events?limit=&kind=  recently published events
//	GET  /events/ws            stream of published events
//	GET  /metrics              prometheus metrics
func NewHTTPHandler(n Node, cfg Config, logger log.Logger) http.Handler {
	a := &api{
		node:         n,
		callerHeader: cfg.CallerHeader,
		debug:        cfg.Debug,
		logger:       logger.With("module", "http"),
	}

	r := chi.NewRouter()
	r.Get("/healthz", a.health)
	r.Get("/messages", a.messages)
	r.Post("/tx/*", a.tx)
	r.Get("/query/*", a.query)
	r.Get("/allowlist/{address}", a.allowlist)
	if n.Events != nil {
		r.Get("/events", a.events)
	}
	if n.Stream != nil {
		r.Get("/events/ws", n.Stream.ServeHTTP)
	}
	if n.Gatherer != nil {
		r.Get("/metrics", promhttp.HandlerFor(n.Gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", cfg.CallerHeader},
	})
	return c.Handler(r)
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	id, err := a.node.Engine.LatestVersion()
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"chain_id": a.node.Engine.ChainID(),
		"version":  id.Version,
		"hash":     id.Hash,
		"app":      gatekeeper.Version(),
	})
}

func (a *api) messages(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.node.Messages.Paths())
}

// txResponse is the result of a delivered or checked message.
type txResponse struct {
	Data   json.RawMessage    `json:"data,omitempty"`
	Log    string             `json:"log,omitempty"`
	Events []gatekeeper.Event `json:"events,omitempty"`
}

func (a *api) tx(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	raw, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		a.writeError(w, errors.Wrapf(errors.ErrInput, "cannot read body: %s", err))
		return
	}
	msg, err := a.node.Messages.Decode(path, raw)
	if err != nil {
		a.writeError(w, err)
		return
	}
	ctx, err := a.authenticate(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	tx := app.NewTx(msg)

	if check, _ := strconv.ParseBool(r.URL.Query().Get("check")); check {
		res, err := a.node.Engine.Check(ctx, tx)
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, txResponse{Log: res.Log})
		return
	}

	res, err := a.node.Engine.Deliver(ctx, tx)
	if err != nil {
		a.writeError(w, err)
		return
	}
	out := txResponse{Log: res.Log, Events: res.Events}
	if len(res.Data) > 0 {
		if json.Valid(res.Data) {
			out.Data = res.Data
		} else {
			out.Data, _ = json.Marshal(res.Data)
		}
	}
	a.writeJSON(w, http.StatusOK, out)
}

// authenticate returns the request context carrying the caller declared
// by the caller header. A request without the header is anonymous.
func (a *api) authenticate(r *http.Request) (gatekeeper.Context, error) {
	ctx := r.Context()
	h := r.Header.Get(a.callerHeader)
	if h == "" {
		return ctx, nil
	}
	caller, err := gatekeeper.ParseAddress(h)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "malformed caller")
	}
	return identity.WithCaller(ctx, caller), nil
}

func (a *api) query(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	res, err := a.node.Engine.Query(path, []byte(r.URL.Query().Get("data")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *api) allowlist(w http.ResponseWriter, r *http.Request) {
	addr, err := gatekeeper.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	allowed, err := a.node.Engine.IsAllowed(addr)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": addr,
		"allowed": allowed,
	})
}

func (a *api) events(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxEventLimit {
			a.writeError(w, errors.Wrapf(errors.ErrInput, "limit must be between 1 and %d", maxEventLimit))
			return
		}
		limit = n
	}
	events, err := a.node.Events.Recent(limit, gatekeeper.EventKind(r.URL.Query().Get("kind")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if events == nil {
		events = []gatekeeper.Event{}
	}
	a.writeJSON(w, http.StatusOK, events)
}

// errorResponse is returned for every failed request.
type errorResponse struct {
	Code  uint32 `json:"code"`
	Error string `json:"error"`
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	code, msg := errors.Info(err, a.debug)
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "err", err)
	}
	a.writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

// httpStatus maps an error to the closest HTTP status. Domain errors that
// reject an operation for the current state are reported as conflicts.
func httpStatus(err error) int {
	switch {
	case errors.ErrPanic.Is(err), errors.ErrDatabase.Is(err), errors.ErrHuman.Is(err):
		return http.StatusInternalServerError
	case errors.ErrUnauthorized.Is(err):
		return http.StatusForbidden
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrInput.Is(err), errors.ErrMsg.Is(err), errors.ErrEmpty.Is(err),
		errors.ErrType.Is(err), errors.ErrMetadata.Is(err):
		return http.StatusBadRequest
	case errors.Code(err) == 1:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func (a *api) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Debug("cannot write response", "err", err)
	}
}
