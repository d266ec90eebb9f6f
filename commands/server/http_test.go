package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/app"
	gkapp "github.com/iov-one/gatekeeper/cmd/gatekeeperd/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/notify"
	"github.com/iov-one/gatekeeper/store/iavl"
	"github.com/iov-one/gatekeeper/x/multisig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type testNode struct {
	srv    *httptest.Server
	owners []gatekeeper.Address
	holder gatekeeper.Address
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()

	owners := []gatekeeper.Address{gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()}
	holder := owners[0]
	opts := map[string]interface{}{
		"multisig": multisig.Genesis{Owners: owners, Threshold: 2},
		"token": map[string]interface{}{
			"name":     "Test Token",
			"symbol":   "TST",
			"decimals": 2,
			"supply":   1000,
			"holder":   holder,
		},
	}
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	var appOpts gatekeeper.Options
	require.NoError(t, json.Unmarshal(raw, &appOpts))

	journal, err := notify.OpenJournal(filepath.Join(t.TempDir(), "events.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	registry := prometheus.NewRegistry()
	engine, err := gkapp.Application(iavl.MockCommitStore(),
		app.WithSink(journal),
		app.WithMetrics(app.NewMetrics(registry)),
	)
	require.NoError(t, err)
	require.NoError(t, engine.InitGenesis(context.Background(), app.Genesis{ChainID: "http-test", AppOptions: appOpts}))

	cfg := Config{CallerHeader: "X-Caller"}
	h := NewHTTPHandler(Node{
		Engine:   engine,
		Messages: gkapp.Messages(),
		Events:   journal,
		Stream:   notify.NewHub(log.NewNopLogger(), nil),
		Gatherer: registry,
	}, cfg, log.NewNopLogger())

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testNode{srv: srv, owners: owners, holder: holder}
}

// do sends a request and decodes the JSON response into dest.
func (n *testNode) do(t *testing.T, method, path string, caller gatekeeper.Address, body string, dest interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, n.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if caller != nil {
		req.Header.Set("X-Caller", caller.String())
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	if dest != nil {
		require.NoError(t, json.Unmarshal(raw, dest), string(raw))
	}
	return resp.StatusCode
}

func TestHTTPAllowlistFlow(t *testing.T) {
	n := newTestNode(t)
	target := gatetest.NewAddress()

	var status struct {
		Allowed bool `json:"allowed"`
	}
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/allowlist/"+target.String(), nil, "", &status))
	assert.False(t, status.Allowed)

	// Transfer to a not allowed destination is rejected.
	transfer := fmt.Sprintf(`{"destination": "%s", "amount": 10}`, target)
	var failure errorResponse
	assert.Equal(t, http.StatusConflict, n.do(t, "POST", "/tx/token/transfer", n.holder, transfer, &failure))
	assert.Equal(t, uint32(1100), failure.Code)

	submit := fmt.Sprintf(`{"target": "%s", "action": "grant"}`, target)

	// Dry run does not persist anything.
	var res txResponse
	assert.Equal(t, http.StatusOK, n.do(t, "POST", "/tx/multisig/submit?check=1", n.owners[0], submit, &res))
	assert.Empty(t, res.Events)

	assert.Equal(t, http.StatusOK, n.do(t, "POST", "/tx/multisig/submit", n.owners[0], submit, &res))
	assert.JSONEq(t, `{"transaction_id": 0, "executed": false}`, string(res.Data))
	// The submitter confirms as part of the submit.
	require.Len(t, res.Events, 2)
	assert.Equal(t, gatekeeper.EventTransactionSubmit, res.Events[0].Kind)
	assert.Equal(t, gatekeeper.EventTransactionConfirm, res.Events[1].Kind)
	assert.Equal(t, n.owners[0], res.Events[1].Caller)

	assert.Equal(t, http.StatusOK, n.do(t, "POST", "/tx/multisig/confirm", n.owners[1], `{"transaction_id": 0}`, &res))
	assert.JSONEq(t, `{"transaction_id": 0, "executed": true}`, string(res.Data))
	var kinds []gatekeeper.EventKind
	for _, e := range res.Events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []gatekeeper.EventKind{
		gatekeeper.EventTransactionConfirm,
		gatekeeper.EventTransactionExecuted,
		gatekeeper.EventAllowlistUpdated,
	}, kinds)

	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/allowlist/"+target.String(), nil, "", &status))
	assert.True(t, status.Allowed)

	assert.Equal(t, http.StatusOK, n.do(t, "POST", "/tx/token/transfer", n.holder, transfer, &res))

	var balance gatekeeperBalance
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/query/token/wallets?data="+target.String(), nil, "", &balance))
	assert.Equal(t, uint64(10), balance.Balance)

	var events []gatekeeper.Event
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/events?limit=2", nil, "", &events))
	require.Len(t, events, 2)
	assert.Equal(t, gatekeeper.EventTransactionExecuted, events[0].Kind)
	assert.Equal(t, gatekeeper.EventAllowlistUpdated, events[1].Kind)
	assert.True(t, events[1].Allowed)
	assert.Equal(t, target, events[1].Address)
}

type gatekeeperBalance struct {
	Balance uint64 `json:"balance"`
}

func TestHTTPErrors(t *testing.T) {
	n := newTestNode(t)
	stranger := gatetest.NewAddress()

	cases := map[string]struct {
		method     string
		path       string
		caller     gatekeeper.Address
		body       string
		wantStatus int
		wantCode   uint32
	}{
		"unknown message": {
			method:     "POST",
			path:       "/tx/multisig/unknown",
			caller:     n.owners[0],
			body:       `{}`,
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrNotFound.Code(),
		},
		"malformed body": {
			method:     "POST",
			path:       "/tx/multisig/confirm",
			caller:     n.owners[0],
			body:       `{"transaction_id": "zero"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrInput.Code(),
		},
		"anonymous caller": {
			method:     "POST",
			path:       "/tx/multisig/confirm",
			body:       `{"transaction_id": 0}`,
			wantStatus: http.StatusForbidden,
			wantCode:   errors.ErrUnauthorized.Code(),
		},
		"not an owner": {
			method:     "POST",
			path:       "/tx/multisig/submit",
			caller:     stranger,
			body:       fmt.Sprintf(`{"target": "%s", "action": "grant"}`, stranger),
			wantStatus: http.StatusForbidden,
			wantCode:   errors.ErrUnauthorized.Code(),
		},
		"unknown transaction": {
			method:     "POST",
			path:       "/tx/multisig/confirm",
			caller:     n.owners[0],
			body:       `{"transaction_id": 42}`,
			wantStatus: http.StatusConflict,
			wantCode:   multisig.ErrInvalidTransactionID.Code(),
		},
		"not the manager": {
			method:     "POST",
			path:       "/tx/multisig/add_owner",
			caller:     n.owners[0],
			body:       fmt.Sprintf(`{"owner": "%s"}`, stranger),
			wantStatus: http.StatusConflict,
			wantCode:   multisig.ErrNotAllowlistManager.Code(),
		},
		"unknown query": {
			method:     "GET",
			path:       "/query/nothing",
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrNotFound.Code(),
		},
		"malformed address": {
			method:     "GET",
			path:       "/allowlist/zz",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrInput.Code(),
		},
		"event limit": {
			method:     "GET",
			path:       "/events?limit=0",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrInput.Code(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var res errorResponse
			status := n.do(t, tc.method, tc.path, tc.caller, tc.body, &res)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestHTTPMalformedCaller(t *testing.T) {
	n := newTestNode(t)
	req, err := http.NewRequest("POST", n.srv.URL+"/tx/multisig/confirm", strings.NewReader(`{"transaction_id": 0}`))
	require.NoError(t, err)
	req.Header.Set("X-Caller", "not-an-address")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHTTPInfo(t *testing.T) {
	n := newTestNode(t)

	var health struct {
		ChainID string `json:"chain_id"`
		Version int64  `json:"version"`
	}
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/healthz", nil, "", &health))
	assert.Equal(t, "http-test", health.ChainID)
	assert.Equal(t, int64(1), health.Version)

	var paths []string
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/messages", nil, "", &paths))
	assert.Contains(t, paths, multisig.PathSubmitMsg)
	assert.Len(t, paths, 10)

	var reg struct {
		Threshold uint32 `json:"threshold"`
	}
	assert.Equal(t, http.StatusOK, n.do(t, "GET", "/query/multisig/registry", nil, "", &reg))
	assert.Equal(t, uint32(2), reg.Threshold)

	resp, err := http.Get(n.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "gatekeeper_operations_total")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"panic":        {err: errors.Wrap(errors.ErrPanic, "boom"), want: http.StatusInternalServerError},
		"internal":     {err: fmt.Errorf("stdlib"), want: http.StatusInternalServerError},
		"unauthorized": {err: errors.ErrUnauthorized, want: http.StatusForbidden},
		"input":        {err: errors.Field("Owner", errors.ErrInput), want: http.StatusBadRequest},
		"state":        {err: errors.ErrState, want: http.StatusConflict},
		"domain":       {err: multisig.ErrAlreadyConfirmed, want: http.StatusConflict},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatus(tc.err))
		})
	}
}
