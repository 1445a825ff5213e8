package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/repository"
	"github.com/alexanderramin/dretree/internal/service"
	"github.com/alexanderramin/dretree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	logs *bytes.Buffer
}

func newTestServer(t *testing.T, records ...*domain.Record) testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	nodes := repository.NewSQLiteNodeRepo(database)
	testutil.SeedRecords(t, nodes, records...)
	svc := service.NewOrderService(nodes, repository.NewSQLiteOrderLogRepo(database), testutil.NewTestUoW(database))

	var logs bytes.Buffer
	srv := New(svc, Options{
		Logger:      slog.New(slog.NewTextHandler(&logs, nil)),
		CORSOrigins: []string{"http://console.test"},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return testServer{Server: ts, logs: &logs}
}

func (ts testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts testServer) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func ids(nodes []*domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestServer_Children(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)

	resp := ts.get(t, "/api/order/children?parent=cc_7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[contract.ChildrenResponse](t, resp)
	assert.Equal(t, "cc_7", body.ParentContext)
	assert.Equal(t, []string{"sg_1", "sg_2"}, ids(body.Nodes))

	root := decode[contract.ChildrenResponse](t, ts.get(t, "/api/order/children"))
	assert.Equal(t, domain.RootContext, root.ParentContext)
	assert.Equal(t, []string{"tipo_1", "virt_3"}, ids(root.Nodes))
}

func TestServer_ChildrenInactiveIsEmptyList(t *testing.T) {
	ts := newTestServer(t, testutil.UnrankedDRETree()...)

	resp := ts.get(t, "/api/order/children?parent=root")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parentContext":"root","nodes":[]}`, string(raw))
}

func TestServer_ErrorMapping(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)

	tests := []struct {
		name   string
		resp   func() *http.Response
		status int
		code   string
	}{
		{"unknown parent", func() *http.Response { return ts.get(t, "/api/order/children?parent=cc_404") }, http.StatusNotFound, contract.CodeNotFound},
		{"bad prefix", func() *http.Response { return ts.get(t, "/api/order/children?parent=x_1") }, http.StatusBadRequest, contract.CodeInvalidContext},
		{"bad history limit", func() *http.Response { return ts.get(t, "/api/order/history?limit=-1") }, http.StatusBadRequest, contract.CodeBadRequest},
		{"unknown route", func() *http.Response { return ts.get(t, "/api/nope") }, http.StatusNotFound, contract.CodeNotFound},
		{"invalid batch", func() *http.Response {
			return ts.post(t, "/api/order/batch", contract.ReorderBatch{
				ParentContext: "cc_7",
				OrderedList:   []contract.OrderItem{{Type: domain.Account, ReferenceID: "501", Rank: 10}},
			})
		}, http.StatusUnprocessableEntity, contract.CodeInvalidBatch},
		{"unknown field", func() *http.Response {
			return ts.post(t, "/api/order/batch", map[string]any{"parentContext": "cc_7", "orderedList": []any{}, "extra": 1})
		}, http.StatusBadRequest, contract.CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp()
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[contract.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestServer_BatchAppliesAndLogs(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)

	raw, err := json.Marshal(contract.ReorderBatch{
		ParentContext: "cc_7",
		OrderedList: []contract.OrderItem{
			{Type: domain.Subgroup, ReferenceID: "2", Rank: 10},
			{Type: domain.Subgroup, ReferenceID: "1", Rank: 20},
		},
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/order/batch", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(contract.RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get(contract.RequestIDHeader))
	assert.Equal(t, contract.ReorderResponse{ParentContext: "cc_7", Applied: 2}, decode[contract.ReorderResponse](t, resp))

	kids := decode[contract.ChildrenResponse](t, ts.get(t, "/api/order/children?parent=cc_7"))
	assert.Equal(t, []string{"sg_2", "sg_1"}, ids(kids.Nodes))

	hist := decode[contract.HistoryResponse](t, ts.get(t, "/api/order/history?limit=5"))
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, "req-42", hist.Entries[0].RequestID)

	assert.Contains(t, ts.logs.String(), "request_id=req-42")
}

func TestServer_GeneratesRequestID(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)
	resp := ts.get(t, "/healthz")
	assert.Len(t, resp.Header.Get(contract.RequestIDHeader), 36)
}

func TestServer_TreesAndNormalize(t *testing.T) {
	ts := newTestServer(t, testutil.UnrankedDRETree()...)

	health := decode[contract.HealthResponse](t, ts.get(t, "/healthz"))
	assert.Equal(t, contract.HealthResponse{Status: "ok", OrderingActive: false}, health)

	plain := decode[contract.TreeResponse](t, ts.get(t, "/api/tree"))
	assert.False(t, plain.Ordered)
	assert.Equal(t, []string{"virt_3", "tipo_1"}, ids(plain.Nodes))

	resp, err := http.Post(ts.URL+"/api/order/normalize", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contract.NormalizeResponse{Contexts: 5, Nodes: 8}, decode[contract.NormalizeResponse](t, resp))

	ordered := decode[contract.TreeResponse](t, ts.get(t, "/api/order/tree"))
	assert.True(t, ordered.Ordered)
	require.Len(t, ordered.Nodes, 2)
	require.NotNil(t, ordered.Nodes[0].Order)
	assert.Equal(t, 10, *ordered.Nodes[0].Order)

	one := decode[contract.NormalizeResponse](t, ts.post(t, "/api/order/normalize", contract.NormalizeRequest{ParentContext: "cc_7"}))
	assert.Zero(t, one.Nodes)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)
	ts.get(t, "/api/order/children?parent=cc_7")
	ts.post(t, "/api/order/batch", contract.ReorderBatch{
		ParentContext: "cc_7",
		OrderedList:   []contract.OrderItem{{Type: domain.Account, ReferenceID: "501", Rank: 10}},
	})

	resp := ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `dretree_http_requests_total{code="200",method="GET",route="/api/order/children"} 1`)
	assert.Contains(t, out, `dretree_reorder_rejected_total{code="INVALID_BATCH"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t, testutil.DRETree()...)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/order/batch", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://console.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://console.test", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://elsewhere.test")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := service.NewOrderService(repository.NewSQLiteNodeRepo(database),
		repository.NewSQLiteOrderLogRepo(database), testutil.NewTestUoW(database))
	srv := New(svc, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a }) }()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestErrorStatus_Internal(t *testing.T) {
	status, code := errorStatus(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, contract.CodeInternal, code)
}
