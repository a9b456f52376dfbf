package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapnote/shopedit/internal/compare"
	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/editor"
	"github.com/mapnote/shopedit/internal/handler"
	"github.com/mapnote/shopedit/internal/images"
)

// Shared test doubles for the handler package. Each test builds a Server
// around a real Machine and Bridge; only the outer collaborators (catalog,
// store, cacher, submitter) are mocked.

type mockSubmitter struct {
	saveFunc func(ctx context.Context, shop domain.Shop, sectionName string) (domain.Shop, error)
}

var _ editor.Submitter = (*mockSubmitter)(nil)

func (m *mockSubmitter) Save(ctx context.Context, shop domain.Shop, sectionName string) (domain.Shop, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, shop, sectionName)
	}
	return shop, nil
}

type mockCatalog struct {
	getFunc func(ctx context.Context, sectionName string) ([]domain.Shop, error)
}

var _ handler.SectionCatalog = (*mockCatalog)(nil)

func (m *mockCatalog) Get(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	return m.getFunc(ctx, sectionName)
}

type mockShopStore struct {
	getFunc    func(ctx context.Context, id string) (domain.Shop, error)
	deleteFunc func(ctx context.Context, id string) error
}

var _ handler.ShopStore = (*mockShopStore)(nil)

func (m *mockShopStore) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	return m.getFunc(ctx, id)
}

func (m *mockShopStore) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

type mockCacher struct {
	cacheFunc func(ctx context.Context, ids []string) error
}

var _ images.Cacher = (*mockCacher)(nil)

func (m *mockCacher) Cache(ctx context.Context, ids []string) error {
	return m.cacheFunc(ctx, ids)
}

// testServer bundles the handler under test with its live machine and bridge
// so tests can assert on session state directly.
type testServer struct {
	http    http.Handler
	machine *editor.Machine
	bridge  *compare.Bridge
}

type serverOpts struct {
	submitter *mockSubmitter
	catalog   *mockCatalog
	store     *mockShopStore
	cacher    *mockCacher
}

func newTestServer(opts serverOpts) *testServer {
	if opts.submitter == nil {
		opts.submitter = &mockSubmitter{}
	}
	machine := editor.NewMachine(opts.submitter)
	bridge := compare.NewBridge(machine)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var catalog handler.SectionCatalog
	if opts.catalog != nil {
		catalog = opts.catalog
	}
	var store handler.ShopStore
	if opts.store != nil {
		store = opts.store
	}
	var cacher images.Cacher
	if opts.cacher != nil {
		cacher = opts.cacher
	}

	srv := handler.NewServer(machine, bridge, catalog, store, cacher, log)
	return &testServer{http: srv.Routes(), machine: machine, bridge: bridge}
}

// do issues a request against the router and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.http.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorder body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
