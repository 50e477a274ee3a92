package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/0glabs/0g-namespace/common/api"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testGateway struct {
	t       *testing.T
	handler http.Handler
}

func newTestGateway(t *testing.T, opts ...Option) (*testGateway, *namespace.Tree) {
	gin.SetMode(gin.TestMode)

	mirror, err := namespace.NewOsMirror(t.TempDir())
	require.NoError(t, err)

	tree, err := namespace.New(mirror)
	require.NoError(t, err)

	return &testGateway{t, NewServer(tree, opts...).Handler()}, tree
}

func (g *testGateway) do(method, target string, body interface{}) (int, response) {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(g.t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(data)))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(g.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}

	return rec.Code, resp
}

func (g *testGateway) get(path string, query url.Values) response {
	status, resp := g.do(http.MethodGet, path+"?"+query.Encode(), nil)
	require.Equal(g.t, http.StatusOK, status)
	return resp
}

func TestMutationsAndQueries(t *testing.T) {
	g, tree := newTestGateway(t)

	_, resp := g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/docs"})
	assert.Equal(t, api.ErrNil.Code, resp.Code)
	assert.JSONEq(t, `"/docs"`, string(resp.Data))

	_, resp = g.do(http.MethodPost, "/ns/file", map[string]string{"path": "/docs/a.txt", "content": "hello"})
	assert.Equal(t, 0, resp.Code)

	_, resp = g.do(http.MethodPut, "/ns/content", map[string]string{"path": "/docs/a.txt", "content": "hello world"})
	assert.Equal(t, 0, resp.Code)

	resp = g.get("/ns/content", url.Values{"path": {"/DOCS/a.txt"}})
	assert.Equal(t, 0, resp.Code)
	assert.JSONEq(t, `"hello world"`, string(resp.Data))

	resp = g.get("/ns/stat", url.Values{"path": {"/docs/a.txt"}})
	var info namespace.Info
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.EqualValues(t, 11, info.Size)
	assert.Equal(t, namespace.FileTypeFile, info.Type)

	_, resp = g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/backup"})
	require.Equal(t, 0, resp.Code)
	_, resp = g.do(http.MethodPost, "/ns/copy", map[string]string{"src": "/docs", "dst": "/backup"})
	assert.JSONEq(t, `"/backup/docs"`, string(resp.Data))
	_, resp = g.do(http.MethodPost, "/ns/rename", map[string]string{"path": "/backup/docs", "name": "old"})
	assert.Equal(t, 0, resp.Code)
	_, resp = g.do(http.MethodPost, "/ns/move", map[string]string{"src": "/backup/old", "dst": "/"})
	assert.Equal(t, 0, resp.Code)

	resp = g.get("/ns/find", url.Values{"pattern": {"/**/*.txt"}})
	assert.JSONEq(t, `["/docs/a.txt", "/old/a.txt"]`, string(resp.Data))

	resp = g.get("/ns/list", url.Values{"path": {"/"}})
	var infos []namespace.Info
	require.NoError(t, json.Unmarshal(resp.Data, &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "backup", infos[0].Name)

	status, resp := g.do(http.MethodDelete, "/ns/node?path=/old", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.Code)

	assert.Equal(t, 4, tree.Count(tree.Root()))
}

func TestErrorCodes(t *testing.T) {
	g, _ := newTestGateway(t)

	_, resp := g.do(http.MethodPost, "/ns/file", map[string]string{"path": "/a"})
	require.Equal(t, 0, resp.Code)

	cases := []struct {
		method string
		target string
		body   interface{}
		code   int
	}{
		{http.MethodGet, "/ns/stat?path=/missing", nil, ErrNotFound.Code},
		{http.MethodPost, "/ns/file", map[string]string{"path": "/A"}, ErrDuplicateName.Code},
		{http.MethodPost, "/ns/rename", map[string]string{"path": "/a", "name": "x/y"}, ErrInvalidName.Code},
		{http.MethodDelete, "/ns/node?path=/", nil, ErrInvalidOperationOnRoot.Code},
		{http.MethodGet, "/ns/list?path=/a", nil, ErrNotAFolder.Code},
		{http.MethodPost, "/ns/folder", map[string]string{"path": "/dir"}, 0},
		{http.MethodGet, "/ns/content?path=/dir", nil, ErrNotAFile.Code},
		{http.MethodPost, "/ns/move", map[string]string{"src": "/dir", "dst": "/dir"}, ErrInvalidDestination.Code},
		{http.MethodGet, "/ns/stat", nil, api.ErrValidation.Code},
		{http.MethodPost, "/ns/move", map[string]string{"src": "/a"}, api.ErrValidation.Code},
	}

	for _, c := range cases {
		status, resp := g.do(c.method, c.target, c.body)
		assert.Equal(t, http.StatusOK, status, c.target)
		assert.Equal(t, c.code, resp.Code, "%s %s", c.method, c.target)
	}
}

func TestSnapshotAfterMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ns.snapshot")
	store := snapshot.NewOsFileStore(path, true)

	g, _ := newTestGateway(t, WithSnapshotStore(store))

	_, resp := g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/saved"})
	require.Equal(t, 0, resp.Code)

	node, err := store.Load()
	require.NoError(t, err)
	_, found := node.Search("saved")
	assert.True(t, found)

	// failed mutations do not touch the snapshot
	_, resp = g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/saved"})
	assert.Equal(t, ErrDuplicateName.Code, resp.Code)
}

func TestConcurrentReadsAndMutations(t *testing.T) {
	store := snapshot.NewOsFileStore(filepath.Join(t.TempDir(), "ns.snapshot"), false)
	g, tree := newTestGateway(t, WithSnapshotStore(store))

	_, resp := g.do(http.MethodPost, "/ns/file", map[string]string{"path": "/hot.txt", "content": "hot"})
	require.Equal(t, 0, resp.Code)

	const rounds = 100

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			rec := httptest.NewRecorder()
			g.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ns/content?path=/hot.txt", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			rec := httptest.NewRecorder()
			g.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ns/list?path=/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			body := fmt.Sprintf(`{"path": "/d%d"}`, i)
			req := httptest.NewRequest(http.MethodPost, "/ns/folder", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			g.handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()

	wg.Wait()

	assert.Equal(t, rounds+2, tree.Count(tree.Root()))

	node, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, rounds+2, node.Count())
}

func TestMetrics(t *testing.T) {
	metrics := NewMetrics()
	g, _ := newTestGateway(t, WithMetrics(metrics))

	g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/m"})
	g.do(http.MethodPost, "/ns/folder", map[string]string{"path": "/m"})

	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `namespace_operations_total{op="create",result="ok"} 1`)
	assert.Contains(t, body, `namespace_operations_total{op="create",result="DuplicateName"} 1`)
	assert.Contains(t, body, "namespace_entities 2")
}
