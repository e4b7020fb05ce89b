package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-labs/storygraph/internal/config"
	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/model"
	"github.com/inkstone-labs/storygraph/internal/store"
	"github.com/inkstone-labs/storygraph/internal/storyapi"
)

type stubBackend struct {
	entities []model.EntityNode
	events   []model.EventEdge
	graph    *storyapi.BackendGraph
	err      error
}

func (b *stubBackend) FetchEntities(ctx context.Context, projectID string) ([]model.EntityNode, error) {
	return b.entities, b.err
}

func (b *stubBackend) FetchEvents(ctx context.Context, projectID string) ([]model.EventEdge, error) {
	return b.events, b.err
}

func (b *stubBackend) FetchGraph(ctx context.Context, projectID string) (*storyapi.BackendGraph, error) {
	if b.graph == nil {
		return &storyapi.BackendGraph{}, nil
	}
	return b.graph, b.err
}

func (b *stubBackend) CreateNode(ctx context.Context, projectID, label string) (string, error) {
	return "new-id", b.err
}

func (b *stubBackend) RenameNode(ctx context.Context, projectID, nodeID, label string) error {
	return b.err
}

func (b *stubBackend) DeleteNode(ctx context.Context, projectID, nodeID string) error {
	return b.err
}

func (b *stubBackend) MergeNodes(ctx context.Context, projectID, keepID string, mergeIDs []string) error {
	return b.err
}

type stubSnapshots struct {
	saved int
	err   error
}

func (s *stubSnapshots) SaveSnapshot(ctx context.Context, projectID string, nodes []model.GraphNode, edges []model.GraphEdge) error {
	if s.err != nil {
		return s.err
	}
	s.saved++
	return nil
}

func (s *stubSnapshots) Close(ctx context.Context) error { return nil }

func stubData() *stubBackend {
	return &stubBackend{
		entities: []model.EntityNode{
			{ID: "e1", Type: model.EntityCharacter, Name: "林七", FirstSeenChapter: 1, LastSeenChapter: 3},
			{ID: "e2", Type: model.EntityCharacter, Name: "王五", FirstSeenChapter: 2, LastSeenChapter: 4},
		},
		events: []model.EventEdge{
			{ID: "ev1", Subject: "林七", Relation: "保护", Object: "王五", Chapter: 2},
		},
		graph: &storyapi.BackendGraph{Nodes: []storyapi.BackendGraphNode{
			{ID: "b1", Label: "林七"},
			{ID: "b2", Label: "王五"},
		}},
	}
}

func testServer(backend *stubBackend, snapshots store.SnapshotStore) *Server {
	cfg := config.Default()
	cfg.Layout.Iterations = 20
	return New(cfg, backend, nil, snapshots, logger.NewNop())
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.SetupRouter().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := testServer(stubData(), nil)
	w := doJSON(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetViewLoadsOnFirstAccess(t *testing.T) {
	srv := testServer(stubData(), nil)
	w := doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var v model.GraphView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "ready", v.State)
	assert.Len(t, v.Nodes, 2)
	assert.Len(t, v.Edges, 1)
}

func TestReloadIncrementsGeneration(t *testing.T) {
	srv := testServer(stubData(), nil)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/view/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var v model.GraphView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, uint64(2), v.Generation)
}

func TestSelectAndDeselect(t *testing.T) {
	srv := testServer(stubData(), nil)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/select", map[string]interface{}{"node_id": "林七"})
	require.Equal(t, http.StatusOK, w.Code)
	var v model.GraphView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "highlighted", v.State)
	assert.Contains(t, v.Highlight.NodeIDs, "王五")

	w = doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/select", map[string]interface{}{"node_id": ""})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "ready", v.State)
}

func TestRenameNode(t *testing.T) {
	srv := testServer(stubData(), nil)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPatch, "/api/projects/p1/graph/nodes/林七", map[string]string{"label": "林小七"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRenameNodeMissingLabelRejected(t *testing.T) {
	srv := testServer(stubData(), nil)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPatch, "/api/projects/p1/graph/nodes/林七", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	backend := stubData()
	backend.err = storyapi.ErrTimeout
	srv := testServer(backend, nil)

	w := doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestMergeSuggestionsUnavailableWithoutLLM(t *testing.T) {
	srv := testServer(stubData(), nil)
	w := doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/merge-suggestions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportSnapshot(t *testing.T) {
	snapshots := &stubSnapshots{}
	srv := testServer(stubData(), snapshots)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, snapshots.saved)
}

func TestExportRequiresLoadedView(t *testing.T) {
	srv := testServer(stubData(), &stubSnapshots{})
	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/export", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportUnavailableWithoutStore(t *testing.T) {
	srv := testServer(stubData(), nil)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)
	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSnapshotErrorSurfaced(t *testing.T) {
	snapshots := &stubSnapshots{err: errors.New("bolt connection refused")}
	srv := testServer(stubData(), snapshots)
	doJSON(t, srv, http.MethodGet, "/api/projects/p1/graph/view", nil)

	w := doJSON(t, srv, http.MethodPost, "/api/projects/p1/graph/export", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
