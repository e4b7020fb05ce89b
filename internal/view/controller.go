// Package view holds the per-project graph view and the interaction
// state machine around it. A Controller owns one project's view: it
// rebuilds the view from backend data, applies selection and highlight
// transitions, and forwards node edits to the backend before reloading.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/inkstone-labs/storygraph/internal/community"
	"github.com/inkstone-labs/storygraph/internal/graph"
	"github.com/inkstone-labs/storygraph/internal/layout"
	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/model"
	"github.com/inkstone-labs/storygraph/internal/normalize"
	"github.com/inkstone-labs/storygraph/internal/storyapi"
)

// View states. Loading keeps the previous nodes visible so a reload does
// not blank the graph; Editing blocks concurrent edits on the same view.
const (
	StateIdle        = "idle"
	StateLoading     = "loading"
	StateReady       = "ready"
	StateHighlighted = "highlighted"
	StateEditing     = "editing"
)

// ErrEditInProgress is returned when an edit arrives while another edit
// on the same view has not finished.
var ErrEditInProgress = fmt.Errorf("an edit is already in progress")

// ErrNoBackendID is returned when an edit targets a node the backend
// graph has no id for, e.g. an entity the backend never persisted.
var ErrNoBackendID = fmt.Errorf("node has no backend id")

// Backend is the slice of the story backend the controller needs.
// *storyapi.Client satisfies it; tests substitute fakes.
type Backend interface {
	FetchEntities(ctx context.Context, projectID string) ([]model.EntityNode, error)
	FetchEvents(ctx context.Context, projectID string) ([]model.EventEdge, error)
	FetchGraph(ctx context.Context, projectID string) (*storyapi.BackendGraph, error)
	CreateNode(ctx context.Context, projectID, label string) (string, error)
	RenameNode(ctx context.Context, projectID, nodeID, label string) error
	DeleteNode(ctx context.Context, projectID, nodeID string) error
	MergeNodes(ctx context.Context, projectID, keepID string, mergeIDs []string) error
}

type Controller struct {
	projectID  string
	backend    Backend
	normalizer *normalize.Normalizer
	engine     *layout.Engine
	detector   *community.Detector
	aggOpts    graph.Options
	log        *logger.Logger

	mu         sync.Mutex
	generation uint64
	view       model.GraphView
}

func NewController(projectID string, backend Backend, normalizer *normalize.Normalizer, engine *layout.Engine, detector *community.Detector, log *logger.Logger) *Controller {
	return &Controller{
		projectID:  projectID,
		backend:    backend,
		normalizer: normalizer,
		engine:     engine,
		detector:   detector,
		aggOpts:    graph.DefaultOptions(),
		log:        log.With("project_id", projectID),
		view: model.GraphView{
			ProjectID: projectID,
			State:     StateIdle,
			Highlight: model.HighlightState{},
		},
	}
}

// View returns a copy of the current view. Slices are copied so callers
// can serialize without holding the lock.
func (c *Controller) View() model.GraphView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() model.GraphView {
	v := c.view
	v.Nodes = append([]model.GraphNode(nil), c.view.Nodes...)
	v.Edges = append([]model.GraphEdge(nil), c.view.Edges...)
	v.Selected = append([]string(nil), c.view.Selected...)
	v.Highlight.NodeIDs = append([]string(nil), c.view.Highlight.NodeIDs...)
	v.Highlight.EdgeIDs = append([]string(nil), c.view.Highlight.EdgeIDs...)
	return v
}

// Reload rebuilds the view from backend data. Concurrent reloads are
// safe: each takes a fresh generation token and only the response that
// still matches the latest token is applied; stale responses are
// discarded without touching the view. The previous nodes stay visible
// while the reload is in flight.
func (c *Controller) Reload(ctx context.Context) (model.GraphView, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	prevState := c.view.State
	c.view.State = StateLoading
	c.mu.Unlock()

	reloadID := uuid.New().String()
	log := c.log.With("reload_id", reloadID, "generation", gen)
	log.Info("reloading graph view")

	nodes, edges, err := c.build(ctx, log)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.generation {
			// Transient states must not survive a failed reload, or the
			// controller would refuse every further edit and selection.
			switch prevState {
			case StateLoading, StateEditing:
				if len(c.view.Nodes) > 0 {
					c.view.State = StateReady
				} else {
					c.view.State = StateIdle
				}
			default:
				c.view.State = prevState
			}
		}
		return c.snapshotLocked(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Info("discarding stale reload result")
		return c.snapshotLocked(), nil
	}

	c.view.Nodes = nodes
	c.view.Edges = edges
	c.view.Generation = gen
	c.view.State = StateReady
	c.view.Highlight = model.HighlightState{}
	c.view.Selected = nil
	log.Info("graph view ready", "nodes", len(nodes), "edges", len(edges))
	return c.snapshotLocked(), nil
}

// build runs the full pipeline outside the lock: fetch, sanitize, node
// and edge construction, layout, clustering, backend id attachment.
func (c *Controller) build(ctx context.Context, log *logger.Logger) ([]model.GraphNode, []model.GraphEdge, error) {
	entities, err := c.backend.FetchEntities(ctx, c.projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entities: %w", err)
	}
	events, err := c.backend.FetchEvents(ctx, c.projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load events: %w", err)
	}

	entities, events = graph.SanitizeGraphData(entities, events, c.normalizer)
	events = graph.SortEventsByChapter(events)

	nodes := graph.BuildNodes(entities)
	edges := graph.BuildEdges(events, entities, c.aggOpts)
	nodes = c.engine.Apply(ctx, nodes, edges)
	c.detector.Assign(nodes, edges)

	// The persisted backend graph maps display labels to backend node
	// ids so edits can be forwarded. Its absence only disables editing.
	backendGraph, err := c.backend.FetchGraph(ctx, c.projectID)
	if err != nil {
		log.Warn("backend graph unavailable, editing disabled for this view", "error", err)
	} else {
		byLabel := make(map[string]string, len(backendGraph.Nodes))
		for _, n := range backendGraph.Nodes {
			byLabel[n.Label] = n.ID
		}
		for i := range nodes {
			nodes[i].BackendID = byLabel[nodes[i].Label]
		}
	}

	return nodes, edges, nil
}

// Select handles a node click. Clicking an unselected node highlights
// its neighborhood; clicking the highlighted node again clears it.
// Additive clicks accumulate the selection set for a later merge without
// re-deriving the highlight from the first selected node.
func (c *Controller) Select(nodeID string, additive bool) model.GraphView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.State != StateReady && c.view.State != StateHighlighted {
		return c.snapshotLocked()
	}

	if additive && c.view.State == StateHighlighted {
		if !contains(c.view.Selected, nodeID) && c.hasNode(nodeID) {
			c.view.Selected = append(c.view.Selected, nodeID)
		}
		return c.snapshotLocked()
	}

	if c.view.State == StateHighlighted && len(c.view.Selected) == 1 && c.view.Selected[0] == nodeID {
		c.clearSelectionLocked()
		return c.snapshotLocked()
	}

	if !c.hasNode(nodeID) {
		c.clearSelectionLocked()
		return c.snapshotLocked()
	}

	c.view.Selected = []string{nodeID}
	c.view.Highlight = graph.Highlight(nodeID, c.view.Edges)
	c.view.State = StateHighlighted
	return c.snapshotLocked()
}

// Deselect clears highlight and selection, returning to Ready.
func (c *Controller) Deselect() model.GraphView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.State == StateHighlighted {
		c.clearSelectionLocked()
	}
	return c.snapshotLocked()
}

func (c *Controller) clearSelectionLocked() {
	c.view.Selected = nil
	c.view.Highlight = model.HighlightState{}
	c.view.State = StateReady
}

func (c *Controller) hasNode(id string) bool {
	for _, n := range c.view.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CreateNode adds a node on the backend, then reloads.
func (c *Controller) CreateNode(ctx context.Context, label string) (model.GraphView, error) {
	return c.edit(ctx, func() error {
		_, err := c.backend.CreateNode(ctx, c.projectID, label)
		return err
	})
}

// RenameNode renames the node's backend counterpart, then reloads.
func (c *Controller) RenameNode(ctx context.Context, nodeID, label string) (model.GraphView, error) {
	backendID, err := c.backendIDFor(nodeID)
	if err != nil {
		return c.View(), err
	}
	return c.edit(ctx, func() error {
		return c.backend.RenameNode(ctx, c.projectID, backendID, label)
	})
}

// DeleteNode deletes the node's backend counterpart, then reloads.
func (c *Controller) DeleteNode(ctx context.Context, nodeID string) (model.GraphView, error) {
	backendID, err := c.backendIDFor(nodeID)
	if err != nil {
		return c.View(), err
	}
	return c.edit(ctx, func() error {
		return c.backend.DeleteNode(ctx, c.projectID, backendID)
	})
}

// MergeNodes folds the view nodes in mergeIDs into keepID on the
// backend, then reloads.
func (c *Controller) MergeNodes(ctx context.Context, keepID string, mergeIDs []string) (model.GraphView, error) {
	keepBackend, err := c.backendIDFor(keepID)
	if err != nil {
		return c.View(), err
	}
	mergeBackend := make([]string, 0, len(mergeIDs))
	for _, id := range mergeIDs {
		backendID, err := c.backendIDFor(id)
		if err != nil {
			return c.View(), err
		}
		mergeBackend = append(mergeBackend, backendID)
	}
	return c.edit(ctx, func() error {
		return c.backend.MergeNodes(ctx, c.projectID, keepBackend, mergeBackend)
	})
}

func (c *Controller) backendIDFor(nodeID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.view.Nodes {
		if n.ID == nodeID {
			if n.BackendID == "" {
				return "", fmt.Errorf("%w: %s", ErrNoBackendID, nodeID)
			}
			return n.BackendID, nil
		}
	}
	return "", fmt.Errorf("unknown node: %s", nodeID)
}

// edit runs one backend mutation under the Editing state. A failed
// mutation restores the previous state and leaves the view untouched; a
// successful one triggers a full reload.
func (c *Controller) edit(ctx context.Context, mutate func() error) (model.GraphView, error) {
	c.mu.Lock()
	if c.view.State == StateEditing || c.view.State == StateLoading {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrEditInProgress
	}
	prevState := c.view.State
	c.view.State = StateEditing
	c.mu.Unlock()

	if err := mutate(); err != nil {
		c.mu.Lock()
		c.view.State = prevState
		c.mu.Unlock()
		return c.View(), err
	}

	return c.Reload(ctx)
}
