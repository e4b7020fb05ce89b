// Package storyapi is the HTTP client for the story analysis backend.
// It exposes the read endpoints the view pipeline consumes (entities,
// events, persisted relationship graph) and the node mutations the
// editor forwards (create, rename, delete, merge).
package storyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// ErrTimeout marks a backend call that exceeded the client deadline.
// Callers surface it as a retryable condition rather than a data error.
var ErrTimeout = errors.New("story backend request timed out")

// ErrNotFound marks a 404 from the backend, e.g. renaming a node that was
// deleted by a concurrent editor.
var ErrNotFound = errors.New("resource not found on story backend")

// BackendGraphNode is a node of the backend's persisted relationship
// graph. Label is the display name; Overview and Personality carry the
// prose the backend accumulated for the entity.
type BackendGraphNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Overview    string `json:"overview,omitempty"`
	Personality string `json:"personality,omitempty"`
}

type BackendGraphEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation,omitempty"`
}

type BackendGraph struct {
	Nodes []BackendGraphNode `json:"nodes"`
	Edges []BackendGraphEdge `json:"edges"`
}

type entitiesResponse struct {
	Entities []model.EntityNode `json:"entities"`
}

type eventsResponse struct {
	Events []model.EventEdge `json:"events"`
}

// Client talks to the story backend over REST. All methods honour the
// passed context in addition to the client-wide timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchEntities returns every extracted entity for the project.
func (c *Client) FetchEntities(ctx context.Context, projectID string) ([]model.EntityNode, error) {
	var resp entitiesResponse
	path := fmt.Sprintf("/api/entities/%s", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch entities for project %s: %w", projectID, err)
	}
	return resp.Entities, nil
}

// FetchEvents returns every extracted relation event for the project.
func (c *Client) FetchEvents(ctx context.Context, projectID string) ([]model.EventEdge, error) {
	var resp eventsResponse
	path := fmt.Sprintf("/api/events/%s", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch events for project %s: %w", projectID, err)
	}
	return resp.Events, nil
}

// FetchGraph returns the backend's persisted relationship graph. The view
// pipeline uses it to map display labels back to backend node ids so
// edits can be forwarded.
func (c *Client) FetchGraph(ctx context.Context, projectID string) (*BackendGraph, error) {
	var resp BackendGraph
	path := fmt.Sprintf("/api/projects/%s/graph", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch graph for project %s: %w", projectID, err)
	}
	return &resp, nil
}

// CreateNode adds a node with the given label and returns its backend id.
func (c *Client) CreateNode(ctx context.Context, projectID, label string) (string, error) {
	var resp BackendGraphNode
	path := fmt.Sprintf("/api/projects/%s/graph/nodes", url.PathEscape(projectID))
	body := map[string]string{"label": label}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", fmt.Errorf("failed to create node '%s': %w", label, err)
	}
	return resp.ID, nil
}

// RenameNode updates a node's label.
func (c *Client) RenameNode(ctx context.Context, projectID, nodeID, label string) error {
	path := fmt.Sprintf("/api/projects/%s/graph/nodes/%s", url.PathEscape(projectID), url.PathEscape(nodeID))
	body := map[string]string{"label": label}
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("failed to rename node %s: %w", nodeID, err)
	}
	return nil
}

// DeleteNode removes a node and its incident edges on the backend.
func (c *Client) DeleteNode(ctx context.Context, projectID, nodeID string) error {
	path := fmt.Sprintf("/api/projects/%s/graph/nodes/%s", url.PathEscape(projectID), url.PathEscape(nodeID))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete node %s: %w", nodeID, err)
	}
	return nil
}

// MergeNodes folds mergeIDs into keepID on the backend.
func (c *Client) MergeNodes(ctx context.Context, projectID, keepID string, mergeIDs []string) error {
	path := fmt.Sprintf("/api/projects/%s/graph/nodes/merge", url.PathEscape(projectID))
	body := map[string]interface{}{
		"keep_node_id":   keepID,
		"merge_node_ids": mergeIDs,
	}
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to merge nodes into %s: %w", keepID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return ErrTimeout
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
