// Package server exposes the graph view service over HTTP.
package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkstone-labs/storygraph/internal/community"
	"github.com/inkstone-labs/storygraph/internal/config"
	"github.com/inkstone-labs/storygraph/internal/dedupe"
	"github.com/inkstone-labs/storygraph/internal/layout"
	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/normalize"
	"github.com/inkstone-labs/storygraph/internal/store"
	"github.com/inkstone-labs/storygraph/internal/storyapi"
	"github.com/inkstone-labs/storygraph/internal/view"
)

type Server struct {
	cfg        *config.Config
	log        *logger.Logger
	backend    view.Backend
	suggestor  *dedupe.Suggestor
	snapshots  store.SnapshotStore
	normalizer *normalize.Normalizer
	engine     *layout.Engine
	detector   *community.Detector

	mu          sync.Mutex
	controllers map[string]*view.Controller
}

// New wires the service from config and explicit dependencies. suggestor
// and snapshots may be nil; the corresponding endpoints then report the
// feature as unavailable.
func New(cfg *config.Config, backend view.Backend, suggestor *dedupe.Suggestor, snapshots store.SnapshotStore, log *logger.Logger) *Server {
	var opts []normalize.Option
	if len(cfg.Normalize.Aliases) > 0 {
		opts = append(opts, normalize.WithAliases(cfg.Normalize.Aliases))
	}
	if len(cfg.Normalize.ExtraStopwords) > 0 {
		opts = append(opts, normalize.WithStopwords(cfg.Normalize.ExtraStopwords))
	}

	var provider layout.Provider
	switch cfg.Layout.Strategy {
	case "layered":
		provider = layout.NewLayeredProvider(cfg.Layout.RankSep, cfg.Layout.NodeSep)
	default:
		params := layout.DefaultForceParams()
		if cfg.Layout.Iterations > 0 {
			params.Iterations = cfg.Layout.Iterations
		}
		provider = layout.NewForceProvider(params)
	}

	var cache *layout.Cache
	if cfg.Redis.Addr != "" {
		cache = layout.NewCache(cfg.Redis.Addr, time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
	}

	return &Server{
		cfg:         cfg,
		log:         log,
		backend:     backend,
		suggestor:   suggestor,
		snapshots:   snapshots,
		normalizer:  normalize.New(opts...),
		engine:      layout.NewEngine(cfg.Layout.Strategy, provider, cache, log),
		detector:    community.NewDetector(),
		controllers: make(map[string]*view.Controller),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	if s.cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/api/health", s.Health)

	projects := r.Group("/api/projects/:projectID")
	{
		projects.GET("/graph/view", s.GetView)
		projects.POST("/graph/view/reload", s.ReloadView)
		projects.POST("/graph/select", s.SelectNode)
		projects.POST("/graph/nodes", s.CreateNode)
		projects.PATCH("/graph/nodes/:nodeID", s.RenameNode)
		projects.DELETE("/graph/nodes/:nodeID", s.DeleteNode)
		projects.POST("/graph/nodes/merge", s.MergeNodes)
		projects.GET("/graph/merge-suggestions", s.MergeSuggestions)
		projects.POST("/graph/export", s.ExportSnapshot)
	}

	return r
}

// controller returns the project's controller, creating it on first use.
func (s *Server) controller(projectID string) *view.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controllers[projectID]; ok {
		return c
	}
	c := view.NewController(projectID, s.backend, s.normalizer, s.engine, s.detector, s.log)
	s.controllers[projectID] = c
	return c
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetView(c *gin.Context) {
	ctrl := s.controller(c.Param("projectID"))
	v := ctrl.View()
	if v.State == view.StateIdle {
		// First access loads the view synchronously.
		loaded, err := ctrl.Reload(c.Request.Context())
		if err != nil {
			s.fail(c, "failed to load view", err)
			return
		}
		v = loaded
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) ReloadView(c *gin.Context) {
	v, err := s.controller(c.Param("projectID")).Reload(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to reload view", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type selectRequest struct {
	NodeID   string `json:"node_id"`
	Additive bool   `json:"additive"`
}

func (s *Server) SelectNode(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ctrl := s.controller(c.Param("projectID"))
	if req.NodeID == "" {
		c.JSON(http.StatusOK, ctrl.Deselect())
		return
	}
	c.JSON(http.StatusOK, ctrl.Select(req.NodeID, req.Additive))
}

type nodeRequest struct {
	Label string `json:"label" binding:"required"`
}

func (s *Server) CreateNode(c *gin.Context) {
	var req nodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	v, err := s.controller(c.Param("projectID")).CreateNode(c.Request.Context(), req.Label)
	if err != nil {
		s.fail(c, "failed to create node", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) RenameNode(c *gin.Context) {
	var req nodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	v, err := s.controller(c.Param("projectID")).RenameNode(c.Request.Context(), c.Param("nodeID"), req.Label)
	if err != nil {
		s.fail(c, "failed to rename node", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) DeleteNode(c *gin.Context) {
	v, err := s.controller(c.Param("projectID")).DeleteNode(c.Request.Context(), c.Param("nodeID"))
	if err != nil {
		s.fail(c, "failed to delete node", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type mergeRequest struct {
	KeepNodeID   string   `json:"keep_node_id" binding:"required"`
	MergeNodeIDs []string `json:"merge_node_ids" binding:"required"`
}

func (s *Server) MergeNodes(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	v, err := s.controller(c.Param("projectID")).MergeNodes(c.Request.Context(), req.KeepNodeID, req.MergeNodeIDs)
	if err != nil {
		s.fail(c, "failed to merge nodes", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) MergeSuggestions(c *gin.Context) {
	if s.suggestor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "merge suggestions not configured"})
		return
	}
	graph, err := s.backend.FetchGraph(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		s.fail(c, "failed to fetch backend graph", err)
		return
	}
	suggestions, err := s.suggestor.SuggestMerges(c.Request.Context(), graph.Nodes)
	if err != nil {
		s.fail(c, "failed to compute merge suggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (s *Server) ExportSnapshot(c *gin.Context) {
	if s.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot export not configured"})
		return
	}
	projectID := c.Param("projectID")
	v := s.controller(projectID).View()
	if v.State == view.StateIdle {
		c.JSON(http.StatusConflict, gin.H{"error": "view not loaded yet"})
		return
	}
	if err := s.snapshots.SaveSnapshot(c.Request.Context(), projectID, v.Nodes, v.Edges); err != nil {
		s.fail(c, "failed to export snapshot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "exported", "nodes": len(v.Nodes), "edges": len(v.Edges)})
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.log.Error(msg, "error", err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storyapi.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, storyapi.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, view.ErrEditInProgress):
		status = http.StatusConflict
	case errors.Is(err, view.ErrNoBackendID):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": msg})
}
