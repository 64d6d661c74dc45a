package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/services"
)

type NodeHandler struct {
	coordinator *services.RefreshCoordinator
	logger      *logrus.Logger
	version     string
}

func NewNodeHandler(coordinator *services.RefreshCoordinator, logger *logrus.Logger, version string) *NodeHandler {
	return &NodeHandler{
		coordinator: coordinator,
		logger:      logger,
		version:     version,
	}
}

// GetServiceInfo serves GET / with service metadata.
func (h *NodeHandler) GetServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "walrus-nodes-tracker",
		"version":   h.version,
		"endpoints": []string{"/health", "/nodes", "/metrics"},
		"timestamp": time.Now().UTC(),
	})
}

// GetHealth serves GET /health: the enriched node list with cache metadata.
func (h *NodeHandler) GetHealth(c *gin.Context) {
	dataset, err := h.coordinator.GetNodes(c.Request.Context())
	if err != nil {
		h.failFetch(c, err)
		return
	}

	nodes := dataset.Snapshot.Data
	if nodes == nil {
		nodes = []models.EnrichedNode{}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Success:     true,
		Timestamp:   time.Now().UTC(),
		NodeCount:   len(nodes),
		Nodes:       nodes,
		LastUpdated: dataset.Snapshot.LastUpdated,
		FromCache:   dataset.FromCache,
		Stale:       dataset.Stale,
	})
}

// GetNodes serves GET /nodes: the same dataset with a formatted
// "city, region, country" location per node.
func (h *NodeHandler) GetNodes(c *gin.Context) {
	dataset, err := h.coordinator.GetNodes(c.Request.Context())
	if err != nil {
		h.failFetch(c, err)
		return
	}

	nodes := make([]models.LocatedNode, 0, len(dataset.Snapshot.Data))
	for _, node := range dataset.Snapshot.Data {
		nodes = append(nodes, models.LocatedNode{
			EnrichedNode: node,
			Location:     node.Geo.Format(),
		})
	}

	c.JSON(http.StatusOK, models.NodesResponse{
		Success:     true,
		Timestamp:   time.Now().UTC(),
		NodeCount:   len(nodes),
		Nodes:       nodes,
		LastUpdated: dataset.Snapshot.LastUpdated,
		FromCache:   dataset.FromCache,
		Stale:       dataset.Stale,
	})
}

func (h *NodeHandler) failFetch(c *gin.Context, err error) {
	h.logger.WithError(err).Error("Failed to fetch node health data")

	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}
