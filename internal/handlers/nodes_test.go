package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/repositories"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/services"
)

type stubFetcher struct {
	snapshot *models.Snapshot
	err      error
}

func (f *stubFetcher) FetchCycle(ctx context.Context) (*models.Snapshot, error) {
	return f.snapshot, f.err
}

func newTestRouter(fetcher services.Fetcher, repo repositories.SnapshotRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	coordinator := services.NewRefreshCoordinator(fetcher, repo, logger)
	handler := NewNodeHandler(coordinator, logger, "test")

	router := gin.New()
	router.GET("/", handler.GetServiceInfo)
	router.GET("/health", handler.GetHealth)
	router.GET("/nodes", handler.GetNodes)
	return router
}

func enrichedSnapshot() *models.Snapshot {
	return &models.Snapshot{
		LastUpdated: time.Now().UTC(),
		Data: []models.EnrichedNode{
			{
				NodeRecord: models.NodeRecord{
					NodeID:       "n1",
					NodeURL:      "h.example.com:9185",
					NodeName:     "N1",
					NodeStatus:   "Active",
					WalruscanURL: "https://walruscan.com/mainnet/operator/n1",
				},
				Geo: models.GeoInfo{Country: "DE", Region: "Hesse", City: "Frankfurt"},
			},
		},
	}
}

func TestNodeHandler_GetServiceInfo(t *testing.T) {
	router := newTestRouter(&stubFetcher{}, repositories.NewMemorySnapshotRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["service"] != "walrus-nodes-tracker" {
		t.Errorf("Expected service name in metadata, got %v", body["service"])
	}
}

func TestNodeHandler_GetHealth(t *testing.T) {
	router := newTestRouter(&stubFetcher{snapshot: enrichedSnapshot()}, repositories.NewMemorySnapshotRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body %s)", w.Code, w.Body.String())
	}

	var body models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if !body.Success {
		t.Error("Expected success=true")
	}
	if body.NodeCount != 1 {
		t.Errorf("Expected nodeCount 1, got %d", body.NodeCount)
	}
	if body.FromCache {
		t.Error("Expected fromCache=false on the miss path")
	}
	if body.Stale {
		t.Error("Expected stale=false on the miss path")
	}
	if body.Nodes[0].NodeStatus != "Active" {
		t.Errorf("Expected nodeStatus Active, got %q", body.Nodes[0].NodeStatus)
	}
}

func TestNodeHandler_GetHealthEmptyDataset(t *testing.T) {
	fetcher := &stubFetcher{snapshot: &models.Snapshot{LastUpdated: time.Now().UTC()}}
	router := newTestRouter(fetcher, repositories.NewMemorySnapshotRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if body.NodeCount != 0 {
		t.Errorf("Expected nodeCount 0, got %d", body.NodeCount)
	}
	if body.Nodes == nil {
		t.Error("Expected nodes to serialize as an empty list, not null")
	}
}

func TestNodeHandler_GetHealthFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("health tool failed: exit status 1")}
	router := newTestRouter(fetcher, repositories.NewMemorySnapshotRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if body.Success {
		t.Error("Expected success=false")
	}
	if body.Error == "" {
		t.Error("Expected an error message")
	}
	if body.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
}

func TestNodeHandler_GetNodesFormatsLocation(t *testing.T) {
	router := newTestRouter(&stubFetcher{snapshot: enrichedSnapshot()}, repositories.NewMemorySnapshotRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body models.NodesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if body.NodeCount != 1 {
		t.Fatalf("Expected nodeCount 1, got %d", body.NodeCount)
	}
	if body.Nodes[0].Location != "Frankfurt, Hesse, DE" {
		t.Errorf("Expected formatted location, got %q", body.Nodes[0].Location)
	}
}

func TestNodeHandler_ServesCachedDataWithStaleFlag(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	repo.Write(&models.Snapshot{
		LastUpdated: time.Now().UTC().Add(-7 * time.Hour),
		Data:        enrichedSnapshot().Data,
	})

	router := newTestRouter(&stubFetcher{snapshot: enrichedSnapshot()}, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	var body models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if !body.FromCache {
		t.Error("Expected fromCache=true for a cached snapshot")
	}
	if !body.Stale {
		t.Error("Expected stale=true for an expired snapshot")
	}
}
