package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/metrics"
)

// NodeMonitor owns one full fetch cycle: run the health tool, parse its
// output, enrich every record with geolocation data.
type NodeMonitor struct {
	source *HealthSource
	parser *OutputParser
	geo    *GeoLocationService
	logger *logrus.Logger
}

func NewNodeMonitor(source *HealthSource, parser *OutputParser, geo *GeoLocationService, logger *logrus.Logger) *NodeMonitor {
	return &NodeMonitor{
		source: source,
		parser: parser,
		geo:    geo,
		logger: logger,
	}
}

// FetchCycle produces a complete snapshot. Enrichment is strictly sequential:
// it bounds load on the geolocation service and keeps per-node log output
// deterministic. A node that cannot be located gets the all-Unknown geo and
// the cycle continues.
func (m *NodeMonitor) FetchCycle(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	output, err := m.source.Collect(ctx)
	if err != nil {
		metrics.FetchCyclesTotal.WithLabelValues("subprocess_error").Inc()
		return nil, err
	}

	records, err := m.parser.Parse(output)
	if err != nil {
		metrics.FetchCyclesTotal.WithLabelValues("parse_error").Inc()
		return nil, err
	}

	enriched := make([]models.EnrichedNode, 0, len(records))
	for _, record := range records {
		host := HostFromNodeURL(record.NodeURL)
		enriched = append(enriched, models.EnrichedNode{
			NodeRecord: record,
			Geo:        m.geo.Resolve(ctx, host),
		})
	}

	duration := time.Since(start)
	metrics.FetchCyclesTotal.WithLabelValues("success").Inc()
	metrics.FetchCycleDuration.Observe(duration.Seconds())
	metrics.NodesTracked.Set(float64(len(enriched)))

	m.logger.WithFields(logrus.Fields{
		"nodes":    len(enriched),
		"duration": duration.String(),
	}).Info("Fetch cycle completed")

	return &models.Snapshot{
		LastUpdated: time.Now().UTC(),
		Data:        enriched,
	}, nil
}
