package services

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	apperrors "github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/errors"
)

const walruscanOperatorURL = "https://walruscan.com/mainnet/operator/"

// OutputParser extracts the JSON document from the health tool's combined
// output and maps it to normalized node records.
type OutputParser struct {
	logger *logrus.Logger
}

func NewOutputParser(logger *logrus.Logger) *OutputParser {
	return &OutputParser{logger: logger}
}

// Parse produces the node list from raw tool output. Malformed individual
// entries never abort the batch; missing fields take their defaults.
func (p *OutputParser) Parse(output string) ([]models.NodeRecord, error) {
	doc, err := p.extractJSON(output)
	if err != nil {
		return nil, err
	}

	entries, err := p.nodeEntries(doc)
	if err != nil {
		return nil, err
	}

	records := make([]models.NodeRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, mapEntry(entry))
	}

	p.logger.WithField("nodes", len(records)).Debug("Parsed health tool output")
	return records, nil
}

// extractJSON tries a direct parse of the trimmed output first, then falls
// back to scanning for the first bracket-balanced top-level JSON span. The
// tool is known to interleave log lines around its document, so the fallback
// is an expected path, not an error condition.
func (p *OutputParser) extractJSON(output string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	var span strings.Builder
	depth := 0
	capturing := false

	for _, line := range strings.Split(output, "\n") {
		if !capturing {
			t := strings.TrimSpace(line)
			if !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "[") {
				continue
			}
			capturing = true
		}

		span.WriteString(line)
		span.WriteString("\n")

		for _, r := range line {
			switch r {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}

		if depth <= 0 {
			break
		}
	}

	if !capturing || depth > 0 {
		return nil, apperrors.ErrNoJSONFound
	}

	captured := strings.TrimSpace(span.String())
	if !json.Valid([]byte(captured)) {
		return nil, apperrors.ErrNoJSONFound
	}

	return json.RawMessage(captured), nil
}

// nodeEntries locates the healthInfo list inside the parsed document. A bare
// top-level array is accepted as the list itself. The list must actually be
// a list: a null field (or null document) is absent data, not an empty
// dataset, and must not overwrite a good snapshot with zero nodes.
func (p *OutputParser) nodeEntries(doc json.RawMessage) ([]models.RawNodeHealth, error) {
	list := doc
	if strings.HasPrefix(strings.TrimSpace(string(doc)), "{") {
		var wrapper struct {
			HealthInfo json.RawMessage `json:"healthInfo"`
		}
		if err := json.Unmarshal(doc, &wrapper); err != nil || len(wrapper.HealthInfo) == 0 {
			return nil, apperrors.ErrInvalidStructure
		}
		list = wrapper.HealthInfo
	}

	if !strings.HasPrefix(strings.TrimSpace(string(list)), "[") {
		return nil, apperrors.ErrInvalidStructure
	}

	var entries []models.RawNodeHealth
	if err := json.Unmarshal(list, &entries); err != nil {
		return nil, apperrors.ErrInvalidStructure
	}

	return entries, nil
}

// mapEntry normalizes one raw entry. Status is Error unless the tool reported
// an explicit Ok variant; the walruscan link is derived from the node ID when
// the tool omits it.
func mapEntry(entry models.RawNodeHealth) models.NodeRecord {
	record := models.NodeRecord{
		NodeID:       models.OrUnknown(entry.NodeID),
		NodeURL:      models.OrUnknown(entry.NodeURL),
		NodeName:     models.OrUnknown(entry.NodeName),
		NodeStatus:   "Error",
		WalruscanURL: entry.WalruscanURL,
	}

	if entry.HealthInfo != nil && entry.HealthInfo.Ok != nil {
		record.NodeStatus = models.OrUnknown(entry.HealthInfo.Ok.NodeStatus)
	}

	if record.WalruscanURL == "" {
		if record.NodeID != models.Unknown {
			record.WalruscanURL = walruscanOperatorURL + record.NodeID
		} else {
			record.WalruscanURL = models.Unknown
		}
	}

	return record
}
