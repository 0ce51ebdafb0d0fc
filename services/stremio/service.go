package stremio

import (
	"context"
	"log"

	"github.com/sourcegraph/conc/iter"

	"canonstream/config"
	"canonstream/models"
	"canonstream/utils/nameparse"
)

// streamFetcher is the slice of Client the service depends on.
type streamFetcher interface {
	FetchStreams(ctx context.Context, baseURL, mediaType, id string) ([]models.RawStream, error)
}

var _ streamFetcher = (*Client)(nil)

// Service fans out over the configured addons and normalizes everything they
// return. Parser selection is fixed at construction time by addon identity.
type Service struct {
	client  streamFetcher
	addons  []config.AddonConfig
	parsers map[string]StreamParser
}

func NewService(addons []config.AddonConfig, client streamFetcher, tokenize nameparse.Func) *Service {
	s := &Service{
		client:  client,
		addons:  addons,
		parsers: make(map[string]StreamParser, len(addons)),
	}
	for _, addon := range addons {
		identity := AddonIdentity{ID: addon.ID, Name: addon.Name}
		s.parsers[addon.ID] = NewParser(identity, addon.Format, tokenize)
	}
	return s
}

// FetchAll queries every enabled addon and returns the canonical records in
// addon order, then stream order. An addon that fails contributes zero
// results; the rest of the aggregation continues.
func (s *Service) FetchAll(ctx context.Context, mediaType, id string) []*models.CanonicalStream {
	var all []*models.CanonicalStream
	for _, addon := range s.addons {
		if !addon.Enabled {
			continue
		}
		raws, err := s.client.FetchStreams(ctx, addon.URL, mediaType, id)
		if err != nil {
			log.Printf("[stremio] addon %s contributed no results: %v", addon.Name, err)
			continue
		}
		records := s.ParseAll(addon.ID, raws)
		log.Printf("[stremio] addon %s: %d/%d streams normalized", addon.Name, len(records), len(raws))
		all = append(all, records...)
	}
	return all
}

// ParseAll normalizes a batch of raw records from one addon. Each parse is a
// pure function of its record, so the batch is mapped in parallel; input
// order is preserved and parses that yield nothing are dropped.
func (s *Service) ParseAll(addonID string, raws []models.RawStream) []*models.CanonicalStream {
	parser, ok := s.parsers[addonID]
	if !ok {
		return nil
	}
	parsed := iter.Map(raws, func(raw *models.RawStream) *models.CanonicalStream {
		return parser.Parse(raw)
	})
	records := make([]*models.CanonicalStream, 0, len(parsed))
	for _, record := range parsed {
		if record != nil {
			records = append(records, record)
		}
	}
	return records
}
