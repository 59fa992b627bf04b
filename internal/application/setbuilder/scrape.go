package setbuilder

import "context"

// BatchSource supplies the next raw vessel-sighting batch to normalize. The
// actual scrape mechanics (HTTP fetch, vendor CSV parsing, OAuth) are
// external collaborators outside this module's scope; this
// interface is only the boundary a future scraper implementation feeds.
type BatchSource interface {
	NextBatch(ctx context.Context) ([]VesselSighting, error)
}

// Service implements domorch.ScrapeOutbound by pulling one batch from a
// BatchSource, normalizing it through a VesselSetBuilder, and committing
// the result transactionally.
type Service struct {
	source BatchSource
	store  Store
	clock  Clock
}

// NewService builds a scrape-stage set-builder service.
func NewService(source BatchSource, store Store, clock Clock) *Service {
	return &Service{source: source, store: store, clock: clock}
}

// RunScrape normalizes and commits the next available batch, returning the
// number of distinct vessels upserted.
func (s *Service) RunScrape(ctx context.Context) (int, error) {
	sightings, err := s.source.NextBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(sightings) == 0 {
		return 0, nil
	}

	builder := NewVesselSetBuilder()
	for _, sighting := range sightings {
		builder.Add(sighting)
	}
	return builder.Commit(ctx, s.store, s.clock)
}
