// Package meilisearch implements searchindex.Mirror against a Meilisearch
// index holding trip, haul, and landing documents keyed by primary id
// with an attached cache_version.
package meilisearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
	"golang.org/x/time/rate"

	"github.com/orcalabs/kyogre/internal/application/searchindex"
	"github.com/orcalabs/kyogre/internal/infrastructure/config"
)

const listPageSize = 1000

// writesPerSecond caps outbound delete/upsert calls so a large
// reconciliation pass doesn't saturate the Meilisearch instance.
const writesPerSecond = 10

// Mirror implements searchindex.Mirror against a single Meilisearch
// index. One Mirror is built per indexed entity kind (trips, hauls).
type Mirror struct {
	client  meilisearch.ServiceManager
	index   string
	limiter *rate.Limiter
}

// NewTripsMirror builds the trips-index mirror from SearchIndexConfig.
func NewTripsMirror(cfg *config.SearchIndexConfig) *Mirror {
	return newMirror(cfg, cfg.TripsIndex)
}

// NewHaulsMirror builds the hauls-index mirror from SearchIndexConfig.
func NewHaulsMirror(cfg *config.SearchIndexConfig) *Mirror {
	return newMirror(cfg, cfg.HaulsIndex)
}

func newMirror(cfg *config.SearchIndexConfig, index string) *Mirror {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	return &Mirror{client: client, index: index, limiter: rate.NewLimiter(writesPerSecond, 1)}
}

type idVersionDoc struct {
	ID           string `json:"id"`
	CacheVersion int64  `json:"cache_version"`
}

// ListIDs pages through the index's (id, cache_version) projection.
func (m *Mirror) ListIDs(ctx context.Context) ([]searchindex.VersionedID, error) {
	idx := m.client.Index(m.index)

	var out []searchindex.VersionedID
	offset := int64(0)
	for {
		var page meilisearch.DocumentsResult
		err := idx.GetDocumentsWithContext(ctx, &meilisearch.DocumentsQuery{
			Fields: []string{"id", "cache_version"},
			Limit:  listPageSize,
			Offset: offset,
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("list ids from index %s: %w", m.index, err)
		}

		for _, raw := range page.Results {
			doc, err := decodeIDVersion(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, searchindex.VersionedID{ID: doc.ID, Version: doc.CacheVersion})
		}

		if int64(len(page.Results)) < listPageSize {
			break
		}
		offset += listPageSize
	}
	return out, nil
}

// Delete removes a chunk of documents by id.
func (m *Mirror) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}
	idx := m.client.Index(m.index)
	if _, err := idx.DeleteDocumentsWithContext(ctx, ids); err != nil {
		return fmt.Errorf("delete from index %s: %w", m.index, err)
	}
	return nil
}

// Upsert adds or replaces a chunk of documents, surfacing a
// payloadTooLargeError when Meilisearch rejects the batch as oversized so
// the reconciler can halve and retry.
func (m *Mirror) Upsert(ctx context.Context, docs []searchindex.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}
	idx := m.client.Index(m.index)

	payloads := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		payload, err := decodePayload(d.Payload)
		if err != nil {
			return err
		}
		payload["id"] = d.ID
		payload["cache_version"] = d.Version
		payloads = append(payloads, payload)
	}

	if _, err := idx.AddDocumentsWithContext(ctx, payloads, "id"); err != nil {
		if isRequestEntityTooLarge(err) {
			return payloadTooLargeError{cause: err}
		}
		return fmt.Errorf("upsert to index %s: %w", m.index, err)
	}
	return nil
}

// payloadTooLargeError lets searchindex.Reconciler detect an
// oversized-batch response without depending on the meilisearch package.
type payloadTooLargeError struct {
	cause error
}

func (e payloadTooLargeError) Error() string       { return e.cause.Error() }
func (e payloadTooLargeError) PayloadTooLarge() bool { return true }

func isRequestEntityTooLarge(err error) bool {
	apiErr, ok := err.(*meilisearch.Error)
	if !ok {
		return false
	}
	return apiErr.StatusCode == 413
}

func decodeIDVersion(raw map[string]interface{}) (idVersionDoc, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return idVersionDoc{}, fmt.Errorf("encode document projection: %w", err)
	}
	var doc idVersionDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return idVersionDoc{}, fmt.Errorf("decode document projection: %w", err)
	}
	return doc, nil
}

func decodePayload(raw []byte) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode document payload: %w", err)
	}
	return payload, nil
}
