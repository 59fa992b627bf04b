// Package searchindex reconciles the mirror search index against the row
// store's authoritative (id, cache_version) pairs.
package searchindex

import (
	"context"
	"time"

	"github.com/orcalabs/kyogre/internal/application/common"
)

const (
	deleteChunkSize = 50_000
	upsertChunkSize = 20_000
)

// VersionedID is one document's identity plus its cache_version, as seen
// either in the mirror or in the source.
type VersionedID struct {
	ID      string
	Version int64
}

// Document is a full mirror document ready to upsert.
type Document struct {
	ID      string
	Version int64
	Payload []byte
}

// Mirror is the search-index side of the reconciliation: list, delete,
// upsert.
type Mirror interface {
	ListIDs(ctx context.Context) ([]VersionedID, error)
	Delete(ctx context.Context, ids []string) error
	Upsert(ctx context.Context, docs []Document) error
}

// Source is the authoritative row-store side: list ids/versions and fetch
// full documents by id for upsert.
type Source interface {
	ListIDs(ctx context.Context) ([]VersionedID, error)
	FetchDocuments(ctx context.Context, ids []string) ([]Document, error)
}

// Reconciler drives one reconciliation pass for one entity kind (trip,
// landing, or haul).
type Reconciler struct {
	mirror Mirror
	source Source
}

// New builds a Reconciler.
func New(mirror Mirror, source Source) *Reconciler {
	return &Reconciler{mirror: mirror, source: source}
}

// Run performs a full reconciliation pass: delete
// ids present in the mirror but not the source, then insert/upsert ids
// whose source version exceeds the mirror version, chunked with
// payload-too-large splitting.
func (r *Reconciler) Run(ctx context.Context) error {
	mirrorIDs, err := r.mirror.ListIDs(ctx)
	if err != nil {
		return err
	}
	sourceIDs, err := r.source.ListIDs(ctx)
	if err != nil {
		return err
	}

	mirrorByID := make(map[string]int64, len(mirrorIDs))
	for _, v := range mirrorIDs {
		mirrorByID[v.ID] = v.Version
	}
	sourceByID := make(map[string]int64, len(sourceIDs))
	for _, v := range sourceIDs {
		sourceByID[v.ID] = v.Version
	}

	var toDelete []string
	for id := range mirrorByID {
		if _, ok := sourceByID[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	if err := r.deleteChunked(ctx, toDelete); err != nil {
		return err
	}

	var toUpsert []string
	for id, sourceVersion := range sourceByID {
		if mirrorVersion, ok := mirrorByID[id]; !ok || sourceVersion > mirrorVersion {
			toUpsert = append(toUpsert, id)
		}
	}
	return r.upsertChunked(ctx, toUpsert)
}

func (r *Reconciler) deleteChunked(ctx context.Context, ids []string) error {
	for i := 0; i < len(ids); i += deleteChunkSize {
		end := min(i+deleteChunkSize, len(ids))
		if err := r.mirror.Delete(ctx, ids[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) upsertChunked(ctx context.Context, ids []string) error {
	for i := 0; i < len(ids); i += upsertChunkSize {
		end := min(i+upsertChunkSize, len(ids))
		if err := r.upsertChunkWithSplit(ctx, ids[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// upsertChunkWithSplit fetches and upserts one chunk of ids, halving the
// chunk on a payload-too-large response and retrying; a single item still
// too large is logged and skipped rather than retried forever.
func (r *Reconciler) upsertChunkWithSplit(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	docs, err := r.source.FetchDocuments(ctx, ids)
	if err != nil {
		return err
	}

	err = r.mirror.Upsert(ctx, docs)
	if err == nil {
		return nil
	}
	if !isPayloadTooLarge(err) {
		return err
	}
	if len(ids) == 1 {
		// Single item still too large: log and skip, do not retry forever.
		common.LoggerFromContext(ctx).Log("warn", "search document exceeds mirror payload limit, skipping", map[string]interface{}{
			"id": ids[0],
		})
		return nil
	}

	mid := len(ids) / 2
	if err := r.upsertChunkWithSplit(ctx, ids[:mid]); err != nil {
		return err
	}
	return r.upsertChunkWithSplit(ctx, ids[mid:])
}

func isPayloadTooLarge(err error) bool {
	type payloadTooLarge interface{ PayloadTooLarge() bool }
	if ptl, ok := err.(payloadTooLarge); ok {
		return ptl.PayloadTooLarge()
	}
	return false
}

// RunTimeout is the long await budget for a full reconciliation pass.
// Test mode short-circuits this to zero so the BDD scenarios never poll
// on a timer.
func RunTimeout(testMode bool) time.Duration {
	if testMode {
		return 0
	}
	return 60 * time.Minute
}
