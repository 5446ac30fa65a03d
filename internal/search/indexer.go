/*
Package search implements full-text search over the query history.

The index is built in memory from stored query records when needed and
searched with BM25 ranking via Bleve.
*/
package search

import (
	"fmt"
	"log"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/khanglvm/deepthink/internal/storage"
)

// Indexer manages the search index over query history.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewIndexer creates a search indexer with an in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// buildIndexMapping creates the Bleve index mapping for query records.
func buildIndexMapping() mapping.IndexMapping {
	recordMapping := bleve.NewDocumentMapping()

	// Query text: the primary searchable field
	queryFieldMapping := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("query", queryFieldMapping)

	// Category and method: searchable for filtering by terms
	categoryFieldMapping := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	methodFieldMapping := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("method", methodFieldMapping)

	// Success and timestamp: stored for retrieval, not indexed
	successFieldMapping := bleve.NewTextFieldMapping()
	successFieldMapping.Index = false
	successFieldMapping.IncludeInAll = false
	recordMapping.AddFieldMappingsAt("success", successFieldMapping)

	timestampFieldMapping := bleve.NewTextFieldMapping()
	timestampFieldMapping.Index = false
	timestampFieldMapping.IncludeInAll = false
	recordMapping.AddFieldMappingsAt("timestamp", timestampFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", recordMapping)

	return indexMapping
}

// IndexRecords indexes a batch of query records.
func (i *Indexer) IndexRecords(records []storage.QueryRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for _, record := range records {
		success := "false"
		if record.Success {
			success = "true"
		}

		doc := map[string]interface{}{
			"query":     record.QueryText,
			"category":  record.Category,
			"method":    record.Method,
			"success":   success,
			"timestamp": record.Timestamp.Format("2006-01-02 15:04"),
		}

		if err := batch.Index(record.ID, doc); err != nil {
			log.Printf("Warning: failed to index record %s: %v", record.ID, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index records: %w", err)
	}

	return nil
}

// Count returns the total number of indexed records.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}
