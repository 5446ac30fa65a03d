package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

// HistoryResult is one query-history search hit.
type HistoryResult struct {
	// RecordID is the query record's ID.
	RecordID string `json:"record_id"`

	// Query is the recorded query text.
	Query string `json:"query"`

	// Category is the classified category.
	Category string `json:"category"`

	// Method is the research method used.
	Method string `json:"method"`

	// Success indicates whether the research succeeded.
	Success bool `json:"success"`

	// Timestamp is when the query ran, formatted for display.
	Timestamp string `json:"timestamp"`

	// Score is the BM25 relevance score.
	Score float64 `json:"score"`
}

// Search performs BM25 keyword search over the indexed history.
func (i *Indexer) Search(query string, limit int) ([]HistoryResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchQuery := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{"query", "category", "method", "success", "timestamp"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// SearchByCategory performs BM25 search scoped to one category.
func (i *Indexer) SearchByCategory(query, category string, limit int) ([]HistoryResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	categoryQuery := bleve.NewTermQuery(category)
	categoryQuery.SetField("category")

	conjunctionQuery := bleve.NewConjunctionQuery(matchQuery, categoryQuery)

	searchRequest := bleve.NewSearchRequestOptions(conjunctionQuery, limit, 0, false)
	searchRequest.Fields = []string{"query", "category", "method", "success", "timestamp"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve hits to HistoryResults.
func convertBleveResults(results *bleve.SearchResult) []HistoryResult {
	historyResults := make([]HistoryResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		query, _ := hit.Fields["query"].(string)
		category, _ := hit.Fields["category"].(string)
		method, _ := hit.Fields["method"].(string)
		success, _ := hit.Fields["success"].(string)
		timestamp, _ := hit.Fields["timestamp"].(string)

		historyResults = append(historyResults, HistoryResult{
			RecordID:  hit.ID,
			Query:     query,
			Category:  category,
			Method:    method,
			Success:   success == "true",
			Timestamp: timestamp,
			Score:     hit.Score,
		})
	}

	return historyResults
}
