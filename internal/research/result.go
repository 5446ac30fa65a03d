package research

// Result is a completed research response.
type Result struct {
	// ID is a unique identifier for the query (UUID).
	ID string `json:"id"`

	// Query is the original query text.
	Query string `json:"query"`

	// Method is the research method that produced the result.
	Method string `json:"method"`

	// Category is the classified query category.
	Category string `json:"category"`

	// Content is the research answer.
	Content string `json:"content"`

	// Citations is the number of citations found in the content.
	Citations int `json:"citations"`

	// ElapsedMS is how long the research took, in milliseconds.
	ElapsedMS int `json:"elapsed_ms"`

	// FromCache indicates the result was served from the cache.
	FromCache bool `json:"from_cache,omitempty"`

	// Suggested indicates the method came from a learned pattern rather
	// than an override or the default.
	Suggested bool `json:"suggested,omitempty"`
}
