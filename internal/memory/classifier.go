/*
Package memory implements the learning layer of the research router.

This package classifies queries into coarse categories, maintains a
persistent table of category-to-method outcome patterns, and suggests a
research method once a pattern has enough confirming successes.
*/
package memory

import "strings"

// Category is a coarse label describing the intent of a query.
type Category string

// The fixed set of query categories. Unmatched queries fall back to
// CategoryGeneralResearch.
const (
	CategoryComprehensiveAnalysis   Category = "comprehensive_analysis"
	CategoryTechnicalImplementation Category = "technical_implementation"
	CategoryConceptualExplanation   Category = "conceptual_explanation"
	CategoryRecommendation          Category = "recommendation"
	CategoryGeneralResearch         Category = "general_research"
)

// categoryKeywords maps each category to the phrases that select it.
// Order matters: the first category with a matching phrase wins.
var categoryKeywords = []struct {
	category Category
	phrases  []string
}{
	{CategoryComprehensiveAnalysis, []string{"landscape", "comprehensive", "analyze", "comparison"}},
	{CategoryTechnicalImplementation, []string{"how to", "implement", "code", "example"}},
	{CategoryConceptualExplanation, []string{"what is", "define", "explain"}},
	{CategoryRecommendation, []string{"best", "recommend", "should"}},
}

// Classify maps a query to a category by keyword matching.
// It never fails: unmatched queries classify as general research.
func Classify(query string) Category {
	lower := strings.ToLower(query)

	for _, entry := range categoryKeywords {
		for _, phrase := range entry.phrases {
			if strings.Contains(lower, phrase) {
				return entry.category
			}
		}
	}

	return CategoryGeneralResearch
}

// Categories returns the full category set, default last.
func Categories() []Category {
	return []Category{
		CategoryComprehensiveAnalysis,
		CategoryTechnicalImplementation,
		CategoryConceptualExplanation,
		CategoryRecommendation,
		CategoryGeneralResearch,
	}
}
