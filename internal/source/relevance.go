package source

import "strings"

// defaultRelevanceKeywords admit early-career and tech postings. A record
// mentioning none of these never enters the pipeline.
var defaultRelevanceKeywords = []string{
	"intern", "internship", "co-op", "co op", "coop",
	"student", "work term", "work-term", "placement",
	"undergraduate", "junior", "entry level", "new grad",
	"software", "developer", "engineer",
	"computer science", "data science",
	"python", "java", "c++", "c#", "golang", "react",
	"machine learning", "artificial intelligence",
	"cloud", "aws", "azure", "docker", "git",
}

// Relevance is a stateless keyword classifier applied to each raw record
// before aggregation.
type Relevance struct {
	keywords []string
}

// NewRelevance builds a classifier. A nil keyword list keeps the defaults.
func NewRelevance(keywords []string) *Relevance {
	if keywords == nil {
		keywords = defaultRelevanceKeywords
	}
	return &Relevance{keywords: keywords}
}

// Matches reports whether the case-folded text contains at least one
// configured keyword. Deterministic and order independent.
func (r *Relevance) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range r.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Admit applies the classifier to a record's combined searchable text.
func (r *Relevance) Admit(record RawRecord) bool {
	return r.Matches(record.text())
}
