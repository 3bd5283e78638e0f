package common

import "strings"

// Heuristics holds the named constant tables used by the resource and video
// ranking pipeline. Tests substitute minimal fixture tables instead of
// editing inline literals.
type Heuristics struct {
	// TrustedDomains seed site: query variants for resource search.
	TrustedDomains []string

	// BoostTerms reward reference-grade hosts and doc-style paths during
	// resource scoring.
	BoostTerms []string

	// DenyTerms penalize off-topic results (music, memes, wallpapers).
	DenyTerms []string

	// Stopwords are dropped when deriving a refined query from a module
	// title and learning objective.
	Stopwords []string

	// BoilerplatePhrases mark a generated summary as low quality.
	BoilerplatePhrases []string

	// OfficeChartTerms disambiguate spreadsheet/chart tooling results that
	// lexically collide with many technical topics.
	OfficeChartTerms []string

	// MetaPhrases are stripped from generated summaries (model chatter
	// about its own context).
	MetaPhrases []string

	// SearchEngineHosts identify raw search-result URLs during generic
	// resource detection and sanitization.
	SearchEngineHosts []string
}

// DefaultHeuristics returns the production heuristic tables.
func DefaultHeuristics() *Heuristics {
	return &Heuristics{
		TrustedDomains: []string{
			"geeksforgeeks.org",
			"wikipedia.org",
			"tutorialspoint.com",
			"freecodecamp.org",
			"stackoverflow.com",
			"oracle.com",
			"docs.oracle.com",
			"baeldung.com",
			"w3schools.com",
			"learn.microsoft.com",
			"developer.mozilla.org",
			"huggingface.co",
			"pytorch.org",
			"tensorflow.org",
			"scikit-learn.org",
			"kaggle.com",
			"pandas.pydata.org",
			"numpy.org",
			"plotly.com",
			"arxiv.org",
			"mit.edu",
			"stanford.edu",
			"harvard.edu",
			"coursera.org",
		},
		BoostTerms: []string{
			"docs", "developer", "dev", "learn", "tutorial", "guide",
			"handbook", "manual", "spec",
			"wikipedia.org", "arxiv.org", "acm.org", "ieee.org",
			"mozilla.org", "python.org", "pytorch.org", "tensorflow.org",
			"scikit-learn.org", "khanacademy.org", "mit.edu", "stanford.edu",
			"harvard.edu", "coursera.org", "geeksforgeeks.org", "oracle.com",
			"docs.oracle.com", "baeldung.com", "w3schools.com",
			"tutorialspoint.com", "freecodecamp.org", "stackoverflow.com",
			"medium.com", "towardsdatascience.com", "huggingface.co",
			"learn.microsoft.com", "cloud.google.com", "aws.amazon.com",
			"azure.microsoft.com", "paperswithcode.com", "kaggle.com",
			"pandas.pydata.org", "numpy.org", "plotly.com",
		},
		DenyTerms: []string{
			"lyrics",
			"song",
			"piano",
			"music",
			"asmr",
			"memes",
			"wallpaper",
		},
		Stopwords: []string{
			"the", "and", "for", "with", "from", "that", "this", "into",
			"your", "their", "what", "when", "where", "how", "why", "will",
			"would", "should", "could", "about", "using", "use", "are",
			"was", "were", "you", "can", "not", "introduction", "intro",
			"basics", "fundamentals", "advanced", "topics", "module",
			"course", "learn", "learning", "guide", "overview",
		},
		BoilerplatePhrases: []string{
			"this module provides a clear, end-to-end narrative",
			"we then transition into the workflow you will actually use",
			"by the end, you should be able to explain the concept to others",
		},
		OfficeChartTerms: []string{
			"excel",
			"spreadsheet",
			"pivot table",
			"powerpoint",
			"bar chart",
			"pie chart",
		},
		MetaPhrases: []string{
			"no transcript",
			"please provide",
			"based on the following context",
			"as an ai",
			"i cannot",
		},
		SearchEngineHosts: []string{
			"duckduckgo.com",
			"www.google.com",
			"google.com",
			"www.bing.com",
			"bing.com",
			"search.yahoo.com",
		},
	}
}

// ContainsAnyTerm reports whether text contains any of the given terms,
// case-insensitively.
func ContainsAnyTerm(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// CountMatchingTerms returns the number of terms found in text,
// case-insensitively.
func CountMatchingTerms(text string, terms []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

// IsStopword reports whether token is in the stopword table.
func (h *Heuristics) IsStopword(token string) bool {
	for _, sw := range h.Stopwords {
		if token == sw {
			return true
		}
	}
	return false
}

// IsSearchEngineHost reports whether host belongs to a known search engine.
func (h *Heuristics) IsSearchEngineHost(host string) bool {
	host = strings.ToLower(host)
	for _, engine := range h.SearchEngineHosts {
		if host == engine || strings.HasSuffix(host, "."+engine) {
			return true
		}
	}
	return false
}

// IsTrustedDomain reports whether host matches a trusted-domain entry.
func (h *Heuristics) IsTrustedDomain(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range h.TrustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
