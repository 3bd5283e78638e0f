package websearch

import (
	"net/url"
	"strings"

	"github.com/ternarybob/discere/internal/models"
)

// CuratedFallback returns a fixed list of reference-site search URLs for the
// query, used when live search yields nothing and to pad short result sets.
// Derived deterministically from the query so repeated calls are identical.
func CuratedFallback(query string) []models.ResourceRef {
	q := strings.TrimSpace(query)
	qEnc := url.QueryEscape(q)
	qDash := url.QueryEscape(strings.Join(strings.Fields(q), "+"))

	return []models.ResourceRef{
		{Title: "Wikipedia Search", URL: "https://en.wikipedia.org/w/index.php?search=" + qEnc, Source: "wikipedia.org"},
		{Title: "GeeksforGeeks Search", URL: "https://www.geeksforgeeks.org/?s=" + qEnc, Source: "geeksforgeeks.org"},
		{Title: "freeCodeCamp Guide Search", URL: "https://www.freecodecamp.org/news/search/?query=" + qEnc, Source: "freecodecamp.org"},
		{Title: "Tutorialspoint Search", URL: "https://www.tutorialspoint.com/search/" + qDash, Source: "tutorialspoint.com"},
		{Title: "Stack Overflow Search", URL: "https://stackoverflow.com/search?q=" + qEnc, Source: "stackoverflow.com"},
		{Title: "Kaggle Search", URL: "https://www.kaggle.com/search?q=" + qEnc, Source: "kaggle.com"},
		{Title: "scikit-learn Docs Search", URL: "https://www.google.com/search?q=site%3Ascikit-learn.org+" + qEnc, Source: "scikit-learn.org"},
		{Title: "MDN Search", URL: "https://developer.mozilla.org/en-US/search?q=" + qEnc, Source: "developer.mozilla.org"},
	}
}
