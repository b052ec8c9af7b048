package search

import "strings"

// Reserved query token prefixes.
const (
	urlPrefix = "url:"
	nymPrefix = "nym:"
)

// Terms is a tokenized search query: the free text plus structured filters.
type Terms struct {
	Text string
	// URL is a lowercased url prefix filter, empty when absent.
	URL string
	// Nym is a lowercased author name fragment, empty when absent.
	Nym string
}

// ParseTerms splits reserved url: and nym: tokens out of q. Only the first
// token of each kind becomes a filter; every copy of it is removed from the text.
func ParseTerms(q string) Terms {
	words := strings.Fields(q)

	var urlTok, nymTok string
	for _, w := range words {
		if urlTok == "" && strings.HasPrefix(w, urlPrefix) {
			urlTok = w
		}
		if nymTok == "" && strings.HasPrefix(w, nymPrefix) {
			nymTok = w
		}
	}

	kept := words[:0:0]
	for _, w := range words {
		if (urlTok != "" && w == urlTok) || (nymTok != "" && w == nymTok) {
			continue
		}
		kept = append(kept, w)
	}

	t := Terms{Text: strings.Join(kept, " ")}
	if urlTok != "" {
		t.URL = strings.ToLower(urlTok[len(urlPrefix):])
	}
	if nymTok != "" {
		t.Nym = strings.ToLower(nymTok[len(nymPrefix):])
	}
	return t
}
