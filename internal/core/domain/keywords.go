package domain

// DefaultMaxKeywords bounds the number of terms extracted from one query.
// The cap also bounds the size of the generated retrieval query.
const DefaultMaxKeywords = 6

// minKeywordLength is the shortest token that counts as a search term.
const minKeywordLength = 3

// stopwords are common English words that carry no retrieval signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {}, "so": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"do": {}, "does": {}, "did": {}, "to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {}, "at": {}, "by": {}, "from": {}, "as": {},
	"how": {}, "much": {}, "many": {}, "what": {}, "when": {}, "where": {}, "who": {}, "whom": {}, "why": {},
	"i": {}, "me": {}, "my": {}, "you": {}, "your": {}, "we": {}, "our": {}, "they": {}, "their": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "may": {}, "might": {}, "will": {}, "shall": {},
}

// IsStopword reports whether the lowercase token is in the fixed stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// ExtractKeywords tokenizes a raw query into an ordered, deduplicated list
// of search terms. Tokens are maximal runs of ASCII alphanumerics, lowercased.
// Stopwords and tokens shorter than three characters are dropped, duplicates
// keep their first position, and the result is truncated to maxTerms.
//
// A query with no usable tokens yields an empty list. Callers treat an empty
// term list as "no retrieval possible", not as an error.
func ExtractKeywords(query string, maxTerms int) []string {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxKeywords
	}

	terms := make([]string, 0, maxTerms)
	seen := make(map[string]struct{})

	var token []byte
	flush := func() {
		if len(token) == 0 {
			return
		}
		t := string(token)
		token = token[:0]
		if len(t) < minKeywordLength {
			return
		}
		if IsStopword(t) {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			token = append(token, c)
		case c >= 'A' && c <= 'Z':
			token = append(token, c+('a'-'A'))
		default:
			flush()
		}
	}
	flush()

	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	return terms
}
