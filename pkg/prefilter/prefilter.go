package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/adocref/pkg/types"
)

// Prefilter uses Aho-Corasick to skip directives whose keyword never occurs in a document.
type Prefilter struct {
	directives []*types.Directive
	matcher    *ahocorasick.Matcher
	keywords   []string         // keyword at each dictionary index
	byKeyword  map[string][]int // keyword -> directive indexes needing it
	always     []int            // directives without a keyword (always checked)
}

// New creates a prefilter from directives.
func New(directives []*types.Directive) *Prefilter {
	pf := &Prefilter{
		directives: directives,
		byKeyword:  make(map[string][]int),
	}

	for i, d := range directives {
		if d.Keyword == "" {
			pf.always = append(pf.always, i)
			continue
		}
		if _, seen := pf.byKeyword[d.Keyword]; !seen {
			pf.keywords = append(pf.keywords, d.Keyword)
		}
		pf.byKeyword[d.Keyword] = append(pf.byKeyword[d.Keyword], i)
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns the directives that might match content, in their original order.
// Safe for concurrent use.
func (pf *Prefilter) Filter(content []byte) []*types.Directive {
	selected := make([]bool, len(pf.directives))
	for _, i := range pf.always {
		selected[i] = true
	}

	if pf.matcher != nil {
		for _, hit := range pf.matcher.MatchThreadSafe(content) {
			for _, i := range pf.byKeyword[pf.keywords[hit]] {
				selected[i] = true
			}
		}
	}

	result := make([]*types.Directive, 0, len(pf.directives))
	for i, ok := range selected {
		if ok {
			result = append(result, pf.directives[i])
		}
	}
	return result
}
