// Package normalize cleans raw role names extracted from narrative text.
// The extractor upstream is noisy: it emits English role keywords,
// sentence fragments, and connective-glued names. The cascade here either
// produces a canonical 2-8 rune CJK name or rejects the input with "".
// Rejection is not an error; callers drop the entity or event silently.
package normalize

import (
	"strings"
	"unicode"
)

type Normalizer struct {
	aliases   map[string]string
	ignores   map[string]struct{}
	stopwords map[string]struct{}
	surnames  map[rune]struct{}
}

// Option customizes a Normalizer beyond the built-in tables.
type Option func(*Normalizer)

// WithAliases adds project-specific alias mappings (raw keyword, lowered,
// to canonical name). Later entries override the defaults.
func WithAliases(aliases map[string]string) Option {
	return func(n *Normalizer) {
		for k, v := range aliases {
			n.aliases[strings.ToLower(k)] = v
		}
	}
}

// WithStopwords adds extra exact-match rejection words.
func WithStopwords(words []string) Option {
	return func(n *Normalizer) {
		for _, w := range words {
			n.stopwords[w] = struct{}{}
		}
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		aliases:   make(map[string]string, len(defaultAliases)),
		ignores:   defaultIgnores,
		stopwords: make(map[string]struct{}, len(defaultStopwords)),
		surnames:  make(map[rune]struct{}, len(commonSurnames)),
	}
	for k, v := range defaultAliases {
		n.aliases[k] = v
	}
	for w := range defaultStopwords {
		n.stopwords[w] = struct{}{}
	}
	for _, r := range commonSurnames {
		n.surnames[r] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// resolve applies the ignore set and alias table to the raw input.
func (n *Normalizer) resolve(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	key := strings.ToLower(s)
	if _, ok := n.ignores[key]; ok {
		return ""
	}
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}
	return s
}

// Clean runs the full cascade and returns the canonical name, or "" when
// the input is not a usable name. Pure and deterministic.
func (n *Normalizer) Clean(raw string) string {
	s := n.resolve(raw)
	if s == "" {
		return ""
	}

	runes := []rune(s)
	if len(runes) > 0 && strings.ContainsRune(leadingConnectives, runes[0]) {
		runes = runes[1:]
	}
	if len(runes) > 0 && strings.ContainsRune(trailingVerbs, runes[len(runes)-1]) {
		runes = runes[:len(runes)-1]
	}
	s = strings.TrimSpace(string(runes))
	if s == "" {
		return ""
	}
	runes = []rune(s)

	if len(runes) < 2 || len(runes) > 8 {
		return ""
	}
	for _, r := range runes {
		if !unicode.Is(unicode.Han, r) {
			return ""
		}
	}
	if strings.ContainsRune(s, '第') && strings.ContainsRune(s, '章') {
		return ""
	}

	if _, ok := placeholderNames[s]; ok {
		return s
	}
	if _, ok := n.stopwords[s]; ok {
		return ""
	}
	for _, prefix := range prefixBlocklist {
		if strings.HasPrefix(s, prefix) {
			return ""
		}
	}
	if len(runes) == 2 && strings.ContainsRune(trailingInvalid, runes[1]) {
		return ""
	}
	if len(runes) >= 3 {
		for _, r := range runes[1:] {
			if strings.ContainsRune(internalInvalid, r) {
				return ""
			}
		}
		if strings.ContainsRune(trailingInvalid, runes[len(runes)-1]) {
			return ""
		}
	}

	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(s, suffix) {
			stem := runes[:len(runes)-len([]rune(suffix))]
			if len(stem) == 0 || len(stem) > 2 {
				return ""
			}
			if _, ok := n.surnames[stem[0]]; !ok {
				return ""
			}
			return s
		}
	}

	if _, ok := n.surnames[runes[0]]; !ok {
		return ""
	}
	if len(runes) > 4 {
		return ""
	}
	return s
}
