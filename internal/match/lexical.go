package match

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// stopWords are dropped before TF-IDF weighting; they carry no signal and
// inflate the cosine between unrelated texts.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "our": true,
	"that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "we": true, "were": true, "will": true, "with": true,
	"you": true, "your": true,
}

// Lexical scores similarity as the cosine between TF-IDF vectors built over
// the two texts. It needs no network and no model, which makes it the
// fallback when no embedding provider is configured.
type Lexical struct{}

func NewLexical() *Lexical {
	return &Lexical{}
}

// Score returns cosine(tfidf(a), tfidf(b)) scaled to [0,100].
func (l *Lexical) Score(_ context.Context, a, b string) (float64, error) {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0, nil
	}

	tfA := termFrequencies(tokensA)
	tfB := termFrequencies(tokensB)

	// IDF over the two-document corpus, smoothed so shared terms keep a
	// non-zero weight.
	idf := func(term string) float64 {
		df := 0
		if _, ok := tfA[term]; ok {
			df++
		}
		if _, ok := tfB[term]; ok {
			df++
		}
		return math.Log(float64(2+1)/float64(df+1)) + 1
	}

	vecA := make(map[string]float64, len(tfA))
	for term, tf := range tfA {
		vecA[term] = tf * idf(term)
	}
	vecB := make(map[string]float64, len(tfB))
	for term, tf := range tfB {
		vecB[term] = tf * idf(term)
	}

	return cosine(vecA, vecB) * 100, nil
}

// tokenize lowercases and splits on non-alphanumeric runes, keeping + # .
// inside words so "c++", "c#", and "node.js" survive, then drops stop words.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len(w) > 1 && !stopWords[w] {
			tokens = append(tokens, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func termFrequencies(tokens []string) map[string]float64 {
	counts := make(map[string]float64)
	for _, token := range tokens {
		counts[token]++
	}
	for term := range counts {
		counts[term] /= float64(len(tokens))
	}
	return counts
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
