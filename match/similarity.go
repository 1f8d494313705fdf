package match

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Fixed signal weights for TextSimilarity. Convex combination; never
// renormalized per call.
const (
	editDistanceWeight = 0.5
	tokenOverlapWeight = 0.2
	termWeightWeight   = 0.3
)

// DefaultMaxDurationDifference is the gap, in seconds, at which
// DurationSimilarity bottoms out.
const DefaultMaxDurationDifference = 1000.0

// TextSimilarity computes a composite similarity in [0,1] between two
// strings from three independent signals: Jaro-Winkler distance (rewards
// common prefixes, tolerant of transpositions), token overlap, and TF-IDF
// cosine similarity over the two-document corpus {a, b}. Inputs are
// lower-cased here; callers normalize separately.
func TextSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	jw := float64(edlib.JaroWinklerSimilarity(a, b))
	overlap := tokenOverlap(a, b)
	cosine := tfidfCosine(a, b)

	return jw*editDistanceWeight + overlap*tokenOverlapWeight + cosine*termWeightWeight
}

// tokenOverlap is the ratio of distinct tokens of a that appear as
// substrings of b, over the larger token count of the two strings. It is
// asymmetric: only a's tokens are checked against b.
func tokenOverlap(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(aTokens))
	matched := 0
	for _, tok := range aTokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if strings.Contains(b, tok) {
			matched++
		}
	}

	denom := len(aTokens)
	if len(bTokens) > denom {
		denom = len(bTokens)
	}
	return float64(matched) / float64(denom)
}

// tfidfCosine computes the cosine similarity between the TF-IDF vectors of a
// and b, treating the two strings as a two-document corpus. Returns 0 (never
// NaN) when either string is empty, no terms are shared, or either vector
// has zero magnitude.
func tfidfCosine(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	aFreq := termFrequencies(aTokens)
	bFreq := termFrequencies(bTokens)

	var dot, aNorm, bNorm float64
	for term, aTF := range aFreq {
		idf := inverseDocFrequency(term, aFreq, bFreq)
		wa := aTF * idf
		aNorm += wa * wa
		if bTF, ok := bFreq[term]; ok {
			dot += wa * bTF * idf
		}
	}
	for term, bTF := range bFreq {
		idf := inverseDocFrequency(term, aFreq, bFreq)
		wb := bTF * idf
		bNorm += wb * wb
	}

	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	return dot / (math.Sqrt(aNorm) * math.Sqrt(bNorm))
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	for tok := range freq {
		freq[tok] /= float64(len(tokens))
	}
	return freq
}

// inverseDocFrequency uses smoothed IDF over the two-document corpus so a
// term shared by both strings still carries positive weight.
func inverseDocFrequency(term string, a, b map[string]float64) float64 {
	df := 0
	if _, ok := a[term]; ok {
		df++
	}
	if _, ok := b[term]; ok {
		df++
	}
	return math.Log(3.0/(1.0+float64(df))) + 1
}

// DurationSimilarity scores how close two track durations (in seconds) are:
// exp(-min(|a-b|/maxDifference, 1)). Equal durations score 1; the score
// decays smoothly and bottoms out at exp(-1) once the gap reaches
// maxDifference.
func DurationSimilarity(a, b float64) float64 {
	return durationSimilarity(a, b, DefaultMaxDurationDifference)
}

func durationSimilarity(a, b, maxDifference float64) float64 {
	diff := math.Abs(a-b) / maxDifference
	if diff > 1 {
		diff = 1
	}
	return math.Exp(-diff)
}
