package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AnswerValidator validates user answers with fuzzy matching support.
type AnswerValidator struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8, // 80% similarity required
	}
}

// Validate checks the user's answer against a translation. A translation
// may list several accepted variants separated by ",", "/" or ";".
func (v *AnswerValidator) Validate(userAnswer, translation string) bool {
	user := v.normalize(userAnswer)
	if user == "" {
		return false
	}

	for _, variant := range splitVariants(translation) {
		correct := v.normalize(variant)
		if correct == "" {
			continue
		}

		if user == correct || v.similarity(user, correct) >= v.threshold {
			return true
		}
	}

	return false
}

// normalize lowercases s, strips accents and collapses whitespace.
func (v *AnswerValidator) normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	r1, r2 := []rune(s1), []rune(s2)

	maxLen := max(len(r1), len(r2))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(r1, r2))/float64(maxLen)
}

func splitVariants(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ';'
	})
}

// stripDiacritics removes combining marks: "mañana" -> "manana".
// Russian "й" decomposes too, so it is restored after the transform.
func stripDiacritics(s string) string {
	s = strings.ReplaceAll(s, "й", "\x00")

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.ReplaceAll(out, "\x00", "й")
}

// levenshteinDistance calculates the Levenshtein distance between two rune slices.
func levenshteinDistance(r1, r2 []rune) int {
	rows := len(r1) + 1
	cols := len(r2) + 1

	// two rows instead of the full matrix
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // Insertion
				prev[j]+1,      // Deletion
				prev[j-1]+cost, // Substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
