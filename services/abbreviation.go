package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinAbbreviationLength is the minimum accepted abbreviation length
	MinAbbreviationLength = 2
	// MaxAbbreviationLength is the maximum accepted abbreviation length
	MaxAbbreviationLength = 10
	// MaxAbbreviationSuggestions caps how many candidates are returned
	MaxAbbreviationSuggestions = 5
)

// abbreviationPattern matches valid abbreviations: uppercase letters and digits only
var abbreviationPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// nonAlphanumeric strips everything outside letters, digits and whitespace
// after normalization
var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9\s]+`)

// digitRun finds the first run of digits in the raw input
var digitRun = regexp.MustCompile(`[0-9]+`)

// abbreviationStopwords are generic corporate/legal filler words dropped
// before generating candidates. Matched case- and diacritic-insensitively.
var abbreviationStopwords = map[string]struct{}{
	// Company-type suffixes
	"LTDA": {}, "SA": {}, "ME": {}, "EPP": {}, "EIRELI": {},
	// Connectives
	"DE": {}, "DA": {}, "DO": {}, "DAS": {}, "DOS": {},
	"E": {}, "EM": {}, "PARA": {}, "COM": {},
	// Generic sector words
	"ASSISTENCIA": {}, "SAUDE": {}, "SERVICOS": {}, "COMERCIO": {},
	"INDUSTRIA": {}, "PLANO": {}, "PLANOS": {}, "COOPERATIVA": {}, "UNIMED": {},
	"MEDICA": {}, "MEDICO": {},
}

// AbbreviationValidation is the result of validating a candidate abbreviation
type AbbreviationValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateAbbreviation checks a candidate short code against the naming
// grammar: 2-10 characters, uppercase letters and digits only.
// Exactly one message is reported, first failing rule wins.
func ValidateAbbreviation(candidate string) AbbreviationValidation {
	trimmed := strings.TrimSpace(candidate)

	if len(trimmed) < MinAbbreviationLength {
		return AbbreviationValidation{Error: "must be at least 2 characters"}
	}
	if len(trimmed) > MaxAbbreviationLength {
		return AbbreviationValidation{Error: "must be at most 10 characters"}
	}
	if !abbreviationPattern.MatchString(trimmed) {
		return AbbreviationValidation{Error: "must contain only uppercase letters and digits"}
	}

	return AbbreviationValidation{Valid: true}
}

// stripDiacritics removes combining marks after NFD decomposition,
// so "Assistência" becomes "Assistencia"
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SuggestAbbreviations derives short folder/file-naming codes from an
// organization or person name. The result is deterministic for a given
// input: at most 5 candidates, each passing ValidateAbbreviation, ranked
// by closeness of length to 3.5 characters with generation order as the
// tiebreak.
func SuggestAbbreviations(name string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	normalized := strings.ToUpper(stripDiacritics(name))
	normalized = nonAlphanumeric.ReplaceAllString(normalized, "")

	// Tokenize and drop filler words
	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if _, ignored := abbreviationStopwords[tok]; ignored {
			continue
		}
		tokens = append(tokens, tok)
	}

	var candidates []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	if len(tokens) == 0 {
		// Nothing survived filtering: fall back to a prefix of the
		// fully collapsed name
		collapsed := strings.Join(strings.Fields(normalized), "")
		if len(collapsed) > 3 {
			collapsed = collapsed[:3]
		}
		add(collapsed)
	} else {
		first := tokens[0]

		// Initials of all tokens
		if len(tokens) <= 5 {
			var initials strings.Builder
			for _, tok := range tokens {
				initials.WriteByte(tok[0])
			}
			if initials.Len() >= MinAbbreviationLength && initials.Len() <= MaxAbbreviationLength {
				add(initials.String())
			}
		}

		// Initials of the first two / three tokens
		if len(tokens) >= 2 {
			add(string(tokens[0][0]) + string(tokens[1][0]))
		}
		if len(tokens) >= 3 {
			add(string(tokens[0][0]) + string(tokens[1][0]) + string(tokens[2][0]))
		}

		// Prefixes of the first token
		if len(first) >= 3 {
			add(first[:3])
		}
		if len(first) >= 4 {
			add(first[:4])
		}

		// The first token itself, when short enough to be usable
		if len(first) >= 2 && len(first) <= 6 {
			add(first)
		}

		// Short first token plus the second token's initial
		if len(first) <= 4 && len(tokens) >= 2 {
			add(first + string(tokens[1][0]))
		}

		// Preserve a numeric fragment from the raw name (e.g. "3M", "A4")
		if run := digitRun.FindString(name); run != "" {
			prefix := first
			if len(prefix) > 3 {
				prefix = prefix[:3]
			}
			add(prefix + run)
		}
	}

	// Keep only grammar-valid candidates
	valid := candidates[:0]
	for _, c := range candidates {
		if ValidateAbbreviation(c).Valid {
			valid = append(valid, c)
		}
	}

	// Rank by closeness of length to the 3-4 character sweet spot,
	// preserving generation order on ties
	distance := func(c string) float64 {
		d := float64(len(c)) - 3.5
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return distance(valid[i]) < distance(valid[j])
	})

	if len(valid) > MaxAbbreviationSuggestions {
		valid = valid[:MaxAbbreviationSuggestions]
	}
	return valid
}
