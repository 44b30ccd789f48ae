// Package language normalizes the language tags found on media streams so
// they can be compared with the user's preference list.
package language

import "strings"

// codes maps every accepted spelling to its ISO 639-1 code.
var codes = map[string]string{}

func init() {
	table := []struct {
		iso2  string
		other []string
	}{
		{"en", []string{"eng", "english"}},
		{"ja", []string{"jpn", "japanese"}},
		{"fr", []string{"fra", "fre", "french"}},
		{"de", []string{"deu", "ger", "german"}},
		{"es", []string{"spa", "spanish"}},
		{"it", []string{"ita", "italian"}},
		{"pt", []string{"por", "portuguese"}},
		{"nl", []string{"nld", "dut", "dutch"}},
		{"sv", []string{"swe", "swedish"}},
		{"ko", []string{"kor", "korean"}},
		{"zh", []string{"zho", "chi", "chinese"}},
		{"ru", []string{"rus", "russian"}},
		{"pl", []string{"pol", "polish"}},
		{"fi", []string{"fin", "finnish"}},
		{"da", []string{"dan", "danish"}},
		{"no", []string{"nor", "nob", "norwegian"}},
	}
	for _, row := range table {
		codes[row.iso2] = row.iso2
		for _, alias := range row.other {
			codes[alias] = row.iso2
		}
	}
}

// ToISO2 returns the ISO 639-1 code for a known code or English name. An
// unknown two-letter code passes through; anything else yields "".
func ToISO2(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	// "en-US" and "en_GB" style tags.
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if iso2, ok := codes[code]; ok {
		return iso2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// FromTags returns the normalized language of a stream's metadata tags.
func FromTags(tags map[string]string) string {
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang"} {
		if v := ToISO2(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeList maps each entry to ISO 639-1, dropping blanks, unknown
// names and duplicates while keeping preference order.
func NormalizeList(langs []string) []string {
	out := make([]string, 0, len(langs))
	seen := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		iso := ToISO2(l)
		if iso == "" {
			continue
		}
		if _, dup := seen[iso]; dup {
			continue
		}
		seen[iso] = struct{}{}
		out = append(out, iso)
	}
	return out
}

// Rank returns the position of lang in prefs, or -1.
func Rank(lang string, prefs []string) int {
	for i, p := range prefs {
		if p == lang {
			return i
		}
	}
	return -1
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "\x00", "")))
}
