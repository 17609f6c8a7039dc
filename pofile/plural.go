package pofile

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultNPlurals is used when a Plural-Forms value has no usable
// nplurals clause.
const DefaultNPlurals = 2

// MaxNPlurals bounds accepted nplurals values. No language uses more than
// six forms; larger values are treated as malformed.
const MaxNPlurals = 16

var npluralsRe = regexp.MustCompile(`nplurals=(\d+)`)

// ParseNPlurals extracts the plural slot count from a Plural-Forms header
// value. ok is false when the clause is missing, unparsable, or outside
// 1..MaxNPlurals.
func ParseNPlurals(pluralForms string) (n int, ok bool) {
	m := npluralsRe.FindStringSubmatch(pluralForms)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > MaxNPlurals {
		return 0, false
	}
	return n, true
}

// NPlurals is ParseNPlurals with DefaultNPlurals substituted for unusable
// values.
func NPlurals(pluralForms string) int {
	if n, ok := ParseNPlurals(pluralForms); ok {
		return n
	}
	return DefaultNPlurals
}

// PluralFormsForLang returns the standard Plural-Forms header for a language code.
func PluralFormsForLang(lang string) string {
	base := lang
	if idx := strings.IndexAny(lang, "_-"); idx > 0 {
		base = lang[:idx]
	}

	switch strings.ToLower(base) {
	case "ja", "ko", "zh", "vi", "th", "id", "ms":
		return "nplurals=1; plural=0;"
	case "fr", "pt":
		return "nplurals=2; plural=(n > 1);"
	case "en", "de", "nl", "sv", "da", "no", "nb", "nn", "fi", "es", "it", "el", "he", "hu", "tr", "bg", "hi", "ur":
		return "nplurals=2; plural=(n != 1);"
	case "ru", "uk", "be", "hr", "sr", "bs":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "pl":
		return "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "cs", "sk":
		return "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);"
	case "ro":
		return "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);"
	case "lt":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "lv":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);"
	case "ar":
		return "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);"
	default:
		return "nplurals=2; plural=(n != 1);"
	}
}
