// Package merge carries existing translations into freshly generated
// catalogs, the way msgmerge does for a template.
package merge

import (
	po "github.com/minios-linux/themekit/pofile"
)

// Merge returns a copy of fresh where every entry that also exists in
// existing (same msgctxt and msgid) keeps its translations, translator
// comments, and fuzzy flag.
//
//   - Header, entry order, and slot counts come from fresh.
//   - Entries only in existing are dropped.
//   - An entry whose plural shape changed keeps the first slot and is
//     marked fuzzy.
func Merge(existing, fresh *po.File) *po.File {
	result := &po.File{Header: fresh.Header.Clone()}

	byKey := make(map[string]*po.Entry, len(existing.Entries))
	for _, e := range existing.Entries {
		byKey[e.Key()] = e
	}

	for _, fe := range fresh.Entries {
		merged := fe.Clone()
		if old, ok := byKey[fe.Key()]; ok {
			merged.TranslatorComments = append([]string(nil), old.TranslatorComments...)
			merged.Flags = mergeFlags(old.Flags, fe.Flags)

			copy(merged.MsgStr, old.MsgStr)
			if old.IsPlural() != fe.IsPlural() && old.IsTranslated() && !merged.IsFuzzy() {
				merged.Flags = append([]string{"fuzzy"}, merged.Flags...)
			}
		}
		result.Entries = append(result.Entries, merged)
	}

	return result
}

// mergeFlags combines flags from the existing and fresh entries, keeping
// "fuzzy" first and the remaining flags in first-seen order.
func mergeFlags(oldFlags, newFlags []string) []string {
	seen := make(map[string]bool)
	var rest []string
	fuzzy := false

	for _, f := range append(append([]string(nil), oldFlags...), newFlags...) {
		if f == "fuzzy" {
			fuzzy = true
			continue
		}
		if !seen[f] {
			seen[f] = true
			rest = append(rest, f)
		}
	}

	if fuzzy {
		return append([]string{"fuzzy"}, rest...)
	}
	return rest
}
