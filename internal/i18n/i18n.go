// Package i18n renders localized USSD text.
//
// Rendering is a pure lookup: (key, locale, args) -> string. A missing
// key or locale falls back to English rather than failing the dialog;
// a key missing everywhere renders as the key itself so the gap is
// visible in gateway logs instead of dropping the turn.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/umurima-rw/umurima/internal/domain"
)

// Render returns the localized text for a message key, interpolating args
// with Sprintf when the catalog entry carries verbs.
func Render(key string, locale domain.Language, args ...interface{}) string {
	msg, ok := catalog[locale][key]
	if !ok {
		msg, ok = catalog[domain.LangEnglish][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// NumberedList renders names as a 1-based numbered menu, one option per
// line. "0" is reserved platform-wide for back navigation and is never
// produced here.
func NumberedList(names []string) string {
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(name)
	}
	return b.String()
}

// ParseChoice interprets a menu selection against a list of n options.
// It returns the zero-based index, or ok=false for anything that is not
// a digit in [1, n]. "0" is not a choice; callers handle back explicitly.
func ParseChoice(input string, n int) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx - 1, true
}
