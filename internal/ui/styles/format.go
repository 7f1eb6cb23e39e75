package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateString truncates s to maxWidth cells, ending in "..." when cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// FormatRevision renders a revision counter, "r3"; zero is unsaved.
func FormatRevision(rev int) string {
	if rev <= 0 {
		return "new"
	}
	return fmt.Sprintf("r%d", rev)
}
