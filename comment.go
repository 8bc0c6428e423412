package macmeta

import (
	"fmt"
	"strings"
)

// Finder comments can be read through the metadata item store but have no
// public write API; the desktop shell itself must be asked to set them.

func quoteAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func setFinderCommentScript(path, comment string) string {
	return fmt.Sprintf(
		`tell application "Finder" to set comment of (POSIX file %s as alias) to %s`,
		quoteAppleScript(path), quoteAppleScript(comment))
}

func clearFinderCommentScript(path string) string {
	return fmt.Sprintf(
		`tell application "Finder" to set comment of (POSIX file %s as alias) to missing value`,
		quoteAppleScript(path))
}
