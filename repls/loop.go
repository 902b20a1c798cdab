package repls

import (
	"slices"
	"strings"
)

// Conversational reports whether a statement talks to the user.
func Conversational(statement string) bool {
	return strings.Contains(statement, "say") || strings.Contains(statement, "ask")
}

// DetectLoop reports whether the end of log repeats itself.
// A single conversational statement is a loop once it occurs twice in a row; anything else after three consecutive occurrences of the repeating unit.
func DetectLoop(log []string, conversational func(string) bool) bool {
	n := len(log)
	for unit := 1; unit*2 <= n; unit++ {
		last := log[n-unit:]
		occurrences := 1
		for end := n - unit; end-unit >= 0 && slices.Equal(log[end-unit:end], last); end -= unit {
			occurrences++
		}
		threshold := 3
		if unit == 1 && conversational != nil && conversational(log[n-1]) {
			threshold = 2
		}
		if occurrences >= threshold {
			return true
		}
	}
	return false
}
