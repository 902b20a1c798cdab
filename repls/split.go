package repls

import "strings"

// Split separates a model reply into the statement to execute and the output the model expects.
// Continuation lines are those starting with "...", and indented lines following a line ending with ":" or "\".
func Split(reply string) (code string, expected string) {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	prevDemandsContinuation := false
	indentedContinuation := false
	firstOutput := len(lines)
	for i, line := range lines {
		if prevDemandsContinuation && strings.HasPrefix(line, "    ") {
			indentedContinuation = true
		}
		indentedContinuation = indentedContinuation && strings.HasPrefix(line, "    ")
		if i > 0 && !(prevDemandsContinuation ||
			strings.HasPrefix(line, "...") ||
			indentedContinuation) {
			firstOutput = i
			break
		}
		prevDemandsContinuation = strings.HasSuffix(line, ":") || strings.HasSuffix(line, "\\")
	}

	var b strings.Builder
	b.WriteString(lines[0])
	for _, line := range lines[1:firstOutput] {
		b.WriteString("\n")
		if strings.HasPrefix(line, "...") {
			if len(line) > 4 {
				line = line[4:]
			} else {
				line = ""
			}
		}
		b.WriteString(line)
	}
	code = b.String()
	expected = strings.Join(lines[firstOutput:], "\n")
	return
}
