package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reusee/tairepl/transcripts"
)

const TriggerStatement = "wait_for_trigger()"

var userInputPattern = regexp.MustCompile(`ask\(('[^']+'|"[^"]+")\)|` + regexp.QuoteMeta(TriggerStatement))

// ExtractQueries returns the queries answering trigger statements and ask calls, oldest first.
// Calls followed by another statement line instead of a result are skipped.
func ExtractQueries(transcript string) ([]Query, error) {
	var ret []Query
	for _, loc := range userInputPattern.FindAllStringIndex(transcript, -1) {
		start := loc[1] + 1
		if start >= len(transcript) {
			continue
		}
		end := strings.IndexByte(transcript[start:], '\n')
		if end == -1 {
			end = len(transcript)
		} else {
			end += start
		}
		line := transcript[start:end]
		if line == "" ||
			strings.HasPrefix(line, transcripts.PromptMarker) ||
			strings.HasPrefix(line, transcripts.ContinuationMarker) {
			continue
		}
		query, err := ParseQuery(line)
		if err != nil {
			return nil, fmt.Errorf("parse response line %q: %w", line, err)
		}
		ret = append(ret, query)
	}
	return ret, nil
}
