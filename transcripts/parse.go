package transcripts

import "strings"

// Parse reads a rendered transcript back into items. Consecutive result lines form one Result.
func Parse(text string) (ret History) {
	for _, line := range strings.Split(text, "\n") {
		switch {

		case line == PromptMarker:
			ret.Append(InputPrompt{})

		case strings.HasPrefix(line, PromptMarker+" "):
			ret.Append(Command{
				Code: strings.TrimPrefix(line, PromptMarker+" "),
			})

		case strings.HasPrefix(line, ContinuationMarker):
			if cmd, ok := ret.Last().(Command); ok {
				ret.Pop()
				cmd.Code += "\n" + strings.TrimPrefix(strings.TrimPrefix(line, ContinuationMarker), " ")
				ret.Append(cmd)
				continue
			}
			ret.Append(Result{Content: line})

		default:
			if result, ok := ret.Last().(Result); ok {
				ret.Pop()
				result.Content += "\n" + line
				ret.Append(result)
				continue
			}
			ret.Append(Result{Content: line})

		}
	}
	return
}
