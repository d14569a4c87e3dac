package protocol

import "strings"

// Diagnostics returned to the model as tool output for unparseable replies.
const (
	diagNoCommand       = "No tool command found."
	diagBadWriteMarkers = "Error: Invalid WRITE_FILE format. Use <<<< and >>>>"
)

// Parse turns a raw model reply into a Command. The first line picks the
// keyword; WRITE_FILE and DONE additionally read a marker-delimited
// payload from the rest of the reply. Parse never panics: anything that
// does not match the grammar comes back as Malformed.
func Parse(reply string) Command {
	firstLine := reply
	if i := strings.Index(reply, "\n"); i >= 0 {
		firstLine = reply[:i]
	}
	firstLine = strings.TrimSpace(firstLine)

	keyword, arg, hasArg := strings.Cut(firstLine, " ")
	arg = strings.TrimSpace(arg)
	if arg == "" {
		hasArg = false
	}

	switch keyword {
	case KeywordReadFile:
		if !hasArg {
			return Malformed{Diagnostic: "Error: READ_FILE requires a path"}
		}
		return ReadFile{Path: arg}

	case KeywordListFiles:
		if !hasArg {
			return ListFiles{Path: "."}
		}
		return ListFiles{Path: arg}

	case KeywordWriteFile:
		if !hasArg {
			return Malformed{Diagnostic: "Error: WRITE_FILE requires a path"}
		}
		content, ok := extractPayload(reply)
		if !ok {
			return Malformed{Diagnostic: diagBadWriteMarkers}
		}
		return WriteFile{Path: arg, Content: content}

	case KeywordExecCmd:
		if !hasArg {
			return Malformed{Diagnostic: "Error: EXEC_CMD requires a command"}
		}
		return ExecCmd{Command: arg}

	case KeywordDone:
		done := Done{Title: arg}
		if strings.Contains(reply, OpenMarker) {
			body, ok := extractPayload(reply)
			if !ok {
				return Malformed{Diagnostic: "Error: Invalid DONE format. Use <<<< and >>>>"}
			}
			done.Body = body
			done.HasBody = true
		}
		return done
	}

	return Malformed{Diagnostic: diagNoCommand}
}

// SignalsCompletion reports whether the reply ends the run. The keyword
// counts anywhere in the reply, not only as the first-line command; this
// looser test predates the strict grammar and is kept so that replies
// which explain themselves before finishing still terminate.
func SignalsCompletion(reply string) bool {
	return strings.Contains(reply, KeywordDone)
}

// DoneFromReply extracts the Done command from a reply that passed
// SignalsCompletion. The title is the first line with every DONE
// occurrence removed; the body is everything after the open marker,
// bounded by the close marker when one exists.
func DoneFromReply(reply string) Done {
	firstLine := reply
	if i := strings.Index(reply, "\n"); i >= 0 {
		firstLine = reply[:i]
	}
	title := strings.TrimSpace(strings.ReplaceAll(firstLine, KeywordDone, ""))

	done := Done{Title: title}
	if _, after, found := strings.Cut(reply, OpenMarker); found {
		if body, _, closed := strings.Cut(after, CloseMarker); closed {
			done.Body = trimPayload(body)
		} else {
			done.Body = trimPayload(after)
		}
		done.HasBody = true
	}
	return done
}

// extractPayload returns the text strictly between the first open marker
// and the following close marker. It fails when either marker is absent.
func extractPayload(reply string) (string, bool) {
	_, after, found := strings.Cut(reply, OpenMarker)
	if !found {
		return "", false
	}
	payload, _, closed := strings.Cut(after, CloseMarker)
	if !closed {
		return "", false
	}
	return trimPayload(payload), true
}

// trimPayload strips one leading newline, then surrounding whitespace.
func trimPayload(payload string) string {
	payload = strings.TrimPrefix(payload, "\n")
	return strings.TrimSpace(payload)
}
