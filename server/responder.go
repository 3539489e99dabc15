package server

import "strings"

// The responder output follows a strict line-oriented grammar:
//
//	SUMMARY: <one sentence>
//	TOOLS: <comma-separated or NONE>
//	ANSWER:
//	<markdown, to end of payload>
//
// When no ANSWER sentinel appears the whole payload is treated as the
// answer.

// ParsedResponse is a fully parsed responder payload.
type ParsedResponse struct {
	Reply   string
	Summary string
	Tools   []string
}

// ParseResponder parses a complete responder payload.
func ParseResponder(raw string) ParsedResponse {
	parsed := ParsedResponse{
		Reply:   strings.TrimSpace(raw),
		Summary: "(summary unavailable)",
		Tools:   []string{},
	}

	rest := raw
	for rest != "" {
		line, remainder := nextLine(rest)
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(upper, "SUMMARY:"):
			if summary := valueAfter(line, "SUMMARY:"); summary != "" {
				parsed.Summary = summary
			}
		case strings.HasPrefix(upper, "TOOLS:"):
			parsed.Tools = parseTools(valueAfter(line, "TOOLS:"))
		case strings.HasPrefix(upper, "ANSWER:"):
			answer := valueAfter(line, "ANSWER:")
			if remainder != "" {
				if answer != "" {
					answer += "\n"
				}
				answer += remainder
			}
			parsed.Reply = strings.TrimSpace(answer)
			return parsed
		}
		rest = remainder
	}
	return parsed
}

// responderStream incrementally parses a streamed responder payload,
// emitting the meta line once the ANSWER sentinel is seen and raw
// deltas afterwards.
type responderStream struct {
	buffer        string
	answerStarted bool
	summary       string
	tools         []string

	onMeta  func(summary string, tools []string)
	onDelta func(delta string)
}

func newResponderStream(onMeta func(string, []string), onDelta func(string)) *responderStream {
	return &responderStream{
		summary: "(summary unavailable)",
		tools:   []string{},
		onMeta:  onMeta,
		onDelta: onDelta,
	}
}

// feed consumes one chunk of streamed text.
func (s *responderStream) feed(chunk string) {
	if s.answerStarted {
		s.onDelta(chunk)
		return
	}

	s.buffer += chunk
	for {
		idx := strings.Index(s.buffer, "\n")
		if idx == -1 {
			return
		}
		line := strings.TrimSpace(s.buffer[:idx])
		s.buffer = s.buffer[idx+1:]

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "SUMMARY:"):
			if summary := valueAfter(line, "SUMMARY:"); summary != "" {
				s.summary = summary
			}
		case strings.HasPrefix(upper, "TOOLS:"):
			s.tools = parseTools(valueAfter(line, "TOOLS:"))
		case strings.HasPrefix(upper, "ANSWER:"):
			s.answerStarted = true
			s.onMeta(s.summary, s.tools)
			if rest := valueAfter(line, "ANSWER:"); rest != "" {
				s.onDelta(rest + "\n")
			}
			if s.buffer != "" {
				s.onDelta(s.buffer)
				s.buffer = ""
			}
			return
		}
	}
}

func nextLine(text string) (line, rest string) {
	idx := strings.Index(text, "\n")
	if idx == -1 {
		return text, ""
	}
	return text[:idx], text[idx+1:]
}

func valueAfter(line, prefix string) string {
	trimmed := strings.TrimSpace(line)
	return strings.TrimSpace(trimmed[len(prefix):])
}

func parseTools(raw string) []string {
	if raw == "" || strings.EqualFold(raw, "NONE") {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tools := make([]string, 0, len(parts))
	for _, part := range parts {
		if tool := strings.TrimSpace(part); tool != "" {
			tools = append(tools, tool)
		}
	}
	return tools
}
