package personachat

import "strings"

// Local post-processing of decoded engine output. No model cost: whitespace
// cleanup, suppression of degenerate repetition, and truncation to the
// requested token budget.

// cleanDecoded trims the text and collapses runs of blank lines and spaces
// left behind by decoding.
func cleanDecoded(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// suppressRepetition drops consecutive duplicate lines and collapses an
// immediately repeated trailing sentence, the most common degenerate decode
// patterns from small models.
func suppressRepetition(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	var prev string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i > 0 && trimmed != "" && trimmed == prev {
			continue
		}
		kept = append(kept, line)
		prev = trimmed
	}
	out := strings.Join(kept, "\n")

	// Collapse "X. X." tail repeats within the final line.
	if i := strings.LastIndex(out, "\n"); i >= 0 {
		out = out[:i+1] + collapseRepeatedTail(out[i+1:])
	} else {
		out = collapseRepeatedTail(out)
	}
	return out
}

func collapseRepeatedTail(line string) string {
	sentences := strings.SplitAfter(line, ". ")
	if len(sentences) < 2 {
		return line
	}
	last := strings.TrimSpace(sentences[len(sentences)-1])
	secondLast := strings.TrimSpace(strings.TrimSuffix(sentences[len(sentences)-2], " "))
	if last != "" && last == secondLast {
		return strings.Join(sentences[:len(sentences)-1], "")
	}
	return line
}

// truncateToBudget deterministically truncates text to at most maxTokens
// whitespace-delimited tokens.
func truncateToBudget(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) <= maxTokens {
		return s
	}
	return strings.Join(fields[:maxTokens], " ")
}

// postprocessOutput runs the full cleanup pipeline for one decode.
func postprocessOutput(s string, maxTokens int) string {
	s = cleanDecoded(s)
	s = suppressRepetition(s)
	s = truncateToBudget(s, maxTokens)
	return strings.TrimSpace(s)
}
