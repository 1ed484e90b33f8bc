package utils

import "strings"

// Indent prefixes every non-empty line of text with indent.
func Indent(text, indent string) string {
	if len(strings.TrimSpace(text)) == 0 {
		return indent
	}

	var sb strings.Builder
	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(indent)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
