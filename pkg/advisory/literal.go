package advisory

import (
	"errors"
	"fmt"
	"strings"
)

var errUnterminatedString = errors.New("unterminated string")

// ParseList parses a list literal of quoted strings as vendor files write them, e.g. "['git', \"curl\"]".
// Both quote styles and backslash escapes are accepted, as is a trailing comma. Anything else
// (bare words, numbers, nested lists) is rejected.
func ParseList(literal string) ([]string, error) {
	p := listParser{input: strings.TrimSpace(literal)}
	items, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("invalid list literal %q: %w", literal, err)
	}
	return items, nil
}

type listParser struct {
	input string
	pos   int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, fmt.Errorf("expected '[' at offset %d", p.pos)
	}

	items := []string{}
	for {
		p.skipSpace()
		if p.consume(']') {
			break
		}

		item, err := p.parseString()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(']') {
			break
		}
		if !p.consume(',') {
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}

	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing content at offset %d", p.pos)
	}
	return items, nil
}

func (p *listParser) parseString() (string, error) {
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}
	quote := p.input[p.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected quoted string at offset %d", p.pos)
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.input) {
				return "", errUnterminatedString
			}
			sb.WriteString(unescape(p.input[p.pos+1]))
			p.pos += 2
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", errUnterminatedString
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\', '\'', '"':
		return string(c)
	}
	// unknown escapes are kept verbatim
	return "\\" + string(c)
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}
