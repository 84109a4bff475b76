package sqlfill

import (
	"strings"

	"github.com/nao1215/sqlfill/domain/model"
)

// tokenKind classifies a template segment
type tokenKind int

const (
	// tokenLiteral is plain template text
	tokenLiteral tokenKind = iota
	// tokenPerRow is a {key} placeholder
	tokenPerRow
	// tokenAggregate is a {{key}} placeholder
	tokenAggregate
)

// segment is one piece of a tokenized template.
type segment struct {
	kind tokenKind
	// text is the exact source text of the segment, braces included
	text string
	// key is the placeholder key; empty for literals
	key string
}

// tokenizedTemplate is a template split into literal and placeholder segments.
type tokenizedTemplate []segment

// tokenize scans tpl once from left to right. At every '{' a balanced
// "{{key}}" is tried before "{key}"; a key is a non-empty run of characters
// other than '{' and '}'. Braces that do not form a placeholder stay literal.
func tokenize(tpl string) tokenizedTemplate {
	var (
		out     tokenizedTemplate
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			out = append(out, segment{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(tpl); {
		if tpl[i] != '{' {
			literal.WriteByte(tpl[i])
			i++
			continue
		}
		if key, n, ok := scanPlaceholder(tpl[i:], 2); ok {
			flush()
			out = append(out, segment{kind: tokenAggregate, text: tpl[i : i+n], key: key})
			i += n
			continue
		}
		if key, n, ok := scanPlaceholder(tpl[i:], 1); ok {
			flush()
			out = append(out, segment{kind: tokenPerRow, text: tpl[i : i+n], key: key})
			i += n
			continue
		}
		literal.WriteByte(tpl[i])
		i++
	}
	flush()
	return out
}

// scanPlaceholder matches depth opening braces, a key, and depth closing
// braces at the start of s. It returns the key and the matched length.
func scanPlaceholder(s string, depth int) (string, int, bool) {
	open := strings.Repeat("{", depth)
	if !strings.HasPrefix(s, open) {
		return "", 0, false
	}
	rest := s[depth:]
	end := strings.IndexAny(rest, "{}")
	if end <= 0 || rest[end] != '}' {
		return "", 0, false
	}
	if !strings.HasPrefix(rest[end:], strings.Repeat("}", depth)) {
		return "", 0, false
	}
	return rest[:end], depth + end + depth, true
}

// mode reports aggregate mode when at least one {{key}} token is present.
func (t tokenizedTemplate) mode() model.Mode {
	for _, s := range t {
		if s.kind == tokenAggregate {
			return model.ModeAggregate
		}
	}
	return model.ModePerRow
}

// keys returns the distinct keys of the given token kind in first-use order.
func (t tokenizedTemplate) keys(kind tokenKind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range t {
		if s.kind != kind {
			continue
		}
		if _, ok := seen[s.key]; ok {
			continue
		}
		seen[s.key] = struct{}{}
		out = append(out, s.key)
	}
	return out
}

// render rebuilds the template, replacing tokens of kind via fn. Tokens of
// other kinds are emitted verbatim.
func (t tokenizedTemplate) render(kind tokenKind, fn func(key string) string) string {
	var b strings.Builder
	for _, s := range t {
		if s.kind == kind {
			b.WriteString(fn(s.key))
			continue
		}
		b.WriteString(s.text)
	}
	return b.String()
}

// DetectMode reports how template would be expanded.
func DetectMode(template string) model.Mode {
	return tokenize(template).mode()
}

// Placeholders returns the distinct placeholder keys of template for its
// mode, in order of first use.
func Placeholders(template string) []string {
	t := tokenize(template)
	if t.mode() == model.ModeAggregate {
		return t.keys(tokenAggregate)
	}
	return t.keys(tokenPerRow)
}
