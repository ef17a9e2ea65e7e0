// Package match implements the '*' wildcard patterns used by per-target
// metric keep/drop lists.
package match

import "strings"

// Pattern is a compiled '*' wildcard matcher.
// Params: internal split segments and anchor flags.
// Returns: reusable matcher for many Match calls.
type Pattern struct {
	segments      []string
	anchoredStart bool
	anchoredEnd   bool
	matchAll      bool
}

// Compile compiles pattern into a reusable wildcard matcher.
// Params: pattern may contain '*' wildcards.
// Returns: compiled matcher and false when pattern is empty.
func Compile(pattern string) (Pattern, bool) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return Pattern{}, false
	}
	if p == "*" {
		return Pattern{matchAll: true}, true
	}

	return Pattern{
		segments:      strings.Split(p, "*"),
		anchoredStart: !strings.HasPrefix(p, "*"),
		anchoredEnd:   !strings.HasSuffix(p, "*"),
	}, true
}

// Match evaluates the compiled pattern against value.
// Params: value is compared text.
// Returns: true on pattern match.
func (p Pattern) Match(value string) bool {
	if p.matchAll {
		return true
	}
	if len(p.segments) == 0 {
		return false
	}

	cursor := 0
	index := 0

	if p.anchoredStart {
		first := p.segments[0]
		if !strings.HasPrefix(value, first) {
			return false
		}
		cursor = len(first)
		index = 1
	}

	last := len(p.segments) - 1
	limit := len(p.segments)
	if p.anchoredEnd {
		limit = last
	}

	for ; index < limit; index++ {
		segment := p.segments[index]
		if segment == "" {
			continue
		}
		offset := strings.Index(value[cursor:], segment)
		if offset < 0 {
			return false
		}
		cursor += offset + len(segment)
	}

	if p.anchoredEnd {
		end := p.segments[last]
		if end == "" {
			return true
		}
		return strings.HasSuffix(value, end)
	}

	return true
}

// List is an ordered group of compiled patterns.
// Params: none.
// Returns: matcher answering "does any pattern match".
type List []Pattern

// CompileList compiles every non-empty pattern in patterns.
// Params: patterns raw wildcard strings.
// Returns: compiled list; empty input yields an empty list.
func CompileList(patterns []string) List {
	list := make(List, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, ok := Compile(pattern)
		if !ok {
			continue
		}
		list = append(list, compiled)
	}
	return list
}

// MatchAny evaluates the list against value.
// Params: value is compared text.
// Returns: true when any pattern matches.
func (l List) MatchAny(value string) bool {
	for _, pattern := range l {
		if pattern.Match(value) {
			return true
		}
	}
	return false
}
