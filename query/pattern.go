package query

import (
	"regexp"
	"strings"
)

// SearchPattern is an ODBC catalog search pattern: '%' matches any sequence,
// '_' any single character and '\' escapes the next character. The empty
// pattern matches everything.
type SearchPattern struct {
	re *regexp.Regexp
}

func NewSearchPattern(pattern string) SearchPattern {
	if pattern == "" || pattern == "%" {
		return SearchPattern{}
	}
	var sb strings.Builder
	sb.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(".*")
		case r == '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		sb.WriteString(regexp.QuoteMeta(`\`))
	}
	sb.WriteString("$")
	return SearchPattern{re: regexp.MustCompile("(?s)" + sb.String())}
}

// Match reports whether name matches the pattern.
func (p SearchPattern) Match(name string) bool {
	return p.re == nil || p.re.MatchString(name)
}

// MatchesAll reports whether the pattern filters nothing.
func (p SearchPattern) MatchesAll() bool {
	return p.re == nil
}
