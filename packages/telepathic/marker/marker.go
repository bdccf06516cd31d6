// Package marker finds ${...} interpolation markers in template text and
// turns them into property paths.
package marker

import (
	"regexp"
	"strings"

	"telepathic-go/packages/telepathic/util"
)

// InterpolationConfig represents the configuration for interpolation symbols
type InterpolationConfig struct {
	Start     string
	End       string
	SelfToken string

	re *regexp.Regexp
}

// DefaultInterpolationConfig is the default interpolation configuration
var DefaultInterpolationConfig = NewInterpolationConfig("${", "}", "this.")

// NewInterpolationConfig creates a config for markers written start...end.
// Inside a marker a backslash escapes the following character, so an escaped
// first character of end does not close it.
func NewInterpolationConfig(start, end, selfToken string) *InterpolationConfig {
	body := `[^\\` + regexp.QuoteMeta(end[:1]) + `]`
	return &InterpolationConfig{
		Start:     start,
		End:       end,
		SelfToken: selfToken,
		re:        regexp.MustCompile(regexp.QuoteMeta(start) + `(` + body + `*(?:\\.` + body + `*)*)` + regexp.QuoteMeta(end)),
	}
}

// Discover returns the distinct markers of text in first-seen order
func (c *InterpolationConfig) Discover(text string) []Marker {
	matches := c.re.FindAllString(text, -1)
	markers := make([]Marker, 0, len(matches))
	for _, m := range util.Uniq(matches) {
		markers = append(markers, Marker(m))
	}
	return markers
}

// Expression returns the text of m between the delimiters
func (c *InterpolationConfig) Expression(m Marker) string {
	s := strings.TrimPrefix(string(m), c.Start)
	return strings.TrimSuffix(s, c.End)
}

// Path derives the property path of m: escapes are resolved, surrounding
// space is trimmed and a leading SelfToken is stripped
func (c *InterpolationConfig) Path(m Marker) Path {
	expr := strings.TrimSpace(c.unescape(c.Expression(m)))
	if c.SelfToken != "" {
		expr = strings.TrimPrefix(expr, c.SelfToken)
	}
	return Path(expr)
}

// unescape resolves the escaped closing delimiter, the only escape defined
func (c *InterpolationConfig) unescape(s string) string {
	return util.ReplaceAllOccurrences(s, `\`+c.End[:1], c.End[:1])
}

// Marker is the literal marker text, e.g. "${this.user.name}"
type Marker string

// Expression returns the text between the default delimiters
func (m Marker) Expression() string {
	return DefaultInterpolationConfig.Expression(m)
}

// Path derives the property path using the default self token
func (m Marker) Path() Path {
	return DefaultInterpolationConfig.Path(m)
}

// PathWithSelf derives the property path, stripping selfToken when the
// expression starts with it
func (m Marker) PathWithSelf(selfToken string) Path {
	c := *DefaultInterpolationConfig
	c.SelfToken = selfToken
	return c.Path(m)
}

// Discover returns the distinct ${...} markers of text in first-seen order
func Discover(text string) []Marker {
	return DefaultInterpolationConfig.Discover(text)
}

// Path is a dotted property path such as "user.address.city"
type Path string

// Segments splits the path on periods
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Prefixes returns every prefix of the path including the path itself,
// shortest first: "a.b.c" yields "a", "a.b", "a.b.c"
func (p Path) Prefixes() []Path {
	segments := p.Segments()
	out := make([]Path, len(segments))
	for i := range segments {
		out[i] = Path(strings.Join(segments[:i+1], "."))
	}
	return out
}

// IsNested reports whether the path has more than one segment
func (p Path) IsNested() bool {
	return strings.Contains(string(p), ".")
}

// Valid reports whether every segment is non-empty
func (p Path) Valid() bool {
	if p == "" {
		return false
	}
	for _, seg := range p.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	return string(p)
}
