package replacements

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrExpressionRequired     = errors.New("replacements: expression required")
	ErrExpressionMatchesEmpty = errors.New("replacements: expression matches the empty string")
)

// Pattern describes one substitutable marker. Marker is matched literally;
// Expr, when set, takes precedence and is matched as a regular expression.
type Pattern struct {
	Key    string         `json:"key"`
	Title  string         `json:"title"`
	Marker string         `json:"marker"`
	Expr   *regexp.Regexp `json:"-"`
}

// Literal builds a pattern matching marker verbatim.
func Literal(key, title, marker string) Pattern {
	return Pattern{Key: key, Title: title, Marker: marker}
}

// Expression builds a pattern matching a regular expression.
func Expression(key, title string, expr *regexp.Regexp) (Pattern, error) {
	if expr == nil {
		return Pattern{}, ErrExpressionRequired
	}
	pattern := Pattern{Key: key, Title: title, Expr: expr}
	if err := pattern.Validate(); err != nil {
		return Pattern{}, err
	}
	pattern.Marker = expr.String()
	return pattern, nil
}

// MustExpression is like Expression but panics on an invalid expression.
func MustExpression(key, title string, expr *regexp.Regexp) Pattern {
	pattern, err := Expression(key, title, expr)
	if err != nil {
		panic(err)
	}
	return pattern
}

// Validate rejects expressions that would match between every character.
func (p Pattern) Validate() error {
	if p.Expr == nil {
		return nil
	}
	if p.Expr.MatchString("") {
		return fmt.Errorf("%w: %s %q", ErrExpressionMatchesEmpty, p.Key, p.Expr.String())
	}
	return nil
}

func (p Pattern) source() string {
	if p.Expr != nil {
		return p.Expr.String()
	}
	return regexp.QuoteMeta(p.Marker)
}

func (p Pattern) groups() int {
	if p.Expr != nil {
		return p.Expr.NumSubexp()
	}
	return 0
}

// Provider supplies patterns, their live replacement values and the legend
// shown to editors.
type Provider interface {
	Patterns() []Pattern
	Replacements(ctx context.Context) (map[string]string, error)
	Legend() Legend
}

// Substitute rewrites body replacing every occurrence of each pattern whose key
// has a value in replacements. Replacement values are inserted literally and
// are never scanned again. Patterns without a value leave their markers as is.
// An invalid pattern fails the whole call and body is returned unchanged.
func Substitute(body string, patterns []Pattern, replacements map[string]string) (string, error) {
	if body == "" || len(patterns) == 0 || len(replacements) == 0 {
		return body, nil
	}

	keys := make([]string, 0, len(patterns))
	groups := make([]int, 0, len(patterns))
	parts := make([]string, 0, len(patterns))
	next := 1
	for _, pattern := range patterns {
		if _, ok := replacements[pattern.Key]; !ok {
			continue
		}
		if pattern.Expr == nil && pattern.Marker == "" {
			continue
		}
		if err := pattern.Validate(); err != nil {
			return body, err
		}
		// Each pattern is wrapped in one unnamed group; its own groups follow it.
		parts = append(parts, "("+pattern.source()+")")
		keys = append(keys, pattern.Key)
		groups = append(groups, next)
		next += 1 + pattern.groups()
	}
	if len(parts) == 0 {
		return body, nil
	}

	combined, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return body, fmt.Errorf("replacements: compile patterns: %w", err)
	}

	matches := combined.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, nil
	}

	var out strings.Builder
	out.Grow(len(body))
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		out.WriteString(body[last:start])
		key := ""
		for i, group := range groups {
			if match[2*group] >= 0 {
				key = keys[i]
				break
			}
		}
		out.WriteString(replacements[key])
		last = end
	}
	out.WriteString(body[last:])
	return out.String(), nil
}

// Compose merges providers. Later providers override patterns and values
// with the same key; legends are merged group by group.
func Compose(providers ...Provider) Provider {
	filtered := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			filtered = append(filtered, p)
		}
	}
	return composite(filtered)
}

type composite []Provider

func (c composite) Patterns() []Pattern {
	index := map[string]int{}
	var out []Pattern
	for _, provider := range c {
		for _, pattern := range provider.Patterns() {
			if pos, ok := index[pattern.Key]; ok {
				out[pos] = pattern
				continue
			}
			index[pattern.Key] = len(out)
			out = append(out, pattern)
		}
	}
	return out
}

func (c composite) Replacements(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	for _, provider := range c {
		values, err := provider.Replacements(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			out[k] = v
		}
	}
	return out, nil
}

func (c composite) Legend() Legend {
	var legend Legend
	for _, provider := range c {
		legend = legend.Merge(provider.Legend())
	}
	return legend
}

// Render substitutes body using everything the provider exposes.
func Render(ctx context.Context, provider Provider, body string) (string, error) {
	if provider == nil || body == "" {
		return body, nil
	}
	values, err := provider.Replacements(ctx)
	if err != nil {
		return "", err
	}
	return Substitute(body, provider.Patterns(), values)
}
