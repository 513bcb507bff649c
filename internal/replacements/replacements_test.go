package replacements_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-legalnotices/internal/replacements"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

func TestSubstitute(t *testing.T) {
	patterns := []replacements.Pattern{
		replacements.Literal("name", "Name", "{NAME}"),
		replacements.Literal("slogan", "Slogan", "{SLOGAN}"),
		replacements.MustExpression("year", "Year", regexp.MustCompile(`\{YEAR(:[a-z]+)?\}`)),
		replacements.MustExpression("ref", "Reference", regexp.MustCompile(`\{REF:(?P<p0>[0-9]+)\}`)),
	}

	cases := []struct {
		name   string
		body   string
		values map[string]string
		want   string
	}{
		{
			name:   "replaces every occurrence",
			body:   "<p>{NAME} and {NAME}</p>",
			values: map[string]string{"name": "Galette"},
			want:   "<p>Galette and Galette</p>",
		},
		{
			name:   "missing value leaves marker",
			body:   "{NAME} says {SLOGAN}",
			values: map[string]string{"name": "Galette"},
			want:   "Galette says {SLOGAN}",
		},
		{
			name:   "values are not rescanned",
			body:   "{NAME}",
			values: map[string]string{"name": "{SLOGAN}", "slogan": "nope"},
			want:   "{SLOGAN}",
		},
		{
			name:   "literal markers are not expressions",
			body:   "{NAME} NAME",
			values: map[string]string{"name": "x$1"},
			want:   "x$1 NAME",
		},
		{
			name:   "regular expression pattern",
			body:   "{YEAR} {YEAR:short}",
			values: map[string]string{"year": "2024"},
			want:   "2024 2024",
		},
		{
			name:   "named groups inside expressions do not shift keys",
			body:   "{NAME} {REF:42} {YEAR}",
			values: map[string]string{"name": "Galette", "ref": "#", "year": "2024"},
			want:   "Galette # 2024",
		},
		{
			name:   "empty body",
			body:   "",
			values: map[string]string{"name": "Galette"},
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := replacements.Substitute(tc.body, patterns, tc.values)
			if err != nil {
				t.Fatalf("Substitute() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("Substitute() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExpressionRejectsInvalidPatterns(t *testing.T) {
	if _, err := replacements.Expression("none", "None", nil); !errors.Is(err, replacements.ErrExpressionRequired) {
		t.Fatalf("expected missing expression error, got %v", err)
	}
	if _, err := replacements.Expression("any", "Any", regexp.MustCompile(`x*`)); !errors.Is(err, replacements.ErrExpressionMatchesEmpty) {
		t.Fatalf("expected empty match error, got %v", err)
	}
}

func TestSubstituteReportsInvalidPattern(t *testing.T) {
	patterns := []replacements.Pattern{
		replacements.Literal("name", "Name", "{NAME}"),
		{Key: "any", Title: "Any", Expr: regexp.MustCompile(`.*`)},
	}
	body := "{NAME}"
	got, err := replacements.Substitute(body, patterns, map[string]string{"name": "Galette", "any": "x"})
	if !errors.Is(err, replacements.ErrExpressionMatchesEmpty) {
		t.Fatalf("expected empty match error, got %v", err)
	}
	if got != body {
		t.Fatalf("expected body unchanged, got %q", got)
	}

	provider := staticProvider{patterns: patterns, values: map[string]string{"name": "Galette", "any": "x"}}
	if _, err := replacements.Render(context.Background(), provider, body); !errors.Is(err, replacements.ErrExpressionMatchesEmpty) {
		t.Fatalf("expected render to surface the pattern error, got %v", err)
	}
}

func TestPhoneLink(t *testing.T) {
	got := replacements.PhoneLink("+00 0 00 00 00 00")
	want := `<a href="tel:+00000000000">+00 0 00 00 00 00</a>`
	if got != want {
		t.Fatalf("PhoneLink() = %q, want %q", got, want)
	}
}

func TestEmailLink(t *testing.T) {
	cases := map[string]string{
		"contact@galette.eu": `<span class="obfuscate"><span class="u">contact</span> [at] <span class="d">galette<span class="p"> [dot] </span>eu</span></span>`,
		"nobody":             `<span class="obfuscate"><span class="u">nobody</span> [at] <span class="d"></span></span>`,
	}
	for email, want := range cases {
		if got := replacements.EmailLink(email); got != want {
			t.Fatalf("EmailLink(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestPagesProviderRendersLinks(t *testing.T) {
	org := replacements.StaticOrganization{
		Name:  "Galette",
		Phone: "+00 0 00 00 00 00",
		Email: "contact@galette.eu",
	}
	provider := replacements.NewPagesProvider(nil, org)

	body := "<p>{ASSO_NAME}: {ASSO_PHONE_LINK} / {ASSO_EMAIL_LINK}</p>"
	got, err := replacements.Render(context.Background(), provider, body)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, `<a href="tel:+00000000000">+00 0 00 00 00 00</a>`) {
		t.Fatalf("expected phone link, got %s", got)
	}
	if !strings.Contains(got, `<span class="u">contact</span> [at] `) {
		t.Fatalf("expected obfuscated email, got %s", got)
	}
	if !strings.HasPrefix(got, "<p>Galette: ") {
		t.Fatalf("expected organization name, got %s", got)
	}
}

func TestPagesProviderLegend(t *testing.T) {
	provider := replacements.NewPagesProvider(nil, replacements.StaticOrganization{})
	legend := provider.Legend()

	if _, ok := legend.Group(replacements.GroupMember); ok {
		t.Fatal("expected member group to be removed")
	}

	main, ok := legend.Group(replacements.GroupMain)
	if !ok {
		t.Fatal("expected main group")
	}
	hidden := map[string]bool{
		replacements.KeyLogo:      true,
		replacements.KeyPrintLogo: true,
		replacements.KeyDateNow:   true,
		replacements.KeyLoginURI:  true,
		replacements.KeyFooter:    true,
	}
	for _, pattern := range main.Patterns {
		if hidden[pattern.Key] {
			t.Fatalf("expected %s to be hidden from legend", pattern.Key)
		}
	}
	if len(main.Patterns) != 4 {
		t.Fatalf("expected 4 main patterns, got %d", len(main.Patterns))
	}

	pages, ok := legend.Group(replacements.GroupPages)
	if !ok || len(pages.Patterns) != 2 {
		t.Fatalf("expected pages group with two entries, got %+v", pages)
	}
	if pages.Patterns[0].Key != replacements.KeyPhoneLink || pages.Patterns[1].Key != replacements.KeyEmailLink {
		t.Fatalf("unexpected pages patterns %+v", pages.Patterns)
	}

	// The base legend is left intact.
	base := replacements.NewOrganizationProvider(replacements.StaticOrganization{})
	if _, ok := base.Legend().Group(replacements.GroupMember); !ok {
		t.Fatal("expected base legend to keep its member group")
	}
}

func TestOrganizationProviderDateAndLogo(t *testing.T) {
	provider := replacements.NewOrganizationProvider(
		replacements.StaticOrganization{Name: "Galette", LogoURL: "/logo.png"},
		replacements.WithOrganizationClock(func() time.Time {
			return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		}),
	)
	got, err := replacements.Render(context.Background(), provider, "{DATE_NOW} {ASSO_LOGO} {NAME_ADH}")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `2024-05-01 <img src="/logo.png" alt="Galette"/> {NAME_ADH}`
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestComposeOverridesAndPropagatesErrors(t *testing.T) {
	first := staticProvider{
		patterns: []replacements.Pattern{replacements.Literal("a", "A", "{A}")},
		values:   map[string]string{"a": "first"},
	}
	second := staticProvider{
		patterns: []replacements.Pattern{replacements.Literal("a", "A", "{A}")},
		values:   map[string]string{"a": "second"},
	}
	composed := replacements.Compose(first, nil, second)
	if got := len(composed.Patterns()); got != 1 {
		t.Fatalf("expected deduplicated patterns, got %d", got)
	}
	got, err := replacements.Render(context.Background(), composed, "{A}")
	if err != nil || got != "second" {
		t.Fatalf("Render() = %q, %v", got, err)
	}

	failing := staticProvider{err: errors.New("profile unavailable")}
	if _, err := replacements.Render(context.Background(), replacements.Compose(first, failing), "{A}"); err == nil {
		t.Fatal("expected provider error")
	}
}

type staticProvider struct {
	patterns []replacements.Pattern
	values   map[string]string
	err      error
}

func (s staticProvider) Patterns() []replacements.Pattern { return s.patterns }

func (s staticProvider) Replacements(context.Context) (map[string]string, error) {
	return s.values, s.err
}

func (s staticProvider) Legend() replacements.Legend { return nil }

var _ interfaces.OrganizationProvider = replacements.StaticOrganization{}
