package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// DefaultLanguage is used when neither configuration nor fixture name one.
const DefaultLanguage = "en_US"

// Catalog is an immutable localization catalog built from a fixture.
type Catalog struct {
	defaultLanguage string
	languages       []interfaces.Language
	known           map[string]string
	translations    map[string]map[string]string
}

var _ interfaces.Localizer = (*Catalog)(nil)

// NewCatalog builds a catalog. languages overrides the fixture language list
// when non empty; defaultLanguage overrides the fixture default.
func NewCatalog(fx *Fixture, defaultLanguage string, languages []string) *Catalog {
	if fx == nil {
		fx = &Fixture{}
	}
	if len(languages) == 0 {
		languages = fx.Config.Languages
	}
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = fx.Config.DefaultLanguage
	}
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = DefaultLanguage
	}

	c := &Catalog{
		known:        map[string]string{},
		translations: map[string]map[string]string{},
	}
	for _, id := range append([]string{defaultLanguage}, languages...) {
		id = Canonical(id)
		if id == "" {
			continue
		}
		if _, seen := c.known[lookupKey(id)]; seen {
			continue
		}
		c.known[lookupKey(id)] = id
		c.languages = append(c.languages, interfaces.Language{ID: id, Name: DisplayName(id)})
	}
	c.defaultLanguage = Canonical(defaultLanguage)

	for lang, messages := range fx.Translations {
		copied := make(map[string]string, len(messages))
		for k, v := range messages {
			copied[k] = v
		}
		c.translations[lookupKey(lang)] = copied
	}
	return c
}

// Languages returns the known languages, default first.
func (c *Catalog) Languages() []interfaces.Language {
	return append([]interfaces.Language(nil), c.languages...)
}

func (c *Catalog) DefaultLanguage() string {
	return c.defaultLanguage
}

// Lookup resolves lang to the identifier of a known language. Case and the
// separator are ignored so "fr-fr" matches "fr_FR".
func (c *Catalog) Lookup(lang string) (string, bool) {
	id, ok := c.known[lookupKey(lang)]
	return id, ok
}

// Name returns the display name of a known language.
func (c *Catalog) Name(lang string) string {
	id, ok := c.Lookup(lang)
	if !ok {
		return lang
	}
	for _, l := range c.languages {
		if l.ID == id {
			return l.Name
		}
	}
	return id
}

// Translate looks key up for lang, then for a language sharing its base,
// then for the default language. The key itself is the last resort.
func (c *Catalog) Translate(lang, key string) string {
	if msg, ok := c.translations[lookupKey(lang)][key]; ok {
		return msg
	}
	if base := baseOf(lang); base != "" {
		for candidate, messages := range c.translations {
			if baseOf(candidate) != base {
				continue
			}
			if msg, ok := messages[key]; ok {
				return msg
			}
		}
	}
	if msg, ok := c.translations[lookupKey(c.defaultLanguage)][key]; ok {
		return msg
	}
	return key
}

// Canonical renders a language identifier in storage form, e.g. "fr_FR".
// Unparseable identifiers are returned trimmed.
func Canonical(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return trimmed
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No || !strings.ContainsAny(trimmed, "_-") {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// DisplayName returns the self name of a language, e.g. "Français".
func DisplayName(id string) string {
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return id
	}
	name := display.Self.Name(tag)
	if name == "" {
		return id
	}
	return cases.Title(tag).String(name)
}

func lookupKey(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), "-", "_"))
}

func baseOf(id string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(id), "_", "-"))
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
