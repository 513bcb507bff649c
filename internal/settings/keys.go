package settings

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-legalnotices/internal/i18n"
)

// Key names one setting of the closed settings schema.
type Key string

const (
	KeyEnableLegalInformation Key = "enable_legal_information"
	KeyEnableTermsOfService   Key = "enable_terms_of_service"
	KeyEnablePrivacyPolicy    Key = "enable_privacy_policy"
	KeyPublicPageLinks        Key = "publicpage_links"
	KeyFallbackLanguage       Key = "fallback_language"
	KeyEnableCMP              Key = "enable_cmp"
	KeyHideAcceptAll          Key = "hide_accept_all"
	KeyHideDeclineAll         Key = "hide_decline_all"
	KeyCookieExpiration       Key = "cookie_expiration"
	KeyCookieDomain           Key = "cookie_domain"
	KeyEnableLocalStorage     Key = "enable_localstorage"
)

// Kind is the type a stored value is coerced to on read.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

var (
	ErrUnknownSetting = errors.New("settings: unknown setting")
	ErrSettingNotSet  = errors.New("settings: setting is not set")
)

type definition struct {
	key      Key
	kind     Kind
	fallback string
}

// definitions is the schema, in storage order.
var definitions = []definition{
	{KeyEnableLegalInformation, KindBool, encodeBool(false)},
	{KeyEnableTermsOfService, KindBool, encodeBool(false)},
	{KeyEnablePrivacyPolicy, KindBool, encodeBool(false)},
	{KeyPublicPageLinks, KindBool, encodeBool(false)},
	{KeyFallbackLanguage, KindString, i18n.DefaultLanguage},
	{KeyEnableCMP, KindBool, encodeBool(false)},
	{KeyHideAcceptAll, KindBool, encodeBool(false)},
	{KeyHideDeclineAll, KindBool, encodeBool(false)},
	{KeyCookieExpiration, KindInt, "90"},
	{KeyCookieDomain, KindString, ""},
	{KeyEnableLocalStorage, KindBool, encodeBool(false)},
}

// pageKeys maps the page toggles to the page they enable.
var pageKeys = map[Key]string{
	KeyEnableLegalInformation: "legal-information",
	KeyEnableTermsOfService:   "terms-of-service",
	KeyEnablePrivacyPolicy:    "privacy-policy",
}

// Keys returns every known key in storage order.
func Keys() []Key {
	out := make([]Key, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def.key)
	}
	return out
}

// ParseKey validates name against the closed schema.
func ParseKey(name string) (Key, error) {
	for _, def := range definitions {
		if string(def.key) == name {
			return def.key, nil
		}
	}
	return "", ErrUnknownSetting
}

func (k Key) lookup() (definition, bool) {
	for _, def := range definitions {
		if def.key == k {
			return def, true
		}
	}
	return definition{}, false
}

// Kind returns the coercion applied to the key's values.
func (k Key) Kind() Kind {
	def, _ := k.lookup()
	return def.kind
}

// Default returns the key's default value.
func (k Key) Default() Value {
	def, _ := k.lookup()
	return Value{raw: def.fallback, kind: def.kind}
}

// Defaults returns the encoded default of every key.
func Defaults() map[Key]string {
	out := make(map[Key]string, len(definitions))
	for _, def := range definitions {
		out[def.key] = def.fallback
	}
	return out
}

// Value is a stored setting with its coercion kind. An empty raw value is
// never coerced so "unset" stays distinct from false or zero.
type Value struct {
	raw  string
	kind Kind
}

// NewValue wraps a raw stored value for key.
func NewValue(key Key, raw string) Value {
	return Value{raw: raw, kind: key.Kind()}
}

func (v Value) String() string { return v.raw }

func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports an empty stored value.
func (v Value) IsEmpty() bool { return v.raw == "" }

// Bool coerces the value; empty and the usual false spellings are false.
func (v Value) Bool() bool {
	return parseBool(v.raw)
}

// Int coerces the value, yielding 0 when it is empty or not a number.
func (v Value) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(v.raw))
	if err != nil {
		return 0
	}
	return n
}

// Typed returns the coerced value: bool, int or string. Empty values are
// returned as "".
func (v Value) Typed() any {
	if v.raw == "" {
		return ""
	}
	switch v.kind {
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	default:
		return v.raw
	}
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// normalize canonicalizes a value before it is staged. Booleans are stored as
// "1" or "0"; empty input stays empty.
func normalize(key Key, raw string) string {
	if raw == "" {
		return ""
	}
	if key.Kind() == KindBool {
		return encodeBool(parseBool(raw))
	}
	return raw
}
