package interfaces

// Language describes one language known to the host application.
type Language struct {
	// ID is the stable identifier used in storage, e.g. en_US.
	ID string
	// Name is the human readable name, usually in the language itself.
	Name string
}

// Localizer is the localization catalog contract. Translations are looked up
// for an explicit language instead of a mutable "current language".
type Localizer interface {
	Languages() []Language
	DefaultLanguage() string
	Translate(lang, key string) string
}
