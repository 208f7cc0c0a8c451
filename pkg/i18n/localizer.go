package i18n

import (
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

type Localizer struct {
	bundle    *goi18n.Bundle
	mu        sync.Mutex
	localizer map[string]*goi18n.Localizer
}

// NewLocalizer loads the embedded message files of the given languages.
func NewLocalizer(langs ...string) *Localizer {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, lang := range langs {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+lang+".toml"); err != nil {
			panic(err)
		}
	}
	return &Localizer{
		bundle:    bundle,
		localizer: make(map[string]*goi18n.Localizer),
	}
}

// Message translates id for the Accept-Language header value, falling back to
// the id itself when no translation exists.
func (l *Localizer) Message(acceptLanguage, id string) string {
	l.mu.Lock()
	lz, ok := l.localizer[acceptLanguage]
	if !ok {
		lz = goi18n.NewLocalizer(l.bundle, acceptLanguage, DEFAULT_LANG)
		l.localizer[acceptLanguage] = lz
	}
	l.mu.Unlock()

	msg, err := lz.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
