// Package translator holds the message catalogs used for API error texts.
package translator

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	LanguagePtBR = "pt-BR"
	LanguageEn   = "en"
)

//go:embed translations/*.toml
var catalogs embed.FS

// Translator is the loaded bundle. It is nil until Init runs.
var Translator *i18n.Bundle

var fallback = LanguagePtBR

// Init loads the embedded catalogs. defaultLang is used when a request
// names no supported language.
func Init(defaultLang string) error {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.ReadDir(catalogs, "translations")
	if err != nil {
		return fmt.Errorf("failed to list translations: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(catalogs, path.Join("translations", f.Name())); err != nil {
			return fmt.Errorf("failed to load %s: %w", f.Name(), err)
		}
	}

	Translator = bundle
	fallback = tag.String()
	return nil
}

// Supported lists the languages with a catalog.
func Supported() []language.Tag {
	if Translator == nil {
		return nil
	}
	return Translator.LanguageTags()
}

// Message translates key for an Accept-Language style lang. Unknown keys
// come back unchanged.
func Message(lang, key string) string {
	return MessageWith(lang, key, nil)
}

// MessageWith is Message with template data.
func MessageWith(lang, key string, data map[string]interface{}) string {
	if Translator == nil {
		return key
	}

	l := i18n.NewLocalizer(Translator, lang, fallback)
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", key), zap.Error(err))
		return key
	}
	return msg
}
