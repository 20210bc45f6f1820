package readability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "English", languageName("en_US"))
	assert.Equal(t, "French", languageName("fr"))
	assert.Equal(t, "Chinese", languageName("zh-CN"))
	assert.Equal(t, "", languageName(""))
	assert.Equal(t, "", languageName("not a locale"))
}

func TestGetLanguage(t *testing.T) {
	ctx := context.Background()

	t.Run("should prefer the configured detector", func(t *testing.T) {
		detector := func(ctx context.Context, content string) (string, error) {
			return "Italian", nil
		}
		r := mustNewParser(t, `<html lang="fr"><body></body></html>`, testURI, LanguageDetector(detector))
		assert.Equal(t, "Italian", r.getLanguage(ctx, "qualche testo", "fr-FR"))
	})

	t.Run("should fall back to locale hints when detection fails", func(t *testing.T) {
		detector := func(ctx context.Context, content string) (string, error) {
			return "", errors.New("service unavailable")
		}
		r := mustNewParser(t, `<html><body></body></html>`, testURI, LanguageDetector(detector))
		assert.Equal(t, "Spanish", r.getLanguage(ctx, "", "es"))
	})

	t.Run("should use the document lang attribute", func(t *testing.T) {
		r := mustNewParser(t, `<html lang="de"><body></body></html>`, testURI)
		r.languageCode = "de"
		assert.Equal(t, "German", r.getLanguage(ctx, "", ""))
	})

	t.Run("should default to english", func(t *testing.T) {
		r := mustNewParser(t, `<html><body></body></html>`, testURI)
		assert.Equal(t, "English", r.getLanguage(ctx, "", ""))
	})
}
