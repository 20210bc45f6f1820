package readability

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// getLanguage names the language of the article in plain English. A
// custom detector, when configured, gets the serialized content; otherwise
// the page's own locale hints are resolved.
func (r *Readability) getLanguage(ctx context.Context, content, locale string) string {
	if r.options.languageDetector != nil {
		lang, err := r.options.languageDetector(ctx, content)
		if err != nil {
			r.log.Debug().Err(err).Msg("language detection failed")
		} else if lang != "" {
			return lang
		}
	}

	for _, hint := range []string{locale, r.languageCode} {
		if name := languageName(hint); name != "" {
			return name
		}
	}
	return "English"
}

// languageName resolves a BCP 47 tag or POSIX style locale ("en_US") to
// the English name of its base language.
func languageName(hint string) string {
	hint = strings.TrimSpace(strings.ReplaceAll(hint, "_", "-"))
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return display.English.Languages().Name(language.Make(base.String()))
}
