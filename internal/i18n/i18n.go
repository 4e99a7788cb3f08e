// Package i18n resolves human-readable messages for problem-detail bodies.
// Supported locales are English (default), Spanish and Portuguese; the
// request locale is matched once from the Accept-Language header and carried
// in the request context.
package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
	language.Portuguese,
}

var matcher = language.NewMatcher(supported)

type ctxKey struct{}

// Resolve matches an Accept-Language header value against the supported
// locales. An empty or unparsable header resolves to English.
func Resolve(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return language.English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// WithLocale returns a context carrying the resolved request locale.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the request locale, or English when none was set.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return language.English
}

// Message looks up a key in the catalog for the given locale and formats it
// with args. Missing translations fall back to English; a key absent from
// every catalog is returned as-is so the failure stays visible.
func Message(tag language.Tag, key string, args ...any) string {
	catalog, ok := catalogs[tag]
	if !ok {
		catalog = catalogs[language.English]
	}
	tmpl, ok := catalog[key]
	if !ok {
		tmpl, ok = catalogs[language.English][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
