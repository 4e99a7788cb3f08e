package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"es-ES,es;q=0.9,en;q=0.5", language.Spanish},
		{"pt-BR", language.Portuguese},
		{"fr-FR,fr;q=0.9", language.English}, // unsupported falls back
		{"garbage;;;", language.English},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.header), "header %q", tc.header)
	}
}

func TestMessageLocalizes(t *testing.T) {
	assert.Equal(t, "id not found", Message(language.English, "exception_id_not_found"))
	assert.Equal(t, "id no encontrado", Message(language.Spanish, "exception_id_not_found"))
}

func TestMessageFormatsArgs(t *testing.T) {
	assert.Equal(t, "no user exists with id 42",
		Message(language.English, "exception_id_not_found_user_detail", int64(42)))
	assert.Equal(t, "no existe un usuario con id 42",
		Message(language.Spanish, "exception_id_not_found_user_detail", int64(42)))
}

func TestMessageUnknownKeyFallsBack(t *testing.T) {
	// unknown keys surface as-is rather than panicking or vanishing
	assert.Equal(t, "no_such_key", Message(language.Spanish, "no_such_key"))
}

func TestLocaleContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, language.English, FromContext(ctx), "default locale is English")

	ctx = WithLocale(ctx, language.Portuguese)
	assert.Equal(t, language.Portuguese, FromContext(ctx))
}
