package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-peinture-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Peintures Élégance & Fils": "peintures-elegance-fils",
		"  Déco  Maison ":           "deco-maison",
		"ÇA VA 2024":                "ca-va-2024",
		"---":                       "",
		"L'Atelier du Peintre":      "l-atelier-du-peintre",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "entrada %q", in)
	}
}

func TestMake_LongitudMaxima(t *testing.T) {
	s := slug.Make(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len(s), 48)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("deco-maison"))
	assert.False(t, slug.Valid("Déco Maison"))
	assert.False(t, slug.Valid(""))
}
