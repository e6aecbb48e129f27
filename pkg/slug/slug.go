// Package slug genera identificadores legibles para URLs a partir de nombres con acentos.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLen = 48

// Make convierte "Peintures Élégance & Fils" en "peintures-elegance-fils".
// Los acentos se transliteran (NFD + eliminación de marcas); todo lo que no sea [a-z0-9]
// se colapsa en un único guion.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimSuffix(out[:maxLen], "-")
	}
	return out
}

// Valid informa si s ya es un slug bien formado.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
