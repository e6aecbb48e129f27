package inventory

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	skuPrefixLen = 4
	skuSuffixLen = 6
	skuPad       = 'X'
)

var upper = cases.Upper(language.Und)

// GenerateSKU construye un SKU "PREF-XXXXXX" a partir del nombre del producto.
// Prefijo: nombre en mayúsculas, solo [A-Z0-9], primeros 4 caracteres rellenados con 'X'.
// Sufijo: últimos 6 caracteres de now en milisegundos, en base 36 y mayúsculas.
// Los caracteres acentuados se descartan (no se transliteran): "Éco" -> "COXX".
func GenerateSKU(name string, now time.Time) string {
	var b strings.Builder
	for _, r := range upper.String(name) {
		if b.Len() == skuPrefixLen {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	for b.Len() < skuPrefixLen {
		b.WriteRune(skuPad)
	}

	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	if len(ts) > skuSuffixLen {
		ts = ts[len(ts)-skuSuffixLen:]
	}
	for len(ts) < skuSuffixLen {
		ts = "0" + ts
	}
	return b.String() + "-" + ts
}
