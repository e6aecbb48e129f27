package inventory_test

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{6}$`)

func TestGenerateSKU_Formato(t *testing.T) {
	now := time.UnixMilli(1_718_000_000_000)
	names := []string{"Vis 3x40mm", "", "a", "Éco", "Peinture acrylique blanche 10L", "!!!", "àéîõü", "12"}
	for _, name := range names {
		sku := inventory.GenerateSKU(name, now)
		assert.Regexp(t, skuPattern, sku, "nombre %q", name)
	}
}

func TestGenerateSKU_Prefijos(t *testing.T) {
	now := time.UnixMilli(1_718_000_000_000)
	cases := map[string]string{
		"Vis 3x40mm": "VIS3",
		"":           "XXXX",
		"ab":         "ABXX",
		"Éco":        "COXX",
		"rouleau":    "ROUL",
		"--9--":      "9XXX",
	}
	for name, want := range cases {
		got := inventory.GenerateSKU(name, now)
		assert.Equal(t, want, got[:4], "nombre %q", name)
	}
}

func TestGenerateSKU_SufijoBase36(t *testing.T) {
	now := time.UnixMilli(1_718_000_000_000)
	full := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	sku := inventory.GenerateSKU("Vis", now)
	assert.Equal(t, full[len(full)-6:], sku[5:])
}
