// Package catalog lee catálogos de productos exportados por hojas de cálculo o ERPs.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Row una línea del catálogo. Category es una ruta "Peinture/Mur"; vacía = sin categoría.
type Row struct {
	Line     int
	Name     string
	SKU      string
	Category string
	Stock    int
	StockMin int
	StockMax int
	Price    *decimal.Decimal
}

// Options formato del archivo.
type Options struct {
	Charset string // utf-8 (por defecto) o latin1 / iso-8859-1 / windows-1252
	Comma   rune   // ';' por defecto, como exporta Excel en francés
}

var columns = []string{"name", "sku", "category", "stock", "stock_min", "stock_max", "price"}

// ErrHeader cabecera ausente o sin la columna name.
var ErrHeader = errors.New("catalog: la cabecera debe incluir al menos la columna name")

func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("catalog: charset no soportado %q", charset)
	}
}

// Read decodifica el CSV. La cabecera es obligatoria; el orden de columnas es libre y las
// columnas desconocidas se ignoran. Las líneas vacías se saltan.
func Read(r io.Reader, opts Options) ([]Row, error) {
	in, err := decoder(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.Comma = ';'
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrHeader
		}
		return nil, fmt.Errorf("catalog: cabecera: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, c := range columns {
			if h == c {
				idx[c] = i
			}
		}
	}
	if _, ok := idx["name"]; !ok {
		return nil, ErrHeader
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("name") == "" {
			continue
		}
		row := Row{Line: line, Name: get("name"), SKU: get("sku"), Category: get("category")}
		for col, dst := range map[string]*int{"stock": &row.Stock, "stock_min": &row.StockMin, "stock_max": &row.StockMax} {
			v := get(col)
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("catalog: línea %d: %s inválido %q", line, col, v)
			}
			*dst = n
		}
		if v := get("price"); v != "" {
			// coma decimal francesa
			d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("catalog: línea %d: price inválido %q", line, v)
			}
			row.Price = &d
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CategoryPath separa una ruta "Peinture / Mur" en segmentos no vacíos.
func CategoryPath(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
