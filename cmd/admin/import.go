package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	appcatalog "github.com/jhoicas/stock-peinture-api/internal/application/catalog"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/postgres"
)

var importFlags struct {
	org     string
	user    string
	file    string
	charset string
	comma   string
}

var importCmd = &cobra.Command{
	Use:   "import-catalog",
	Short: "Importa productos y categorías desde un CSV",
	Long: `Columnas reconocidas: name (obligatoria), sku, category ("Peinture/Mur"), stock,
stock_min, stock_max, price. El stock inicial queda registrado como movimiento de entrada.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		comma, size := utf8.DecodeRuneInString(importFlags.comma)
		if size == 0 || size != len(importFlags.comma) {
			return fmt.Errorf("--comma debe ser un único carácter")
		}
		f, err := os.Open(importFlags.file)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := catalog.Read(f, catalog.Options{Charset: importFlags.charset, Comma: comma})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.pool.Close()

		// Invalida las estadísticas en Redis si la API lo usa; si no, caducan por TTL.
		var statsCache ports.Cache
		if e.cfg.Redis.Enabled {
			rc, err := cache.NewRedisCache(ctx, e.cfg.Redis)
			if err != nil {
				e.log.Warn().Err(err).Msg("redis no disponible, las estadísticas caducarán por TTL")
			} else {
				defer rc.Close()
				statsCache = rc
			}
		}

		categoryRepo := postgres.NewCategoryRepository(e.pool)
		categories := usecase.NewCategoryUseCase(categoryRepo, statsCache, e.log)
		products := usecase.NewProductUseCase(
			postgres.NewProductRepository(e.pool), categoryRepo, postgres.NewTxRunner(e.pool), statsCache, e.log,
		)

		rep, err := appcatalog.NewImportUseCase(categories, products, e.log.Component("import")).
			Import(ctx, importFlags.org, importFlags.user, rows)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.org, "org", "", "id de la organización")
	f.StringVar(&importFlags.user, "user", "", "id del usuario que firma los movimientos de entrada")
	f.StringVar(&importFlags.file, "file", "", "ruta del CSV")
	f.StringVar(&importFlags.charset, "charset", "utf-8", "utf-8 | latin1 | windows-1252")
	f.StringVar(&importFlags.comma, "comma", ";", "separador de columnas")
	for _, name := range []string{"org", "user", "file"} {
		_ = importCmd.MarkFlagRequired(name)
	}
}
