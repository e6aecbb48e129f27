package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-peinture-api/internal/application/auth"
	appcatalog "github.com/jhoicas/stock-peinture-api/internal/application/catalog"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/postgres"
)

var seedFlags struct {
	email    string
	password string
	name     string
	orgName  string
	orgSlug  string
	demo     bool
}

// demoCatalog catálogo de ejemplo para una organización recién creada.
func demoCatalog() []catalog.Row {
	price := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}
	return []catalog.Row{
		{Line: 1, Name: "Peinture acrylique blanc mat 10L", SKU: "ACR-BM10", Category: "Peinture/Mur", Stock: 12, StockMin: 4, StockMax: 30, Price: price("89.90")},
		{Line: 2, Name: "Peinture satinée plafond 5L", SKU: "SAT-PL05", Category: "Peinture/Plafond", Stock: 6, StockMin: 2, StockMax: 15, Price: price("54.50")},
		{Line: 3, Name: "Sous-couche universelle 2,5L", SKU: "SCU-025", Category: "Peinture", Stock: 3, StockMin: 3, StockMax: 10, Price: price("32")},
		{Line: 4, Name: "Rouleau microfibre 180mm", SKU: "ROU-MF180", Category: "Outillage", Stock: 20, StockMin: 5, StockMax: 40, Price: price("7.80")},
		{Line: 5, Name: "Ruban de masquage 50m", SKU: "RUB-M50", Category: "Outillage", Stock: 0, StockMin: 10, StockMax: 60, Price: price("4.20")},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Crea un usuario owner y su organización",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.pool.Close()

		userRepo := postgres.NewUserRepository(e.pool)
		orgRepo := postgres.NewOrganizationRepository(e.pool)
		memberRepo := postgres.NewMemberRepository(e.pool)
		authUC := auth.NewAuthUseCase(userRepo, orgRepo, memberRepo, auth.JWTConfig{
			Secret:     e.cfg.JWT.Secret,
			ExpMinutes: e.cfg.JWT.Expiration,
			Issuer:     e.cfg.JWT.Issuer,
		})
		orgUC := usecase.NewOrganizationUseCase(orgRepo, memberRepo, userRepo)

		user, err := authUC.Register(ctx, dto.RegisterRequest{
			Email:    seedFlags.email,
			Password: seedFlags.password,
			Name:     seedFlags.name,
		})
		if err != nil {
			return err
		}
		org, err := orgUC.Create(ctx, user.ID, dto.CreateOrganizationRequest{Name: seedFlags.orgName, Slug: seedFlags.orgSlug})
		if err != nil {
			return err
		}
		if seedFlags.demo {
			if err := seedDemo(cmd, e, org.ID, user.ID); err != nil {
				return err
			}
		}
		e.log.Info().Str("user_id", user.ID).Str("organization_id", org.ID).Str("slug", org.Slug).Msg("seed completado")
		fmt.Fprintf(cmd.OutOrStdout(), "user=%s organization=%s\n", user.ID, org.ID)
		return nil
	},
}

func seedDemo(cmd *cobra.Command, e *env, organizationID, userID string) error {
	ctx := cmd.Context()
	categoryRepo := postgres.NewCategoryRepository(e.pool)
	categories := usecase.NewCategoryUseCase(categoryRepo, nil, e.log)
	products := usecase.NewProductUseCase(
		postgres.NewProductRepository(e.pool), categoryRepo, postgres.NewTxRunner(e.pool), nil, e.log,
	)
	technicians := usecase.NewTechnicianUseCase(
		postgres.NewTechnicianRepository(e.pool), postgres.NewTechnicianInventoryRepository(e.pool), nil, e.log,
	)

	rep, err := appcatalog.NewImportUseCase(categories, products, e.log).Import(ctx, organizationID, userID, demoCatalog())
	if err != nil {
		return err
	}
	if len(rep.Failed) > 0 {
		return fmt.Errorf("catálogo de demo: %s", rep.Failed[0].Message)
	}
	if _, err := technicians.Create(ctx, organizationID, dto.CreateTechnicianRequest{FirstName: "Lucas", LastName: "Martin"}); err != nil {
		return err
	}
	return nil
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedFlags.email, "owner-email", "", "email del owner")
	f.StringVar(&seedFlags.password, "owner-password", "", "contraseña (mín. 8 caracteres)")
	f.StringVar(&seedFlags.name, "owner-name", "", "nombre visible")
	f.StringVar(&seedFlags.orgName, "org-name", "", "nombre de la organización")
	f.StringVar(&seedFlags.orgSlug, "org-slug", "", "slug; vacío = derivado del nombre")
	f.BoolVar(&seedFlags.demo, "demo", true, "crear catálogo y técnico de ejemplo")
	_ = seedCmd.MarkFlagRequired("owner-email")
	_ = seedCmd.MarkFlagRequired("owner-password")
	_ = seedCmd.MarkFlagRequired("org-name")
}
