package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
)

var validate = validator.New()

// parseBody decodifica el JSON del cuerpo y aplica las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w : corps de requête invalide", domain.ErrInvalidInput)
	}
	return validateStruct(dst)
}

// parseQuery decodifica la query string y la valida.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fmt.Errorf("%w : paramètres de requête invalides", domain.ErrInvalidInput)
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w : %s", domain.ErrInvalidInput, err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w : %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
}

// idParam devuelve el parámetro de ruta si es un UUID. Cualquier otro valor no puede
// identificar un recurso y responde ErrNotFound.
func idParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if validate.Var(id, "required,uuid") != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// idQuery valida un identificador opcional de la query string; vacío = sin filtro.
func idQuery(c *fiber.Ctx, name string) (string, error) {
	id := c.Query(name)
	if id == "" {
		return "", nil
	}
	if validate.Var(id, "uuid") != nil {
		return "", fmt.Errorf("%w : %s (uuid)", domain.ErrInvalidInput, name)
	}
	return id, nil
}
