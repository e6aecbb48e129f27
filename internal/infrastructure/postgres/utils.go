package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
)

const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
)

// isNoRows: fila inexistente. Un id que no es UUID (22P02) tampoco puede existir.
func isNoRows(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidText
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// uniqueConstraintErrors constraint (ver migrations/001_init.sql) -> error de dominio mostrado al usuario.
var uniqueConstraintErrors = map[string]error{
	"organizations_slug_key":        domain.ErrSlugTaken,
	"organization_members_pkey":     domain.ErrAlreadyMember,
	"invitations_pending_email_key": domain.ErrDuplicateInvitation,
	"products_organization_sku_key": domain.ErrDuplicateSKU,
	"users_email_key":               domain.ErrEmailAlreadyExists,
}

// translateUnique traduce un 23505 conocido a su error de dominio. Un 23505 de constraint
// desconocido devuelve ErrDuplicate; cualquier otro error se devuelve sin cambios.
func translateUnique(err error) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return domain.ErrDuplicate
}

// nullIfEmpty convierte "" en NULL para columnas UUID opcionales (parent_id, category_id, ...).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
