package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los mensajes se muestran tal cual al usuario final.
var (
	ErrNotFound            = errors.New("ressource introuvable")
	ErrUserNotFound        = errors.New("utilisateur introuvable")
	ErrEmailAlreadyExists  = errors.New("cet email est déjà enregistré")
	ErrInvalidInput        = errors.New("données invalides")
	ErrDuplicate           = errors.New("ressource déjà existante")
	ErrUnauthorized        = errors.New("non autorisé")
	ErrForbidden           = errors.New("accès refusé")
	ErrConflict            = errors.New("conflit avec l'état actuel")
	ErrInsufficientStock   = errors.New("stock insuffisant")
	ErrCategoryHasChildren = errors.New("impossible de supprimer une catégorie qui contient des sous-catégories")
	ErrCategoryCycle       = errors.New("cycle détecté dans l'arborescence des catégories")
	ErrSlugTaken           = errors.New("ce slug est déjà utilisé")
	ErrAlreadyMember       = errors.New("cet utilisateur est déjà membre de l'organisation")
	ErrDuplicateInvitation = errors.New("une invitation a déjà été envoyée à cette adresse")
	ErrDuplicateSKU        = errors.New("ce SKU existe déjà dans l'organisation")
	ErrTechnicianRequired  = errors.New("un technicien est requis pour une sortie technicien")
	ErrInvitationExpired   = errors.New("invitation expirée ou déjà utilisée")
)

// Action verbo localizado que encabeza el mensaje de un OpError.
type Action string

const (
	ActionFetch  Action = "la récupération"
	ActionCreate Action = "la création"
	ActionUpdate Action = "la mise à jour"
	ActionDelete Action = "la suppression"
)

// OpError envuelve un fallo de persistencia con el prefijo localizado que ve el usuario:
// "Erreur lors de la récupération des produits : <causa>".
// Unwrap conserva la causa para errors.Is / errors.As.
type OpError struct {
	Action   Action
	Resource string // ej. "des produits", "de la catégorie"
	Err      error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Erreur lors de %s %s", e.Action, e.Resource)
	}
	return fmt.Sprintf("Erreur lors de %s %s : %s", e.Action, e.Resource, e.Err.Error())
}

func (e *OpError) Unwrap() error { return e.Err }

func wrap(action Action, resource string, err error) error {
	if err == nil {
		return nil
	}
	// Un error ya localizado no se vuelve a envolver.
	var op *OpError
	if errors.As(err, &op) {
		return err
	}
	return &OpError{Action: action, Resource: resource, Err: err}
}

// FetchErr envuelve un error de lectura. Devuelve nil si err es nil.
func FetchErr(resource string, err error) error { return wrap(ActionFetch, resource, err) }

// CreateErr envuelve un error de creación.
func CreateErr(resource string, err error) error { return wrap(ActionCreate, resource, err) }

// UpdateErr envuelve un error de actualización.
func UpdateErr(resource string, err error) error { return wrap(ActionUpdate, resource, err) }

// DeleteErr envuelve un error de eliminación.
func DeleteErr(resource string, err error) error { return wrap(ActionDelete, resource, err) }
