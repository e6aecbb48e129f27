package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, organizationID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResultResponse, error) {
	res, err := uc.RegisterMovement(ctx, MovementInputDTO{
		OrganizationID: organizationID,
		UserID:         userID,
		ProductID:      in.ProductID,
		TechnicianID:   in.TechnicianID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResultResponse{
		Movement:     ToMovementResponse(res.Movement),
		StockCurrent: res.StockCurrent,
	}, nil
}

// RestockFromRequest adapta el request HTTP de reposición.
func (uc *RegisterMovementUseCase) RestockFromRequest(ctx context.Context, organizationID, userID, technicianID string, in dto.RestockRequest) ([]dto.MovementResponse, error) {
	lines := make([]RestockLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, RestockLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	movs, err := uc.Restock(ctx, RestockInputDTO{
		OrganizationID: organizationID,
		UserID:         userID,
		TechnicianID:   technicianID,
		Lines:          lines,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, ToMovementResponse(m))
	}
	return out, nil
}

// ListFromRequest parsea filtros de query (fechas RFC3339) y pagina.
func (uc *RegisterMovementUseCase) ListFromRequest(ctx context.Context, organizationID string, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.Normalize()
	f := repository.MovementFilter{
		TechnicianID: in.TechnicianID,
		Type:         in.Type,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if in.ProductID != "" {
		f.ProductIDs = []string{in.ProductID}
	}
	var err error
	if f.From, err = parseTime(in.From); err != nil {
		return nil, err
	}
	if f.To, err = parseTime(in.To); err != nil {
		return nil, err
	}
	list, err := uc.List(ctx, ListInputDTO{OrganizationID: organizationID, Filter: f})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  in.Page(len(items), -1),
	}, nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if d, derr := time.Parse("2006-01-02", s); derr == nil {
			return &d, nil
		}
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		TechnicianID: m.TechnicianID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		Notes:        m.Notes,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}
