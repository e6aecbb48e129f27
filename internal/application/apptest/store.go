// Package apptest repositorios en memoria para los tests de casos de uso.
// Implementan los puertos de internal/domain/repository con la misma semántica observable
// que los adaptadores PostgreSQL: (nil, nil) si no existe, errores de dominio en duplicados.
package apptest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu          sync.Mutex
	Users       map[string]*entity.User
	Orgs        map[string]*entity.Organization
	Members     map[string]*entity.Member // org|user
	Invitations map[string]*entity.Invitation
	Categories  map[string]*entity.Category
	Products    map[string]*entity.Product
	Technicians map[string]*entity.Technician
	TechInv     map[string]*entity.TechnicianInventory // tech|product
	History     []*entity.TechnicianInventoryHistory
	Movements   []*entity.StockMovement

	// Fallos inyectables: nombre de operación -> error.
	Fail map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		Users:       map[string]*entity.User{},
		Orgs:        map[string]*entity.Organization{},
		Members:     map[string]*entity.Member{},
		Invitations: map[string]*entity.Invitation{},
		Categories:  map[string]*entity.Category{},
		Products:    map[string]*entity.Product{},
		Technicians: map[string]*entity.Technician{},
		TechInv:     map[string]*entity.TechnicianInventory{},
		Fail:        map[string]error{},
	}
}

func (s *Store) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail[op]
}

func key(a, b string) string { return a + "|" + b }

// snapshot copia superficial de las colecciones mutables para el rollback del TxRunner.
type snapshot struct {
	products  map[string]entity.Product
	techInv   map[string]entity.TechnicianInventory
	history   int
	movements int
}

func (s *Store) take() snapshot {
	sn := snapshot{
		products:  make(map[string]entity.Product, len(s.Products)),
		techInv:   make(map[string]entity.TechnicianInventory, len(s.TechInv)),
		history:   len(s.History),
		movements: len(s.Movements),
	}
	for k, p := range s.Products {
		sn.products[k] = *p
	}
	for k, ti := range s.TechInv {
		sn.techInv[k] = *ti
	}
	return sn
}

func (s *Store) restore(sn snapshot) {
	s.Products = make(map[string]*entity.Product, len(sn.products))
	for k, p := range sn.products {
		p := p
		s.Products[k] = &p
	}
	s.TechInv = make(map[string]*entity.TechnicianInventory, len(sn.techInv))
	for k, ti := range sn.techInv {
		ti := ti
		s.TechInv[k] = &ti
	}
	s.History = s.History[:sn.history]
	s.Movements = s.Movements[:sn.movements]
}

// ─── TxRunner ───────────────────────────────────────────────────────────────

// TxRunner ejecuta fn con los repos del store; si fn falla restaura el estado previo.
type TxRunner struct{ S *Store }

var _ inventory.TxRunner = TxRunner{}

func (r TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	techInventoryRepo repository.TechnicianInventoryRepository,
) error) error {
	r.S.mu.Lock()
	sn := r.S.take()
	r.S.mu.Unlock()
	if err := fn(ProductRepo{r.S}, MovementRepo{r.S}, TechInventoryRepo{r.S}); err != nil {
		r.S.mu.Lock()
		r.S.restore(sn)
		r.S.mu.Unlock()
		return err
	}
	return nil
}

// ─── Users ──────────────────────────────────────────────────────────────────

type UserRepo struct{ S *Store }

var _ repository.UserRepository = UserRepo{}

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.S.Users[u.ID] = &c
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if u, ok := r.S.Users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if err := r.S.fail("UserRepo.GetByEmail"); err != nil {
		return nil, err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// ─── Organizations & members ────────────────────────────────────────────────

type OrganizationRepo struct{ S *Store }

var _ repository.OrganizationRepository = OrganizationRepo{}

func (r OrganizationRepo) CreateWithOwner(_ context.Context, org *entity.Organization, ownerID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, o := range r.S.Orgs {
		if o.Slug == org.Slug {
			return domain.ErrSlugTaken
		}
	}
	c := *org
	r.S.Orgs[org.ID] = &c
	r.S.Members[key(org.ID, ownerID)] = &entity.Member{
		OrganizationID: org.ID, UserID: ownerID, Role: entity.RoleOwner, CreatedAt: org.CreatedAt,
	}
	return nil
}

func (r OrganizationRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if o, ok := r.S.Orgs[id]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (r OrganizationRepo) GetBySlug(_ context.Context, slug string) (*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, o := range r.S.Orgs {
		if o.Slug == slug {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (r OrganizationRepo) ListByUser(_ context.Context, userID string) ([]*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Organization
	for _, m := range r.S.Members {
		if m.UserID == userID {
			if o, ok := r.S.Orgs[m.OrganizationID]; ok {
				c := *o
				out = append(out, &c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r OrganizationRepo) Update(_ context.Context, org *entity.Organization) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Orgs[org.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.S.Orgs {
		if o.ID != org.ID && o.Slug == org.Slug {
			return domain.ErrSlugTaken
		}
	}
	c := *org
	r.S.Orgs[org.ID] = &c
	return nil
}

func (r OrganizationRepo) Delete(_ context.Context, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	delete(r.S.Orgs, id)
	for k, m := range r.S.Members {
		if m.OrganizationID == id {
			delete(r.S.Members, k)
		}
	}
	return nil
}

type MemberRepo struct{ S *Store }

var _ repository.MemberRepository = MemberRepo{}

func (r MemberRepo) Get(_ context.Context, orgID, userID string) (*entity.Member, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if m, ok := r.S.Members[key(orgID, userID)]; ok {
		c := *m
		if u, ok := r.S.Users[userID]; ok {
			c.Email, c.Name = u.Email, u.Name
		}
		return &c, nil
	}
	return nil, nil
}

func (r MemberRepo) Add(_ context.Context, m *entity.Member) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	k := key(m.OrganizationID, m.UserID)
	if _, ok := r.S.Members[k]; ok {
		return domain.ErrAlreadyMember
	}
	c := *m
	r.S.Members[k] = &c
	return nil
}

func (r MemberRepo) ListByOrganization(_ context.Context, orgID string) ([]*entity.Member, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Member
	for _, m := range r.S.Members {
		if m.OrganizationID == orgID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r MemberRepo) Remove(_ context.Context, orgID, userID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	delete(r.S.Members, key(orgID, userID))
	return nil
}

func (r MemberRepo) CreateInvitation(_ context.Context, inv *entity.Invitation) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Invitations {
		if x.OrganizationID == inv.OrganizationID && strings.EqualFold(x.Email, inv.Email) && x.AcceptedAt == nil {
			return domain.ErrDuplicateInvitation
		}
	}
	c := *inv
	r.S.Invitations[inv.ID] = &c
	return nil
}

func (r MemberRepo) GetInvitationByToken(_ context.Context, token string) (*entity.Invitation, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Invitations {
		if x.Token == token {
			c := *x
			return &c, nil
		}
	}
	return nil, nil
}

func (r MemberRepo) ListPendingInvitations(_ context.Context, orgID string) ([]*entity.Invitation, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Invitation
	for _, x := range r.S.Invitations {
		if x.OrganizationID == orgID && x.AcceptedAt == nil {
			c := *x
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r MemberRepo) AcceptInvitation(_ context.Context, inv *entity.Invitation, userID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored, ok := r.S.Invitations[inv.ID]
	if !ok || stored.AcceptedAt != nil {
		return domain.ErrInvitationExpired
	}
	k := key(inv.OrganizationID, userID)
	if _, exists := r.S.Members[k]; exists {
		return domain.ErrAlreadyMember
	}
	now := time.Now().UTC()
	stored.AcceptedAt = &now
	inv.AcceptedAt = &now
	r.S.Members[k] = &entity.Member{OrganizationID: inv.OrganizationID, UserID: userID, Role: inv.Role, CreatedAt: now}
	return nil
}

// ─── Categories ─────────────────────────────────────────────────────────────

type CategoryRepo struct{ S *Store }

var _ repository.CategoryRepository = CategoryRepo{}

func (r CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	if err := r.S.fail("CategoryRepo.Create:" + c.Name); err != nil {
		return err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *c
	r.S.Categories[c.ID] = &cp
	return nil
}

func (r CategoryRepo) GetByID(_ context.Context, orgID, id string) (*entity.Category, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if c, ok := r.S.Categories[id]; ok && c.OrganizationID == orgID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if x, ok := r.S.Categories[c.ID]; !ok || x.OrganizationID != c.OrganizationID {
		return domain.ErrNotFound
	}
	cp := *c
	r.S.Categories[c.ID] = &cp
	return nil
}

func (r CategoryRepo) ListByOrganization(_ context.Context, orgID string) ([]*entity.Category, error) {
	if err := r.S.fail("CategoryRepo.ListByOrganization"); err != nil {
		return nil, err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.S.Categories {
		if c.OrganizationID == orgID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r CategoryRepo) CountChildren(_ context.Context, orgID, id string) (int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	n := 0
	for _, c := range r.S.Categories {
		if c.OrganizationID == orgID && c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r CategoryRepo) Delete(_ context.Context, orgID, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if c, ok := r.S.Categories[id]; !ok || c.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	delete(r.S.Categories, id)
	for _, p := range r.S.Products {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return nil
}

// ─── Products ───────────────────────────────────────────────────────────────

type ProductRepo struct{ S *Store }

var _ repository.ProductRepository = ProductRepo{}

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.S.fail("ProductRepo.Create:" + p.Name); err != nil {
		return err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Products {
		if x.OrganizationID == p.OrganizationID && x.SKU == p.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	cp := *p
	r.S.Products[p.ID] = &cp
	return nil
}

func (r ProductRepo) GetByID(_ context.Context, orgID, id string) (*entity.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Products[id]; ok && p.OrganizationID == orgID {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r ProductRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, orgID, id)
}

func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	x, ok := r.S.Products[p.ID]
	if !ok || x.OrganizationID != p.OrganizationID {
		return domain.ErrNotFound
	}
	for _, o := range r.S.Products {
		if o.ID != p.ID && o.OrganizationID == p.OrganizationID && o.SKU == p.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	cp := *p
	cp.StockCurrent = x.StockCurrent
	r.S.Products[p.ID] = &cp
	return nil
}

func (r ProductRepo) UpdateStock(_ context.Context, id string, stock int) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Products[id]; ok {
		p.StockCurrent = stock
	}
	return nil
}

func (r ProductRepo) Archive(_ context.Context, orgID, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok || p.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	if p.ArchivedAt == nil {
		now := time.Now().UTC()
		p.ArchivedAt = &now
	}
	return nil
}

func (r ProductRepo) List(_ context.Context, orgID string, f repository.ProductFilter) ([]*entity.Product, error) {
	if err := r.S.fail("ProductRepo.List"); err != nil {
		return nil, err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cats := map[string]bool{}
	for _, id := range f.CategoryIDs {
		cats[id] = true
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Product
	for _, p := range r.S.Products {
		if p.OrganizationID != orgID || (!f.IncludeArchived && p.IsArchived()) {
			continue
		}
		if len(cats) > 0 && !cats[p.CategoryID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, nil
}

func (r ProductRepo) Count(ctx context.Context, orgID string, f repository.ProductFilter) (int, error) {
	if err := r.S.fail("ProductRepo.Count"); err != nil {
		return 0, err
	}
	f.Limit, f.Offset = 0, 0
	list, err := r.List(ctx, orgID, f)
	return len(list), err
}

// ─── Technicians ────────────────────────────────────────────────────────────

type TechnicianRepo struct{ S *Store }

var _ repository.TechnicianRepository = TechnicianRepo{}

func (r TechnicianRepo) Create(_ context.Context, t *entity.Technician) error {
	if err := r.S.fail("TechnicianRepo.Create:" + t.FirstName); err != nil {
		return err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *t
	r.S.Technicians[t.ID] = &cp
	return nil
}

func (r TechnicianRepo) GetByID(_ context.Context, orgID, id string) (*entity.Technician, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if t, ok := r.S.Technicians[id]; ok && t.OrganizationID == orgID {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r TechnicianRepo) Update(_ context.Context, t *entity.Technician) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if x, ok := r.S.Technicians[t.ID]; !ok || x.OrganizationID != t.OrganizationID {
		return domain.ErrNotFound
	}
	cp := *t
	r.S.Technicians[t.ID] = &cp
	return nil
}

func (r TechnicianRepo) Archive(_ context.Context, orgID, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	t, ok := r.S.Technicians[id]
	if !ok || t.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	if t.ArchivedAt == nil {
		now := time.Now().UTC()
		t.ArchivedAt = &now
	}
	return nil
}

func (r TechnicianRepo) List(_ context.Context, orgID string, includeArchived bool) ([]*entity.Technician, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Technician
	for _, t := range r.S.Technicians {
		if t.OrganizationID == orgID && (includeArchived || t.ArchivedAt == nil) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out, nil
}

func (r TechnicianRepo) Count(ctx context.Context, orgID string) (int, error) {
	list, _ := r.List(ctx, orgID, false)
	return len(list), nil
}

type TechInventoryRepo struct{ S *Store }

var _ repository.TechnicianInventoryRepository = TechInventoryRepo{}

func (r TechInventoryRepo) AddQuantity(_ context.Context, orgID, techID, productID string, delta int) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	k := key(techID, productID)
	ti, ok := r.S.TechInv[k]
	if !ok {
		ti = &entity.TechnicianInventory{OrganizationID: orgID, TechnicianID: techID, ProductID: productID}
		r.S.TechInv[k] = ti
	}
	ti.Quantity += delta
	ti.UpdatedAt = time.Now().UTC()
	return nil
}

func (r TechInventoryRepo) ListByTechnician(_ context.Context, orgID, techID string) ([]*entity.TechnicianInventory, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.TechnicianInventory
	for _, ti := range r.S.TechInv {
		if ti.OrganizationID == orgID && ti.TechnicianID == techID {
			cp := *ti
			if p, ok := r.S.Products[ti.ProductID]; ok {
				cp.ProductName, cp.ProductSKU = p.Name, p.SKU
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r TechInventoryRepo) AppendHistory(_ context.Context, h *entity.TechnicianInventoryHistory) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *h
	cp.Snapshot = append(json.RawMessage(nil), h.Snapshot...)
	r.S.History = append(r.S.History, &cp)
	return nil
}

func (r TechInventoryRepo) ListHistory(_ context.Context, orgID, techID string, limit int) ([]*entity.TechnicianInventoryHistory, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.TechnicianInventoryHistory
	for i := len(r.S.History) - 1; i >= 0; i-- {
		h := r.S.History[i]
		if h.OrganizationID == orgID && h.TechnicianID == techID {
			cp := *h
			out = append(out, &cp)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ─── Movements ──────────────────────────────────────────────────────────────

type MovementRepo struct{ S *Store }

var _ repository.StockMovementRepository = MovementRepo{}

func (r MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.S.fail("MovementRepo.Create"); err != nil {
		return err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *m
	r.S.Movements = append(r.S.Movements, &cp)
	return nil
}

func (r MovementRepo) List(_ context.Context, orgID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	if err := r.S.fail("MovementRepo.List"); err != nil {
		return nil, err
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	products := map[string]bool{}
	for _, id := range f.ProductIDs {
		products[id] = true
	}
	var out []*entity.StockMovement
	for _, m := range r.S.Movements {
		if m.OrganizationID != orgID {
			continue
		}
		if len(products) > 0 && !products[m.ProductID] {
			continue
		}
		if f.TechnicianID != "" && m.TechnicianID != f.TechnicianID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, nil
}
