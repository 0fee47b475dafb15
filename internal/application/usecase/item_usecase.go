package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo de artículos.
// El borrado es lógico: los artículos con historial se desactivan y dejan de
// entrar en conteos nuevos, pero sus posiciones históricas se conservan.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create da de alta un artículo.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	itemNumber := strings.TrimSpace(in.ItemNumber)
	name := strings.TrimSpace(in.Name)
	category := entity.ItemCategory(in.Category)
	unit := entity.ItemUnit(in.Unit)
	if itemNumber == "" || name == "" || !category.Valid() || !unit.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ItemNumber:    itemNumber,
		Name:          name,
		Description:   in.Description,
		Category:      category,
		Unit:          unit,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		MinStock:      in.MinStock,
		TargetStock:   in.TargetStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo de la empresa.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update aplica una actualización parcial (campos nil no cambian).
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.ItemNumber != nil {
		if strings.TrimSpace(*in.ItemNumber) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.ItemNumber = strings.TrimSpace(*in.ItemNumber)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		category := entity.ItemCategory(*in.Category)
		if !category.Valid() {
			return nil, domain.ErrInvalidInput
		}
		item.Category = category
	}
	if in.Unit != nil {
		unit := entity.ItemUnit(*in.Unit)
		if !unit.Valid() {
			return nil, domain.ErrInvalidInput
		}
		item.Unit = unit
	}
	if in.PurchasePrice != nil {
		item.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		item.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *in.MinStock
	}
	if in.TargetStock != nil {
		item.TargetStock = *in.TargetStock
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List devuelve los artículos de la empresa con filtros opcionales.
func (uc *ItemUseCase) List(companyID string, category, active string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.Normalize()
	f := repository.ItemFilter{Limit: page.Limit, Offset: page.Offset}
	if category != "" {
		c := entity.ItemCategory(category)
		if !c.Valid() {
			return nil, domain.ErrInvalidInput
		}
		f.Category = &c
	}
	switch active {
	case "":
	case "true":
		v := true
		f.Active = &v
	case "false":
		v := false
		f.Active = &v
	default:
		return nil, domain.ErrInvalidInput
	}

	items, err := uc.repo.ListByCompany(companyID, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, *toItemResponse(item))
	}
	out.Total = len(out.Items)
	return out, nil
}

// Search busca artículos activos por número o nombre (autocompletado).
func (uc *ItemUseCase) Search(companyID, query string, limit int) ([]dto.ItemResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	items, err := uc.repo.Search(companyID, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

// Deactivate desactiva un artículo (borrado lógico).
func (uc *ItemUseCase) Deactivate(companyID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            item.ID,
		ItemNumber:    item.ItemNumber,
		Name:          item.Name,
		Description:   item.Description,
		Category:      string(item.Category),
		Unit:          string(item.Unit),
		PurchasePrice: item.PurchasePrice,
		SalePrice:     item.SalePrice,
		MinStock:      item.MinStock,
		TargetStock:   item.TargetStock,
		Active:        item.Active,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
