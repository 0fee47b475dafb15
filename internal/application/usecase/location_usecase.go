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

// LocationUseCase casos de uso CRUD para ubicaciones de almacenamiento.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create da de alta una ubicación.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: in.Description,
		Address:     in.Address,
		IsMain:      in.IsMain,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación de la empresa.
func (uc *LocationUseCase) GetByID(companyID, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// Update aplica una actualización parcial.
func (uc *LocationUseCase) Update(companyID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		location.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	if in.IsMain != nil {
		location.IsMain = *in.IsMain
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List devuelve las ubicaciones de la empresa (principal primero).
func (uc *LocationUseCase) List(companyID string) ([]dto.LocationResponse, error) {
	locations, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, location := range locations {
		out = append(out, *toLocationResponse(location))
	}
	return out, nil
}

func toLocationResponse(location *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
		Address:     location.Address,
		IsMain:      location.IsMain,
		CreatedAt:   location.CreatedAt,
		UpdatedAt:   location.UpdatedAt,
	}
}
