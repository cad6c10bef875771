package services

import (
	"context"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/logging"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"
)

// IntegrationService is the registry of channel connections. Disabling
// an integration never interrupts an in-flight sync; it only removes
// the integration from future orchestration sweeps.
type IntegrationService struct {
	integrationRepo *repositories.IntegrationRepo
	propertyRepo    *repositories.PropertyRepo
}

func NewIntegrationService(integrationRepo *repositories.IntegrationRepo, propertyRepo *repositories.PropertyRepo) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		propertyRepo:    propertyRepo,
	}
}

func (s *IntegrationService) Connect(ctx context.Context, req dtos.CreateIntegrationRequest) (*gormModels.Integration, error) {
	if req.PropertyID == "" {
		return nil, constants.NewValidationError("property id is required")
	}
	if !constants.IsKnownPlatform(req.Platform) {
		return nil, constants.NewValidationError("unknown platform %q", req.Platform)
	}

	exists, err := s.propertyRepo.Exists(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, constants.NewNotFoundError("property", req.PropertyID)
	}

	integ := &gormModels.Integration{
		PropertyID:    req.PropertyID,
		Platform:      req.Platform,
		CredentialRef: req.CredentialRef,
		IsActive:      true,
	}
	if err := s.integrationRepo.Create(ctx, integ); err != nil {
		return nil, err
	}

	logging.Info("Channel connected",
		"integration_id", integ.ID,
		"property_id", integ.PropertyID,
		"platform", integ.Platform,
	)
	return integ, nil
}

func (s *IntegrationService) Get(ctx context.Context, id string) (*gormModels.Integration, error) {
	return s.integrationRepo.GetByID(ctx, id)
}

func (s *IntegrationService) ListByProperty(ctx context.Context, propertyID string) ([]gormModels.Integration, error) {
	return s.integrationRepo.ListByProperty(ctx, propertyID)
}

func (s *IntegrationService) Update(ctx context.Context, id string, req dtos.UpdateIntegrationRequest) (*gormModels.Integration, error) {
	integ, err := s.integrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		integ.IsActive = *req.IsActive
	}
	if req.CredentialRef != nil {
		integ.CredentialRef = *req.CredentialRef
	}

	if err := s.integrationRepo.Update(ctx, integ); err != nil {
		return nil, err
	}
	return integ, nil
}

// Disconnect removes the channel connection. Sync logs keep their own
// copy of the integration and platform ids for the audit trail.
func (s *IntegrationService) Disconnect(ctx context.Context, id string) error {
	if err := s.integrationRepo.Delete(ctx, id); err != nil {
		return err
	}
	logging.Info("Channel disconnected", "integration_id", id)
	return nil
}
