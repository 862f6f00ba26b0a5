package service

import (
	"context"
	"strings"

	"storefront/internal/audit"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	addresses repository.AddressRepository
	audit     audit.Recorder
	logger    zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addresses repository.AddressRepository, recorder audit.Recorder, logger zerolog.Logger) AddressService {
	return &addressService{
		addresses: addresses,
		audit:     recorder,
		logger:    logger.With().Str("service", "address").Logger(),
	}
}

func applyAddressInput(a *model.Address, input *model.AddressInput) error {
	if input == nil {
		return model.NewValidationError("address is required")
	}

	a.Description = strings.TrimSpace(input.Description)
	a.Province = strings.TrimSpace(input.Province)
	a.City = strings.TrimSpace(input.City)
	if a.Description == "" || a.Province == "" || a.City == "" {
		return model.NewValidationError("description, province and city are required")
	}
	return nil
}

func addressData(a *model.Address) map[string]any {
	return map[string]any{
		"address_id": a.ID,
		"user_id":    a.UserID,
		"province":   a.Province,
		"city":       a.City,
	}
}

// Create adds an address for the caller.
func (s *addressService) Create(ctx context.Context, userID int64, input *model.AddressInput) (*model.Address, error) {
	address := &model.Address{UserID: userID}
	if err := applyAddressInput(address, input); err != nil {
		return nil, err
	}

	err := inTx(ctx, s.addresses, s.logger, func(tx pgx.Tx) error {
		if err := s.addresses.Create(ctx, tx, address); err != nil {
			return err
		}
		s.audit.Record(ctx, tx, model.AuditTypeAddress, "address_created", addressData(address))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int64("address_id", address.ID).Msg("address created")
	return address, nil
}

// List retrieves the caller's addresses.
func (s *addressService) List(ctx context.Context, userID int64) ([]model.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, model.Transient(err)
	}
	return addresses, nil
}

// owned returns the address when it belongs to userID. Addresses of other
// users are reported as missing.
func (s *addressService) owned(ctx context.Context, userID, id int64) (*model.Address, error) {
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return nil, model.Transient(err)
	}
	if address == nil || address.UserID != userID {
		return nil, model.NewNotFoundError("address")
	}
	return address, nil
}

// Update replaces one of the caller's addresses. Orders keep the snapshot
// taken at submission.
func (s *addressService) Update(ctx context.Context, userID, id int64, input *model.AddressInput) (*model.Address, error) {
	address, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyAddressInput(address, input); err != nil {
		return nil, err
	}

	err = inTx(ctx, s.addresses, s.logger, func(tx pgx.Tx) error {
		if err := s.addresses.Update(ctx, tx, address); err != nil {
			return err
		}
		s.audit.Record(ctx, tx, model.AuditTypeAddress, "address_updated", addressData(address))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

// Delete removes one of the caller's addresses.
func (s *addressService) Delete(ctx context.Context, userID, id int64) error {
	address, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	return inTx(ctx, s.addresses, s.logger, func(tx pgx.Tx) error {
		if err := s.addresses.Delete(ctx, tx, id); err != nil {
			return err
		}
		s.audit.Record(ctx, tx, model.AuditTypeAddress, "address_deleted", addressData(address))
		return nil
	})
}
