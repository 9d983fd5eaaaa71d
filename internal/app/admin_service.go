package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proservis/internal/domain/technician"
	idb "proservis/internal/infra/database"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = errors.New("performing user is not authorized as an admin")
var ErrTechnicianAlreadyExists = errors.New("technician with this Telegram ID already exists")
var ErrTechnicianAlreadyInactive = errors.New("technician is already inactive")
var ErrTechnicianNotFound = errors.New("technician not found")

type AdminService struct {
	technicianRepo  technician.Repository
	adminTelegramID int64
}

func NewAdminService(tr technician.Repository, adminID int64) *AdminService {
	return &AdminService{
		technicianRepo:  tr,
		adminTelegramID: adminID,
	}
}

// IsAdmin reports whether telegramID belongs to the configured admin.
func (s *AdminService) IsAdmin(telegramID int64) bool {
	return telegramID == s.adminTelegramID
}

// AddTechnician registers a new, active technician.
func (s *AdminService) AddTechnician(ctx context.Context, performingAdminID int64, telegramID int64, firstName string, lastNameValue string) (*technician.Technician, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	_, err := s.technicianRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return nil, ErrTechnicianAlreadyExists
	}
	if !errors.Is(err, idb.ErrTechnicianNotFound) {
		return nil, fmt.Errorf("failed to check existing technician: %w", err)
	}

	var lastName sql.NullString
	if lastNameValue != "" {
		lastName = sql.NullString{String: lastNameValue, Valid: true}
	}

	newTechnician := &technician.Technician{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		IsActive:   true,
	}
	if err := s.technicianRepo.Create(ctx, newTechnician); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramID) {
			return nil, ErrTechnicianAlreadyExists
		}
		return nil, fmt.Errorf("failed to create technician in repository: %w", err)
	}

	return newTechnician, nil
}

// RemoveTechnician deactivates a technician so they stop receiving reminders.
func (s *AdminService) RemoveTechnician(ctx context.Context, performingAdminID int64, telegramID int64) (*technician.Technician, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.technicianRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, idb.ErrTechnicianNotFound) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician by Telegram ID for removal: %w", err)
	}

	if !target.IsActive {
		return target, ErrTechnicianAlreadyInactive
	}

	target.IsActive = false
	if err := s.technicianRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update technician to inactive in repository: %w", err)
	}

	return target, nil
}

// ListTechnicians returns active technicians, or all of them when
// includeInactive is set.
func (s *AdminService) ListTechnicians(ctx context.Context, performingAdminID int64, includeInactive bool) ([]*technician.Technician, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	var (
		technicians []*technician.Technician
		err         error
	)
	if includeInactive {
		technicians, err = s.technicianRepo.ListAll(ctx)
	} else {
		technicians, err = s.technicianRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return technicians, nil
}

// Technician looks up a technician by Telegram ID, returning
// ErrTechnicianNotFound when unknown.
func (s *AdminService) Technician(ctx context.Context, telegramID int64) (*technician.Technician, error) {
	t, err := s.technicianRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, idb.ErrTechnicianNotFound) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}
