// internal/app/maintenance_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"proservis/internal/domain/maintenance"
	"proservis/internal/domain/recurrence"
	"proservis/internal/domain/technician"
	idb "proservis/internal/infra/database"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

var ErrServiceNotFound = errors.New("service not found")
var ErrServiceAlreadyCompleted = errors.New("service is already completed")
var ErrServiceCancelled = errors.New("service is cancelled")
var ErrInvalidNextDate = errors.New("next maintenance date is not a valid calendar date")
var ErrNotAssignedTechnician = errors.New("technician is not assigned to this service")

// CallbackServiceDone is the inline button unique the reminder uses; its
// payload is the service ID.
const CallbackServiceDone = "service_done"

// Messenger sends chat messages to technicians.
type Messenger interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}

// MaintenanceService completes services, schedules their follow-up
// maintenance and reminds technicians of the visits due each day.
type MaintenanceService interface {
	CompleteService(ctx context.Context, serviceID int64, completedOn time.Time, freq recurrence.Frequency, policy recurrence.Policy) (*CompletionResult, error)
	// CompleteFromReminder completes a service on completedOn with the
	// recurrence stored on it, on behalf of the assigned technician.
	CompleteFromReminder(ctx context.Context, serviceID int64, technicianTelegramID int64, completedOn time.Time) (*CompletionResult, error)
	PreviewNextDate(ref time.Time, freq recurrence.Frequency, policy recurrence.Policy) mo.Option[string]
	GetService(ctx context.Context, serviceID int64) (*maintenance.ServiceRecord, error)
	ListDue(ctx context.Context, day time.Time) ([]*maintenance.ServiceRecord, error)
	UpcomingForTechnician(ctx context.Context, technicianTelegramID int64) ([]*maintenance.ServiceRecord, error)
	ProcessDueMaintenance(ctx context.Context, day time.Time) error
}

// CompletionResult describes what completing a service produced.
type CompletionResult struct {
	Service  *maintenance.ServiceRecord
	NextDate mo.Option[string]
	FollowUp *maintenance.ServiceRecord // nil when nothing was scheduled
}

// MaintenanceServiceImpl implements MaintenanceService.
type MaintenanceServiceImpl struct {
	serviceRepo    maintenance.Repository
	technicianRepo technician.Repository
	messenger      Messenger
	logger         *logrus.Entry
	now            func() time.Time
}

func NewMaintenanceServiceImpl(
	sr maintenance.Repository,
	tr technician.Repository,
	messenger Messenger,
	logger *logrus.Entry,
) *MaintenanceServiceImpl {
	return &MaintenanceServiceImpl{
		serviceRepo:    sr,
		technicianRepo: tr,
		messenger:      messenger,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *MaintenanceServiceImpl) PreviewNextDate(ref time.Time, freq recurrence.Frequency, policy recurrence.Policy) mo.Option[string] {
	return recurrence.Next(ref, freq, policy)
}

func (s *MaintenanceServiceImpl) GetService(ctx context.Context, serviceID int64) (*maintenance.ServiceRecord, error) {
	record, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, idb.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service %d: %w", serviceID, err)
	}
	return record, nil
}

// CompleteService marks the service completed on completedOn and stores the
// recurrence chosen for it. When the recurrence yields a next date, that date
// becomes the service's next maintenance and a follow-up visit is scheduled
// for it with the same client, equipment, technician and recurrence.
func (s *MaintenanceServiceImpl) CompleteService(ctx context.Context, serviceID int64, completedOn time.Time, freq recurrence.Frequency, policy recurrence.Policy) (*CompletionResult, error) {
	logCtx := s.logger.WithFields(logrus.Fields{
		"service_id": serviceID,
		"frequency":  freq,
	})

	record, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	switch record.Status {
	case maintenance.StatusCompleted:
		return nil, ErrServiceAlreadyCompleted
	case maintenance.StatusCancelled:
		return nil, ErrServiceCancelled
	}

	completedOn = recurrence.DateOnly(completedOn)
	next := recurrence.Next(completedOn, freq, policy)

	var nextDate sql.NullTime
	if iso, ok := next.Get(); ok {
		parsed, err := recurrence.ParseDate(iso)
		if err != nil {
			logCtx.WithError(err).Warn("Recurrence produced an unusable date")
			return nil, fmt.Errorf("%w: %v", ErrInvalidNextDate, err)
		}
		nextDate = sql.NullTime{Time: parsed, Valid: true}
	}

	// Work on a copy: record must stay as stored if the write fails.
	completed := *record
	completed.Status = maintenance.StatusCompleted
	completed.CompletedAt = sql.NullTime{Time: completedOn, Valid: true}
	completed.Frequency = freq
	completed.Policy = policy
	completed.NextMaintenance = nextDate

	var followUp *maintenance.ServiceRecord
	if nextDate.Valid {
		followUp = &maintenance.ServiceRecord{
			ClientID:     completed.ClientID,
			EquipmentID:  completed.EquipmentID,
			TechnicianID: completed.TechnicianID,
			Description:  completed.Description,
			Status:       maintenance.StatusScheduled,
			ScheduledFor: nextDate,
			Frequency:    freq,
			Policy:       policy,
			ParentID:     sql.NullInt64{Int64: completed.ID, Valid: true},
		}
	}

	if err := s.serviceRepo.CompleteWithFollowUp(ctx, &completed, followUp); err != nil {
		logCtx.WithError(err).Error("Failed to complete service")
		return nil, fmt.Errorf("failed to complete service %d: %w", serviceID, err)
	}

	result := &CompletionResult{Service: &completed, NextDate: next, FollowUp: followUp}
	if followUp == nil {
		logCtx.Info("Service completed with no further maintenance scheduled")
		return result, nil
	}

	logCtx.WithFields(logrus.Fields{
		"next_maintenance": next.MustGet(),
		"follow_up_id":     followUp.ID,
	}).Info("Service completed and follow-up maintenance scheduled")
	return result, nil
}

func (s *MaintenanceServiceImpl) CompleteFromReminder(ctx context.Context, serviceID int64, technicianTelegramID int64, completedOn time.Time) (*CompletionResult, error) {
	record, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	tech, err := s.technicianRepo.GetByTelegramID(ctx, technicianTelegramID)
	if err != nil {
		if errors.Is(err, idb.ErrTechnicianNotFound) {
			return nil, ErrNotAssignedTechnician
		}
		return nil, fmt.Errorf("failed to get technician by Telegram ID: %w", err)
	}
	if !record.TechnicianID.Valid || record.TechnicianID.Int64 != tech.ID {
		return nil, ErrNotAssignedTechnician
	}

	return s.CompleteService(ctx, serviceID, completedOn, record.Frequency, record.Policy)
}

func (s *MaintenanceServiceImpl) ListDue(ctx context.Context, day time.Time) ([]*maintenance.ServiceRecord, error) {
	services, err := s.serviceRepo.ListScheduledOn(ctx, recurrence.DateOnly(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list services due on %s: %w", recurrence.FormatDate(day), err)
	}
	return services, nil
}

// UpcomingForTechnician lists the scheduled services assigned to the
// technician, soonest first.
func (s *MaintenanceServiceImpl) UpcomingForTechnician(ctx context.Context, technicianTelegramID int64) ([]*maintenance.ServiceRecord, error) {
	tech, err := s.technicianRepo.GetByTelegramID(ctx, technicianTelegramID)
	if err != nil {
		if errors.Is(err, idb.ErrTechnicianNotFound) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician by Telegram ID: %w", err)
	}

	services, err := s.serviceRepo.ListByTechnician(ctx, tech.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services of technician %d: %w", tech.ID, err)
	}

	upcoming := make([]*maintenance.ServiceRecord, 0, len(services))
	for _, record := range services {
		if record.Status == maintenance.StatusScheduled {
			upcoming = append(upcoming, record)
		}
	}
	return upcoming, nil
}

// ProcessDueMaintenance reminds each assigned, active technician of the
// visits scheduled on day. Services already reminded are skipped, and a
// failed send does not stop the rest of the batch. Delivery is at least once:
// NotifiedAt is saved after the send, so if saving fails a later run for the
// same day reminds the technician again.
func (s *MaintenanceServiceImpl) ProcessDueMaintenance(ctx context.Context, day time.Time) error {
	dayISO := recurrence.FormatDate(day)
	logCtx := s.logger.WithField("day", dayISO)

	services, err := s.ListDue(ctx, day)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list due services")
		return err
	}
	if len(services) == 0 {
		logCtx.Info("No maintenance due")
		return nil
	}
	logCtx.Infof("Found %d services due", len(services))

	sent := 0
	for _, record := range services {
		recordCtx := logCtx.WithField("service_id", record.ID)
		if record.NotifiedAt.Valid {
			recordCtx.Debug("Reminder already sent, skipping")
			continue
		}
		if !record.TechnicianID.Valid {
			recordCtx.Warn("Service has no technician assigned, skipping reminder")
			continue
		}

		tech, err := s.technicianRepo.GetByID(ctx, record.TechnicianID.Int64)
		if err != nil {
			recordCtx.WithError(err).Error("Failed to get assigned technician")
			continue
		}
		if !tech.IsActive {
			recordCtx.WithField("technician_id", tech.ID).Info("Assigned technician is inactive, skipping reminder")
			continue
		}

		replyMarkup := &telebot.ReplyMarkup{}
		btnDone := replyMarkup.Data("Completado", CallbackServiceDone, strconv.FormatInt(record.ID, 10))
		replyMarkup.Inline(replyMarkup.Row(btnDone))

		if err := s.messenger.SendMessage(tech.TelegramID, reminderText(tech, record, dayISO), &telebot.SendOptions{ReplyMarkup: replyMarkup}); err != nil {
			recordCtx.WithError(err).WithField("telegram_id", tech.TelegramID).Error("Failed to send maintenance reminder")
			continue
		}

		previous := record.NotifiedAt
		record.NotifiedAt = sql.NullTime{Time: s.now(), Valid: true}
		if err := s.serviceRepo.Update(ctx, record); err != nil {
			record.NotifiedAt = previous
			recordCtx.WithError(err).WithField("telegram_id", tech.TelegramID).
				Error("Reminder sent but not recorded; the next run will send it again")
			continue
		}
		sent++
	}

	logCtx.Infof("Sent %d maintenance reminders", sent)
	return nil
}

func reminderText(tech *technician.Technician, record *maintenance.ServiceRecord, dayISO string) string {
	text := fmt.Sprintf("Hola %s! Mantenimiento programado para hoy (%s).\nServicio #%d, cliente #%d, equipo #%d.",
		tech.FirstName, dayISO, record.ID, record.ClientID, record.EquipmentID)
	if record.Description != "" {
		text += "\n" + record.Description
	}
	return text + "\nPulsa \"Completado\" al terminar la visita."
}
