package app

import (
	"context"
	"io"
	"time"

	"proservis/internal/domain/maintenance"
	"proservis/internal/domain/technician"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v3"
)

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) Create(ctx context.Context, record *maintenance.ServiceRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*maintenance.ServiceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maintenance.ServiceRecord), args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, record *maintenance.ServiceRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockServiceRepo) CompleteWithFollowUp(ctx context.Context, record *maintenance.ServiceRecord, followUp *maintenance.ServiceRecord) error {
	return m.Called(ctx, record, followUp).Error(0)
}

func (m *mockServiceRepo) ListScheduledOn(ctx context.Context, day time.Time) ([]*maintenance.ServiceRecord, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*maintenance.ServiceRecord), args.Error(1)
}

func (m *mockServiceRepo) ListByTechnician(ctx context.Context, technicianID int64) ([]*maintenance.ServiceRecord, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*maintenance.ServiceRecord), args.Error(1)
}

type mockTechnicianRepo struct {
	mock.Mock
}

func (m *mockTechnicianRepo) Create(ctx context.Context, t *technician.Technician) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTechnicianRepo) GetByID(ctx context.Context, id int64) (*technician.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*technician.Technician), args.Error(1)
}

func (m *mockTechnicianRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*technician.Technician, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*technician.Technician), args.Error(1)
}

func (m *mockTechnicianRepo) Update(ctx context.Context, t *technician.Technician) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTechnicianRepo) ListActive(ctx context.Context) ([]*technician.Technician, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*technician.Technician), args.Error(1)
}

func (m *mockTechnicianRepo) ListAll(ctx context.Context) ([]*technician.Technician, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*technician.Technician), args.Error(1)
}

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	return m.Called(recipientChatID, text, options).Error(0)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
