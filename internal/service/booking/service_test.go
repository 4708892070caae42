package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Narutostha/sanambar/internal/model"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
	createCalls  int
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.createCalls++
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	stored := *apt
	f.appointments = append(f.appointments, &stored)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, len(f.appointments))
	copy(out, f.appointments)
	return out, nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, apt := range f.appointments {
		if apt.ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("appointment", nil)
}

type recordingMailer struct {
	sent []*model.Appointment
	err  error
}

func (m *recordingMailer) SendBookingConfirmation(_ context.Context, apt *model.Appointment) error {
	m.sent = append(m.sent, apt)
	return m.err
}

func newTestService(mailer Mailer) (*Service, *fakeAppointmentRepo) {
	repo := &fakeAppointmentRepo{}
	svc := NewService(repo, mailer, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	}
	return svc, repo
}

func validRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		ServiceID: uuid.New().String(),
		Name:      "Ram Thapa",
		Email:     "ram@example.com",
		Phone:     "+977-9841-000000",
		Date:      "2026-03-15",
		Time:      "10:30",
	}
}

func TestService_Submit_InsertsOneAppointment(t *testing.T) {
	mailer := &recordingMailer{}
	svc, repo := newTestService(mailer)

	apt, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, apt.ID)
	assert.Equal(t, 1, repo.createCalls)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, apt.ID, mailer.sent[0].ID)
}

func TestService_Submit_MissingFieldNeverReachesStore(t *testing.T) {
	fields := []struct {
		name   string
		mutate func(*model.CreateAppointmentRequest)
	}{
		{"service_id", func(r *model.CreateAppointmentRequest) { r.ServiceID = "" }},
		{"name", func(r *model.CreateAppointmentRequest) { r.Name = "  " }},
		{"email", func(r *model.CreateAppointmentRequest) { r.Email = "" }},
		{"phone", func(r *model.CreateAppointmentRequest) { r.Phone = "" }},
		{"date", func(r *model.CreateAppointmentRequest) { r.Date = "" }},
		{"time", func(r *model.CreateAppointmentRequest) { r.Time = "" }},
	}

	for _, tt := range fields {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(nil)
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestService_Submit_PastDateFloor(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"yesterday rejected", "2026-03-09", true},
		{"today allowed", "2026-03-10", false},
		{"tomorrow allowed", "2026-03-11", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(nil)
			req := validRequest()
			req.Date = tt.date

			_, err := svc.Submit(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Submit_BadServiceID(t *testing.T) {
	svc, repo := newTestService(nil)
	req := validRequest()
	req.ServiceID = "not-a-uuid"

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.createCalls)
}

func TestService_Submit_MailFailureDoesNotFailBooking(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc, repo := newTestService(mailer)

	apt, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, apt)
	assert.Equal(t, 1, repo.createCalls)
}

func TestService_Submit_DuplicateSubmissionsBothStored(t *testing.T) {
	svc, repo := newTestService(nil)
	req := validRequest()

	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.createCalls)
}

func TestService_Delete_ReturnsRemaining(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)
	second, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	remaining, err := svc.Delete(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}
