package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a booking request captured from the public form.
// Appointments are append-only from the public side; only the admin
// console deletes them. Nothing prevents two bookings landing on the
// same slot.
type Appointment struct {
	Base
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Date      time.Time `db:"date" json:"date"`
	Time      string    `db:"time" json:"time"` // wall-clock string, e.g. "10:00"
}

type CreateAppointmentRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Date      string `json:"date" binding:"required"` // "2006-01-02"
	Time      string `json:"time" binding:"required"`
}
