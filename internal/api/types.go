package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
)

type BookAppointmentRequest struct {
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AvailabilityEntryRequest struct {
	Date         string `json:"date"`
	StartHour    string `json:"startHour"`
	EndHour      string `json:"endHour"`
	SlotDuration int    `json:"slotDuration"`
}

type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctorId"`
	PatientID uuid.UUID `json:"patientId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AvailabilityResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctorId"`
	Date         string    `json:"date"`
	StartHour    string    `json:"startHour"`
	EndHour      string    `json:"endHour"`
	SlotDuration int       `json:"slotDuration"`
	Active       bool      `json:"active"`
}

type ProvisionResponse struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message"`
	Availability []AvailabilityResponse `json:"availability"`
}

type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Success bool                `json:"success"`
	Data    AppointmentResponse `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date.Format(time.DateOnly),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAppointmentResponses(items []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func toAvailabilityResponses(items []appointment.AvailabilityWindow) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(items))
	for _, w := range items {
		out = append(out, AvailabilityResponse{
			ID:           w.ID,
			DoctorID:     w.DoctorID,
			Date:         w.Date.Format(time.DateOnly),
			StartHour:    w.StartHour,
			EndHour:      w.EndHour,
			SlotDuration: w.SlotDuration,
			Active:       w.Active,
		})
	}
	return out
}
