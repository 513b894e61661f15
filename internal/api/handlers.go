package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

func listSlotsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var doctorID uuid.UUID
		if raw := q.Get("doctorId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorId must be a valid UUID")
				return
			}
			doctorID = id
		}

		slots, err := svc.ListSlots(r.Context(), doctorID, q.Get("date"))
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := make([]SlotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, SlotResponse{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFromContext(r.Context())

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var doctorID uuid.UUID
		if req.DoctorID != "" {
			id, err := uuid.Parse(req.DoctorID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorId must be a valid UUID")
				return
			}
			doctorID = id
		}

		appt, err := svc.BookAppointment(r.Context(), appointment.BookingRequest{
			DoctorID:  doctorID,
			PatientID: caller.UserID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFromContext(r.Context())

		id, ok := parseIDParam(w, r, "id", "invalid_appointment_id")
		if !ok {
			return
		}

		if _, err := svc.CancelAppointment(r.Context(), id, caller.UserID); err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, CancelResponse{Success: true, Message: "Appointment cancelled successfully"})
	}
}

func updateStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFromContext(r.Context())

		id, ok := parseIDParam(w, r, "id", "invalid_appointment_id")
		if !ok {
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, caller.UserID, appointment.AppointmentStatus(req.Status))
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Success: true, Data: toAppointmentResponse(*appt)})
	}
}

func listPatientAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFromContext(r.Context())

		items, err := svc.ListPatientAppointments(r.Context(), caller.UserID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(items))
	}
}

func listDoctorAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFromContext(r.Context())

		items, err := svc.ListDoctorAppointments(r.Context(), caller.UserID, r.URL.Query().Get("date"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(items))
	}
}

func provisionAvailabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := parseIDParam(w, r, "doctorId", "invalid_doctor_id")
		if !ok {
			return
		}

		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			writeError(w, http.StatusBadRequest, "validation_error", "availability must be an array")
			return
		}

		var req []AvailabilityEntryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid availability format")
			return
		}

		entries := make([]appointment.AvailabilityEntry, 0, len(req))
		for _, e := range req {
			entries = append(entries, appointment.AvailabilityEntry{
				Date:         e.Date,
				StartHour:    e.StartHour,
				EndHour:      e.EndHour,
				SlotDuration: e.SlotDuration,
			})
		}

		created, err := svc.ProvisionAvailability(r.Context(), doctorID, entries)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, ProvisionResponse{
			Success:      true,
			Message:      "Availability updated",
			Availability: toAvailabilityResponses(created),
		})
	}
}

func listAvailabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := parseIDParam(w, r, "doctorId", "invalid_doctor_id")
		if !ok {
			return
		}

		windows, err := svc.ListAvailability(r.Context(), doctorID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAvailabilityResponses(windows))
	}
}

func removeDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := parseIDParam(w, r, "id", "invalid_doctor_id")
		if !ok {
			return
		}

		if err := svc.RemoveDoctor(r.Context(), doctorID); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Doctor and associated data deleted successfully"})
	}
}

func listNotificationsHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func markNotificationReadHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_notification_id")
		if !ok {
			return
		}

		n, err := svc.MarkRead(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

func unreadCountHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.UnreadCount(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, CountResponse{Count: count})
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, code, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appointment.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, appointment.ErrSlotUnavailable):
		writeError(w, http.StatusBadRequest, "slot_unavailable", "Slot is no longer available")
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "invalid_transition", "Appointment cannot be cancelled")
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", "Invalid status value")
	case errors.Is(err, appointment.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized for this appointment")
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", "Appointment not found")
	case errors.Is(err, appointment.ErrAvailabilityNotFound):
		writeError(w, http.StatusNotFound, "availability_not_found", "No availability found")
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", "Doctor not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", "Notification not found")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
