package api

import (
	"context"
	"fmt"
	"net/http"

	"dermalink/mobile/internal/models"
)

func (c *Client) DoctorAppointments(ctx context.Context, token, doctorID string) ([]models.Consultation, error) {
	var out []models.Consultation
	err := c.do(ctx, http.MethodGet, "/api/mobile/doctor_appointments/"+doctorID, token, nil, &out)
	return out, err
}

func (c *Client) PatientAppointments(ctx context.Context, token, patientID string) ([]models.Consultation, error) {
	var out []models.Consultation
	err := c.do(ctx, http.MethodGet, "/api/mobile/patient_appointments/"+patientID, token, nil, &out)
	return out, err
}

func (c *Client) ConsultationsToday(ctx context.Context, token, patientID string) ([]models.Consultation, error) {
	var out []models.Consultation
	err := c.do(ctx, http.MethodGet, "/api/mobile/patient_consultations_today/"+patientID, token, nil, &out)
	return out, err
}

type BookingInput struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason,omitempty"`
}

func (c *Client) BookConsultation(ctx context.Context, token string, input BookingInput) (models.Consultation, error) {
	var out models.Consultation
	err := c.do(ctx, http.MethodPost, "/api/mobile/consultations", token, input, &out)
	return out, err
}

// UpdateConsultation moves a pending request to approved or rejected. The
// backend owns the transition rules; rejection must carry a reason.
func (c *Client) UpdateConsultation(ctx context.Context, token, id string, status models.ConsultationStatus, refusReason string) error {
	if status == models.ConsultationRejected && refusReason == "" {
		return fmt.Errorf("rejection requires a reason")
	}
	body := map[string]string{"status": string(status)}
	if refusReason != "" {
		body["refus_reason"] = refusReason
	}
	return c.do(ctx, http.MethodPut, "/api/mobile/consultations/"+id, token, body, nil)
}

func (c *Client) ArchiveConsultation(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/mobile/archive_consultation/"+id, token, nil, nil)
}

type timeSlotsResponse struct {
	AvailableSlots []models.TimeSlot `json:"available_slots"`
}

func (c *Client) AvailableTimeSlots(ctx context.Context, token, date, doctorID string) ([]models.TimeSlot, error) {
	var out timeSlotsResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/available_time_slots/"+date+"/"+doctorID, token, nil, &out)
	return out.AvailableSlots, err
}
