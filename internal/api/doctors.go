package api

import (
	"context"
	"net/http"
	"strings"

	"dermalink/mobile/internal/models"
)

// DoctorList returns the directory for one governorate.
func (c *Client) DoctorList(ctx context.Context, token, location string) ([]models.Doctor, error) {
	var out []models.Doctor
	err := c.do(ctx, http.MethodGet, "/api/mobile/doctor_list/"+location, token, nil, &out)
	return out, err
}

func (c *Client) DoctorDetails(ctx context.Context, token, doctorID string) (models.Doctor, error) {
	var out models.Doctor
	err := c.do(ctx, http.MethodGet, "/api/mobile/doctor_details/"+doctorID, token, nil, &out)
	return out, err
}

func (c *Client) Maladies(ctx context.Context, token string) ([]models.Malady, error) {
	var out []models.Malady
	err := c.do(ctx, http.MethodGet, "/api/mobile/maladies", token, nil, &out)
	return out, err
}

// FilterDoctorsByName is the client-side name search the directory screen
// applies on top of the fetched list.
func FilterDoctorsByName(doctors []models.Doctor, query string) []models.Doctor {
	if query == "" {
		return doctors
	}
	q := strings.ToLower(query)
	var out []models.Doctor
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Firstname), q) ||
			strings.Contains(strings.ToLower(d.Lastname), q) {
			out = append(out, d)
		}
	}
	return out
}
