package models

import "time"

type ConsultationStatus string

const (
	ConsultationPending  ConsultationStatus = "pending"
	ConsultationApproved ConsultationStatus = "approved"
	ConsultationRejected ConsultationStatus = "rejected"
	ConsultationArchived ConsultationStatus = "archived"
)

type Consultation struct {
	ID          string             `json:"id"`
	DoctorID    string             `json:"doctor_id"`
	PatientID   string             `json:"patient_id"`
	DoctorName  string             `json:"doctor_name,omitempty"`
	PatientName string             `json:"patient_name,omitempty"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Status      ConsultationStatus `json:"status"`
	RefusReason string             `json:"refus_reason,omitempty"`
	CreatedAt   time.Time          `json:"created_at,omitempty"`
}

// FilterByStatus keeps only the consultations in the given status, the way
// the request tabs split one doctor feed into pending/approved/rejected.
func FilterByStatus(list []Consultation, status ConsultationStatus) []Consultation {
	var out []Consultation
	for _, c := range list {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

type Doctor struct {
	ID         string `json:"id"`
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location"`
	Address    string `json:"address,omitempty"`
	Speciality string `json:"speciality,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

func (d Doctor) FullName() string {
	return d.Firstname + " " + d.Lastname
}

type TimeSlot struct {
	Time string `json:"time"`
}

type Message struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id,omitempty"`
	SenderID  string    `json:"sender_id"`
	Sender    string    `json:"sender_name,omitempty"`
	Body      string    `json:"body"`
	ImageURLs []string  `json:"image_urls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Malady struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Prediction is the AI classifier's verdict for an uploaded skin image.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}
