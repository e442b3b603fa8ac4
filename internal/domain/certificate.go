package domain

import (
	"fmt"
	"time"
)

const DefaultCertificateRole = "participant"

type Certificate struct {
	ID             uint      `json:"id" csv:"id"`
	EventID        uint      `json:"eventId" csv:"event_id"`
	RecipientName  string    `json:"recipientName" csv:"recipient_name"`
	RecipientEmail string    `json:"recipientEmail" csv:"recipient_email"`
	Role           string    `json:"role" csv:"role"`
	CertificateURL string    `json:"certificateUrl" csv:"certificate_url"`
	CertificateID  *string   `json:"certificateId,omitempty" csv:"certificate_id"`
	CreatedAt      time.Time `json:"createdAt" csv:"issued_at"`
}

// Recipient is a person eligible for a certificate.
type Recipient struct {
	UserID uint
	Name   string
	Email  string
	Role   string
}

// NewCertificateID builds the identifier used for insert-level deduplication.
func NewCertificateID(eventID, userID uint, at time.Time) string {
	return fmt.Sprintf("CERT-%d-%d-%d", eventID, userID, at.UnixMilli())
}

// Recipients lists the leader and resolved members of every team, each user once.
func Recipients(teams []Team) []Recipient {
	seen := make(map[uint]bool)
	var out []Recipient
	add := func(u *User) {
		if u == nil || u.ID == 0 || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		out = append(out, Recipient{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   DefaultCertificateRole,
		})
	}

	for _, t := range teams {
		add(t.Leader)
		for i := range t.Members {
			add(&t.Members[i])
		}
	}

	return out
}

// BulkResult summarises one bulk certificate run.
type BulkResult struct {
	EventID    uint      `json:"eventId"`
	Recipients int       `json:"recipients"`
	Rendered   int       `json:"rendered"`
	Inserted   int       `json:"inserted"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	FinishedAt time.Time `json:"finishedAt"`
}
