package domain

import "time"

const DefaultTeamMaxMembers = 4

type Team struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"eventId"`
	LeaderID    *uint     `json:"leaderId"`
	Leader      *User     `json:"leader,omitempty"`
	Members     []User    `json:"members"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	MaxMembers  int       `json:"maxMembers"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Size counts the leader and members.
func (t Team) Size() int {
	n := len(t.Members)
	if t.Leader != nil || t.LeaderID != nil {
		n++
	}

	return n
}

// HasUser reports whether userID leads or belongs to the team.
func (t Team) HasUser(userID uint) bool {
	if t.LeaderID != nil && *t.LeaderID == userID {
		return true
	}
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}

	return false
}
