package domain

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizer   Role = "organizer"
	RoleJudge       Role = "judge"
	RoleMentor      Role = "mentor"
	RoleParticipant Role = "participant"
)

// Roles lists every role a user may hold.
var Roles = []Role{RoleAdmin, RoleOrganizer, RoleJudge, RoleMentor, RoleParticipant}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}

	return false
}

// OrDefault returns RoleParticipant for an empty role.
func (r Role) OrDefault() Role {
	if r == "" {
		return RoleParticipant
	}

	return r
}

// CanManageEvents reports whether the role may create events and issue certificates.
func (r Role) CanManageEvents() bool {
	return r == RoleAdmin || r == RoleOrganizer
}

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor organizes the given event.
func (a Actor) Owns(e Event) bool {
	return a.Role == RoleOrganizer && e.OrganizerID != 0 && e.OrganizerID == a.UserID
}
