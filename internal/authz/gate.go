// Package authz decides whether a page path may be served to a session.
package authz

import (
	"strings"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type Outcome int

const (
	Allow Outcome = iota
	Deny
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome Outcome
	// Target is set for Redirect.
	Target string
}

// Session is the authenticated caller. A nil session is logged out.
type Session struct {
	UserID uint
	Role   domain.Role
}

var publicPaths = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
	"/events":   true,
	"/verify":   true,
	"/profile":  true,
}

type dashboardRoute struct {
	prefix string
	role   domain.Role
}

// Order matters only for overlapping prefixes; there are none.
var dashboardRoutes = []dashboardRoute{
	{prefix: "/admin", role: domain.RoleAdmin},
	{prefix: "/organizer", role: domain.RoleOrganizer},
	{prefix: "/judge", role: domain.RoleJudge},
	{prefix: "/mentor", role: domain.RoleMentor},
	{prefix: "/participant", role: domain.RoleParticipant},
}

// IsPublic reports whether path is served regardless of session state.
func IsPublic(path string) bool {
	return publicPaths[path]
}

// DashboardPath is the landing page of a role.
func DashboardPath(role domain.Role) string {
	return "/" + string(role.OrDefault())
}

// RequiredRole returns the role a dashboard path is reserved for.
func RequiredRole(path string) (domain.Role, bool) {
	for _, r := range dashboardRoutes {
		if path == r.prefix || strings.HasPrefix(path, r.prefix+"/") {
			return r.role, true
		}
	}

	return "", false
}

func Authorize(path string, session *Session) Decision {
	if IsPublic(path) {
		return Decision{Outcome: Allow}
	}
	if session == nil {
		return Decision{Outcome: Deny}
	}

	required, ok := RequiredRole(path)
	if !ok {
		return Decision{Outcome: Allow}
	}

	role := session.Role.OrDefault()
	if role == required {
		return Decision{Outcome: Allow}
	}

	target := DashboardPath(role)
	if path == target {
		return Decision{Outcome: Allow}
	}

	return Decision{Outcome: Redirect, Target: target}
}
