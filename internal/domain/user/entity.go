package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployer  Role = "employer"
	RoleJobSeeker Role = "jobSeeker"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleEmployer:
		return RoleEmployer, true
	case RoleJobSeeker:
		return RoleJobSeeker, true
	}
	return "", false
}

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleJobSeeker
}

// User is the credential record behind an Identity.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration is the entry written into exactly one role bucket at signup.
type Registration struct {
	UserID    uuid.UUID
	Role      Role
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Identity is the authenticated caller as carried by an access token.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Phone       string
}
