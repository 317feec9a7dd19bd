package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleDriver     Role = "DRIVER"
	RolePassenger  Role = "PASSENGER"
)

// ParseRole maps a role string from the users directory onto a Role. The
// passenger directory sends no role at all; an empty input maps to PASSENGER.
// Any other unrecognized value is an input error, not a silent default.
func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return RolePassenger, nil
	case "SUPERADMIN":
		return RoleSuperadmin, nil
	case "ADMIN":
		return RoleAdmin, nil
	case "DRIVER":
		return RoleDriver, nil
	case "PASSENGER":
		return RolePassenger, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Principal is an authenticatable identity fetched on demand from one of the
// two remote directories. It is never persisted here.
type Principal struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
