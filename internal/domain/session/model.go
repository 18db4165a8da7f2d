package session

import (
	"errors"
	"strings"
	"time"
)

// Role constants. "superadmin" is the canonical spelling; the legacy
// underscore form is accepted on input and normalized.
const (
	RoleStudent    = "student"
	RoleCoach      = "coach"
	RoleSuperAdmin = "superadmin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleStudent, RoleCoach, RoleSuperAdmin}

// Domain errors
var (
	ErrInvalidRole    = errors.New("role must be one of: student, coach, superadmin")
	ErrEmptyToken     = errors.New("token cannot be empty")
	ErrZeroExpiry     = errors.New("expiry cannot be zero")
	ErrNoToken        = errors.New("login result carries no token")
	ErrUnknownProfile = errors.New("login result carries no profile")
)

// NormalizeRole maps a raw role string onto its canonical constant.
// PRE: role is the value reported by a login endpoint or stored record
// POST: Returns a canonical role or ErrInvalidRole
func NormalizeRole(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleCoach:
		return RoleCoach, nil
	case RoleSuperAdmin, "super_admin":
		return RoleSuperAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Profile holds the role-shaped display attributes carried by a login
// response. Beyond display the portal treats it as opaque.
type Profile struct {
	ID       string `json:"id,omitempty"`
	Role     string `json:"role"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Issued is the normalized outcome of any of the three login endpoints:
// a credential, its validity duration, and a profile.
type Issued struct {
	Token     string
	TokenType string
	ExpiresIn int // seconds; 0 means the endpoint gave no duration
	Profile   Profile
}

// Record is the persisted Session Record: the single source of truth for
// who is logged in, with what credential, until when.
type Record struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord normalizes an issuance into a Record. The expiry is computed
// from now + ExpiresIn, falling back to fallbackTTL when the endpoint gave
// no duration.
// PRE: iss came from a login endpoint
// POST: Record role is canonical, ExpiresAt is in the future
func NewRecord(iss Issued, now time.Time, fallbackTTL time.Duration) (Record, error) {
	if iss.Token == "" {
		return Record{}, ErrNoToken
	}
	role, err := NormalizeRole(iss.Profile.Role)
	if err != nil {
		return Record{}, err
	}
	ttl := fallbackTTL
	if iss.ExpiresIn > 0 {
		ttl = time.Duration(iss.ExpiresIn) * time.Second
	}
	tokenType := iss.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	profile := iss.Profile
	profile.Role = role
	return Record{
		Token:     iss.Token,
		TokenType: tokenType,
		ExpiresAt: now.Add(ttl),
		Role:      role,
		Profile:   profile,
		CreatedAt: now,
	}, nil
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.Token == "" {
		return ErrEmptyToken
	}
	if _, err := NormalizeRole(r.Role); err != nil {
		return err
	}
	if r.ExpiresAt.IsZero() {
		return ErrZeroExpiry
	}
	return nil
}

// ValidAt reports whether the record's credential is still usable at t.
// An expired record is treated identically to no record, even though the
// bytes may remain in storage until cleared.
// INVARIANT: Record fields are not mutated
func (r *Record) ValidAt(t time.Time) bool {
	return r.ExpiresAt.After(t)
}
