package models

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (i Identity) IsFilmAdmin() bool { return i.Role == RoleFilmAdmin }
