package entity

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username    string   `db:"username"`
	Email       string   `db:"email"`
	FirstName   *string  `db:"first_name"`
	LastName    *string  `db:"last_name"`
	Bio         *string  `db:"bio"`
	Role        UserRole `db:"role"`
	IsSuperuser bool     `db:"is_superuser"`
}
