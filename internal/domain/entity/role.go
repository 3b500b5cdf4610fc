package entity

// Roles válidos para Person.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Role asocia una persona con un rol. Se guarda en su propia tabla y no se borra con la persona.
type Role struct {
	ID       int
	PersonID int
	Role     string
}

// ValidRole indica si el nombre de rol es conocido.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
