package domain

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is the provisioned account record keyed by the identity provider uid.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID     string
	Email  string
	Role   Role
	Claims map[string]any
}

func (p *Principal) IsStudent() bool { return p != nil && p.Role == RoleStudent }
func (p *Principal) IsTeacher() bool { return p != nil && p.Role == RoleTeacher }
