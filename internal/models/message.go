package models

// Role identifies who authored a chat log entry
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Label returns the display label for the role
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "Bot"
	default:
		return string(r)
	}
}

// Message represents a chat log entry
type Message struct {
	Role Role
	Text string
}
