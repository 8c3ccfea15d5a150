package contextkeys

type contextKey string

const (
	SessionKey contextKey = "UserSession"
)
