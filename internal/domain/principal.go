package domain

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  int64
	Email   string
	IsAdmin bool
}
