package user

// Principal is the authenticated caller identity resolved by the account
// gateway before any marketplace operation runs.
type Principal struct {
	UserID   string
	Username string
	Email    string
}
