package domain

// Claims is the identity data carried inside a signed session token.
// Tokens are stateless: nothing here is persisted server side.
type Claims struct {
	UserId UserId
	Email  string
	Role   string
}
