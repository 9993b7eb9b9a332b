package domain

// User is the identity carried by a moderation token.
type User struct {
	Id    int64
	Admin bool
}
