package domain

// Identity is the verified caller supplied by the identity provider.
type Identity struct {
	Email     string
	FirstName string
	LastName  string
}
