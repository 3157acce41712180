package domain

// Post is a resource item owned by a single identity.
type Post struct {
	Username string
	Title    string
}
