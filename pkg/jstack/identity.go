package jstack

// Identity is the invoking user, captured once at startup and threaded
// through the dump policy rather than read ambiently.
type Identity struct {
	User string
	UID  int
}

// IsRoot reports whether the identity carries superuser privileges.
func (id Identity) IsRoot() bool {
	return id.UID == 0
}
