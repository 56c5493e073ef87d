package types

// Fingerprint is a short identifier for key material presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Role identifies which side of a session a peer is on.
type Role byte

const (
	RoleHost   Role = 'h'
	RoleClient Role = 'c'
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	}
	return "unknown"
}

// Peer returns the opposite role.
func (r Role) Peer() Role {
	if r == RoleHost {
		return RoleClient
	}
	return RoleHost
}
