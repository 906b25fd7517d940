package session

// Role identifies one of the platform's tenant roles. Each role owns an
// isolated API namespace, credential cookie, and session-state partition.
type Role string

const (
	// RoleBusinessOwner is an exported constant or variable used by the session client.
	RoleBusinessOwner Role = "business-owner"
	// RoleManager is an exported constant or variable used by the session client.
	RoleManager Role = "manager"
	// RoleEmployee is an exported constant or variable used by the session client.
	RoleEmployee Role = "employee"
	// RoleSuperAdmin is an exported constant or variable used by the session client.
	RoleSuperAdmin Role = "superadmin"
)

// Profile is the denormalized display snapshot cached per role. It is a
// cache, not a source of truth: no invariant ties its freshness to the
// authentication flag.
type Profile struct {
	DisplayName    string
	PictureURL     string
	CompanyName    string
	CompanyLogoURL string
}

func (p Profile) isZero() bool {
	return p == Profile{}
}

// merge overlays non-empty fields of other onto p. Empty fields never
// clear previously cached values.
func (p Profile) merge(other Profile) Profile {
	if other.DisplayName != "" {
		p.DisplayName = other.DisplayName
	}
	if other.PictureURL != "" {
		p.PictureURL = other.PictureURL
	}
	if other.CompanyName != "" {
		p.CompanyName = other.CompanyName
	}
	if other.CompanyLogoURL != "" {
		p.CompanyLogoURL = other.CompanyLogoURL
	}
	return p
}

// State defines a public type used by sessionclient APIs.
//
// State instances are value snapshots: mutate session state only through
// [Store] operations, never through a returned State.
type State struct {
	Role            Role
	IsAuthenticated bool
	Profile         Profile

	UpdatedAt int64

	// SchemaVersion records the persisted encoding version this state was
	// decoded from. Zero for states that never round-tripped through Redis.
	SchemaVersion uint8
}
