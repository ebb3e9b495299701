package permission

// Enforcer evaluates and stores access policies. Subjects are built with
// UserSubject and GroupSubject, objects with ProjectObject or ObjectSite.
type Enforcer interface {
	Enforce(subject, object, action string) (bool, error)
	AddPolicies(rules [][]string) error
	RemovePolicy(subject, object, action string) error
	// HasSubject reports whether any policy names subject.
	HasSubject(subject string) (bool, error)
	AddRoleForUser(subject, role string) error
	GetRolesForUser(subject string) ([]string, error)
	LoadPolicy() error
}
