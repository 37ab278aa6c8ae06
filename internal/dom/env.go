package dom

// Environment reports whether the host can traverse elements and create text
// nodes. Decorations are skipped silently when it cannot.
type Environment interface {
	SupportsDOM() bool
}

// EnvironmentFunc adapts a plain function to Environment.
type EnvironmentFunc func() bool

// SupportsDOM calls f.
func (f EnvironmentFunc) SupportsDOM() bool { return f() }

// Predefined environments.
var (
	Modern      Environment = EnvironmentFunc(func() bool { return true })
	Unsupported Environment = EnvironmentFunc(func() bool { return false })
)

// Supports is a nil-safe SupportsDOM.
func Supports(env Environment) bool {
	return env != nil && env.SupportsDOM()
}
