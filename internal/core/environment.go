package core

// Environment is the deployment environment of the display server.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps anything but "production" to Development.
func ParseEnvironment(v string) Environment {
	if Environment(v) == Production {
		return Production
	}
	return Development
}
