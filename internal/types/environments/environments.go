package environments

import "strings"

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

// Parse maps an APP_ENV value to a known environment, falling back to development.
func Parse(v string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(v))); env {
	case Production, Staging, Test, Development:
		return env
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}
