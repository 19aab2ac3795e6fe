// Package containers provisions one isolated application server per test
// scenario and runs commands inside it.
package containers

import "strings"

// Scenario file suffixes stripped before deriving a container name.
var scenarioSuffixes = []string{".cy.ts", "_test.go"}

// ContainerName derives the container name of a scenario. One trailing
// scenario file suffix is removed, then every rune outside [A-Za-z0-9]
// becomes an underscore:
//
//	"logging-configuration.cy.ts"  -> "logging_configuration"
//	"TestMailSession/add_session"  -> "TestMailSession_add_session"
func ContainerName(scenario string) string {
	for _, suffix := range scenarioSuffixes {
		if strings.HasSuffix(scenario, suffix) {
			scenario = strings.TrimSuffix(scenario, suffix)
			break
		}
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, scenario)
}
