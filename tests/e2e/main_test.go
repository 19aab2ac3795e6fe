// Package e2e holds console scenarios that run against a HAL console and a
// WildFly server started per test in a container.
//
// The console URL and container image come from the halsuite config named
// by HALSUITE_CONFIG. Scenarios skip themselves in -short mode, without a
// container runtime, or when the console is not reachable.
package e2e
