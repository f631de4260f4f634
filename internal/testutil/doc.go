// Package testutil provides shared fixtures for engine tests: a scriptable
// fake agent, a standard set of pipeline agents, and small dataset builders.
// Test-only; not part of the public API surface.
package testutil
