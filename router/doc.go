// Package router maps one task to the one agent operation that satisfies it.
// It drives the task state machine (created → validating → routing →
// executing → completed|failed), validates stage parameters, resolves the
// working dataset, dispatches to the registered agent, and caches the raw
// stage output so later stages can read every prior result by name.
//
// The router also owns pipeline-order validation: a workflow submission
// whose stages are not in canonical order is rejected wholesale before any
// task runs, because allowing partial progress before detecting a misordered
// pipeline would leave inconsistent cached state.
package router
