// Package core defines the shared vocabulary of the InsightMesh orchestration
// engine: the fixed pipeline stages, task and workflow records with their
// state machines, the uniform stage result envelope, and the contracts
// (Agent, DataStore, MetricsCollector) that bind the orchestrator to its
// pluggable collaborators.
//
// Everything in this package is plain data plus small state-transition
// helpers; the control flow that drives these types lives in the router,
// workflow and façade packages.
package core
