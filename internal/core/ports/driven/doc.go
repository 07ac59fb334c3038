// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// These are the interfaces the core services call out through: the row-store
// collaborator, the answer-generation collaborator, and the page producer.
// Adapters under internal/adapters/driven implement them.
package driven
