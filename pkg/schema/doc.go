// Package schema defines the declarative form model: templates made of ordered
// sections and fields, validation and conditional rules, per-instance form
// data and persisted submissions. The JSON shapes in this package are the wire
// format; round-trips preserve ordering and optional-key presence.
package schema
