// Package models holds the GORM row types the repositories read and
// write. Domain aggregates stay free of ORM tags; each model here knows
// how to map itself to and from its aggregate, and repositories never
// hand a model across the persistence boundary.
package models
