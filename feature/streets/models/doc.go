// Package models defines the GORM models of the canonical street registry.
//
// The registry is owned by another system; these models only describe the
// tables the reconciliation reads (municipalities, postal codes, streets,
// street names per language and street number ranges).
package models
