// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (wire/state) and contracts (interfaces) only.
//
// The concrete definitions live in the types and interfaces subpackages;
// this package re-exports them under short names. Packages that the
// interfaces themselves depend on (for example protocol/signaling) import
// domain/types directly to avoid an import cycle.
package domain
