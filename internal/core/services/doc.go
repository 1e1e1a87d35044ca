// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The reading session coordinator, position store, search session and
// decoration manager all live here. Services are pure Go.
package services
