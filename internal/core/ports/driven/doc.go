// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Renderer: Opens publications and returns handles
//   - Publication: The opened, renderer-managed publication. Owns layout,
//     navigation, text search, and decoration drawing. The core only
//     coordinates state around it.
//   - SearchIterator: Cancellable, paginated search results
//   - BlobStore: Durable keyed blob persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Library: Publication discovery. Without it, publications are opened
//     by explicit path only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
