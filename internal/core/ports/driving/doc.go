// Package driving defines the interfaces that adapters call IN to core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Driving adapters (CLI, MCP server, folder watcher) depend on these
// interfaces, and core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
