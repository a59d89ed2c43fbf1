// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Requester: Sends API requests with session handling (session client)
//   - Session: Holds and mutates the credential pair
//   - AuthAPI, WorkspaceAPI, IntegrationAPI: Typed backend endpoints
//   - CredentialStore: Credential pair persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncHistoryStore: Local record of sync runs. Without it, history is not kept.
//   - ChatAPI: Streaming assistant. Without it, the chat command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
