// Package domain defines the core business entities for Oversight.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CredentialPair: The access/refresh tokens of the signed-in user
//   - Request / Response: API call descriptors handled by the session client
//   - Failure: The typed error every API call returns
//   - Workspace entities: users, groups and discovered OAuth apps
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
