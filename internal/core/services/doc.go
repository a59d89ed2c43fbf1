// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import adapters; HTTP, storage and token handling stay
// behind the driven ports.
package services
