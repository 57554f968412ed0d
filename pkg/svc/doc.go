// Package svc provides service layer components for vmctl.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the cloud provider APIs.
//
// Subpackages:
//   - provider: Instance clients (AWS EC2, Hetzner Cloud) and the shared error taxonomy
//   - waiter: Drives start/stop requests to a definitive outcome and waits for public addresses
package svc
