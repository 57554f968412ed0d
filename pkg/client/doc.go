// Package client provides helpers shared by the cloud API clients.
//
//   - netretry: Transient error detection and backoff delays
package client
