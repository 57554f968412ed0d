// Package aws implements provider.Provider for Amazon EC2 instances using aws-sdk-go-v2.
//
// Credentials are always passed in explicitly; the package never reads the process
// environment itself.
package aws
