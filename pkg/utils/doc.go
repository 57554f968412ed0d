// Package utils provides utility packages for common operations.
//
//   - notify: Formatted message display with symbols, colors, and elapsed time
package utils
