// Package instance provides the commands that start, stop and inspect compute instances.
package instance
