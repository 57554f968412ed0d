// Package notify writes the status lines vmctl shows to users: success (✔), error (✗),
// warning (⚠), info (ℹ) and activity (►), with an optional elapsed time after a success.
package notify
