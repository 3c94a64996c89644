// Package utils provides small helpers shared across packages.
// It currently covers media handle classification and object key hygiene.
package utils
