// Package deps checks that the external binaries narrasync shells out to are
// present on PATH.
package deps
