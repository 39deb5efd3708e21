// Package textutil normalizes narration text and derives filesystem-safe
// output names.
package textutil
