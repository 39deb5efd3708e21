// Package testsupport holds fixtures shared by narrasync tests: temp-dir
// configs, stub binaries on PATH, replay event dumps, and cache stores.
package testsupport
