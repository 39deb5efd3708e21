// Package preflight runs the environment checks behind `narrasync doctor`:
// directory permissions for output, cache, and logs, plus a probe of the
// configured synthesis command.
package preflight
