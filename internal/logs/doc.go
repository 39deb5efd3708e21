// Package logs tails the narrasync log file for `narrasync logs`.
//
// Tail prints the last N lines and, in follow mode, polls for appended
// lines until the context ends. Only complete lines are emitted; a line
// still being written is picked up on the next poll.
package logs
