// Package fileutil holds the file copy and atomic write helpers used for
// audio and subtitle outputs.
package fileutil
