// Package fileutil prepares the on-disk directory that holds port lease lock
// files.
package fileutil
