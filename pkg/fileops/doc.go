// Package fileops provides engine.FileOps implementations backed by memory
// and by a directory on disk.
package fileops
