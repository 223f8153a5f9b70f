// Package project inspects a WordPress plugin directory: it finds the
// project root, detects the package manager from lockfiles, reads
// package.json, and locates the main plugin file by its header block.
package project

import "errors"

// Sentinel errors for the project package.
var (
	// ErrInvalidRoot indicates the given project root path is invalid or inaccessible.
	ErrInvalidRoot = errors.New("invalid project root path")

	// ErrNotFound indicates no settings file was found in the directory or its parents.
	ErrNotFound = errors.New("no .wprelease.json found")

	// ErrInvalidManifest indicates package.json could not be parsed.
	ErrInvalidManifest = errors.New("invalid package.json")
)
