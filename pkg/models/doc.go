// Package models provides shared data models and types for wprelease.
//
// The package holds the project settings schema persisted as
// .wprelease.json, the package manager enum and the FTP settings block.
//
// # Package Managers
//
// Use [PackageManager] and its constants:
//
//	pm := models.PackageManagerYarn
//	if pm.IsValid() {
//	    fmt.Println(pm.InstallArgs())
//	}
//
// # Configuration Types
//
//   - [ReleaseConfig]: project identity, build and packaging settings
//   - [FTPConfig]: upload target stored alongside the project
package models
