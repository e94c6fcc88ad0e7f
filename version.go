// Package jstr is the root of the XPath 1.0-over-JSON evaluator and its
// Schematron-style validation layer; see the xpath and schematron
// subpackages for the actual implementation.
package jstr

// Version is the module's release version, mirroring Jstr::getVersion()
// in the original C++ library.
const Version = "0.1.0"

// GetVersion returns Version.
func GetVersion() string { return Version }
