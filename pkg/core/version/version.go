// ============================================================================
// tnc - Tonic front end
// ============================================================================
//
// Package:     version
// Description: Central version information for the tnc tool
// License:     MIT
// ============================================================================

package version

import "fmt"

// Name is the program name
const Name = "tnc"

// Version is the semantic version of the front end
const Version = "0.4.0"

// LanguageVersion is the Tonic language revision the front end accepts
const LanguageVersion = "1.2"

// String returns the version line printed by "tnc version"
func String() string {
	return fmt.Sprintf("%s %s (Tonic %s)", Name, Version, LanguageVersion)
}
