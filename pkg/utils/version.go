// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "fmt"

// Set at build time with -ldflags -X.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies switchboard on outgoing HTTP calls, both to
// providers and from the CLI to a gateway.
func UserAgent() string {
	return "switchboard/" + Version
}

// BuildInfo is the multi-line version report printed by "switchboard version".
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nSha: %s\nBuilt at: %s\n", Version, Sha, Buildtime)
}
