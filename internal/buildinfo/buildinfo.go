package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("preprints %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent identifies outgoing API calls.
func UserAgent() string {
	return "preprints/" + Version
}
