package buildinfo

import "runtime"

// Set at link time.
var (
	// Version is the release version, "dev" when built from source.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Info is the version stamp served on the admin /version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the stamp for the running binary. GoVersion comes from
// the runtime rather than ldflags so it can never disagree with the
// toolchain that produced the binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the stamp in the form used for --version output.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}
