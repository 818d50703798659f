package version

// Set at build time with -ldflags "-X github.com/tagfilterdb/querydesk/pkg/version.version=...".
var version = "0.1.0-dev"

func Version() string {
	return version
}
