package version

import (
	"net/http"
	"strings"
)

// version is the current version of this module, set by build flags:
// -ldflags "-X go.mcproto.dev/mcproto/pkg/version.version=v1.2.3"
var version string = "unknown"

func String() string {
	return version
}

func UserAgent() string {
	var s strings.Builder
	s.WriteString("mcproto/")
	if v := String(); v != "" {
		s.WriteString(v)
	} else {
		s.WriteString("dirty")
	}
	return s.String()
}

func UserAgentHeader() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", UserAgent())
	return h
}
