package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserAgentHasMcprotoPrefix(t *testing.T) {
	require.True(t, strings.HasPrefix(UserAgent(), "mcproto/"))
}

func TestUserAgentHeaderSetsUserAgent(t *testing.T) {
	h := UserAgentHeader()
	require.Equal(t, UserAgent(), h.Get("User-Agent"))
}

func TestStringDefaultsToUnknown(t *testing.T) {
	require.Equal(t, "unknown", String())
}
