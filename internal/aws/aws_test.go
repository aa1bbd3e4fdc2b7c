package aws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_getProfile(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	require.Equal(t, "default", getProfile())

	t.Setenv("AWS_PROFILE", "signing")
	require.Equal(t, "signing", getProfile())
}
