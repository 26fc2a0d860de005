package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	assert.Equal(t, "dev", getVersion())

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", getVersion())
}

func TestGetShortCommit(t *testing.T) {
	old := GitCommit
	t.Cleanup(func() { GitCommit = old })

	GitCommit = "0123456789abcdef"
	assert.Equal(t, "0123456", getShortCommit())

	GitCommit = "abc"
	assert.Equal(t, "abc", getShortCommit())
}
