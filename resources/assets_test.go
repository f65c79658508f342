package resources

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogosAreEmbeddedPNGs(t *testing.T) {
	for _, name := range []string{LogoActive, LogoIdle} {
		resource, err := Logo(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, resource.Name())
		assert.True(t, bytes.HasPrefix(resource.Content(), []byte("\x89PNG")), name)

		again := MustLogo(name)
		assert.Same(t, resource, again)
	}
}

func TestMissingLogo(t *testing.T) {
	_, err := Logo("missing.png")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLogo("missing.png") })
}
