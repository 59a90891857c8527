package execcontext

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunContext_Printf(t *testing.T) {
	stdout := &bytes.Buffer{}
	rc := Background(stdout, &bytes.Buffer{})

	rc.Printf("Removing %s category (%d generic exercises)\n", "circuit", 1)
	_, err := rc.Write([]byte("done\n"))

	assert.NoError(t, err)
	assert.Equal(t, "Removing circuit category (1 generic exercises)\ndone\n", stdout.String())
}

func TestRunContext_Logger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	rc := RunContext{Context: logger.WithContext(context.Background())}

	rc.Logger().Info().Str("category", "emom").Msg("Removed category")
	assert.Contains(t, buf.String(), `"category":"emom"`)

	assert.NotPanics(t, func() {
		RunContext{}.Logger().Info().Msg("dropped")
	})
}
