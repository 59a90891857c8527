// Package testhelper silences logging in tests. Import it for its side
// effect; set EXDB_TEST_LOG to keep log output.
package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func init() {
	if testing.Testing() && os.Getenv("EXDB_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
