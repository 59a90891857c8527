package cli

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/lacquerai/exdb/internal/cleaner"
)

// Configuration keys. Each can be set in config.yaml, or through the
// environment as EXDB_ followed by the upper-cased key with dots replaced by
// underscores.
const (
	keyInput  = "database.input"
	keyOutput = "database.output"
	keyBackup = "clean.backup"
	keyRemove = "clean.remove"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func init() {
	viper.SetDefault(keyInput, cleaner.DefaultPath)
	viper.SetDefault(keyOutput, "")
	viper.SetDefault(keyBackup, false)
}

// resolvePaths returns the input and output database paths. Positional
// arguments win over configuration; the output falls back to the input.
func resolvePaths(args []string) (string, string) {
	input := viper.GetString(keyInput)
	output := viper.GetString(keyOutput)

	if len(args) > 0 {
		input = args[0]
		output = ""
	}
	if len(args) > 1 {
		output = args[1]
	}
	if output == "" {
		output = input
	}

	return input, output
}
