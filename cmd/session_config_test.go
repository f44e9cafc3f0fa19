package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestSessionConfigFillsUnsetFlags(t *testing.T) {
	// GIVEN a session file and no flags set on the command line
	path := filepath.Join(t.TempDir(), "session.yaml")
	content := `directory: /data/run3
case: turb
quantities: [d99, cf]
jump_threshold: 40
theta_margin: 8
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	defer resetComputeFlags(t)

	// WHEN the config is applied
	applySessionConfig(computeCmd, path)

	// THEN the file values land in the flag variables
	assert.Equal(t, "/data/run3", directory)
	assert.Equal(t, "turb", caseName)
	assert.Equal(t, []string{"d99", "cf"}, quantities)
	assert.Equal(t, 40.0, jumpThreshold)
	assert.Equal(t, 8, thetaMargin)
}

func TestSessionConfigNeverOverridesExplicitFlags(t *testing.T) {
	// GIVEN a flag set explicitly on the command line
	path := filepath.Join(t.TempDir(), "session.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("directory: /data/from-file\n"), 0o644))

	defer resetComputeFlags(t)
	assert.NoError(t, computeCmd.Flags().Set("dir", "/data/from-cli"))

	// WHEN the config is applied
	applySessionConfig(computeCmd, path)

	// THEN the command line wins
	assert.Equal(t, "/data/from-cli", directory)
}

// resetComputeFlags restores the package-level flag state mutated by a test.
func resetComputeFlags(t *testing.T) {
	t.Helper()
	computeCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	directory = ""
	caseName = "stbl"
	quantities = []string{"ufst", "d99", "deltas", "theta", "tauw", "cf"}
	jumpThreshold = 50
	thetaMargin = 10
}
