package cmd

import (
	"bytes"
	"testing"
)

// TestRunCmd_Eval drives the cobra command tree in-process (no subprocess),
// the way a unit test for a cobra command typically does: SetArgs plus
// Execute, rather than shelling out to a built binary.
func TestRunCmd_Eval(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"run", "-e", "1 + 1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
