package main

import (
	"bytes"
	"strings"
	"testing"

	"omibyte.io/stackc/compiler"
)

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in       string
		expected compiler.Verbosity
	}{
		{"quiet", compiler.Quiet},
		{"Info", compiler.Info},
		{"", compiler.Warning},
		{"DEBUG", compiler.Debug},
	}
	for _, tc := range tests {
		v, err := parseVerbosity(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if v != tc.expected {
			t.Errorf("parseVerbosity(%q) = %d, want %d", tc.in, v, tc.expected)
		}
	}

	if _, err := parseVerbosity("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestTargetsCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"targets"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "jvm (java, jasmin)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
