package output

import (
	"bytes"
	"os"
	"testing"
)

func TestPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	if IsTerminal() {
		t.Fatal("a buffer is not a terminal")
	}

	Success("seeded %s", "quiz")
	Warning("skipped %d tables", 2)
	Error("failed")
	Section("Variants")

	want := "✓ seeded quiz\n⚠ skipped 2 tables\n✗ failed\n\nVariants\n════════\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestStatusIcon(t *testing.T) {
	SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { SetOutput(os.Stdout) })

	tests := map[string]string{
		"present": "✓",
		"loaded":  "✓",
		"skipped": "○",
		"missing": "✗",
		"other":   "•",
	}
	for status, want := range tests {
		if got := StatusIcon(status); got != want {
			t.Errorf("StatusIcon(%q) = %q, want %q", status, got, want)
		}
	}
}
