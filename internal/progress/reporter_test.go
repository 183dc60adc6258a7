package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Description: "Exporting diagrams", Out: &buf}
	r.Start(2)
	r.Update(1, "Main Process")
	r.Update(2, "Payment")
	r.Finish()

	got := buf.String()
	for _, want := range []string{
		"Exporting diagrams: 2 diagrams",
		"[1/2] Main Process",
		"[2/2] Payment",
		"Exporting diagrams: done",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("x").(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestDiscard(t *testing.T) {
	r := Discard()
	r.Start(3)
	r.Update(1, "ignored")
	r.Finish()
}
