package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerSteps(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Analyzing").Start()
	time.Sleep(3 * spinnerInterval)
	s.Step("Rendering")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Analyzing", "Rendering"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing stage %q: %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop should leave a cleared line")
	}
	if s.Cancelled() {
		t.Error("Stop must not report the parent as cancelled")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &bytes.Buffer{}, "Welding").Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Welding")
	s.Stop()
	s.Stop()
	s.Start()
	if buf.Len() != 0 {
		t.Errorf("stopped spinner wrote %q", buf.String())
	}
}
