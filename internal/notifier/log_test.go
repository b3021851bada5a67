package notifier

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogNotifier_WritesTokens(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify = %v, want nil", err)
	}
	out := buf.String()
	for _, want := range []string{"row=7", "accept=apply_7", "reject=trash_7", "match=92%"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
