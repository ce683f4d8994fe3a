package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kutelev/overthrower/internal/overthrower/config"
	"github.com/kutelev/overthrower/internal/overthrower/registry"
)

func TestActivationBannerStep(t *testing.T) {
	var buf bytes.Buffer
	ActivationBanner(&buf, config.Config{Strategy: config.StrategyStep, Delay: 5})

	out := buf.String()
	if !strings.Contains(out, "Strategy = step") {
		t.Fatalf("banner missing strategy line: %q", out)
	}
	if !strings.Contains(out, "Delay = 5") {
		t.Fatalf("banner missing delay line: %q", out)
	}
	if strings.Contains(out, "Duration") {
		t.Fatalf("STEP banner should not mention duration: %q", out)
	}
}

func TestActivationBannerPulse(t *testing.T) {
	var buf bytes.Buffer
	ActivationBanner(&buf, config.Config{Strategy: config.StrategyPulse, Delay: 3, Duration: 2})

	out := buf.String()
	if !strings.Contains(out, "Duration = 2") {
		t.Fatalf("PULSE banner missing duration line: %q", out)
	}
}

func TestLeakReportEmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	LeakReport(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("LeakReport(nil) wrote %q, want empty", buf.String())
	}
}

func TestLeakReportFormatsEntries(t *testing.T) {
	var buf bytes.Buffer
	LeakReport(&buf, []registry.Entry{
		{Ptr: 0x1000, Info: registry.Info{SeqNum: 3, Size: 128}},
	})

	out := buf.String()
	if !strings.Contains(out, "0x0000000000001000") {
		t.Fatalf("leak report missing pointer column: %q", out)
	}
	if !strings.Contains(out, "pointer") || !strings.Contains(out, "block size") {
		t.Fatalf("leak report missing header: %q", out)
	}
}
