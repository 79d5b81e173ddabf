package components

import (
	"fmt"
	"testing"
)

func TestInputHistory(t *testing.T) {
	in := NewInput("")
	for _, line := range []string{"AT", "  ", "AT", "ATI"} {
		in.AddToHistory(line)
	}
	if len(in.history) != 2 {
		t.Fatalf("history = %q, want blank and repeated lines skipped", in.history)
	}

	in.SetValue("draft")
	in.NavigateHistoryUp()
	if in.Value() != "ATI" {
		t.Errorf("first up = %q, want ATI", in.Value())
	}
	in.NavigateHistoryUp()
	in.NavigateHistoryUp()
	if in.Value() != "AT" {
		t.Errorf("up past oldest = %q, want AT", in.Value())
	}

	in.NavigateHistoryDown()
	in.NavigateHistoryDown()
	if in.Value() != "draft" {
		t.Errorf("down past newest = %q, want the parked draft", in.Value())
	}
	in.NavigateHistoryDown()
	if in.Value() != "draft" {
		t.Errorf("down while editing changed the line to %q", in.Value())
	}
}

func TestInputHistoryBounded(t *testing.T) {
	in := NewInput("")
	for n := 0; n < maxHistory+10; n++ {
		in.AddToHistory(fmt.Sprintf("line %d", n))
	}
	if len(in.history) != maxHistory {
		t.Fatalf("history length = %d, want %d", len(in.history), maxHistory)
	}
	if in.history[0] != "line 10" {
		t.Errorf("oldest entry = %q, want line 10", in.history[0])
	}
}

func TestInputToggleSendingMode(t *testing.T) {
	in := NewInput("")
	if in.GetSendingMode() != SendingModeASCII {
		t.Fatalf("default mode = %v, want ASCII", in.GetSendingMode())
	}
	in.ToggleSendingMode()
	if in.GetSendingMode() != SendingModeHex || in.GetSendingMode().String() != "HEX" {
		t.Errorf("after toggle mode = %v, want HEX", in.GetSendingMode())
	}
	if in.field.Placeholder != sendingStyles[SendingModeHex].placeholder {
		t.Errorf("placeholder = %q", in.field.Placeholder)
	}
	in.ToggleSendingMode()
	if in.GetSendingMode() != SendingModeASCII {
		t.Errorf("second toggle mode = %v, want ASCII", in.GetSendingMode())
	}
}
