package session

import (
	"fmt"
	"testing"
)

func TestHistory_AppendAndMessages(t *testing.T) {
	h := NewHistory(0)
	h.Append(Frame{Role: RoleUser, Content: "hello"})
	h.Append(Frame{Role: RoleAssistant, Content: "hi there"})

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Messages() len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "hello" {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant {
		t.Errorf("msgs[1].Role = %q", msgs[1].Role)
	}

	frames := h.Frames()
	if frames[0].At.IsZero() {
		t.Errorf("Append did not stamp At")
	}
}

func TestHistory_Bound(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Append(Frame{Role: RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	frames := h.Frames()
	if len(frames) != 3 {
		t.Fatalf("len = %d, want 3", len(frames))
	}
	if frames[0].Content != "m2" {
		t.Errorf("oldest kept frame = %q, want m2", frames[0].Content)
	}
	if frames[2].Content != "m4" {
		t.Errorf("newest frame = %q, want m4", frames[2].Content)
	}
}

func TestHistory_Restore(t *testing.T) {
	h := NewHistory(2)
	h.Restore([]Frame{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleUser, Content: "c"},
	})

	frames := h.Frames()
	if len(frames) != 2 {
		t.Fatalf("len = %d, want 2", len(frames))
	}
	if frames[0].Content != "b" {
		t.Errorf("frames[0] = %q, want b", frames[0].Content)
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(0)
	h.Append(Frame{Role: RoleUser, Content: "x"})
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", h.Len())
	}
}
