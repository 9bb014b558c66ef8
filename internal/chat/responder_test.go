package chat

import (
	"reflect"
	"strings"
	"testing"
)

func TestRespond_BranchSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSub string // substring expected in the reply content
	}{
		{"stress", "I'm so stressed out lately", "stressed and overwhelmed"},
		{"overwhelmed triggers stress branch", "everything is overwhelmed chaos", "stressed and overwhelmed"},
		{"anxiety", "my anxiety is bad today", "Anxiety can be really challenging"},
		{"sadness", "I feel sad all the time", "sorry you're feeling this way"},
		{"sleep", "I have insomnia again", "Sleep issues"},
		{"work", "my job is exhausting me", "Work-related stress"},
		{"relationships", "I argued with a friend", "Relationships can be both"},
		{"gratitude", "thank you, I feel much better", "glad to hear"},
		{"no match", "xyzzy plugh", "Thank you for sharing"},
		{"empty input", "", "Thank you for sharing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Respond(tt.input)
			if !strings.Contains(reply.Content, tt.wantSub) {
				t.Errorf("Respond(%q) = %q, want substring %q", tt.input, reply.Content, tt.wantSub)
			}
			if len(reply.Suggestions) != 4 {
				t.Errorf("Respond(%q): %d suggestions, want 4", tt.input, len(reply.Suggestions))
			}
		})
	}
}

func TestRespond_FirstBranchWins(t *testing.T) {
	// "stress" outranks "work" even though both triggers are present.
	reply := Respond("work stress is crushing me")
	if !strings.Contains(reply.Content, "stressed and overwhelmed") {
		t.Errorf("expected the stress branch to win, got %q", reply.Content)
	}

	// "anxious" outranks "sleep".
	reply = Respond("too anxious to sleep")
	if !strings.Contains(reply.Content, "Anxiety can be really challenging") {
		t.Errorf("expected the anxiety branch to win, got %q", reply.Content)
	}
}

func TestRespond_CaseInsensitive(t *testing.T) {
	if !strings.Contains(Respond("STRESS").Content, "stressed and overwhelmed") {
		t.Error("matching should be case-insensitive")
	}
}

func TestRespond_Deterministic(t *testing.T) {
	input := "worried about everything"
	if !reflect.DeepEqual(Respond(input), Respond(input)) {
		t.Error("Respond is not deterministic")
	}
}
