package spec

import "testing"

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"unaddressed is valid", StateUnaddressed, true},
		{"in_progress is valid", StateInProgress, true},
		{"claimed is valid", StateClaimed, true},
		{"verified is valid", StateVerified, true},
		{"rejected is valid", StateRejected, true},
		{"accepted_risk is valid", StateAcceptedRisk, true},
		{"empty is invalid", State(""), false},
		{"open is invalid", State("open"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateUnaddressed, false},
		{StateInProgress, false},
		{StateClaimed, false},
		{StateVerified, true},
		{StateRejected, false},
		{StateAcceptedRisk, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	got, err := ParseState("claimed")
	if err != nil {
		t.Fatalf("ParseState(claimed) unexpected error: %v", err)
	}
	if got != StateClaimed {
		t.Errorf("ParseState(claimed) = %v, want %v", got, StateClaimed)
	}

	if _, err := ParseState("done"); err == nil {
		t.Error("ParseState(done) expected error, got nil")
	}
}
