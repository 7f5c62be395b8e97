package pipeline

import "testing"

func TestTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{StatePending, StateBuilt, true},
		{StateBuilt, StatePackaged, true},
		{StatePackaged, StateSigned, true},
		{StatePackaged, StateDone, true},
		{StateSigned, StateDone, true},
		{StatePending, StateFailed, true},
		{StateBuilt, StateFailed, true},
		{StatePackaged, StateFailed, true},
		{StateSigned, StateFailed, true},
		{StatePending, StatePackaged, false},
		{StatePending, StateDone, false},
		{StateBuilt, StateSigned, false},
		{StateBuilt, StateDone, false},
		{StateDone, StateBuilt, false},
		{StateDone, StateFailed, false},
		{StateFailed, StateBuilt, false},
		{StateFailed, StateFailed, false},
	}
	for _, tt := range tests {
		got, err := transition(tt.from, tt.to)
		if tt.ok {
			if err != nil {
				t.Errorf("transition(%s, %s) = %v, want success", tt.from, tt.to, err)
			} else if got != tt.to {
				t.Errorf("transition(%s, %s) = %s, want %s", tt.from, tt.to, got, tt.to)
			}
			continue
		}
		if err == nil {
			t.Errorf("transition(%s, %s) succeeded, want error", tt.from, tt.to)
		}
		if got != tt.from {
			t.Errorf("failed transition moved state to %s, want %s unchanged", got, tt.from)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []State{StatePending, StateBuilt, StatePackaged, StateSigned} {
		if s.Terminal() {
			t.Errorf("%s reported terminal", s)
		}
	}
	for _, s := range []State{StateDone, StateFailed} {
		if !s.Terminal() {
			t.Errorf("%s not reported terminal", s)
		}
	}
}
