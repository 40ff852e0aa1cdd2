package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduleRequested}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:             {StatusConfirmed: true, StatusCancelled: true, StatusRescheduleRequested: true},
		StatusConfirmed:           {StatusCompleted: true, StatusCancelled: true, StatusRescheduleRequested: true},
		StatusRescheduleRequested: {StatusPending: true, StatusConfirmed: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Fatalf("completed and cancelled must be terminal")
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusRescheduleRequested} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduleRequested} {
		if !KnownStatus(s) {
			t.Errorf("%s must be known", s)
		}
	}
	for _, s := range []BookingStatus{"shipped", "PENDING", ""} {
		if KnownStatus(s) {
			t.Errorf("%q must not be known", s)
		}
	}
}

func TestClientMaySet(t *testing.T) {
	if !ClientMaySet(StatusCancelled) || !ClientMaySet(StatusRescheduleRequested) {
		t.Fatalf("clients may request cancelled and reschedule_requested")
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted} {
		if ClientMaySet(s) {
			t.Errorf("clients must not request %s", s)
		}
	}
}
