package domain

// AttendanceState is a guest's current attendance status relative to their
// event. It is always derived from the ledger, never stored.
type AttendanceState string

const (
	StateNotArrived AttendanceState = "not_arrived"
	StateCheckedIn  AttendanceState = "checked_in"
	StateCheckedOut AttendanceState = "checked_out"
)

// AttendanceKinds is the set of ledger kinds that participate in state
// derivation.
var AttendanceKinds = []ActivityKind{ActivityCheckIn, ActivityCheckOut}

// DeriveAttendanceState computes the state from the latest completed
// check_in/check_out entry for a guest. latest may be nil (no relevant
// entries), which means the guest has not arrived. When entries share a
// timestamp the caller is expected to have already resolved the tie by
// highest id, so the single latest entry passed here is authoritative.
func DeriveAttendanceState(latest *ActivityLog) AttendanceState {
	if latest == nil || latest.Status != ActivityStatusCompleted {
		return StateNotArrived
	}
	switch latest.Kind {
	case ActivityCheckIn:
		return StateCheckedIn
	case ActivityCheckOut:
		return StateCheckedOut
	}
	return StateNotArrived
}

// CanCheckIn reports whether a check-in is a legal transition from the given
// state. Guests may leave and return, so CHECKED_OUT allows re-check-in.
func (s AttendanceState) CanCheckIn() bool {
	return s != StateCheckedIn
}

// CanCheckOut reports whether a check-out is legal from the given state.
func (s AttendanceState) CanCheckOut() bool {
	return s == StateCheckedIn
}
