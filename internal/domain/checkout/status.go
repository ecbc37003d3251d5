package checkout

type Status string

const (
	StatusIdle           Status = "idle"
	StatusLoading        Status = "loading"
	StatusAwaitingResult Status = "awaiting_result"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
)

// InFlight reports whether an attempt is running; submits are ignored meanwhile.
func (s Status) InFlight() bool {
	return s == StatusLoading || s == StatusAwaitingResult
}

// IsFinal reports whether the last attempt reached an outcome.
func (s Status) IsFinal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
