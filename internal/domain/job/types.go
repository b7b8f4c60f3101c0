package job

type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusQueued:     {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusBlocked, StatusCancelled},
	StatusBlocked:    {StatusInProgress, StatusCancelled},
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusBlocked, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// IsOpen marks jobs that keep a technician busy.
func (s Status) IsOpen() bool {
	return s == StatusQueued || s == StatusInProgress || s == StatusBlocked
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// OpenStatuses lists the statuses counted against technician availability.
func OpenStatuses() []Status {
	return []Status{StatusQueued, StatusInProgress, StatusBlocked}
}

type Availability string

const (
	Available Availability = "AVAILABLE"
	Busy      Availability = "BUSY"
)
