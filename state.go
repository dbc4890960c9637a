package hitcount

// State describes the service lifecycle.
type State int32

const (
	// Starting means the service is still waiting for its datastore
	// dependency and is not yet accepting traffic.
	Starting State = iota
	// Ready means the dependency is reachable and requests are served
	// until process termination.
	Ready
)

func (s State) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}
