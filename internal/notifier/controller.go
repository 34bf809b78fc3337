package notifier

// RecordState is the lifecycle of one capture session.
type RecordState int

const (
	// Stopped is the initial and terminal state.
	Stopped RecordState = iota
	// Started signals that a capture goroutine should begin opening its stream.
	Started
	// Recording signals that the capture goroutine has started its stream.
	Recording
)

func (s RecordState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Started:
		return "started"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}

// Controller gates a capture goroutine's lifecycle through a RecordState cell.
// The only legal sequence is Stopped -> Started -> Recording -> Stopped.
type Controller struct {
	notifier *Notifier[RecordState]
}

// NewController returns a Controller initialized to Stopped.
func NewController() *Controller {
	return &Controller{notifier: New[RecordState]()}
}

// Start transitions the controller to Started.
func (c *Controller) Start() { c.notifier.Notify(Started) }

// SetRecording transitions the controller to Recording.
func (c *Controller) SetRecording() { c.notifier.Notify(Recording) }

// Stop transitions the controller to Stopped.
func (c *Controller) Stop() { c.notifier.Notify(Stopped) }

// WaitFor blocks until the controller reaches the given state.
func (c *Controller) WaitFor(state RecordState) { c.notifier.WaitUntil(state) }

// State returns the controller's current state.
func (c *Controller) State() RecordState { return c.notifier.Current() }
