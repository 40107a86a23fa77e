package remote

import "sync"

// Receiver is the IR decode collaborator. Poll returns the next decoded
// frame, if one is pending, and never blocks; the control loop polls once
// per iteration, mirroring the decoder's decode-and-resume cycle.
type Receiver interface {
	Poll() (Message, bool)
}

// QueueReceiver is an in-memory receiver. It backs tests and simulated
// transmitters; real deployments wrap the IR decoder hardware instead.
type QueueReceiver struct {
	mu    sync.Mutex
	queue []Message
}

// NewQueueReceiver creates an empty queue receiver.
func NewQueueReceiver() *QueueReceiver {
	return &QueueReceiver{}
}

// Push appends a frame for the loop to pick up.
func (r *QueueReceiver) Push(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, msg)
}

// Poll pops the oldest pending frame.
func (r *QueueReceiver) Poll() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		return Message{}, false
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, true
}
