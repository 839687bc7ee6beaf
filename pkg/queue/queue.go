package queue

import "context"

// Queue represents a bounded FIFO queue.
type Queue interface {
	// Enqueue never blocks. It returns ErrQueueFull when the queue is at capacity.
	Enqueue(item interface{}) error
	// Dequeue blocks until an item is available or ctx is done.
	Dequeue(ctx context.Context) (interface{}, error)
	Size() int
	ReadAllMessages() ([]interface{}, error)
	ClearQueue()
}

// ErrQueueFull is returned when an item is enqueued to a full queue.
type ErrQueueFull struct {
	Capacity int
}

func (e *ErrQueueFull) Error() string {
	return "queue is full"
}

func IsQueueFull(err error) bool {
	_, ok := err.(*ErrQueueFull)
	return ok
}
