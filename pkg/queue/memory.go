// queue package

package queue

import (
	"context"
	"sync"
)

const (
	// QueueBufferSize is the default capacity of a queue
	QueueBufferSize = 1024
)

// InMemoryQueue implements a channel backed queue.
type InMemoryQueue struct {
	ch   chan interface{}
	lock sync.Mutex
}

// NewInMemoryQueue creates a new queue. A non-positive size uses QueueBufferSize.
func NewInMemoryQueue(size int) *InMemoryQueue {
	if size <= 0 {
		size = QueueBufferSize
	}
	return &InMemoryQueue{
		ch: make(chan interface{}, size),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	select {
	case q.ch <- item:
		return nil
	default:
		return &ErrQueueFull{Capacity: cap(q.ch)}
	}
}

// Dequeue removes and returns the item from the front of the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (interface{}, error) {
	select {
	case item := <-q.ch:
		return item, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

// ReadAllMessages reads all pending messages in the queue
func (q *InMemoryQueue) ReadAllMessages() ([]interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	var messages []interface{}
	for {
		select {
		case m := <-q.ch:
			messages = append(messages, m)
		default:
			return messages, nil
		}
	}
}

// ClearQueue clears all messages from the queue.
func (q *InMemoryQueue) ClearQueue() {
	q.lock.Lock()
	defer q.lock.Unlock()

	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
