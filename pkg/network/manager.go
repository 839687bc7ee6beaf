package network

import (
	"sort"
	"sync"

	"github.com/cbodonnell/monopoly/pkg/messages"
)

// ConnectionManager keeps track of the registered connections.
type ConnectionManager struct {
	connections     map[string]*Connection
	connectionsLock sync.RWMutex
}

// NewConnectionManager creates a new ConnectionManager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*Connection),
	}
}

// Add registers a connection under its ID, replacing any previous one.
func (cm *ConnectionManager) Add(c *Connection) {
	cm.connectionsLock.Lock()
	defer cm.connectionsLock.Unlock()
	cm.connections[c.ID()] = c
}

// Remove unregisters a connection and reports whether it was registered.
func (cm *ConnectionManager) Remove(id string) bool {
	cm.connectionsLock.Lock()
	defer cm.connectionsLock.Unlock()
	if _, ok := cm.connections[id]; !ok {
		return false
	}
	delete(cm.connections, id)
	return true
}

func (cm *ConnectionManager) Get(id string) (*Connection, bool) {
	cm.connectionsLock.RLock()
	defer cm.connectionsLock.RUnlock()
	c, ok := cm.connections[id]
	return c, ok
}

// GetConnections returns the registered connections ordered by ID.
func (cm *ConnectionManager) GetConnections() []*Connection {
	cm.connectionsLock.RLock()
	defer cm.connectionsLock.RUnlock()
	connections := make([]*Connection, 0, len(cm.connections))
	for _, c := range cm.connections {
		connections = append(connections, c)
	}
	sort.Slice(connections, func(i, j int) bool {
		return connections[i].ID() < connections[j].ID()
	})
	return connections
}

func (cm *ConnectionManager) Count() int {
	cm.connectionsLock.RLock()
	defer cm.connectionsLock.RUnlock()
	return len(cm.connections)
}

// Broadcast queues msg on every registered connection and returns how many
// accepted it. Each send is independent and never retried.
func (cm *ConnectionManager) Broadcast(msg *messages.Message) int {
	sent := 0
	for _, c := range cm.GetConnections() {
		if c.Send(msg) {
			sent++
		}
	}
	return sent
}

// CloseAll closes and unregisters every connection.
func (cm *ConnectionManager) CloseAll() {
	cm.connectionsLock.Lock()
	connections := cm.connections
	cm.connections = make(map[string]*Connection)
	cm.connectionsLock.Unlock()

	for _, c := range connections {
		c.Close()
	}
}
