package service

// Broadcaster pushes live events to connected operator dashboards
// (implemented by the ws hub).
type Broadcaster interface {
	BroadcastToOperators(event string, payload interface{})
}
