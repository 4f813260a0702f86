package actors

// Notifier receives store-change events for fan-out to subscribed clients.
// It is the pub-sub seam between the actors and the WebSocket hub; actors
// never know who, if anyone, is listening.
type Notifier interface {
	Publish(event string, payload interface{})
}
