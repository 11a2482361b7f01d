package event_bus

import "time"

const (
	TopicEventCreated Topic = "event.created"
	TopicEventUpdated Topic = "event.updated"
	TopicEventDeleted Topic = "event.deleted"
	TopicCityCreated  Topic = "city.created"

	TopicGatewayFailed Topic = "gateway.failed"
)

type EventCreated struct {
	Id       string
	Title    string
	Category string
	Start    time.Time
	Location string
	// Degraded is set when the event was stored without its city or category link.
	Degraded bool
}

type EventUpdated struct {
	Id    string
	Title string
}

type EventDeleted struct {
	Id string
}

type CityCreated struct {
	Id   int64
	Name string
}

// GatewayFailed reports a backend call that failed outright.
type GatewayFailed struct {
	Operation string
	Err       error
}
