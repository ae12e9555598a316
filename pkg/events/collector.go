package events

// EventCollector gathers domain events raised by several aggregates during
// one operation so they can be published together after commit.
type EventCollector struct {
	events []DomainEvent
}

// Record appends domain events to the collector.
func (c *EventCollector) Record(events ...DomainEvent) {
	c.events = append(c.events, events...)
}

// Events returns the collected domain events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// ClearEvents returns the collected domain events and clears the internal slice.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
