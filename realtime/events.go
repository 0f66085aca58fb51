package realtime

import "sync"

type EventName string

const (
	EventStockChanged       EventName = "StockChanged"
	EventTableStatusChanged EventName = "TableStatusChanged"
	EventOrderChanged       EventName = "OrderChanged"
	EventReservationChanged EventName = "ReservationChanged"
	EventPaymentRecorded    EventName = "PaymentRecorded"
)

// Event tells viewers that something changed; it carries no state. Clients
// re-fetch whatever they display.
type Event struct {
	Name EventName `json:"event"`
	ID   uint      `json:"id,omitempty"`
}

func StockChanged() Event                   { return Event{Name: EventStockChanged} }
func TableStatusChanged(tableID uint) Event { return Event{Name: EventTableStatusChanged, ID: tableID} }
func OrderChanged(orderID uint) Event       { return Event{Name: EventOrderChanged, ID: orderID} }
func ReservationChanged(resID uint) Event   { return Event{Name: EventReservationChanged, ID: resID} }
func PaymentRecorded(paymentID uint) Event  { return Event{Name: EventPaymentRecorded, ID: paymentID} }

// Notifier delivers events best-effort. Implementations must not block the
// caller for long and never report failure.
type Notifier interface {
	Notify(Event)
}

type Nop struct{}

func (Nop) Notify(Event) {}

// Fanout forwards every event to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ev Event) {
	for _, n := range f {
		n.Notify(ev)
	}
}

// Recorder keeps every event it receives. Used by tests and by tooling that
// wants to inspect what a request emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
