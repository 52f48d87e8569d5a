package domain

// EventKind classifies an inbound user update for FSM dispatch.
type EventKind string

const (
	// EventStart is the /start entry command.
	EventStart EventKind = "start"
	// EventText is a plain text message.
	EventText EventKind = "text"
	// EventContact is a contact-share payload carrying a verified phone number.
	EventContact EventKind = "contact"
	// EventPhoto is an image payload.
	EventPhoto EventKind = "photo"
	// EventOther covers every update kind the flow has no use for.
	EventOther EventKind = "other"
)

// Event is a single inbound user update, already stripped of transport detail.
type Event struct {
	Kind EventKind
	// Text carries the message text for EventText.
	Text string
	// Phone carries the shared phone number for EventContact.
	Phone string
	// PhotoID carries the transport file reference for EventPhoto.
	PhotoID string
}

// Mode selects which authorization branch a deployment runs.
type Mode string

const (
	// ModeManual collects a receipt photo and routes it to a human reviewer.
	ModeManual Mode = "manual"
	// ModeInvoice issues a provider invoice and waits for its confirmation.
	ModeInvoice Mode = "invoice"
)
