package domain

import "time"

const EventCallStatus = "call-status"

// CallStatusEvent is what observers receive. Build it with NewCallStatusEvent
// and treat it as a value.
type CallStatusEvent struct {
	Event         string        `json:"event"`
	Number        string        `json:"number"`
	Status        CallStatus    `json:"status"`
	AnsweredBy    Detection     `json:"answeredBy"`
	CallSID       CallSID       `json:"callSid"`
	ConferenceSID ConferenceSID `json:"conferenceSid,omitempty"`
	Message       string        `json:"message,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

func NewCallStatusEvent(leg CallLeg, message string) CallStatusEvent {
	answeredBy := leg.AnsweredBy
	if answeredBy == "" {
		answeredBy = DetectionUnknown
	}
	return CallStatusEvent{
		Event:      EventCallStatus,
		Number:     leg.To,
		Status:     leg.Status,
		AnsweredBy: answeredBy,
		CallSID:    leg.SID,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
}

// WithConference returns a copy carrying the resolved conference identifier.
func (e CallStatusEvent) WithConference(sid ConferenceSID) CallStatusEvent {
	e.ConferenceSID = sid
	return e
}
