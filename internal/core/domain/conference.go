package domain

type ConferenceName string

func (n ConferenceName) String() string {
	return string(n)
}

type ConferenceStatus string

const (
	ConferenceInit       ConferenceStatus = "init"
	ConferenceInProgress ConferenceStatus = "in-progress"
	ConferenceCompleted  ConferenceStatus = "completed"
)

// Conference is a handle on a provider conference. It starts out requested
// (name only) and becomes resolved once the provider has materialized it and
// a lookup returned its SID.
type Conference struct {
	Name   ConferenceName
	SID    ConferenceSID
	Status ConferenceStatus
}

func RequestConference(name ConferenceName) Conference {
	return Conference{Name: name}
}

// Resolve returns a copy of the handle bound to the provider identifier.
func (c Conference) Resolve(sid ConferenceSID) Conference {
	c.SID = sid
	return c
}

func (c Conference) Resolved() bool {
	return c.SID != ""
}

func (c Conference) Live() bool {
	return c.Status != ConferenceCompleted
}
