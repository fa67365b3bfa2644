package domain

import "time"

type OutcomeState string

const (
	OutcomeRequested OutcomeState = "requested"
	OutcomeFailed    OutcomeState = "failed"
)

// DialOutcome records what happened to one origination request. Requested
// only means the provider accepted it, not that anyone answered.
type DialOutcome struct {
	To      string       `json:"to"`
	State   OutcomeState `json:"state"`
	CallSID CallSID      `json:"callSid,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type Campaign struct {
	ID         CampaignID     `json:"id"`
	Conference ConferenceName `json:"conference"`
	CreatedAt  time.Time      `json:"createdAt"`
	Outcomes   []DialOutcome  `json:"outcomes"`
}

func NewCampaign(conference ConferenceName, size int) Campaign {
	return Campaign{
		ID:         NewCampaignID(),
		Conference: conference,
		CreatedAt:  time.Now().UTC(),
		Outcomes:   make([]DialOutcome, size),
	}
}

func (c Campaign) count(state OutcomeState) int {
	n := 0
	for _, o := range c.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

func (c Campaign) Requested() int {
	return c.count(OutcomeRequested)
}

func (c Campaign) Failed() int {
	return c.count(OutcomeFailed)
}
