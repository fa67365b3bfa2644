package domain

import "strings"

type CallStatus string

const (
	StatusQueued     CallStatus = "queued"
	StatusRinging    CallStatus = "ringing"
	StatusInProgress CallStatus = "in-progress"
	StatusCompleted  CallStatus = "completed"
	StatusBusy       CallStatus = "busy"
	StatusNoAnswer   CallStatus = "no-answer"
	StatusFailed     CallStatus = "failed"
	StatusCanceled   CallStatus = "canceled"
)

// Terminal reports whether the provider stops sending callbacks for the leg.
func (s CallStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusBusy, StatusNoAnswer, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Answered reports whether the leg reached in-progress at some point.
func (s CallStatus) Answered() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// Detection is the provider's classification of what picked up the call.
type Detection string

const (
	DetectionUnknown      Detection = "unknown"
	DetectionHuman        Detection = "human"
	DetectionMachineStart Detection = "machine_start"
	DetectionFax          Detection = "fax"
)

// ParseDetection normalizes the AnsweredBy value sent by the provider.
// Values we do not branch on (machine_end_beep, unknown, ...) are kept as is.
func ParseDetection(s string) Detection {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return DetectionUnknown
	case "machine-start":
		return DetectionMachineStart
	}
	return Detection(s)
}

func (d Detection) Machine() bool {
	return d == DetectionMachineStart || d == DetectionFax
}

// CallLeg is the transient view of one provider call, built from a single
// webhook payload.
type CallLeg struct {
	SID        CallSID
	From       string
	To         string
	Status     CallStatus
	AnsweredBy Detection
	// Conference is the room the leg was dialed for, if the callback carried one.
	Conference ConferenceName
}

// EffectiveDetection ignores detection until the leg has been answered:
// a ringing leg may already carry a provisional value.
func (l CallLeg) EffectiveDetection() Detection {
	if !l.Status.Answered() {
		return DetectionUnknown
	}
	if l.AnsweredBy == "" {
		return DetectionUnknown
	}
	return l.AnsweredBy
}

// CallerIs matches the leg origin against a client identity. Softphone legs
// arrive as "client:<identity>".
func (l CallLeg) CallerIs(identity string) bool {
	if identity == "" {
		return false
	}
	return l.From == identity || l.From == "client:"+identity
}

// OriginateRequest is everything the provider needs to place one outbound leg.
type OriginateRequest struct {
	To               string
	From             string
	VoiceURL         string
	StatusURL        string
	StatusEvents     []string
	MachineDetection bool
}
