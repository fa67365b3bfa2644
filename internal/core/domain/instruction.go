package domain

// VerbKind enumerates the provider-agnostic voice verbs the orchestrator can
// return. Adapters translate them into the provider's markup.
type VerbKind string

const (
	VerbSay        VerbKind = "say"
	VerbConference VerbKind = "conference"
	VerbHangup     VerbKind = "hangup"
	VerbPause      VerbKind = "pause"
)

type ConferenceJoin struct {
	Name         ConferenceName
	StartOnEnter bool
	EndOnExit    bool
	Label        string
}

type Verb struct {
	Kind       VerbKind
	Text       string
	Conference ConferenceJoin
	Seconds    int
}

func Say(text string) Verb {
	return Verb{Kind: VerbSay, Text: text}
}

func JoinConference(join ConferenceJoin) Verb {
	return Verb{Kind: VerbConference, Conference: join}
}

func Hangup() Verb {
	return Verb{Kind: VerbHangup}
}

func Pause(seconds int) Verb {
	return Verb{Kind: VerbPause, Seconds: seconds}
}

type VoiceInstruction struct {
	Verbs []Verb
}

func Instruct(verbs ...Verb) VoiceInstruction {
	return VoiceInstruction{Verbs: verbs}
}

// HangupInstruction is the fallback handed to the provider whenever a
// decision cannot be produced.
func HangupInstruction() VoiceInstruction {
	return Instruct(Hangup())
}

// ConferenceJoin returns the first conference verb, if any.
func (v VoiceInstruction) ConferenceJoin() (ConferenceJoin, bool) {
	for _, verb := range v.Verbs {
		if verb.Kind == VerbConference {
			return verb.Conference, true
		}
	}
	return ConferenceJoin{}, false
}

func (v VoiceInstruction) Has(kind VerbKind) bool {
	for _, verb := range v.Verbs {
		if verb.Kind == kind {
			return true
		}
	}
	return false
}

type DecisionKind string

const (
	DecisionHost   DecisionKind = "host"
	DecisionJoin   DecisionKind = "join"
	DecisionReject DecisionKind = "reject"
	DecisionWait   DecisionKind = "wait"
)

// Decision is the outcome of one voice-decision callback.
type Decision struct {
	Kind        DecisionKind
	Instruction VoiceInstruction
}
