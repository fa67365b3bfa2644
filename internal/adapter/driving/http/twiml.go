package http

import (
	"fmt"
	"strconv"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/twilio/twilio-go/twiml"
)

const hangupTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response><Hangup/></Response>`

// renderTwiML translates a provider-agnostic instruction into TwiML.
func renderTwiML(in domain.VoiceInstruction) (string, error) {
	if len(in.Verbs) == 0 {
		return "", fmt.Errorf("empty instruction")
	}

	elements := make([]twiml.Element, 0, len(in.Verbs))
	for _, v := range in.Verbs {
		switch v.Kind {
		case domain.VerbSay:
			elements = append(elements, &twiml.VoiceSay{Message: v.Text})
		case domain.VerbConference:
			conf := &twiml.VoiceConference{
				Name:                   v.Conference.Name.String(),
				StartConferenceOnEnter: strconv.FormatBool(v.Conference.StartOnEnter),
				EndConferenceOnExit:    strconv.FormatBool(v.Conference.EndOnExit),
			}
			if v.Conference.Label != "" {
				conf.OptionalAttributes = map[string]string{"participantLabel": v.Conference.Label}
			}
			elements = append(elements, &twiml.VoiceDial{InnerElements: []twiml.Element{conf}})
		case domain.VerbHangup:
			elements = append(elements, &twiml.VoiceHangup{})
		case domain.VerbPause:
			elements = append(elements, &twiml.VoicePause{Length: strconv.Itoa(v.Seconds)})
		default:
			return "", fmt.Errorf("unknown verb %q", v.Kind)
		}
	}
	return twiml.Voice(elements)
}
