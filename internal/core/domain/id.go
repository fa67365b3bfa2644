package domain

import (
	"github.com/google/uuid"
)

type ObserverID uuid.UUID
type CampaignID uuid.UUID

func NewObserverID() ObserverID {
	return ObserverID(uuid.New())
}

func NewCampaignID() CampaignID {
	return CampaignID(uuid.New())
}

func ParseCampaignID(s string) (CampaignID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CampaignID{}, err
	}
	return CampaignID(id), nil
}

func (id ObserverID) String() string {
	return uuid.UUID(id).String()
}

func (id CampaignID) String() string {
	return uuid.UUID(id).String()
}

func (id CampaignID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *CampaignID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = CampaignID(parsed)
	return nil
}

// Provider-assigned identifiers. They only exist once the provider has
// acknowledged a request and never change afterwards.
type CallSID string
type ConferenceSID string

func (s CallSID) String() string {
	return string(s)
}

func (s ConferenceSID) String() string {
	return string(s)
}
