package domain

import "errors"

var (
	ErrConferenceNotFound  = errors.New("conference not found")
	ErrConferenceAmbiguous = errors.New("more than one live conference with that name")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrNoDestinations      = errors.New("no destination numbers")
	ErrEmptyIdentity       = errors.New("identity cannot be empty")
)
