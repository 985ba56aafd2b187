package pnsinfo

import (
	"errors"
	"fmt"

	"pns-snapshot/core/ident"
)

// Event is a decoded domain event.
type Event interface {
	eventType() string
}

// NewSubdomainEvent records the creation of a subdomain.
type NewSubdomainEvent struct {
	To         string
	ParentID   string
	SubtokenID string
	Name       string
}

// UnknownEvent is any event variant that is not decoded.
type UnknownEvent struct {
	Typename string
}

func (NewSubdomainEvent) eventType() string { return "NewSubdomain" }
func (e UnknownEvent) eventType() string    { return e.Typename }

var errIncompleteEvent = errors.New("incomplete NewSubdomain event")

type wireRef struct {
	ID string `json:"id"`
}

type wireEvent struct {
	Typename string   `json:"__typename"`
	Name     *string  `json:"name"`
	To       *wireRef `json:"to"`
	ParentID *wireRef `json:"parentId"`
	Domain   *wireRef `json:"domain"`
}

func decodeEvent(w wireEvent) (Event, error) {
	if w.Typename != "NewSubdomain" {
		return UnknownEvent{Typename: w.Typename}, nil
	}
	if w.Name == nil || w.To == nil || w.ParentID == nil || w.Domain == nil {
		return nil, errIncompleteEvent
	}
	return NewSubdomainEvent{To: w.To.ID, ParentID: w.ParentID.ID, SubtokenID: w.Domain.ID, Name: *w.Name}, nil
}

// NewSubdomain is one entry of the new_subdomain list.
type NewSubdomain struct {
	To         string `json:"to"`
	TokenID    string `json:"tokenId"`
	SubtokenID string `json:"subtokenId"`
	Name       string `json:"name"`
}

// normalize converts an event into its output form.
func (e NewSubdomainEvent) normalize() (NewSubdomain, error) {
	to, err := ident.Account(e.To)
	if err != nil {
		return NewSubdomain{}, fmt.Errorf("event %s: to: %w", e.Name, err)
	}
	token, err := ident.Domain(e.ParentID)
	if err != nil {
		return NewSubdomain{}, fmt.Errorf("event %s: parent: %w", e.Name, err)
	}
	subtoken, err := ident.Domain(e.SubtokenID)
	if err != nil {
		return NewSubdomain{}, fmt.Errorf("event %s: domain: %w", e.Name, err)
	}
	return NewSubdomain{To: to, TokenID: token, SubtokenID: subtoken, Name: e.Name}, nil
}
