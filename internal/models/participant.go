package models

import (
	"fmt"
	"strings"
)

// ParticipantRef points at whoever is registering: a solo user or a team.
// Exactly one of the two IDs must be set.
type ParticipantRef struct {
	UserID string `json:"user_id,omitempty" example:"u-1042"`
	TeamID string `json:"team_id,omitempty" example:"t-77"`
}

func (p ParticipantRef) Validate() error {
	if (p.UserID == "") == (p.TeamID == "") {
		return ErrInvalidParticipantRef
	}
	return nil
}

func (p ParticipantRef) IsTeam() bool {
	return p.TeamID != ""
}

// String renders the canonical owner-ref form used for wallet ownership and
// audit actor fields, e.g. "user:u-1042" or "team:t-77".
func (p ParticipantRef) String() string {
	if p.IsTeam() {
		return "team:" + p.TeamID
	}
	return "user:" + p.UserID
}

// ParseParticipantRef parses the canonical "user:<id>" / "team:<id>" form.
func ParseParticipantRef(s string) (ParticipantRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ParticipantRef{}, fmt.Errorf("%w: %q", ErrInvalidParticipantRef, s)
	}
	switch kind {
	case "user":
		return ParticipantRef{UserID: id}, nil
	case "team":
		return ParticipantRef{TeamID: id}, nil
	}
	return ParticipantRef{}, fmt.Errorf("%w: %q", ErrInvalidParticipantRef, s)
}

// Actor identifies who performed an action, as extracted from the request
// token. Staff actors may view and mutate records they do not own.
type Actor struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Staff bool   `json:"staff"`
}

func (a Actor) OwnerRef() string {
	return "user:" + a.ID
}
