package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type VoteType string

const (
	VoteNone      VoteType = ""
	VoteHelpful   VoteType = "helpful"
	VoteUnhelpful VoteType = "unhelpful"
)

type VoteOutcome string

const (
	VoteAdded     VoteOutcome = "added"
	VoteRetracted VoteOutcome = "retracted"
	VoteSwitched  VoteOutcome = "switched"
)

func ParseVoteType(s string) (VoteType, error) {
	switch v := VoteType(s); v {
	case VoteHelpful, VoteUnhelpful:
		return v, nil
	default:
		return VoteNone, fmt.Errorf("%w: %q", ErrInvalidVoteType, s)
	}
}

// MarshalJSON отдает null при отсутствии голоса
func (v VoteType) MarshalJSON() ([]byte, error) {
	if v == VoteNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

func (v *VoteType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = VoteNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = VoteType(s)
	return nil
}

// VoteTransition - результат одного переключения голоса
type VoteTransition struct {
	Previous       VoteType
	Next           VoteType
	HelpfulDelta   int
	UnhelpfulDelta int
	Outcome        VoteOutcome
}

// NextVote применяет таблицу переходов:
// повторный клик отзывает голос, смена типа переносит его из одного счетчика в другой.
func NextVote(previous, requested VoteType) (VoteTransition, error) {
	if requested != VoteHelpful && requested != VoteUnhelpful {
		return VoteTransition{}, fmt.Errorf("%w: %q", ErrInvalidVoteType, string(requested))
	}

	t := VoteTransition{Previous: previous}

	switch previous {
	case VoteHelpful:
		t.HelpfulDelta--
	case VoteUnhelpful:
		t.UnhelpfulDelta--
	}

	switch {
	case previous == requested:
		t.Next = VoteNone
		t.Outcome = VoteRetracted
	default:
		t.Next = requested
		if requested == VoteHelpful {
			t.HelpfulDelta++
		} else {
			t.UnhelpfulDelta++
		}
		t.Outcome = VoteAdded
		if previous != VoteNone {
			t.Outcome = VoteSwitched
		}
	}

	return t, nil
}

// ApplyVote переключает голос voterID одним присваиванием всех полей
func (r *Review) ApplyVote(voterID string, requested VoteType) (VoteTransition, error) {
	t, err := NextVote(r.Votes[voterID], requested)
	if err != nil {
		return VoteTransition{}, err
	}

	helpful := r.HelpfulVotes + t.HelpfulDelta
	unhelpful := r.UnhelpfulVotes + t.UnhelpfulDelta
	if helpful < 0 || unhelpful < 0 {
		return VoteTransition{}, fmt.Errorf("vote counters of review %s would become negative", r.ID)
	}

	votes := make(map[string]VoteType, len(r.Votes)+1)
	for k, v := range r.Votes {
		votes[k] = v
	}
	if t.Next == VoteNone {
		delete(votes, voterID)
	} else {
		votes[voterID] = t.Next
	}

	r.HelpfulVotes = helpful
	r.UnhelpfulVotes = unhelpful
	r.Votes = votes
	r.UserVote = t.Next

	return t, nil
}
