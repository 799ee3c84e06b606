package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVote_TransitionTable(t *testing.T) {
	tests := []struct {
		name           string
		previous       VoteType
		requested      VoteType
		next           VoteType
		helpfulDelta   int
		unhelpfulDelta int
		outcome        VoteOutcome
	}{
		{"none to helpful", VoteNone, VoteHelpful, VoteHelpful, 1, 0, VoteAdded},
		{"none to unhelpful", VoteNone, VoteUnhelpful, VoteUnhelpful, 0, 1, VoteAdded},
		{"retract helpful", VoteHelpful, VoteHelpful, VoteNone, -1, 0, VoteRetracted},
		{"retract unhelpful", VoteUnhelpful, VoteUnhelpful, VoteNone, 0, -1, VoteRetracted},
		{"helpful to unhelpful", VoteHelpful, VoteUnhelpful, VoteUnhelpful, -1, 1, VoteSwitched},
		{"unhelpful to helpful", VoteUnhelpful, VoteHelpful, VoteHelpful, 1, -1, VoteSwitched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NextVote(tt.previous, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.next, tr.Next)
			assert.Equal(t, tt.helpfulDelta, tr.HelpfulDelta)
			assert.Equal(t, tt.unhelpfulDelta, tr.UnhelpfulDelta)
			assert.Equal(t, tt.outcome, tr.Outcome)
		})
	}
}

func TestNextVote_InvalidType(t *testing.T) {
	_, err := NextVote(VoteNone, VoteType("love"))
	assert.ErrorIs(t, err, ErrInvalidVoteType)

	_, err = NextVote(VoteHelpful, VoteNone)
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}

func TestApplyVote_ToggleTwiceRestoresState(t *testing.T) {
	r := Review{ID: "r1"}

	_, err := r.ApplyVote("device-1", VoteHelpful)
	require.NoError(t, err)
	assert.Equal(t, 1, r.HelpfulVotes)
	assert.Equal(t, VoteHelpful, r.UserVote)

	_, err = r.ApplyVote("device-1", VoteHelpful)
	require.NoError(t, err)
	assert.Equal(t, 0, r.HelpfulVotes)
	assert.Equal(t, 0, r.UnhelpfulVotes)
	assert.Equal(t, VoteNone, r.UserVote)
	assert.Empty(t, r.Votes)
}

func TestApplyVote_SwitchMovesCount(t *testing.T) {
	r := Review{ID: "r1"}

	_, err := r.ApplyVote("device-1", VoteHelpful)
	require.NoError(t, err)
	tr, err := r.ApplyVote("device-1", VoteUnhelpful)
	require.NoError(t, err)

	assert.Equal(t, VoteSwitched, tr.Outcome)
	assert.Equal(t, 0, r.HelpfulVotes)
	assert.Equal(t, 1, r.UnhelpfulVotes)
	assert.Equal(t, VoteUnhelpful, r.UserVote)
}

func TestApplyVote_VotersAreIndependent(t *testing.T) {
	r := Review{ID: "r1", HelpfulVotes: 15, UnhelpfulVotes: 2}

	_, _ = r.ApplyVote("a", VoteHelpful)
	_, _ = r.ApplyVote("b", VoteHelpful)
	_, _ = r.ApplyVote("c", VoteUnhelpful)
	_, _ = r.ApplyVote("a", VoteHelpful)

	assert.Equal(t, 16, r.HelpfulVotes)
	assert.Equal(t, 3, r.UnhelpfulVotes)
	assert.Equal(t, VoteHelpful, r.ForVoter("b").UserVote)
	assert.Equal(t, VoteNone, r.ForVoter("a").UserVote)
}

func TestApplyVote_CountersNeverNegative(t *testing.T) {
	r := Review{ID: "r1"}
	sequence := []VoteType{VoteHelpful, VoteUnhelpful, VoteUnhelpful, VoteHelpful, VoteHelpful, VoteUnhelpful, VoteHelpful}

	for _, v := range sequence {
		_, err := r.ApplyVote("d", v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.HelpfulVotes, 0)
		assert.GreaterOrEqual(t, r.UnhelpfulVotes, 0)
		assert.LessOrEqual(t, r.HelpfulVotes+r.UnhelpfulVotes, 1)

		switch r.UserVote {
		case VoteHelpful:
			assert.Equal(t, 1, r.HelpfulVotes)
		case VoteUnhelpful:
			assert.Equal(t, 1, r.UnhelpfulVotes)
		default:
			assert.Equal(t, 0, r.HelpfulVotes+r.UnhelpfulVotes)
		}
	}
}

func TestApplyVote_InvalidTypeLeavesReviewUntouched(t *testing.T) {
	r := Review{ID: "r1", HelpfulVotes: 3}
	_, err := r.ApplyVote("d", VoteType("meh"))

	assert.ErrorIs(t, err, ErrInvalidVoteType)
	assert.Equal(t, 3, r.HelpfulVotes)
	assert.Nil(t, r.Votes)
}

func TestApplyVote_DoesNotMutateClones(t *testing.T) {
	original := Review{ID: "r1", Votes: map[string]VoteType{"a": VoteHelpful}, HelpfulVotes: 1}
	copied := original.Clone()

	_, err := copied.ApplyVote("a", VoteHelpful)
	require.NoError(t, err)

	assert.Equal(t, VoteHelpful, original.Votes["a"])
	assert.Equal(t, 1, original.HelpfulVotes)
}

func TestVoteType_JSON(t *testing.T) {
	data, err := json.Marshal(Review{ID: "r1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_vote":null`)
	assert.NotContains(t, string(data), "votes\":{")

	data, err = json.Marshal(Review{ID: "r1", UserVote: VoteHelpful})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_vote":"helpful"`)

	var decoded Review
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","user_vote":null}`), &decoded))
	assert.Equal(t, VoteNone, decoded.UserVote)
}

func TestParseVoteType(t *testing.T) {
	v, err := ParseVoteType("unhelpful")
	require.NoError(t, err)
	assert.Equal(t, VoteUnhelpful, v)

	_, err = ParseVoteType("")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}
