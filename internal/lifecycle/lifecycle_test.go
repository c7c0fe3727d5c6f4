package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabOf(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want Tab
	}{
		{"empty status is live", Snapshot{}, TabLive},
		{"live", Snapshot{Status: StatusLive}, TabLive},
		{"goal reached", Snapshot{Status: StatusGoalReached}, TabGoalReached},
		{"kickstarter", Snapshot{Status: StatusKickstarter, KickstarterURL: "https://ks"}, TabKickstarter},
		{"amazon url means launched", Snapshot{Status: StatusKickstarter, AmazonURL: "https://amzn"}, TabLaunched},
		{"website url means launched", Snapshot{Status: StatusGoalReached, WebsiteURL: "https://site"}, TabLaunched},
		{"blank url is not a launch", Snapshot{Status: StatusLive, WebsiteURL: "  "}, TabLive},
		{"archived wins over everything", Snapshot{Status: StatusKickstarter, AmazonURL: "https://amzn", IsArchived: true}, TabArchived},
		{"unknown status is live", Snapshot{Status: "paused"}, TabLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TabOf(tt.s))
		})
	}
}

func TestGoalReachedBoundary(t *testing.T) {
	atGoal := Snapshot{Status: StatusLive, CurrentReservations: 100, ReservationGoal: 100}
	below := Snapshot{Status: StatusLive, CurrentReservations: 99, ReservationGoal: 100}

	assert.Contains(t, AvailableActions(atGoal), ActionMarkGoalReached)
	next, err := Apply(atGoal, ActionMarkGoalReached, Params{})
	require.NoError(t, err)
	assert.Equal(t, TabGoalReached, TabOf(next))

	assert.NotContains(t, AvailableActions(below), ActionMarkGoalReached)
	_, err = Apply(below, ActionMarkGoalReached, Params{})
	assert.ErrorIs(t, err, ErrGoalNotReached)
}

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want []Action
	}{
		{"live below goal", Snapshot{ReservationGoal: 10}, []Action{ActionMoveToKickstarter, ActionArchive, ActionDelete}},
		{"goal reached", Snapshot{Status: StatusGoalReached}, []Action{ActionMoveToKickstarter, ActionMoveBackToLive, ActionSetLaunchURLs, ActionArchive, ActionDelete}},
		{"kickstarter", Snapshot{Status: StatusKickstarter}, []Action{ActionMoveToKickstarter, ActionMoveBackToLive, ActionSetLaunchURLs, ActionArchive, ActionDelete}},
		{"launched", Snapshot{Status: StatusKickstarter, WebsiteURL: "https://x"}, []Action{ActionSetLaunchURLs, ActionArchive, ActionDelete}},
		{"archived", Snapshot{IsArchived: true}, []Action{ActionRestore, ActionDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableActions(tt.s))
		})
	}
}

func TestMoveToKickstarter(t *testing.T) {
	live := Snapshot{Status: StatusLive}

	next, err := Apply(live, ActionMoveToKickstarter, Params{KickstarterURL: " https://ks/p "})
	require.NoError(t, err)
	assert.Equal(t, StatusKickstarter, next.Status)
	assert.Equal(t, "https://ks/p", next.KickstarterURL)

	// staying on kickstarter to add a url
	again, err := Apply(Snapshot{Status: StatusKickstarter}, ActionMoveToKickstarter, Params{KickstarterURL: "https://ks/q"})
	require.NoError(t, err)
	assert.Equal(t, "https://ks/q", again.KickstarterURL)

	// no url keeps the previous one
	kept, err := Apply(next, ActionMoveToKickstarter, Params{})
	require.NoError(t, err)
	assert.Equal(t, "https://ks/p", kept.KickstarterURL)
}

func TestMoveBackToLiveKeepsURLs(t *testing.T) {
	s := Snapshot{Status: StatusKickstarter, KickstarterURL: "https://ks"}

	next, err := Apply(s, ActionMoveBackToLive, Params{})
	require.NoError(t, err)
	assert.Equal(t, StatusLive, next.Status)
	assert.Equal(t, "https://ks", next.KickstarterURL)

	_, err = Apply(Snapshot{Status: StatusLive}, ActionMoveBackToLive, Params{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestSetLaunchURLs(t *testing.T) {
	s := Snapshot{Status: StatusGoalReached}

	_, err := Apply(s, ActionSetLaunchURLs, Params{})
	assert.ErrorIs(t, err, ErrLaunchURLRequired)

	next, err := Apply(s, ActionSetLaunchURLs, Params{AmazonURL: "https://amzn/dp/1"})
	require.NoError(t, err)
	assert.Equal(t, TabLaunched, TabOf(next))
	assert.Equal(t, StatusGoalReached, next.Status, "launch does not rewrite status")

	more, err := Apply(next, ActionSetLaunchURLs, Params{WebsiteURL: "https://lamp.example"})
	require.NoError(t, err)
	assert.Equal(t, "https://amzn/dp/1", more.AmazonURL)
	assert.Equal(t, "https://lamp.example", more.WebsiteURL)

	_, err = Apply(Snapshot{Status: StatusLive}, ActionSetLaunchURLs, Params{AmazonURL: "https://amzn"})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestArchiveAndRestore(t *testing.T) {
	s := Snapshot{Status: StatusKickstarter, KickstarterURL: "https://ks", AmazonURL: "https://amzn"}

	archived, err := Apply(s, ActionArchive, Params{})
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.Equal(t, s.KickstarterURL, archived.KickstarterURL, "archiving keeps fields")
	assert.Equal(t, s.Status, archived.Status)

	_, err = Apply(archived, ActionArchive, Params{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	_, err = Apply(archived, ActionMoveToKickstarter, Params{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	restored, err := Apply(archived, ActionRestore, Params{})
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.Equal(t, TabLive, TabOf(restored))
	assert.Equal(t, StatusLive, restored.Status)
	assert.Empty(t, restored.AmazonURL)
	assert.Equal(t, "https://ks", restored.KickstarterURL, "kickstarter link is kept for reference")

	_, err = Apply(s, ActionRestore, Params{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestRestoreAlwaysLandsInLive(t *testing.T) {
	archived := []Snapshot{
		{Status: StatusLive, IsArchived: true},
		{Status: StatusGoalReached, IsArchived: true},
		{Status: StatusKickstarter, IsArchived: true},
		{Status: StatusGoalReached, IsArchived: true, WebsiteURL: "https://lamp.example"},
	}

	for _, s := range archived {
		restored, err := Apply(s, ActionRestore, Params{})
		require.NoError(t, err)
		assert.Equal(t, TabLive, TabOf(restored), "restore from status %q", s.Status)
	}
}

func TestDeleteAllowedFromEveryState(t *testing.T) {
	states := []Snapshot{
		{},
		{Status: StatusGoalReached},
		{Status: StatusKickstarter},
		{WebsiteURL: "https://x"},
		{IsArchived: true},
	}
	for _, s := range states {
		_, err := Apply(s, ActionDelete, Params{})
		assert.NoError(t, err, "tab %s", TabOf(s))
	}
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("kickstarter")
	assert.True(t, ok)
	assert.Equal(t, TabKickstarter, tab)

	_, ok = ParseTab("drafts")
	assert.False(t, ok)
}
