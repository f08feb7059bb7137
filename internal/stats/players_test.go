package stats

import (
	"testing"

	"tournament-companion/internal/domain"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayerHistory_OrderAndPerspective(t *testing.T) {
	f := newFixture(order, inferno, necro)
	f.tournament.WithBargainsColor = true
	alice, bob, carol := f.user("alice"), f.user("bob"), f.user("carol")
	m1 := f.match(alice, bob)
	m2 := f.match(carol, alice)

	g := f.game(m1, 1, 10, 2, 20, true)
	g.Bargain = domain.BargainOf(300)
	g.BargainsColor = domain.BargainsColorRed
	outcome := domain.OutcomeNeutralsVictory
	g.Outcome = &outcome

	f.game(m2, 3, 30, 2, 21, true).Bargain = domain.BargainOf(150)
	f.game(m1, 1, 11, 3, 30, false)

	h := BuildPlayerHistory(f.dataset(t), alice)
	require.Len(t, h.Entries, 3)

	// matches in provider order, then games of each match
	first, second, third := h.Entries[0], h.Entries[1], h.Entries[2]
	assert.Equal(t, "bob", first.Opponent.Nickname)
	assert.Equal(t, "Ирина", first.PlayerHero.Name)
	assert.Equal(t, "Грок", first.OpponentHero.Name)
	assert.True(t, first.Won)
	require.NotNil(t, first.Bargain)
	assert.Equal(t, int64(300), *first.Bargain)
	assert.Equal(t, domain.BargainsColorRed, first.BargainsColor)
	require.NotNil(t, first.Outcome)
	assert.Equal(t, domain.OutcomeNeutralsVictory, *first.Outcome)

	assert.Equal(t, "Ласло", second.PlayerHero.Name)
	assert.False(t, second.Won)
	assert.Nil(t, second.Bargain)

	// alice is the second player of m2
	assert.Equal(t, "carol", third.Opponent.Nickname)
	assert.Equal(t, inferno, third.PlayerRace)
	assert.Equal(t, necro, third.OpponentRace)
	assert.False(t, third.Won)
	require.NotNil(t, third.Bargain)
	assert.Equal(t, int64(-150), *third.Bargain)

	assert.Equal(t, 3, h.TotalGames())
	assert.Equal(t, 1, h.TotalWins())
	assert.LessOrEqual(t, h.TotalWins(), h.TotalGames())

	assert.Equal(t, []PickSummary{
		{ID: 1, Name: order.Name, Games: 2, Wins: 1},
		{ID: 2, Name: inferno.Name, Games: 1, Wins: 0},
	}, h.Races)
	assert.Equal(t, []int64{10, 11, 21}, lo.Map(h.Heroes, func(p PickSummary, _ int) int64 { return p.ID }))
	assert.InDelta(t, 0.5, h.Races[0].Winrate(), 1e-9)
	assert.Zero(t, h.Races[1].Winrate())
}

func TestBuildPlayerHistory_HidesColorAndOutcomeWhenNotTracked(t *testing.T) {
	f := newFixture(order, inferno)
	f.tournament.GameType = domain.GameTypeArena
	alice, bob := f.user("alice"), f.user("bob")
	m := f.match(alice, bob)
	g := f.game(m, 1, 10, 2, 20, true)
	g.BargainsColor = domain.BargainsColorBlue
	outcome := domain.OutcomeOpponentSurrender
	g.Outcome = &outcome

	h := BuildPlayerHistory(f.dataset(t), bob)
	require.Len(t, h.Entries, 1)
	assert.Equal(t, domain.BargainsColorNotSelected, h.Entries[0].BargainsColor)
	assert.Nil(t, h.Entries[0].Outcome)
}

func TestBuildPlayerHistory_NoGames(t *testing.T) {
	f := newFixture(order, inferno)
	alice, bob := f.user("alice"), f.user("bob")
	idle := f.user("idle")
	m := f.match(alice, bob)
	f.game(m, 1, 10, 2, 20, true)

	h := BuildPlayerHistory(f.dataset(t), idle)
	assert.Zero(t, h.TotalGames())
	assert.Empty(t, h.Races)
	assert.Empty(t, h.Heroes)
	assert.False(t, h.Winrate().Defined())
}

func TestBuildPlayers_ProviderOrder(t *testing.T) {
	f := newFixture(order)
	f.user("zed")
	f.user("amy")

	players := BuildPlayers(f.dataset(t))
	assert.Equal(t, []string{"zed", "amy"}, lo.Map(players, func(p PlayerHistory, _ int) string { return p.User.Nickname }))
}
