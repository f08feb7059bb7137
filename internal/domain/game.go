package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RawGame is a game as the provider returned it. Optional fields are nil
// when the organizer has not filled them in yet.
type RawGame struct {
	ID               uuid.UUID
	MatchID          uuid.UUID
	FirstPlayerRace  *int64
	FirstPlayerHero  *int64
	SecondPlayerRace *int64
	SecondPlayerHero *int64
	BargainsColor    *BargainsColor
	BargainsAmount   *int64
	Result           GameResult
	Outcome          *GameOutcome
}

// Bargain is the signed gold handicap of a game. Positive amounts favor the
// first player.
type Bargain struct {
	Amount     int64
	Applicable bool
}

// NoBargainAmount is the stored amount of a game without a bargain.
const NoBargainAmount = -1

func NoBargain() Bargain { return Bargain{} }

func BargainOf(amount int64) Bargain { return Bargain{Amount: amount, Applicable: true} }

// For returns the amount from one side's point of view.
func (b Bargain) For(first bool) int64 {
	if first {
		return b.Amount
	}
	return -b.Amount
}

// Game is a validated game record.
type Game struct {
	ID               uuid.UUID
	MatchID          uuid.UUID
	FirstPlayerRace  int64
	FirstPlayerHero  int64
	SecondPlayerRace int64
	SecondPlayerHero int64
	Bargain          Bargain
	BargainsColor    BargainsColor
	Result           GameResult
	Outcome          *GameOutcome
}

func (g Game) Mirror() bool {
	return g.FirstPlayerRace == g.SecondPlayerRace
}

func (g Game) FirstWon() bool {
	return g.Result == ResultFirstPlayerWon
}

// Side is one player's half of a game.
type Side struct {
	First        bool
	Race         int64
	Hero         int64
	OpponentRace int64
	OpponentHero int64
	Won          bool
	HasBargain   bool
	// Bargain is signed from this side's point of view.
	Bargain int64
}

// Sides returns the game from the first and the second player's view.
func (g Game) Sides() [2]Side {
	return [2]Side{
		{
			First:        true,
			Race:         g.FirstPlayerRace,
			Hero:         g.FirstPlayerHero,
			OpponentRace: g.SecondPlayerRace,
			OpponentHero: g.SecondPlayerHero,
			Won:          g.Result == ResultFirstPlayerWon,
			HasBargain:   g.Bargain.Applicable,
			Bargain:      g.Bargain.For(true),
		},
		{
			First:        false,
			Race:         g.SecondPlayerRace,
			Hero:         g.SecondPlayerHero,
			OpponentRace: g.FirstPlayerRace,
			OpponentHero: g.FirstPlayerHero,
			Won:          g.Result == ResultSecondPlayerWon,
			HasBargain:   g.Bargain.Applicable,
			Bargain:      g.Bargain.For(false),
		},
	}
}

const (
	FieldFirstPlayerRace  = "first_player_race"
	FieldFirstPlayerHero  = "first_player_hero"
	FieldSecondPlayerRace = "second_player_race"
	FieldSecondPlayerHero = "second_player_hero"
	FieldResult           = "result"
)

type RejectionError struct {
	GameID uuid.UUID
	Field  string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("game %s: missing %s", e.GameID, e.Field)
}

func ValidateGame(raw RawGame) (Game, error) {
	required := []struct {
		field string
		value *int64
	}{
		{FieldFirstPlayerRace, raw.FirstPlayerRace},
		{FieldFirstPlayerHero, raw.FirstPlayerHero},
		{FieldSecondPlayerRace, raw.SecondPlayerRace},
		{FieldSecondPlayerHero, raw.SecondPlayerHero},
	}
	for _, r := range required {
		if r.value == nil {
			return Game{}, &RejectionError{GameID: raw.ID, Field: r.field}
		}
	}
	if raw.Result == ResultNotSelected {
		return Game{}, &RejectionError{GameID: raw.ID, Field: FieldResult}
	}

	game := Game{
		ID:               raw.ID,
		MatchID:          raw.MatchID,
		FirstPlayerRace:  *raw.FirstPlayerRace,
		FirstPlayerHero:  *raw.FirstPlayerHero,
		SecondPlayerRace: *raw.SecondPlayerRace,
		SecondPlayerHero: *raw.SecondPlayerHero,
		Bargain:          NoBargain(),
		Result:           raw.Result,
		Outcome:          raw.Outcome,
	}
	if raw.BargainsAmount != nil && *raw.BargainsAmount != NoBargainAmount {
		game.Bargain = BargainOf(*raw.BargainsAmount)
	}
	if raw.BargainsColor != nil {
		game.BargainsColor = *raw.BargainsColor
	}
	return game, nil
}

// ValidateGames keeps provider order and reports every dropped record.
func ValidateGames(raws []RawGame) ([]Game, []*RejectionError) {
	games := make([]Game, 0, len(raws))
	var rejected []*RejectionError
	for _, raw := range raws {
		game, err := ValidateGame(raw)
		if err != nil {
			rejected = append(rejected, err.(*RejectionError))
			continue
		}
		games = append(games, game)
	}
	return games, rejected
}
