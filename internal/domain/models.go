package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type Race struct {
	ID   int64
	Name string
}

// DefaultRaces is the fixed faction list of the game, ids 1..8.
func DefaultRaces() []Race {
	return []Race{
		{ID: 1, Name: "Орден порядка"},
		{ID: 2, Name: "Инферно"},
		{ID: 3, Name: "Некрополис"},
		{ID: 4, Name: "Лесной союз"},
		{ID: 5, Name: "Лига теней"},
		{ID: 6, Name: "Академия волшебства"},
		{ID: 7, Name: "Северные кланы"},
		{ID: 8, Name: "Великая орда"},
	}
}

type Hero struct {
	ID   int64
	Name string
	Race int64
}

type Tournament struct {
	ID                uuid.UUID
	Name              string
	ModType           ModType
	GameType          GameType
	WithBargains      bool
	WithBargainsColor bool
	WithForeignHeroes bool
}

type User struct {
	ID       uuid.UUID
	Nickname string
}

type Match struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	FirstPlayer  uuid.UUID
	SecondPlayer uuid.UUID
}

// Involves reports whether the user played on either side of the match.
func (m Match) Involves(user uuid.UUID) bool {
	return m.FirstPlayer == user || m.SecondPlayer == user
}

// Snapshot is everything one report run reads, fetched up front.
type Snapshot struct {
	Tournament Tournament
	Users      []User
	Matches    []Match
	Games      []RawGame
	Heroes     []Hero
	Races      []Race
	FetchedAt  time.Time
}

// UpdateGame carries the fields an organizer changed; nil means untouched.
type UpdateGame struct {
	ID               uuid.UUID
	FirstPlayerRace  *int64
	FirstPlayerHero  *int64
	SecondPlayerRace *int64
	SecondPlayerHero *int64
	BargainsColor    *BargainsColor
	BargainsAmount   *int64
	Result           *GameResult
	Outcome          *GameOutcome
}

func (u UpdateGame) Empty() bool {
	return u.FirstPlayerRace == nil && u.FirstPlayerHero == nil &&
		u.SecondPlayerRace == nil && u.SecondPlayerHero == nil &&
		u.BargainsColor == nil && u.BargainsAmount == nil &&
		u.Result == nil && u.Outcome == nil
}

// ReportRun records one generated workbook.
type ReportRun struct {
	ID             string
	TournamentID   uuid.UUID
	TournamentName string
	Path           string
	GamesTotal     int
	GamesRejected  int
	LookupsSkipped int
	CreatedAt      time.Time
}
