package domain

import "fmt"

// The provider speaks GraphQL enum names. Every type below maps them by
// hand in both directions; the numeric values are local only.

type GameResult int

const (
	ResultNotSelected GameResult = iota
	ResultFirstPlayerWon
	ResultSecondPlayerWon
)

func ParseGameResult(s string) (GameResult, error) {
	switch s {
	case "NOT_SELECTED":
		return ResultNotSelected, nil
	case "FIRST_PLAYER_WON":
		return ResultFirstPlayerWon, nil
	case "SECOND_PLAYER_WON":
		return ResultSecondPlayerWon, nil
	}
	return ResultNotSelected, fmt.Errorf("unknown game result %q", s)
}

func (r GameResult) Wire() string {
	switch r {
	case ResultFirstPlayerWon:
		return "FIRST_PLAYER_WON"
	case ResultSecondPlayerWon:
		return "SECOND_PLAYER_WON"
	default:
		return "NOT_SELECTED"
	}
}

type GameOutcome int

const (
	OutcomeFinalBattleVictory GameOutcome = iota
	OutcomeNeutralsVictory
	OutcomeOpponentSurrender
)

func ParseGameOutcome(s string) (GameOutcome, error) {
	switch s {
	case "FINAL_BATTLE_VICTORY":
		return OutcomeFinalBattleVictory, nil
	case "NEUTRALS_VICTORY":
		return OutcomeNeutralsVictory, nil
	case "OPPONENT_SURRENDER":
		return OutcomeOpponentSurrender, nil
	}
	return OutcomeFinalBattleVictory, fmt.Errorf("unknown game outcome %q", s)
}

func (o GameOutcome) Wire() string {
	switch o {
	case OutcomeNeutralsVictory:
		return "NEUTRALS_VICTORY"
	case OutcomeOpponentSurrender:
		return "OPPONENT_SURRENDER"
	default:
		return "FINAL_BATTLE_VICTORY"
	}
}

// Label is the text shown in reports.
func (o GameOutcome) Label() string {
	switch o {
	case OutcomeNeutralsVictory:
		return "Победа над нейтралами"
	case OutcomeOpponentSurrender:
		return "Сдача оппонента"
	default:
		return "Финальная битва"
	}
}

type BargainsColor int

const (
	BargainsColorNotSelected BargainsColor = iota
	BargainsColorRed
	BargainsColorBlue
)

func ParseBargainsColor(s string) (BargainsColor, error) {
	switch s {
	case "NOT_SELECTED":
		return BargainsColorNotSelected, nil
	case "BARGAINS_COLOR_RED":
		return BargainsColorRed, nil
	case "BARGAINS_COLOR_BLUE":
		return BargainsColorBlue, nil
	}
	return BargainsColorNotSelected, fmt.Errorf("unknown bargains color %q", s)
}

func (c BargainsColor) Wire() string {
	switch c {
	case BargainsColorRed:
		return "BARGAINS_COLOR_RED"
	case BargainsColorBlue:
		return "BARGAINS_COLOR_BLUE"
	default:
		return "NOT_SELECTED"
	}
}

func (c BargainsColor) Label() string {
	switch c {
	case BargainsColorRed:
		return "Красный"
	case BargainsColorBlue:
		return "Синий"
	default:
		return ""
	}
}

type ModType int

const (
	ModUniverse ModType = iota
	ModHrta
)

func ParseModType(s string) (ModType, error) {
	switch s {
	case "UNIVERSE":
		return ModUniverse, nil
	case "HRTA":
		return ModHrta, nil
	}
	return ModUniverse, fmt.Errorf("unknown mod type %q", s)
}

func (m ModType) Wire() string {
	if m == ModHrta {
		return "HRTA"
	}
	return "UNIVERSE"
}

type GameType int

const (
	GameTypeRMG GameType = iota
	GameTypeArena
)

func ParseGameType(s string) (GameType, error) {
	switch s {
	case "RMG":
		return GameTypeRMG, nil
	case "ARENA":
		return GameTypeArena, nil
	}
	return GameTypeRMG, fmt.Errorf("unknown game type %q", s)
}

func (g GameType) Wire() string {
	if g == GameTypeArena {
		return "ARENA"
	}
	return "RMG"
}

// TracksOutcome reports whether games of this type record how they ended.
func (g GameType) TracksOutcome() bool {
	return g == GameTypeRMG
}
