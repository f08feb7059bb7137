package stats

import "math"

// Ratio is a rate that may have no games behind it. A zero denominator
// means "no games", never zero percent.
type Ratio struct {
	Num int
	Den int
}

func RatioOf(num, den int) Ratio { return Ratio{Num: num, Den: den} }

func (r Ratio) Defined() bool { return r.Den != 0 }

// Value returns NaN when the ratio is undefined.
func (r Ratio) Value() float64 {
	if r.Den == 0 {
		return math.NaN()
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Ratio) Percent() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return r.Value() * 100, true
}

type WinLoss struct {
	Wins   int
	Losses int
}

func (w WinLoss) Games() int { return w.Wins + w.Losses }

func (w WinLoss) Winrate() Ratio { return RatioOf(w.Wins, w.Games()) }

func (w *WinLoss) add(won bool) {
	if won {
		w.Wins++
	} else {
		w.Losses++
	}
}

func (w WinLoss) plus(o WinLoss) WinLoss {
	return WinLoss{Wins: w.Wins + o.Wins, Losses: w.Losses + o.Losses}
}

// Averages is a list of per-opponent averages. Its mean weighs every
// opponent equally regardless of game count.
type Averages []float64

func (a Averages) Mean() (float64, bool) {
	if len(a) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range a {
		sum += v
	}
	return sum / float64(len(a)), true
}
