package stats

import (
	"tournament-companion/internal/domain"
)

// Bucket accumulates games that fell on one side of the bargain.
type Bucket struct {
	WinLoss
	sum     int64
	extreme int64
}

// add records a game. keep picks the more extreme of two amounts.
func (b *Bucket) add(amount int64, won bool, keep func(a, b int64) int64) {
	if b.Games() == 0 {
		b.extreme = amount
	} else {
		b.extreme = keep(b.extreme, amount)
	}
	b.sum += amount
	b.WinLoss.add(won)
}

// Extreme is the largest amount for "up" buckets and the smallest for
// "down" buckets, taken across wins and losses alike.
func (b Bucket) Extreme() (int64, bool) {
	if b.Games() == 0 {
		return 0, false
	}
	return b.extreme, true
}

func (b Bucket) Average() (float64, bool) {
	if b.Games() == 0 {
		return 0, false
	}
	return float64(b.sum) / float64(b.Games()), true
}

func (b Bucket) merge(o Bucket, keep func(a, b int64) int64) Bucket {
	switch {
	case o.Games() == 0:
		return b
	case b.Games() == 0:
		return o
	}
	return Bucket{
		WinLoss: b.WinLoss.plus(o.WinLoss),
		sum:     b.sum + o.sum,
		extreme: keep(b.extreme, o.extreme),
	}
}

// BargainLine is one race's bargain record against one opponent race.
type BargainLine struct {
	Opponent domain.Race
	Up       Bucket
	Down     Bucket
	None     Bucket
}

type BargainStats struct {
	Lines []BargainLine
	Up    Bucket
	Down  Bucket
	None  Bucket
	// UpAverages and DownAverages hold one average per opponent that has
	// games in the bucket.
	UpAverages   Averages
	DownAverages Averages
}

// BuildBargains classifies every side of a race by the sign of its
// bargain from its own point of view. Sides without an applicable bargain
// are ignored, and mirrors never count as "no bargain".
func BuildBargains(races []domain.Race, sides []domain.Side) *BargainStats {
	bs := &BargainStats{Lines: make([]BargainLine, len(races))}
	line := make(map[int64]int, len(races))
	for i, r := range races {
		bs.Lines[i].Opponent = r
		line[r.ID] = i
	}

	for _, s := range sides {
		if !s.HasBargain {
			continue
		}
		i, ok := line[s.OpponentRace]
		if !ok {
			continue
		}
		l := &bs.Lines[i]
		switch {
		case s.Bargain > 0:
			l.Up.add(s.Bargain, s.Won, max64)
		case s.Bargain < 0:
			l.Down.add(s.Bargain, s.Won, min64)
		case s.Race != s.OpponentRace:
			l.None.add(0, s.Won, max64)
		}
	}

	for _, l := range bs.Lines {
		bs.Up = bs.Up.merge(l.Up, max64)
		bs.Down = bs.Down.merge(l.Down, min64)
		bs.None = bs.None.merge(l.None, max64)
		if avg, ok := l.Up.Average(); ok {
			bs.UpAverages = append(bs.UpAverages, avg)
		}
		if avg, ok := l.Down.Average(); ok {
			bs.DownAverages = append(bs.DownAverages, avg)
		}
	}
	return bs
}

func max64(a, b int64) int64 { return max(a, b) }

func min64(a, b int64) int64 { return min(a, b) }
