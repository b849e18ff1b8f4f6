package analysis

import (
	"sort"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// MonthlyPoint is a party's cohesion over the votes of one calendar month.
type MonthlyPoint struct {
	Month    string  `json:"mes"`
	Cohesion float64 `json:"coesao"`
	Votes    int     `json:"votacoes"`
}

// MajorityPosition returns the position most of the party's present
// deputies took. Absences do not count. Ties go to the earlier position in
// api.Positions. ok is false when nobody from the party was present.
func MajorityPosition(tally api.PartyTally) (position api.Position, ok bool) {
	best := 0
	for _, candidate := range api.Positions {
		if candidate == api.PositionAusente {
			continue
		}
		if count := tally.Count(candidate); count > best {
			best = count
			position = candidate
		}
	}
	return position, best > 0
}

// voteCohesion is the share of present deputies that followed the majority.
func voteCohesion(tally api.PartyTally) (float64, bool) {
	majority, ok := MajorityPosition(tally)
	if !ok {
		return 0, false
	}
	present := tally.Favor + tally.Contra + tally.Abstencao
	return float64(tally.Count(majority)) / float64(present), true
}

// PartyCohesion averages, over every vote where the party had deputies
// present, the share of them that voted with the party majority. It returns
// 0 when the party took part in none of the votes.
func PartyCohesion(votes []api.Vote, party string) float64 {
	total, counted := 0.0, 0
	for _, vote := range votes {
		tally, ok := vote.Parties[party]
		if !ok {
			continue
		}
		if score, ok := voteCohesion(tally); ok {
			total += score
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// MonthlyCohesion buckets PartyCohesion by calendar month (YYYY-MM),
// ascending. Months without a counted vote are omitted.
func MonthlyCohesion(votes []api.Vote, party string) []MonthlyPoint {
	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, vote := range votes {
		tally, ok := vote.Parties[party]
		if !ok || vote.Date.IsZero() {
			continue
		}
		score, ok := voteCohesion(tally)
		if !ok {
			continue
		}
		month := vote.Date.Format("2006-01")
		b, exists := buckets[month]
		if !exists {
			b = &bucket{}
			buckets[month] = b
		}
		b.total += score
		b.count++
	}

	points := make([]MonthlyPoint, 0, len(buckets))
	for month, b := range buckets {
		points = append(points, MonthlyPoint{
			Month:    month,
			Cohesion: b.total / float64(b.count),
			Votes:    b.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

// PositionBreakdown counts the party's majority position across votes. Votes
// where the whole party was absent count as ausente.
func PositionBreakdown(votes []api.Vote, party string) map[api.Position]int {
	breakdown := make(map[api.Position]int, len(api.Positions))
	for _, vote := range votes {
		tally, ok := vote.Parties[party]
		if !ok {
			continue
		}
		majority, ok := MajorityPosition(tally)
		if !ok {
			majority = api.PositionAusente
		}
		breakdown[majority]++
	}
	return breakdown
}
