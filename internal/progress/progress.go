// Package progress holds the pure aggregation engine: no I/O, no clock
// of its own. Callers hand it a snapshot and a reference time.
package progress

import (
	"sort"
	"time"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/types/entry"
	"slimSquadAPI/internal/types/user"
)

// DateLayout is the calendar-date format used everywhere: no time
// component, so lexical order equals chronological order.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// TargetRow is a weekly target joined to its member's display fields.
type TargetRow struct {
	challenge.Target
	UserDisplayName string `json:"userDisplayName"`
	ColorHex        string `json:"colorHex"`
}

// UserProgress is one member's computed standing inside a challenge
// window. Nil pointers mean "no entries yet"; they are distinct from
// zero values so the caller can tell "gained weight" from "no data".
type UserProgress struct {
	BaselineWeight  *float64      `json:"baselineWeight,omitempty"`
	CurrentWeight   *float64      `json:"currentWeight,omitempty"`
	Delta           *float64      `json:"delta,omitempty"`
	Remaining       float64       `json:"remaining"`
	Achieved        bool          `json:"achieved"`
	LatestEntryDate *string       `json:"latestEntryDate,omitempty"`
	Entries         []entry.Entry `json:"entries"`
}

// Context is the fully joined read model for one challenge.
type Context struct {
	Challenge      challenge.Challenge      `json:"challenge"`
	Targets        []TargetRow              `json:"targets"`
	EntriesByUser  map[string][]entry.Entry `json:"entriesByUser"`
	ProgressByUser map[string]UserProgress  `json:"progressByUser"`
}

// SummaryRow flattens a target and its progress for presentation.
type SummaryRow struct {
	Target        TargetRow    `json:"target"`
	Progress      UserProgress `json:"progress"`
	ActualDeltaKg float64      `json:"actualDeltaKg"`
	Achieved      bool         `json:"achieved"`
	Remaining     float64      `json:"remaining"`
}

// ActiveChallengeAt resolves "the active challenge" at the given moment:
// the challenge whose inclusive [startOn, endOn] window contains it,
// falling back to the most recently started one. Returns nil only when
// no challenges exist at all.
func ActiveChallengeAt(challenges []challenge.Challenge, at time.Time) *challenge.Challenge {
	key := at.Format(DateLayout)
	for i := range challenges {
		c := challenges[i]
		if c.StartOn <= key && key <= c.EndOn {
			out := c.Clone()
			return &out
		}
	}

	var latest *challenge.Challenge
	for i := range challenges {
		c := challenges[i]
		if latest == nil || c.StartOn > latest.StartOn {
			latest = &challenges[i]
		}
	}
	if latest == nil {
		return nil
	}
	out := latest.Clone()
	return &out
}

// InWindow reports whether a calendar date falls inside the challenge's
// inclusive window.
func InWindow(date string, c challenge.Challenge) bool {
	return c.StartOn <= date && date <= c.EndOn
}

// BuildContext joins a challenge against the roster, its targets and the
// full entry set, computing each member's standing.
//
// Per member: entries inside the window sorted ascending by date;
// baseline is the earliest, latest the most recent; delta is baseline
// minus latest (positive = lost weight); remaining is the raw target
// when delta is undefined; achieved uses >= so hitting the target
// exactly counts.
func BuildContext(c challenge.Challenge, users []user.User, targets []challenge.Target, entries []entry.Entry) *Context {
	usersByID := make(map[string]*user.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	rows := make([]TargetRow, 0)
	for i := range targets {
		t := targets[i]
		if t.ChallengeID != c.ID {
			continue
		}
		row := TargetRow{Target: t.Clone(), UserDisplayName: t.UserID, ColorHex: "#888888"}
		if u, ok := usersByID[t.UserID]; ok {
			row.UserDisplayName = u.DisplayName
			row.ColorHex = u.ColorHex
		}
		rows = append(rows, row)
	}

	entriesByUser := make(map[string][]entry.Entry)
	for i := range entries {
		e := entries[i]
		if !InWindow(e.Date, c) {
			continue
		}
		entriesByUser[e.UserID] = append(entriesByUser[e.UserID], e.Clone())
	}
	for userID := range entriesByUser {
		list := entriesByUser[userID]
		sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	}

	progressByUser := make(map[string]UserProgress, len(rows))
	for _, row := range rows {
		userEntries := entriesByUser[row.UserID]
		p := UserProgress{
			Remaining: row.TargetDeltaKg,
			Entries:   userEntries,
		}
		if p.Entries == nil {
			p.Entries = []entry.Entry{}
		}
		if len(userEntries) > 0 {
			baseline := userEntries[0]
			latest := userEntries[len(userEntries)-1]
			delta := baseline.WeightKg - latest.WeightKg
			p.BaselineWeight = &baseline.WeightKg
			p.CurrentWeight = &latest.WeightKg
			p.Delta = &delta
			p.Remaining = row.TargetDeltaKg - delta
			p.Achieved = delta >= row.TargetDeltaKg
			p.LatestEntryDate = &latest.Date
		}
		progressByUser[row.UserID] = p
	}

	return &Context{
		Challenge:      c.Clone(),
		Targets:        rows,
		EntriesByUser:  entriesByUser,
		ProgressByUser: progressByUser,
	}
}

// BuildSummary flattens a context into one row per target.
func BuildSummary(ctx *Context) []SummaryRow {
	rows := make([]SummaryRow, 0, len(ctx.Targets))
	for _, target := range ctx.Targets {
		p := ctx.ProgressByUser[target.UserID]
		actual := 0.0
		if p.Delta != nil {
			actual = *p.Delta
		}
		rows = append(rows, SummaryRow{
			Target:        target,
			Progress:      p,
			ActualDeltaKg: actual,
			Achieved:      p.Achieved,
			Remaining:     p.Remaining,
		})
	}
	return rows
}

// StreakLength counts how many consecutive days ending today (or
// yesterday) the member has logged, looking back at most lookbackDays.
func StreakLength(entries []entry.Entry, userID string, today time.Time, lookbackDays int) int {
	day := 24 * time.Hour
	todayDate := truncateToDay(today)

	seen := make(map[string]bool)
	var dates []string
	for i := range entries {
		e := entries[i]
		if e.UserID != userID || seen[e.Date] {
			continue
		}
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		if todayDate.Sub(d) >= time.Duration(lookbackDays)*day {
			continue
		}
		seen[e.Date] = true
		dates = append(dates, e.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	// The cursor steps back exactly one day per counted entry, so a
	// single one-day lag is tolerated but a second gap breaks the run.
	streak := 0
	cursor := todayDate
	for _, ds := range dates {
		d, _ := ParseDate(ds)
		gap := int(cursor.Sub(d) / day)
		if gap == 0 || gap == 1 {
			streak++
			cursor = cursor.Add(-day)
		} else {
			break
		}
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
