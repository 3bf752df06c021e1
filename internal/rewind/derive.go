package rewind

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/jasperwreed/chat-rewind/internal/models"
)

// Derive turns a finished accumulator into the reportable stats. Ties in
// every argmax go to the lowest slot, the lexicographically smallest key,
// or the earliest week.
func Derive(acc *Accumulator, opts Options) *models.RewindStats {
	loc := opts.location()

	stats := &models.RewindStats{
		TotalMessages:       acc.Total,
		PerSender:           acc.PerSender,
		ReactionsSent:       acc.ReactionsSent,
		ReactionsReceived:   acc.ReactionsReceived,
		TopReactionEmoji:    acc.ReactionEmoji,
		EmojiInText:         acc.TextEmoji,
		PerSenderEmojiUsage: acc.SenderEmoji,
		MessageTypes:        acc.Types,
		ReelsTotal:          acc.Reels,
		HourlyActivity:      acc.Hourly,
		MostReactedMessage:  acc.MostReacted,
		WeekendMessages:     acc.Weekend,
		WeekdayMessages:     acc.Weekday,
		DailyActivity:       acc.Daily,
		WeeklyActivity:      acc.Weekly,
		DomainCounts:        acc.Domains,
		DuoCounts:           make(map[string]int, len(acc.Duos)),
		Milestones: models.Milestones{
			FirstMessage: acc.FirstMessage,
			Milestone100: acc.Milestone100,
			Milestone500: acc.Milestone500,
			ActiveDays:   len(acc.Daily),
		},
		TopDomains:  []models.DomainCount{},
		BusiestDOW:  []models.SlotCount{},
		BusiestHour: []models.SlotCount{},
		BestDuo:     []models.DuoCount{},
	}

	for pair, count := range acc.Duos {
		stats.DuoCounts[pair[0]+"|"+pair[1]] = count
	}

	if dow, ok := BusiestWeekday(acc.Daily); ok {
		stats.BusiestDOW = append(stats.BusiestDOW, dow)
	}
	if hour, ok := BusiestHour(acc.Hourly); ok {
		stats.BusiestHour = append(stats.BusiestHour, hour)
	}
	if duo, ok := BestDuo(acc.Duos); ok {
		stats.BestDuo = append(stats.BestDuo, duo)
	}

	stats.LongestStreakDays = LongestStreak(acc.Daily)
	stats.TopDomains = TopDomains(acc.Domains, opts.topDomainLimit())
	stats.Milestones.BusiestWeek = BusiestWeekOf(acc.Weekly, loc)
	stats.BurstinessCoeff = Burstiness(acc.Daily)
	stats.GhostMode = GhostMode(acc.LongestGaps)

	stats.ReplyTimesMedian = make(map[string]int, len(acc.Participants))
	for _, name := range acc.Participants {
		stats.ReplyTimesMedian[name] = 0
	}
	for sender, samples := range acc.ReplyTimes {
		if len(samples) > 0 {
			stats.ReplyTimesMedian[sender] = int(math.Round(Median(samples)))
		}
	}

	return stats
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// BusiestWeekday sums daily counts by weekday (Sunday = 0).
func BusiestWeekday(daily map[string]int) (models.SlotCount, bool) {
	var sums [7]int
	for date, count := range daily {
		if t, ok := parseDate(date); ok {
			sums[t.Weekday()] += count
		}
	}
	return maxSlot(sums[:])
}

// BusiestHour ignores hours with no messages.
func BusiestHour(hourly [24]int) (models.SlotCount, bool) {
	return maxSlot(hourly[:])
}

func maxSlot(counts []int) (models.SlotCount, bool) {
	best := models.SlotCount{Slot: -1}
	for slot, count := range counts {
		if count > 0 && count > best.Count {
			best = models.SlotCount{Slot: slot, Count: count}
		}
	}
	return best, best.Slot >= 0
}

// LongestStreak is the longest run of consecutive calendar days with activity.
func LongestStreak(daily map[string]int) int {
	dates := make([]time.Time, 0, len(daily))
	for date := range daily {
		if t, ok := parseDate(date); ok {
			dates = append(dates, t)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	longest, current := 0, 0
	for i, d := range dates {
		if i > 0 && d.Sub(dates[i-1]) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
	}
	return longest
}

// Median of the samples; the slice is sorted in place.
func Median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	slices.Sort(samples)

	mid := len(samples) / 2
	if len(samples)%2 == 0 {
		return (samples[mid-1] + samples[mid]) / 2
	}
	return samples[mid]
}

func BestDuo(duos map[[2]string]int) (models.DuoCount, bool) {
	var best models.DuoCount
	found := false
	for pair, count := range duos {
		if !found || count > best.Count || (count == best.Count && comparePair(pair, best.Names) < 0) {
			best = models.DuoCount{Names: pair, Count: count}
			found = true
		}
	}
	return best, found
}

func comparePair(a, b [2]string) int {
	return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
}

// TopDomains returns up to limit domains by descending count.
func TopDomains(domains map[string]int, limit int) []models.DomainCount {
	ranked := make([]models.DomainCount, 0, len(domains))
	for domain, count := range domains {
		ranked = append(ranked, models.DomainCount{Domain: domain, Count: count})
	}
	slices.SortFunc(ranked, func(a, b models.DomainCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Domain, b.Domain))
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BusiestWeekOf picks the week-start key with the most messages; start is
// that Sunday's midnight in loc.
func BusiestWeekOf(weekly map[string]int, loc *time.Location) models.BusiestWeek {
	var bestKey string
	bestCount := 0
	for key, count := range weekly {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey, bestCount = key, count
		}
	}
	if bestKey == "" {
		return models.BusiestWeek{}
	}

	t, err := time.ParseInLocation(dateLayout, bestKey, loc)
	if err != nil {
		return models.BusiestWeek{}
	}
	start := t.UnixMilli()
	return models.BusiestWeek{Start: &start, Count: bestCount}
}

// Burstiness is the coefficient of variation of daily counts: population
// standard deviation over mean. Fewer than two active days yields 0.
func Burstiness(daily map[string]int) float64 {
	if len(daily) < 2 {
		return 0
	}

	// integer sums keep the result independent of map order
	var sum, sumSquares int
	for _, c := range daily {
		sum += c
		sumSquares += c * c
	}

	n := float64(len(daily))
	mean := float64(sum) / n
	if mean <= 0 {
		return 0
	}

	variance := max(float64(sumSquares)/n-mean*mean, 0)
	return math.Sqrt(variance) / mean
}

// GhostMode is the participant with the single longest silence between two
// of their own messages, or nil when nobody sent twice.
func GhostMode(gaps map[string]float64) *models.GhostEntry {
	var best *models.GhostEntry
	for name, gap := range gaps {
		if best == nil || gap > best.GapMinutes || (gap == best.GapMinutes && name < best.Name) {
			best = &models.GhostEntry{Name: name, GapMinutes: gap}
		}
	}
	return best
}
