package rewind

import (
	"reflect"
	"testing"
	"time"

	"github.com/jasperwreed/chat-rewind/internal/models"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"even count averages the middle pair", []float64{15, 5}, 10},
		{"odd count takes the middle", []float64{100, 5, 15}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.samples); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestBurstiness(t *testing.T) {
	even := map[string]int{
		"2024-01-01": 10, "2024-01-02": 10, "2024-01-03": 10, "2024-01-04": 10,
	}
	if got := Burstiness(even); got != 0 {
		t.Errorf("Burstiness(even) = %v, want 0", got)
	}

	// mean 10, stddev sqrt(243)
	bursty := map[string]int{
		"2024-01-01": 1, "2024-01-02": 1, "2024-01-03": 1, "2024-01-04": 37,
	}
	if got := Burstiness(bursty); got <= 1 {
		t.Errorf("Burstiness(bursty) = %v, want > 1", got)
	}

	if got := Burstiness(map[string]int{"2024-01-01": 50}); got != 0 {
		t.Errorf("Burstiness(single day) = %v, want 0", got)
	}
	if got := Burstiness(nil); got != 0 {
		t.Errorf("Burstiness(nil) = %v, want 0", got)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		daily map[string]int
		want  int
	}{
		{"empty", map[string]int{}, 0},
		{"single day", map[string]int{"2024-03-01": 4}, 1},
		{
			name: "broken run",
			daily: map[string]int{
				"2024-03-01": 1, "2024-03-02": 1, "2024-03-03": 1,
				"2024-03-05": 1, "2024-03-06": 1,
			},
			want: 3,
		},
		{
			name:  "crosses month end",
			daily: map[string]int{"2024-02-28": 1, "2024-02-29": 1, "2024-03-01": 1},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.daily); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBusiestWeekday(t *testing.T) {
	// 2024-06-02 is a Sunday, 2024-06-03 a Monday
	daily := map[string]int{"2024-06-02": 3, "2024-06-03": 2, "2024-06-10": 1}

	got, ok := BusiestWeekday(daily)
	want := models.SlotCount{Slot: 0, Count: 3}
	if !ok || got != want {
		t.Errorf("BusiestWeekday() = %+v, %v; want %+v", got, ok, want)
	}

	if _, ok := BusiestWeekday(map[string]int{}); ok {
		t.Error("BusiestWeekday() on empty input should report nothing")
	}
}

func TestBusiestHourTieGoesToEarliest(t *testing.T) {
	var hourly [24]int
	hourly[9] = 4
	hourly[21] = 4

	got, ok := BusiestHour(hourly)
	if !ok || got.Slot != 9 || got.Count != 4 {
		t.Errorf("BusiestHour() = %+v, %v; want slot 9 count 4", got, ok)
	}

	if _, ok := BusiestHour([24]int{}); ok {
		t.Error("BusiestHour() with no activity should report nothing")
	}
}

func TestBestDuoTieGoesToSmallestPair(t *testing.T) {
	duos := map[[2]string]int{
		{"Ben", "Cat"}: 4,
		{"Ana", "Cat"}: 4,
		{"Ana", "Ben"}: 2,
	}

	got, ok := BestDuo(duos)
	want := models.DuoCount{Names: [2]string{"Ana", "Cat"}, Count: 4}
	if !ok || got != want {
		t.Errorf("BestDuo() = %+v, want %+v", got, want)
	}
}

func TestTopDomains(t *testing.T) {
	domains := map[string]int{
		"youtube.com": 5,
		"tiktok.com":  5,
		"spotify.com": 9,
		"reddit.com":  1,
	}

	got := TopDomains(domains, 3)
	want := []models.DomainCount{
		{Domain: "spotify.com", Count: 9},
		{Domain: "tiktok.com", Count: 5},
		{Domain: "youtube.com", Count: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopDomains() = %v, want %v", got, want)
	}

	if got := TopDomains(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("TopDomains(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestBusiestWeekOf(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	weekly := map[string]int{"2024-06-09": 7, "2024-06-02": 7, "2024-06-16": 1}

	got := BusiestWeekOf(weekly, loc)

	wantStart := time.Date(2024, time.June, 2, 0, 0, 0, 0, loc).UnixMilli()
	if got.Start == nil || *got.Start != wantStart || got.Count != 7 {
		t.Errorf("BusiestWeekOf() = %+v, want start %d count 7", got, wantStart)
	}

	if empty := BusiestWeekOf(nil, loc); empty.Start != nil || empty.Count != 0 {
		t.Errorf("BusiestWeekOf(nil) = %+v, want zero value", empty)
	}
}

func TestGhostMode(t *testing.T) {
	if got := GhostMode(map[string]float64{}); got != nil {
		t.Errorf("GhostMode(empty) = %+v, want nil", got)
	}

	got := GhostMode(map[string]float64{"Ben": 90, "Ana": 90, "Cat": 12})
	want := &models.GhostEntry{Name: "Ana", GapMinutes: 90}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GhostMode() = %+v, want %+v", got, want)
	}
}

func TestDeriveEmptyPass(t *testing.T) {
	acc := newAccumulator([]string{"Ana", "Ben"})
	stats := Derive(acc, Options{Location: time.UTC})

	if stats.TopDomains == nil || stats.BusiestDOW == nil || stats.BusiestHour == nil || stats.BestDuo == nil {
		t.Error("list fields must be empty slices, not nil")
	}
	if stats.GhostMode != nil {
		t.Errorf("GhostMode = %+v, want nil", stats.GhostMode)
	}
	if stats.Milestones.FirstMessage != nil || stats.Milestones.BusiestWeek.Start != nil {
		t.Error("milestones should be unset with no messages")
	}
	want := map[string]int{"Ana": 0, "Ben": 0}
	if !reflect.DeepEqual(stats.ReplyTimesMedian, want) {
		t.Errorf("ReplyTimesMedian = %v, want %v", stats.ReplyTimesMedian, want)
	}
}

func TestDeriveRoundsReplyMedian(t *testing.T) {
	acc := newAccumulator([]string{"Ana", "Ben"})
	acc.ReplyTimes["Ben"] = []float64{2.4, 3.1}
	acc.Duos[[2]string{"Ana", "Ben"}] = 2

	stats := Derive(acc, Options{Location: time.UTC})

	if stats.ReplyTimesMedian["Ben"] != 3 {
		t.Errorf("ReplyTimesMedian[Ben] = %d, want 3", stats.ReplyTimesMedian["Ben"])
	}
	if stats.DuoCounts["Ana|Ben"] != 2 {
		t.Errorf("DuoCounts = %v, want Ana|Ben: 2", stats.DuoCounts)
	}
	if len(stats.BestDuo) != 1 || stats.BestDuo[0].Names != [2]string{"Ana", "Ben"} {
		t.Errorf("BestDuo = %+v", stats.BestDuo)
	}
}
