package models

import (
	"encoding/json"
	"fmt"
)

// RewindStats is the aggregated view of one reporting year of a conversation.
// Field names match previously exported processed stats files.
type RewindStats struct {
	TotalMessages       int                       `json:"total_messages"`
	PerSender           map[string]int            `json:"per_sender"`
	ReactionsSent       map[string]int            `json:"reactions_sent"`
	ReactionsReceived   map[string]int            `json:"reactions_received"`
	TopReactionEmoji    map[string]int            `json:"top_reaction_emoji"`
	EmojiInText         map[string]int            `json:"emoji_in_text"`
	PerSenderEmojiUsage map[string]map[string]int `json:"per_sender_emoji_usage"`
	MessageTypes        MessageTypes              `json:"message_types"`
	Milestones          Milestones                `json:"milestones"`
	ReelsTotal          int                       `json:"reels_total"`
	TopDomains          []DomainCount             `json:"top_domains"`
	BusiestDOW          []SlotCount               `json:"busiest_dow"`
	BusiestHour         []SlotCount               `json:"busiest_hour"`
	HourlyActivity      [24]int                   `json:"hourly_activity"`
	BestDuo             []DuoCount                `json:"best_duo"`
	LongestStreakDays   int                       `json:"longest_streak_days"`
	ReplyTimesMedian    map[string]int            `json:"reply_times_median"`
	RewindYear          int                       `json:"rewind_year"`
	ChatTitle           string                    `json:"chat_title"`
	MostReactedMessage  *ReactedMessage           `json:"most_reacted_message"`
	GhostMode           *GhostEntry               `json:"ghost_mode"`
	BurstinessCoeff     float64                   `json:"burstiness_coefficient"`
	WeekendMessages     int                       `json:"weekend_messages"`
	WeekdayMessages     int                       `json:"weekday_messages"`
	DailyActivity       map[string]int            `json:"daily_activity"`
	WeeklyActivity      map[string]int            `json:"weekly_activity"`
	DomainCounts        map[string]int            `json:"domain_counts"`
	DuoCounts           map[string]int            `json:"duo_counts"`
}

type MessageTypes struct {
	Text   int `json:"text"`
	Photos int `json:"photos"`
	Videos int `json:"videos"`
	Audio  int `json:"audio"`
	Shares int `json:"shares"`
	Other  int `json:"other"`
}

// Milestones timestamps are unix milliseconds; nil means not reached.
type Milestones struct {
	FirstMessage *int64      `json:"first_message"`
	Milestone100 *int64      `json:"milestone_100"`
	Milestone500 *int64      `json:"milestone_500"`
	BusiestWeek  BusiestWeek `json:"busiest_week"`
	ActiveDays   int         `json:"active_days"`
}

type BusiestWeek struct {
	Start *int64 `json:"start"`
	Count int    `json:"count"`
}

type ReactedMessage struct {
	Content       string `json:"content"`
	Sender        string `json:"sender"`
	ReactionCount int    `json:"reaction_count"`
	Timestamp     int64  `json:"timestamp"`
}

// DomainCount encodes as ["example.com", 3].
type DomainCount struct {
	Domain string
	Count  int
}

func (d DomainCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Domain, d.Count})
}

func (d *DomainCount) UnmarshalJSON(data []byte) error {
	return decodePair(data, &d.Domain, &d.Count)
}

// SlotCount encodes as [slot, count]; used for weekday and hour.
type SlotCount struct {
	Slot  int
	Count int
}

func (s SlotCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int{s.Slot, s.Count})
}

func (s *SlotCount) UnmarshalJSON(data []byte) error {
	return decodePair(data, &s.Slot, &s.Count)
}

// DuoCount encodes as [["a", "b"], count] with the names sorted.
type DuoCount struct {
	Names [2]string
	Count int
}

func (d DuoCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Names, d.Count})
}

func (d *DuoCount) UnmarshalJSON(data []byte) error {
	return decodePair(data, &d.Names, &d.Count)
}

// GhostEntry encodes as ["name", gapMinutes].
type GhostEntry struct {
	Name       string
	GapMinutes float64
}

func (g GhostEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{g.Name, g.GapMinutes})
}

func (g *GhostEntry) UnmarshalJSON(data []byte) error {
	return decodePair(data, &g.Name, &g.GapMinutes)
}

// decodePair reads a two element JSON array into first and second.
func decodePair(data []byte, first, second any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("expected a two element array, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], first); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], second)
}
