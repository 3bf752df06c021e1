package rewind

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jasperwreed/chat-rewind/internal/emoji"
	"github.com/jasperwreed/chat-rewind/internal/models"
)

const (
	dateLayout = "2006-01-02"

	// progressThreshold is the message count above which the pass reports
	// its own progress.
	progressThreshold = 1000
	reelMarker        = "/reel/"
)

// Notices the platform writes into content on behalf of the sender. They
// never compete for most reacted message.
var systemNotices = []string{
	" sent an attachment",
	" shared a",
	" sent a photo",
	" sent a video",
	" sent a voice message",
	" liked a message",
	" reacted ",
}

// Accumulator holds every raw counter gathered by one aggregation pass.
// It belongs to a single run and is not safe to reuse.
type Accumulator struct {
	Participants []string
	members      map[string]bool

	Total        int
	PerSender    map[string]int
	Types        models.MessageTypes
	Weekend      int
	Weekday      int
	FirstMessage *int64
	Milestone100 *int64
	Milestone500 *int64

	Hourly [24]int
	Daily  map[string]int
	Weekly map[string]int

	ReactionsSent     map[string]int
	ReactionsReceived map[string]int
	ReactionEmoji     map[string]int
	TextEmoji         map[string]int
	SenderEmoji       map[string]map[string]int
	MostReacted       *models.ReactedMessage
	mostReactedLen    int

	Reels   int
	Domains map[string]int

	ReplyTimes  map[string][]float64
	Duos        map[[2]string]int
	LongestGaps map[string]float64
	lastSeen    map[string]int64
}

func newAccumulator(participants []string) *Accumulator {
	acc := &Accumulator{
		Participants:      participants,
		members:           make(map[string]bool, len(participants)),
		PerSender:         make(map[string]int),
		Daily:             make(map[string]int),
		Weekly:            make(map[string]int),
		ReactionsSent:     make(map[string]int),
		ReactionsReceived: make(map[string]int),
		ReactionEmoji:     make(map[string]int),
		TextEmoji:         make(map[string]int),
		SenderEmoji:       make(map[string]map[string]int),
		Domains:           make(map[string]int),
		ReplyTimes:        make(map[string][]float64),
		Duos:              make(map[[2]string]int),
		LongestGaps:       make(map[string]float64),
		lastSeen:          make(map[string]int64),
	}

	for _, name := range participants {
		acc.members[name] = true
		acc.PerSender[name] = 0
		acc.ReactionsSent[name] = 0
		acc.ReactionsReceived[name] = 0
		acc.SenderEmoji[name] = make(map[string]int)
	}

	return acc
}

// Aggregator walks a time-ordered message sequence once.
type Aggregator struct {
	loc             *time.Location
	internalDomains []string
	replyWindow     float64 // minutes
	progress        ProgressReporter
}

func NewAggregator(opts Options) *Aggregator {
	opts = opts.withDefaults()
	return &Aggregator{
		loc:             opts.Location,
		internalDomains: opts.InternalDomains,
		replyWindow:     opts.ReplyWindow.Minutes(),
		progress:        opts.Progress,
	}
}

// Aggregate runs the single pass. messages must be sorted by timestamp and
// already restricted to the reporting year. Senders and reactors outside
// participants are ignored.
func (a *Aggregator) Aggregate(messages []models.Message, participants []string) *Accumulator {
	acc := newAccumulator(participants)
	total := len(messages)
	step := total / 10

	for i := range messages {
		if total > progressThreshold && i > 0 && i%step == 0 {
			percent := int(math.Round(50 + float64(i)/float64(total)*30))
			report(a.progress, fmt.Sprintf("Analyzing message %d of %d...", i, total), percent)
		}

		var prev *models.Message
		if i > 0 {
			prev = &messages[i-1]
		}
		a.visit(acc, &messages[i], prev)
	}

	return acc
}

func (a *Aggregator) visit(acc *Accumulator, msg, prev *models.Message) {
	sender := msg.SenderName
	if !acc.members[sender] {
		return
	}

	acc.Total++
	acc.PerSender[sender]++

	countType(acc, msg)
	a.countTime(acc, msg)
	countReactions(acc, msg)
	trackMostReacted(acc, msg)
	countEmoji(acc, msg)
	a.countShare(acc, msg)
	a.trackReply(acc, msg, prev)
	trackDuo(acc, msg, prev)
	trackGhost(acc, msg)
}

func countType(acc *Accumulator, msg *models.Message) {
	switch {
	case len(msg.Photos) > 0:
		acc.Types.Photos++
	case len(msg.Videos) > 0:
		acc.Types.Videos++
	case len(msg.AudioFiles) > 0:
		acc.Types.Audio++
	case msg.Share != nil:
		acc.Types.Shares++
	default:
		if _, ok := msg.Text(); ok {
			acc.Types.Text++
		} else {
			acc.Types.Other++
		}
	}
}

func (a *Aggregator) countTime(acc *Accumulator, msg *models.Message) {
	ts := msg.TimestampMs
	when := time.UnixMilli(ts).In(a.loc)

	switch when.Weekday() {
	case time.Saturday, time.Sunday:
		acc.Weekend++
	default:
		acc.Weekday++
	}

	if acc.FirstMessage == nil {
		acc.FirstMessage = &ts
	}
	switch acc.Total {
	case 100:
		acc.Milestone100 = &ts
	case 500:
		acc.Milestone500 = &ts
	}

	acc.Hourly[when.Hour()]++
	acc.Daily[when.Format(dateLayout)]++

	y, m, d := when.Date()
	weekStart := time.Date(y, m, d-int(when.Weekday()), 0, 0, 0, 0, a.loc)
	acc.Weekly[weekStart.Format(dateLayout)]++
}

func countReactions(acc *Accumulator, msg *models.Message) {
	for _, r := range msg.Reactions {
		if !acc.members[r.Actor] {
			continue
		}
		acc.ReactionsSent[r.Actor]++
		acc.ReactionsReceived[msg.SenderName]++
		acc.ReactionEmoji[emoji.Decode(r.Reaction)]++
	}
}

func isSystemMessage(msg *models.Message, text string) bool {
	if msg.Share != nil || msg.Photos != nil || msg.Videos != nil || msg.AudioFiles != nil {
		return true
	}
	for _, notice := range systemNotices {
		if strings.Contains(text, notice) {
			return true
		}
	}
	return false
}

// trackMostReacted only considers messages carrying a reactions field.
// Ties go to the longer decoded content.
func trackMostReacted(acc *Accumulator, msg *models.Message) {
	if msg.Reactions == nil {
		return
	}
	text, ok := msg.Text()
	if !ok || isSystemMessage(msg, text) {
		return
	}

	count := len(msg.Reactions)
	decoded := emoji.Decode(text)
	length := utf8.RuneCountInString(decoded)

	if acc.MostReacted != nil {
		if count < acc.MostReacted.ReactionCount {
			return
		}
		if count == acc.MostReacted.ReactionCount && length <= acc.mostReactedLen {
			return
		}
	}

	acc.MostReacted = &models.ReactedMessage{
		Content:       decoded,
		Sender:        msg.SenderName,
		ReactionCount: count,
		Timestamp:     msg.TimestampMs,
	}
	acc.mostReactedLen = length
}

func countEmoji(acc *Accumulator, msg *models.Message) {
	text, ok := msg.Text()
	if !ok {
		return
	}

	usage := acc.SenderEmoji[msg.SenderName]
	for _, e := range emoji.Extract(emoji.Decode(text)) {
		acc.TextEmoji[e]++
		usage[e]++
	}

	// escapes that survived JSON parsing literally
	for _, e := range emoji.ExtractEscaped(text) {
		acc.TextEmoji[e]++
	}
}

func (a *Aggregator) countShare(acc *Accumulator, msg *models.Message) {
	if msg.Share == nil || msg.Share.Link == "" {
		return
	}
	link := msg.Share.Link

	if strings.Contains(link, reelMarker) {
		acc.Reels++
		return
	}

	if domain, ok := a.externalDomain(link); ok {
		acc.Domains[domain]++
	}
}

// externalDomain returns the link's host without a leading "www." unless
// it belongs to the platform itself. Unparseable links have no domain.
func (a *Aggregator) externalDomain(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, internal := range a.internalDomains {
		if strings.Contains(host, internal) {
			return "", false
		}
	}
	return host, true
}

// trackReply uses plain sender adjacency in the merged stream, so in group
// chats a "reply" is simply the next message by someone else.
func (a *Aggregator) trackReply(acc *Accumulator, msg, prev *models.Message) {
	if prev == nil || prev.SenderName == msg.SenderName {
		return
	}

	gap := minutesBetween(prev.TimestampMs, msg.TimestampMs)
	if gap < a.replyWindow {
		acc.ReplyTimes[msg.SenderName] = append(acc.ReplyTimes[msg.SenderName], gap)
	}
}

func trackDuo(acc *Accumulator, msg, prev *models.Message) {
	if prev == nil || prev.SenderName == msg.SenderName {
		return
	}
	acc.Duos[duoKey(prev.SenderName, msg.SenderName)]++
}

func duoKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func trackGhost(acc *Accumulator, msg *models.Message) {
	sender := msg.SenderName
	if last, ok := acc.lastSeen[sender]; ok {
		gap := minutesBetween(last, msg.TimestampMs)
		if longest, seen := acc.LongestGaps[sender]; !seen || gap > longest {
			acc.LongestGaps[sender] = gap
		}
	}
	acc.lastSeen[sender] = msg.TimestampMs
}

func minutesBetween(fromMs, toMs int64) float64 {
	return float64(toMs-fromMs) / float64(time.Minute/time.Millisecond)
}
