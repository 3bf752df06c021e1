package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

const summaryTopN = 3

func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <file|folder>...",
		Short: "Print a readable summary of the year",
		Long: `Compute the stats like process does, or read a processed stats file, and print
the highlights instead of JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSummary,
	}

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer settings.finish()

	result, err := processInputs(settings, args)
	if err != nil {
		return err
	}

	stats, err := result.Decode()
	if err != nil {
		return err
	}

	settings.finish()
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(stats, settings.opts.Location))
	return nil
}

type summaryRow struct {
	label string
	value string
}

func renderSummary(stats *models.RewindStats, loc *time.Location) string {
	var sections []string

	title := fmt.Sprintf("%s · Rewind %d", stats.ChatTitle, stats.RewindYear)
	sections = append(sections, titleStyle.Render(title))

	overview := []summaryRow{
		{"Messages", fmt.Sprintf("%d", stats.TotalMessages)},
		{"Active days", fmt.Sprintf("%d", stats.Milestones.ActiveDays)},
		{"Longest streak", fmt.Sprintf("%d days", stats.LongestStreakDays)},
		{"Weekend / weekday", fmt.Sprintf("%d / %d", stats.WeekendMessages, stats.WeekdayMessages)},
		{"Burstiness", fmt.Sprintf("%.2f", stats.BurstinessCoeff)},
	}
	if len(stats.BusiestDOW) > 0 {
		dow := stats.BusiestDOW[0]
		overview = append(overview, summaryRow{"Busiest day", fmt.Sprintf("%s (%d)", time.Weekday(dow.Slot), dow.Count)})
	}
	if len(stats.BusiestHour) > 0 {
		hour := stats.BusiestHour[0]
		overview = append(overview, summaryRow{"Busiest hour", fmt.Sprintf("%02d:00 (%d)", hour.Slot, hour.Count)})
	}
	if start := stats.Milestones.BusiestWeek.Start; start != nil {
		week := time.UnixMilli(*start).In(loc).Format("Jan 2")
		overview = append(overview, summaryRow{"Busiest week", fmt.Sprintf("%s (%d)", week, stats.Milestones.BusiestWeek.Count)})
	}
	sections = append(sections, renderPane("Overview", overview))

	var people []summaryRow
	for _, name := range rankedKeys(stats.PerSender) {
		value := fmt.Sprintf("%d messages", stats.PerSender[name])
		if median, ok := stats.ReplyTimesMedian[name]; ok && median > 0 {
			value += fmt.Sprintf(", replies in ~%d min", median)
		}
		people = append(people, summaryRow{name, value})
	}
	if len(stats.BestDuo) > 0 {
		duo := stats.BestDuo[0]
		people = append(people, summaryRow{"Best duo", fmt.Sprintf("%s & %s (%d)", duo.Names[0], duo.Names[1], duo.Count)})
	}
	if stats.GhostMode != nil {
		people = append(people, summaryRow{"Ghost mode", fmt.Sprintf("%s (%s)", stats.GhostMode.Name, formatGap(stats.GhostMode.GapMinutes))})
	}
	sections = append(sections, renderPane("People", people))

	var highlights []summaryRow
	if emoji := topN(stats.EmojiInText, summaryTopN); emoji != "" {
		highlights = append(highlights, summaryRow{"Top emoji", emoji})
	}
	if reactions := topN(stats.TopReactionEmoji, summaryTopN); reactions != "" {
		highlights = append(highlights, summaryRow{"Top reactions", reactions})
	}
	if len(stats.TopDomains) > 0 {
		var domains []string
		for _, d := range stats.TopDomains {
			domains = append(domains, fmt.Sprintf("%s (%d)", d.Domain, d.Count))
		}
		highlights = append(highlights, summaryRow{"Shared links", strings.Join(domains, ", ")})
	}
	highlights = append(highlights, summaryRow{"Reels", fmt.Sprintf("%d", stats.ReelsTotal)})
	if m := stats.MostReactedMessage; m != nil {
		highlights = append(highlights, summaryRow{"Most reacted", fmt.Sprintf("%q by %s (%d)", truncate(m.Content, 40), m.Sender, m.ReactionCount)})
	}
	sections = append(sections, renderPane("Highlights", highlights))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderPane(heading string, rows []summaryRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}

	lines := []string{valueStyle.Render(heading)}
	for _, r := range rows {
		label := labelStyle.Render(fmt.Sprintf("%-*s", width, r.label))
		lines = append(lines, label+"  "+r.value)
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

// rankedKeys orders keys by descending count, then name.
func rankedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(counts[b], counts[a]), cmp.Compare(a, b))
	})
	return keys
}

func topN(counts map[string]int, n int) string {
	keys := rankedKeys(counts)
	if len(keys) > n {
		keys = keys[:n]
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, "  ")
}

func formatGap(minutes float64) string {
	d := time.Duration(minutes * float64(time.Minute)).Round(time.Minute)
	if d >= 48*time.Hour {
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	}
	return d.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
