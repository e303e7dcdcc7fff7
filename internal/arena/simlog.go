package arena

import (
	"fmt"
	"strings"
)

// LogEntry is one recorded event during an episode.
type LogEntry struct {
	Tick     int
	Actor    string  // "player", "bot", or "--" for global events
	Category string  // bot, fire, hit, path, episode
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] bot    bot      mode_change      navigate → engage
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-6s %-8s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// EpisodeLog collects structured events over one episode. It is reset by
// Env.Reset and read by the headless reporter, the viewer's diagnostics
// panel, and tests. Machine-readable, no I/O.
type EpisodeLog struct {
	entries []LogEntry
}

// NewEpisodeLog creates an empty log.
func NewEpisodeLog() *EpisodeLog {
	return &EpisodeLog{}
}

// Add records a new entry.
func (l *EpisodeLog) Add(tick int, actor, category, key, value string, numVal float64) {
	l.entries = append(l.entries, LogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Reset discards all entries, keeping the backing storage.
func (l *EpisodeLog) Reset() {
	l.entries = l.entries[:0]
}

// Entries returns all recorded entries.
func (l *EpisodeLog) Entries() []LogEntry {
	return l.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EpisodeLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match the given category and key.
func (l *EpisodeLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (l *EpisodeLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// FirstTick returns the tick of the earliest entry matching category and key,
// or -1 if none was recorded.
func (l *EpisodeLog) FirstTick(category, key string) int {
	for _, e := range l.entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// Format returns the full log as a single string for t.Log or report output.
func (l *EpisodeLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
