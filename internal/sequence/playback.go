package sequence

import (
	"strings"
	"time"

	"github.com/cyue/lantern/internal/types"
)

// completedLimit bounds the completed scrollback; oldest entries are
// evicted first. The currently typing entry is never evicted.
const completedLimit = 100

// LogEntry is one queued, typed, then completed unit of the log. It is
// created once per qualifying action result and immutable after creation;
// only the playback cursor moves.
type LogEntry struct {
	ID    string
	Kind  EntryKind
	Lines []string
	Roll  *types.DiceOutcome

	text []rune // newline-joined lines, computed once
}

// NewLogEntry builds an entry whose cursor spans all lines contiguously.
func NewLogEntry(id string, kind EntryKind, lines []string, roll *types.DiceOutcome) *LogEntry {
	return &LogEntry{
		ID:    id,
		Kind:  kind,
		Lines: lines,
		Roll:  roll,
		text:  []rune(strings.Join(lines, "\n")),
	}
}

// Len is the entry's rune length including joining newlines.
func (e *LogEntry) Len() int { return len(e.text) }

// Playback is the FIFO backlog plus the typing engine. At most one entry
// is typing at a time; entries complete strictly in enqueue order.
type Playback struct {
	typing    *LogEntry
	cursor    int
	backlog   []*LogEntry
	completed []*LogEntry
	totalDone int

	interval   time.Duration
	nextReveal time.Time
	suspended  bool
}

// NewPlayback creates an idle playback with the given per-rune interval.
func NewPlayback(interval time.Duration) *Playback {
	return &Playback{interval: interval}
}

// Enqueue appends an entry; when idle and not suspended, typing begins
// immediately.
func (p *Playback) Enqueue(entry *LogEntry, now time.Time) {
	p.backlog = append(p.backlog, entry)
	if p.typing == nil && !p.suspended {
		p.startNext(now)
	}
}

// startNext pulls the backlog head into the typing slot. Zero-length
// entries finalize without waiting for a tick.
func (p *Playback) startNext(now time.Time) {
	for p.typing == nil && len(p.backlog) > 0 {
		p.typing = p.backlog[0]
		p.backlog = p.backlog[1:]
		p.cursor = 0
		p.nextReveal = now.Add(p.interval)
		if p.typing.Len() == 0 {
			p.finalize(now)
		}
	}
}

// finalize moves the typing entry into the completed collection and pulls
// the next backlog entry if present and consumption is not suspended.
func (p *Playback) finalize(now time.Time) {
	p.completed = append(p.completed, p.typing)
	if len(p.completed) > completedLimit {
		p.completed = p.completed[len(p.completed)-completedLimit:]
	}
	p.totalDone++
	p.typing = nil
	p.cursor = 0
	if !p.suspended {
		p.startNext(now)
	}
}

// Advance reveals every rune due at now. Returns true if anything changed.
// Suspension halts backlog consumption, not the entry already typing: the
// current entry finishes revealing and then nothing else starts.
func (p *Playback) Advance(now time.Time) bool {
	if p.typing == nil {
		return false
	}
	changed := false
	for p.typing != nil && !p.nextReveal.After(now) {
		p.cursor++
		changed = true
		if p.cursor >= p.typing.Len() {
			p.finalize(now)
			break
		}
		p.nextReveal = p.nextReveal.Add(p.interval)
	}
	return changed
}

// Skip completes the typing entry synchronously: cursor jumps to the end
// and the entry finalizes in the same call. The backlog is untouched.
func (p *Playback) Skip(now time.Time) bool {
	if p.typing == nil {
		return false
	}
	p.cursor = p.typing.Len()
	p.finalize(now)
	return true
}

// Suspend halts backlog consumption; queued entries stay queued. Used by
// the game-over latch, whose only exits run through Reset.
func (p *Playback) Suspend() { p.suspended = true }

// Reset drops everything: typing, backlog, completed scrollback and the
// suspension.
func (p *Playback) Reset() {
	p.typing = nil
	p.cursor = 0
	p.backlog = nil
	p.completed = nil
	p.totalDone = 0
	p.suspended = false
}

// NextDue reports the deadline of the next reveal, if any.
func (p *Playback) NextDue() (time.Time, bool) {
	if p.typing == nil {
		return time.Time{}, false
	}
	return p.nextReveal, true
}

// Typing returns the in-progress entry, or nil when idle.
func (p *Playback) Typing() *LogEntry { return p.typing }

// Cursor is the rune cursor into the typing entry's joined text.
func (p *Playback) Cursor() int { return p.cursor }

// Backlog returns the number of queued entries not yet typing.
func (p *Playback) Backlog() int { return len(p.backlog) }

// Completed returns the bounded completed collection, oldest first.
func (p *Playback) Completed() []*LogEntry { return p.completed }

// TotalCompleted counts finalizations over the playback's lifetime,
// unaffected by eviction or preloading. Hosts use it to persist exactly
// the entries that finished since their last look.
func (p *Playback) TotalCompleted() int { return p.totalDone }

// Preload seeds the completed collection without playback, e.g. restoring
// scrollback from the transcript on resume.
func (p *Playback) Preload(entries []*LogEntry) {
	p.completed = append(p.completed, entries...)
	if len(p.completed) > completedLimit {
		p.completed = p.completed[len(p.completed)-completedLimit:]
	}
}

// VisibleLines splits the revealed prefix of the typing entry back into
// lines. The final line is partial while the cursor is mid-entry.
func (p *Playback) VisibleLines() []string {
	if p.typing == nil {
		return nil
	}
	cursor := p.cursor
	if cursor > p.typing.Len() {
		cursor = p.typing.Len()
	}
	return strings.Split(string(p.typing.text[:cursor]), "\n")
}
