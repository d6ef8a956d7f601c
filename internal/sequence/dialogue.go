package sequence

import "time"

// Dialogue is the immersive narration channel: one line at a time, each
// revealed rune by rune, advanced by the player. It is mutually exclusive
// with the log viewport and is never queued behind it.
type Dialogue struct {
	lines []string
	line  int
	runes []rune
	char  int

	active     bool
	interval   time.Duration
	nextReveal time.Time
}

// NewDialogue creates an inactive dialogue with the given per-rune interval.
func NewDialogue(interval time.Duration) *Dialogue {
	return &Dialogue{interval: interval}
}

// Begin replaces any prior reading with a new line set. Empty sets are a
// no-op and leave the channel inactive.
func (d *Dialogue) Begin(lines []string, now time.Time) {
	if len(lines) == 0 {
		return
	}
	d.lines = lines
	d.line = 0
	d.runes = []rune(lines[0])
	d.char = 0
	d.active = true
	d.nextReveal = now.Add(d.interval)
}

// Advance reveals every rune due at now on the current line. Reveal stops
// at the line end; moving on is the player's call via AdvanceLine.
func (d *Dialogue) Advance(now time.Time) bool {
	if !d.active || d.char >= len(d.runes) {
		return false
	}
	changed := false
	for d.char < len(d.runes) && !d.nextReveal.After(now) {
		d.char++
		changed = true
		d.nextReveal = d.nextReveal.Add(d.interval)
	}
	return changed
}

// Skip jumps the current line to fully revealed.
func (d *Dialogue) Skip() bool {
	if !d.active || d.char >= len(d.runes) {
		return false
	}
	d.char = len(d.runes)
	return true
}

// AdvanceLine moves past a fully revealed line. On the last line the
// dialogue completes and the channel deactivates. Returns true when the
// whole reading finished.
func (d *Dialogue) AdvanceLine(now time.Time) bool {
	if !d.active || d.char < len(d.runes) {
		return false
	}
	if d.line+1 >= len(d.lines) {
		d.active = false
		return true
	}
	d.line++
	d.runes = []rune(d.lines[d.line])
	d.char = 0
	d.nextReveal = now.Add(d.interval)
	return false
}

// Reset deactivates the channel and clears cursors.
func (d *Dialogue) Reset() {
	d.lines = nil
	d.line = 0
	d.runes = nil
	d.char = 0
	d.active = false
}

// Active reports whether a reading is in progress.
func (d *Dialogue) Active() bool { return d.active }

// LineComplete reports whether the current line is fully revealed.
func (d *Dialogue) LineComplete() bool { return d.char >= len(d.runes) }

// Current returns the revealed portion of the current line.
func (d *Dialogue) Current() string {
	if !d.active {
		return ""
	}
	return string(d.runes[:d.char])
}

// LineIndex returns the zero-based position within the line set.
func (d *Dialogue) LineIndex() int { return d.line }

// LineCount returns the size of the line set.
func (d *Dialogue) LineCount() int { return len(d.lines) }

// NextDue reports the deadline of the next reveal, if any.
func (d *Dialogue) NextDue() (time.Time, bool) {
	if !d.active || d.char >= len(d.runes) {
		return time.Time{}, false
	}
	return d.nextReveal, true
}
