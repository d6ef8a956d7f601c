package sequence

import (
	"testing"
	"time"
)

func TestDialogueRevealAndAdvance(t *testing.T) {
	d := NewDialogue(time.Millisecond)
	d.Begin([]string{"黑暗。", "你猛然醒來。"}, t0)

	if !d.Active() {
		t.Fatal("dialogue not active after Begin")
	}
	d.Advance(t0.Add(2 * time.Millisecond))
	if got := d.Current(); got != "黑暗" {
		t.Fatalf("partial line: got %q want 黑暗", got)
	}
	if d.LineComplete() {
		t.Fatal("line complete too early")
	}

	// AdvanceLine on an incomplete line is refused.
	if d.AdvanceLine(t0.Add(2 * time.Millisecond)) {
		t.Fatal("advanced past incomplete line")
	}
	if d.LineIndex() != 0 {
		t.Fatalf("line index moved: got %d", d.LineIndex())
	}

	d.Advance(t0.Add(10 * time.Millisecond))
	if !d.LineComplete() {
		t.Fatal("line not complete after full reveal")
	}
	if done := d.AdvanceLine(t0.Add(10 * time.Millisecond)); done {
		t.Fatal("reading finished with a line remaining")
	}
	if d.LineIndex() != 1 {
		t.Fatalf("line index: got %d want 1", d.LineIndex())
	}
}

func TestDialogueSkipJumpsToFullLine(t *testing.T) {
	d := NewDialogue(time.Millisecond)
	d.Begin([]string{"冷汗浸濕了後背。"}, t0)

	d.Advance(t0.Add(time.Millisecond))
	if !d.Skip() {
		t.Fatal("skip returned false mid-line")
	}
	if got := d.Current(); got != "冷汗浸濕了後背。" {
		t.Fatalf("after skip: got %q", got)
	}
	// Skip on a complete line is a no-op; advancing finishes the reading.
	if d.Skip() {
		t.Fatal("skip on complete line reported a change")
	}
	if done := d.AdvanceLine(t0.Add(time.Millisecond)); !done {
		t.Fatal("last line advance did not finish the reading")
	}
	if d.Active() {
		t.Fatal("dialogue still active after completion")
	}
}

func TestDialogueBeginEmptyIsNoOp(t *testing.T) {
	d := NewDialogue(time.Millisecond)
	d.Begin(nil, t0)
	if d.Active() {
		t.Fatal("empty line set activated dialogue")
	}
	if _, ok := d.NextDue(); ok {
		t.Fatal("inactive dialogue has a deadline")
	}
}

func TestDialogueNextDue(t *testing.T) {
	d := NewDialogue(50 * time.Millisecond)
	d.Begin([]string{"殘月如鉤。"}, t0)

	due, ok := d.NextDue()
	if !ok {
		t.Fatal("no deadline while revealing")
	}
	if want := t0.Add(50 * time.Millisecond); !due.Equal(want) {
		t.Fatalf("deadline: got %v want %v", due, want)
	}

	d.Skip()
	if _, ok := d.NextDue(); ok {
		t.Fatal("deadline remains after line fully revealed")
	}
}
