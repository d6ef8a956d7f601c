// Package sequence implements the presentation sequencer: it turns action
// results from the game server into paced, interruptible narration while
// keeping the local player state consistent with server truth. One Session
// per play-through; the host drives it from a single timer via Advance.
package sequence

import (
	"strings"

	"github.com/cyue/lantern/internal/types"
)

// Channel says where a batch of narrative lines is shown.
type Channel int

const (
	// ChannelNone means the batch produces no output (empty line set).
	ChannelNone Channel = iota
	// ChannelDialogue is the slow, single-line immersive narration viewport.
	ChannelDialogue
	// ChannelLog is the persistent scrollback fed through the playback queue.
	ChannelLog
)

// EntryKind labels a log entry.
type EntryKind string

const (
	EntryCombat EntryKind = "combat"
	EntrySystem EntryKind = "system"
)

// systemVocabulary marks lines that read as mechanical output rather than
// flavor text. Combat scrollback must persist, so anything mechanical goes
// to the log; everything else gets the immersive dialogue treatment.
var systemVocabulary = []string{
	"傷害",
	"HP",
	"MP",
	"生命",
	"法力",
	"獲得",
	"失去",
	"攻擊",
	"揮出",
	"閃避",
	"命中",
	"骰出",
	"檢定",
}

// Classify labels a line batch for one action result. A combat scene tag
// forces the log regardless of content; otherwise the vocabulary scan
// decides between system log and dialogue.
func Classify(lines []string, scene types.SceneType) (Channel, EntryKind) {
	if len(lines) == 0 {
		return ChannelNone, ""
	}
	if scene == types.SceneCombat {
		return ChannelLog, EntryCombat
	}
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "【") {
			return ChannelLog, EntrySystem
		}
		for _, term := range systemVocabulary {
			if strings.Contains(line, term) {
				return ChannelLog, EntrySystem
			}
		}
	}
	return ChannelDialogue, ""
}
