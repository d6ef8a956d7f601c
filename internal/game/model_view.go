package game

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cyue/lantern/internal/sequence"
)

func newLogViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "載入中..."
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}
	if banner := m.renderBanners(); banner != "" {
		sections = append(sections, banner)
	}
	if dialogue := m.renderDialogue(); dialogue != "" {
		sections = append(sections, dialogue)
	}
	if m.session.GameOver() {
		sections = append(sections, m.renderGameOver())
	} else if actions := m.renderActions(); actions != "" {
		sections = append(sections, actions)
	}
	sections = append(sections, m.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the player vitals and, in combat, the enemy's.
func (m *Model) renderHeader() string {
	state := m.session.State()

	hp := hpStyle
	if m.session.Effects().Active(sequence.CuePlayerHit) {
		hp = hpHurtStyle
	}
	left := headerStyle.Render(state.Name) + "  " +
		hp.Render(meter("HP", state.HP, state.MaxHP)) + "  " +
		mpStyle.Render(meter("MP", state.MP, state.MaxMP)) + "  " +
		goldStyle.Render(fmt.Sprintf("金幣 %d", state.Gold))

	right := ""
	if combat := state.Combat; combat != nil {
		enemy := enemyStyle
		if m.session.Effects().Active(sequence.CueEnemyHit) {
			enemy = enemyHurtStyle
		}
		name := combat.EnemyName
		if name == "" {
			name = combat.EnemyID
		}
		right = enemy.Render(name + "  " + meter("HP", combat.EnemyHP, combat.EnemyMaxHP))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// meter renders a compact bar like "HP ████░░ 15/20".
func meter(label string, value, max int) string {
	if max <= 0 {
		return fmt.Sprintf("%s %d", label, value)
	}
	const cells = 8
	filled := value * cells / max
	if filled < 0 {
		filled = 0
	}
	if value > 0 && filled == 0 {
		filled = 1
	}
	if filled > cells {
		filled = cells
	}
	return fmt.Sprintf("%s %s%s %d/%d",
		label,
		strings.Repeat("█", filled),
		strings.Repeat("░", cells-filled),
		value, max)
}

// refreshLog rebuilds the viewport content from the completed entries and
// the partially revealed typing entry.
func (m *Model) refreshLog(goBottom bool) {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, entry := range m.session.Playback().Completed() {
		b.WriteString(renderEntry(entry, entry.Lines, false))
	}
	if typing := m.session.Playback().Typing(); typing != nil {
		b.WriteString(renderEntry(typing, m.session.Playback().VisibleLines(), true))
	}
	m.viewport.SetContent(b.String())
	if goBottom {
		m.viewport.GotoBottom()
	}
}

func renderEntry(entry *sequence.LogEntry, lines []string, typing bool) string {
	style := systemEntryStyle
	if entry.Kind == sequence.EntryCombat {
		style = combatEntryStyle
	}
	var b strings.Builder
	for i, line := range lines {
		rendered := style.Render(line)
		if typing && i == len(lines)-1 {
			rendered += caret
		}
		b.WriteString(rendered)
		b.WriteString("\n")
	}
	if !typing && entry.Roll != nil {
		b.WriteString(rollStyle.Render(renderRoll(entry)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRoll(entry *sequence.LogEntry) string {
	roll := entry.Roll
	verdict := "失敗"
	if roll.Succeeded() {
		verdict = "成功"
	}
	return fmt.Sprintf("  🎲 %d / %d（%s）", roll.Roll, roll.Target, verdict)
}

// renderBanners shows the transient scene cues and the first-combat tip.
func (m *Model) renderBanners() string {
	fx := m.session.Effects()
	var parts []string
	if fx.Active(sequence.CueSceneEnter) {
		parts = append(parts, sceneBannerStyle.Render("進入戰鬥"))
	}
	if fx.Active(sequence.CueSceneExit) {
		parts = append(parts, sceneBannerStyle.Render("戰鬥結束"))
	}
	if tip := fx.TipText(); tip != "" {
		parts = append(parts, tipStyle.Render("提示："+tip))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderDialogue() string {
	d := m.session.Dialogue()
	if !d.Active() {
		return ""
	}
	line := dialogueStyle.Render(d.Current())
	if !d.LineComplete() {
		return line + caret
	}
	hint := "▼"
	if d.LineIndex()+1 >= d.LineCount() {
		hint = "■"
	}
	return line + " " + dialogueHintStyle.Render(hint)
}

func (m *Model) renderActions() string {
	if len(m.actions) == 0 {
		return ""
	}
	accepted := m.session.InputAccepted()
	var b strings.Builder
	for i, action := range m.actions {
		label := fmt.Sprintf("%d. %s", i+1, truncate(action.Text, m.width-4))
		switch {
		case !accepted:
			b.WriteString(actionDisabledStyle.Render(label))
		case i == m.actionIndex:
			b.WriteString(actionSelectedStyle.Render("> " + label))
		default:
			b.WriteString(actionStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderGameOver() string {
	return gameOverStyle.Render("你倒下了\n\nr 重新開始 · esc 離開")
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	if m.session.Outstanding() {
		return m.spinner.View() + statusStyle.Render(" 等待回應...")
	}
	hints := "space 快轉 · enter 確認 · q 離開"
	return statusStyle.Render(hints)
}

// truncate cuts a string to the given display width, CJK aware.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
