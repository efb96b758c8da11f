package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dep2p/go-duet/internal/rendezvous"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// Game 界面驱动的对局
type Game interface {
	Tick()
	Invite(id string) error
	Quit()
	Phase() types.Phase
	Candidates() []rendezvous.CandidateView
	Status() string
	Board() pkgif.Board
	Arbitration() types.Arbitration
	Turn() (string, int)
}

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model bubbletea 模型
type Model struct {
	game     Game
	picker   *Picker
	interval time.Duration

	flash string
	width int
}

// New 创建模型；picker 为 nil 时对局阶段只显示棋盘
func New(game Game, picker *Picker, interval time.Duration) Model {
	return Model{game: game, picker: picker, interval: interval}
}

// Init 启动 tick
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update 处理按键和 tick
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.game.Tick()
		if m.game.Phase() == types.PhaseFinished {
			return m, tea.Quit
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	key := msg.String()

	switch key {
	case "q", "esc", "ctrl+c":
		m.game.Quit()
		return m, tea.Quit
	}

	switch m.game.Phase() {
	case types.PhaseJoining:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.invite(int(key[0] - '1'))
		}
	case types.PhasePlaying:
		m.handleMoveKey(key)
	}
	return m, nil
}

func (m *Model) invite(idx int) {
	cands := m.game.Candidates()
	if idx >= len(cands) {
		return
	}
	if err := m.game.Invite(cands[idx].ID); err != nil {
		m.flash = err.Error()
	}
}

func (m *Model) handleMoveKey(key string) {
	if m.picker == nil {
		return
	}
	grid := m.game.Board().Grid()
	switch key {
	case "up", "k":
		m.picker.Move(0, 1, grid)
	case "down", "j":
		m.picker.Move(0, -1, grid)
	case "left", "h":
		m.picker.Move(-1, 0, grid)
	case "right", "l":
		m.picker.Move(1, 0, grid)
	case "enter", " ":
		m.picker.Confirm()
	}
}

// ============================================================================
//                              渲染
// ============================================================================

// View 渲染界面
func (m Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("duet"))

	switch m.game.Phase() {
	case types.PhaseJoining:
		sections = append(sections, m.renderCandidates())
	case types.PhasePlaying, types.PhaseFinished:
		if m.game.Board() != nil {
			sections = append(sections, m.renderBoard())
		}
	}

	if m.flash != "" {
		sections = append(sections, errorStyle.Render(m.flash))
	}
	sections = append(sections, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCandidates() string {
	cands := m.game.Candidates()
	if len(cands) == 0 {
		return mutedStyle.Render("No opponents yet.")
	}

	var sb strings.Builder
	for i, c := range cands {
		line := c.Label()
		if i < 9 {
			line = fmt.Sprintf("[%d] %s", i+1, line)
		}
		if c.Invitable() {
			line = invitableStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		sb.WriteString(line)
		if i < len(cands)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderBoard 第 0 行在最下方
func (m Model) renderBoard() string {
	board := m.game.Board()
	grid := board.Grid()
	reader, _ := board.(ownerReader)

	var cursor types.Cell
	showCursor := false
	if m.picker != nil && m.game.Phase() == types.PhasePlaying {
		cursor = m.picker.Cursor()
		showCursor = true
	}

	var sb strings.Builder
	for r := grid.Rows - 1; r >= 0; r-- {
		for c := 0; c < grid.Columns; c++ {
			cell := types.Cell{Column: c, Row: r}
			glyph := mutedStyle.Render(".")
			if reader != nil {
				if id, ok := reader.Owner(cell); ok {
					glyph = identityStyle(id).Render(string(rune(id)))
				}
			}
			if showCursor && cell == cursor {
				glyph = cursorStyle.Render(glyph)
			}
			sb.WriteString(glyph)
			if c < grid.Columns-1 {
				sb.WriteByte(' ')
			}
		}
		if r > 0 {
			sb.WriteByte('\n')
		}
	}
	return boardStyle.Render(sb.String())
}

func (m Model) renderStatus() string {
	status := m.game.Status()
	if m.game.Phase() == types.PhasePlaying {
		_, moves := m.game.Turn()
		a := m.game.Arbitration()
		status = fmt.Sprintf("%s  |  you: %s  |  moves: %d", status, a.Local, moves)
	}
	bar := statusBarStyle.Render(status)
	if m.width > 0 {
		bar = statusBarStyle.Width(m.width).Render(status)
	}
	return bar + "\n" + mutedStyle.Render(m.helpText())
}

func (m Model) helpText() string {
	switch m.game.Phase() {
	case types.PhaseJoining:
		return "1-9 invite/accept  q quit"
	case types.PhasePlaying:
		return "arrows move  enter place  q quit"
	default:
		return "q quit"
	}
}

// Run 运行界面直到对局结束或用户退出
//
// ctx 取消或程序被信号终止时，未结束的对局按主动退出处理。
func Run(ctx context.Context, game Game, picker *Picker, interval time.Duration) error {
	p := tea.NewProgram(New(game, picker, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	settle(game)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// settle 界面退出后仍未结束的对局主动退出
func settle(game Game) {
	if game.Phase() != types.PhaseFinished {
		game.Quit()
	}
}
