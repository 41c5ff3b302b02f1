package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dungeonforge/crawl-engine/internal/mcp"
	"github.com/dungeonforge/crawl-engine/pkg/snapshot"
)

const PlaceHolderText = "What do you do? (try: look, move north, attack goblin)"

// logEntry is one line of the adventure log.
type logEntry struct {
	fromPlayer bool
	text       string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *Client
	gameState    *snapshot.Snapshot
	log          []logEntry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type callResultMsg struct {
	result *mcp.CallResult
	err    error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	hpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")) // salmon

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		loading:      true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.startNewGame(), progressTick(), textarea.Blink)
}

func (m ConsoleUI) startNewGame() tea.Cmd {
	return func() tea.Msg {
		args := map[string]any{}
		if m.config.PlayerName != "" {
			args["character_name"] = m.config.PlayerName
		}
		result, err := m.client.Call("new_game", args)
		return callResultMsg{result, err}
	}
}

func (m ConsoleUI) callTool(name string, args map[string]any) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Call(name, args)
		return callResultMsg{result, err}
	}
}

// parseCommand turns a typed line into a tool call. Bare directions move,
// bare nouns after a verb become the argument.
func parseCommand(input string) (string, map[string]any, bool) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return "", nil, false
	}
	verb := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))

	switch verb {
	case "north", "south", "east", "west", "n", "s", "e", "w":
		dirs := map[string]string{"n": "north", "s": "south", "e": "east", "w": "west"}
		if full, ok := dirs[verb]; ok {
			verb = full
		}
		return "move", map[string]any{"direction": verb}, true
	case "move", "go", "walk":
		return "move", map[string]any{"direction": strings.ToLower(rest)}, true
	case "look", "l":
		return "look", nil, true
	case "attack", "fight", "hit", "kill":
		return "attack", map[string]any{"target_id": rest}, true
	case "take", "get", "grab", "pickup":
		return "take", map[string]any{"item_id": rest}, true
	case "use", "drink":
		return "use", map[string]any{"item_id": rest}, true
	case "equip", "wield", "wear":
		return "equip", map[string]any{"item_id": rest}, true
	case "inventory", "inv", "i":
		return "inventory", nil, true
	case "stats", "status":
		return "stats", nil, true
	case "map":
		return "map", nil, true
	case "restart", "new":
		return "new_game", nil, true
	}
	return "", nil, false
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("CRAWL ENGINE") + "\n\n")
	content.WriteString("Fight your way through the dungeon and find the exit.\n")
	content.WriteString("Type /help for commands.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, chatWidth-6))) + "\n\n")

	for _, entry := range m.log {
		if entry.fromPlayer {
			content.WriteString(userStyle.Render("> ") + wordwrap.String(entry.text, chatWidth-6) + "\n\n")
		} else {
			content.WriteString(narratorStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURER") + "\n\n")

	gs := m.gameState
	if gs == nil || gs.Character == nil {
		content.WriteString("No game yet.\n")
		m.metaViewport.SetContent(content.String())
		return
	}

	c := gs.Character
	content.WriteString(c.Name + "\n")
	content.WriteString(hpStyle.Render(fmt.Sprintf("HP %d/%d (%s)", c.HP, c.MaxHP, c.Status)) + "\n\n")

	if gs.Equipment != nil {
		if w := gs.Equipment.Weapon; w != nil {
			content.WriteString(fmt.Sprintf("Weapon: %s (+%d)\n", w.Name, w.Damage))
		} else {
			content.WriteString("Weapon: bare hands\n")
		}
		if a := gs.Equipment.Armor; a != nil {
			content.WriteString(fmt.Sprintf("Armor: %s (+%d)\n", a.Name, a.Armor))
		} else {
			content.WriteString("Armor: none\n")
		}
	}
	content.WriteString("\n")

	if gs.CurrentRoom != nil {
		content.WriteString("Location:\n")
		content.WriteString(gs.CurrentRoom.Name + "\n\n")
	}

	content.WriteString(renderMiniMap(gs.MapGrid) + "\n")

	if gs.Context != nil {
		content.WriteString(fmt.Sprintf("Turn %d\n", gs.TurnNumber))
		content.WriteString(fmt.Sprintf("%.0f%% explored\n\n", gs.Context.ExplorationPct))
	}

	content.WriteString("Session:\n")
	content.WriteString(m.client.SessionID.String()[:8] + "...\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /session: Copy ID\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

// renderMiniMap draws the discovery grid, top row first.
func renderMiniMap(grid [][]snapshot.MapCell) string {
	if len(grid) == 0 {
		return ""
	}
	var b strings.Builder
	for y := len(grid) - 1; y >= 0; y-- {
		for x := range grid[y] {
			switch grid[y][x].Status {
			case snapshot.CellCurrent:
				b.WriteString("@ ")
			case snapshot.CellExit:
				b.WriteString("E ")
			case snapshot.CellVisited:
				b.WriteString("# ")
			case snapshot.CellAdjacent:
				b.WriteString("? ")
			default:
				b.WriteString(". ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.72) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			name, args, ok := parseCommand(input)
			m.textarea.Reset()
			m.log = append(m.log, logEntry{fromPlayer: true, text: input})
			if !ok {
				m.log = append(m.log, logEntry{text: "I don't understand that. Type /help for commands."})
				m.writeChatContent()
				return m, nil
			}

			m.loading = true
			m.progressTick = 0
			m.writeChatContent()
			return m, tea.Batch(m.callTool(name, args), progressTick())
		}

	case callResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.log = append(m.log, logEntry{text: errorStyle.Render("Error: " + msg.err.Error())})
		} else {
			text := ""
			if len(msg.result.Content) > 0 {
				text = msg.result.Content[0].Text
			}
			if msg.result.IsError {
				text = errorStyle.Render(text)
			} else if msg.result.GameState != nil {
				m.gameState = msg.result.GameState
			}
			m.log = append(m.log, logEntry{text: text})
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `Commands:
• look - describe the room
• move <north|south|east|west> (or just: north, n)
• attack <monster>
• take / use / equip <item>
• inventory, stats, map
• restart - abandon the run and start over
• /session - copy session ID to clipboard
• Ctrl+C - quit`
		m.log = append(m.log, logEntry{text: helpText})
		m.writeChatContent()

	case "/session":
		if err := clipboard.WriteAll(m.client.SessionID.String()); err != nil {
			m.log = append(m.log, logEntry{text: errorStyle.Render("Could not copy session ID: " + err.Error())})
		} else {
			m.log = append(m.log, logEntry{text: "Session ID copied to clipboard."})
		}
		m.writeChatContent()

	default:
		m.log = append(m.log, logEntry{text: "Unknown command. Type /help."})
		m.writeChatContent()
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Abandon the dungeon and quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(44).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Entering the dungeon..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(1, chatWidth-4))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 60 {
		usable = 60
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
