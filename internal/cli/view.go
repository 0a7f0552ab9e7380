package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags layoutFlags
		width int
	)

	cmd := &cobra.Command{
		Use:   "view [input]",
		Short: "Browse the ASCII layout interactively",
		Long: `Compute the slice layout and browse its ASCII rendering.

Use the arrow keys or h/j/k/l to scroll, g/G to jump to the top or bottom
and q to quit. Layouts spanning more than 1024 time units are scaled to fit
unless --width is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts, err := flags.options(c, input)
			if err != nil {
				return err
			}
			opts.Formats = []string{"ascii"}
			opts.Width = width

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%s · tracks %s", result.Dataset.Source, opts.Argument(result.Dataset))
			m := newViewerModel(title, string(result.Artifacts["ascii"]))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&width, "width", 0, "scale the layout to this many columns")

	return cmd
}

// =============================================================================
// viewerModel - Scrollable layout viewer
// =============================================================================

var (
	viewerFrameStyle = lipgloss.NewStyle().Foreground(colorCyan)
	viewerDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// viewerChrome is the number of lines used by the title, help and footer.
const viewerChrome = 4

type viewerModel struct {
	title  string
	lines  []string
	widest int

	x, y          int
	width, height int
}

func newViewerModel(title, ascii string) viewerModel {
	lines := strings.Split(strings.TrimSuffix(ascii, "\n"), "\n")
	if ascii == "" {
		lines = nil
	}
	widest := 0
	for _, l := range lines {
		widest = max(widest, len(l))
	}
	return viewerModel{
		title:  title,
		lines:  lines,
		widest: widest,
		width:  80,
		height: 24,
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		page := m.pageHeight()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.y--
		case "down", "j":
			m.y++
		case "left", "h":
			m.x -= 8
		case "right", "l":
			m.x += 8
		case "pgup":
			m.y -= page
		case "pgdown", " ":
			m.y += page
		case "home", "g":
			m.x, m.y = 0, 0
		case "end", "G":
			m.y = len(m.lines)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	m.clamp()
	return m, nil
}

func (m *viewerModel) clamp() {
	m.y = min(m.y, len(m.lines)-m.pageHeight())
	m.y = max(m.y, 0)
	m.x = min(m.x, m.widest-m.width)
	m.x = max(m.x, 0)
}

func (m viewerModel) pageHeight() int {
	return max(m.height-viewerChrome, 1)
}

func (m viewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(viewerDimStyle.Render("↑/↓/←/→ scroll  g/G top/bottom  q quit"))
	b.WriteString("\n")

	if len(m.lines) == 0 {
		b.WriteString(StyleWarning.Render("no slices on the requested tracks"))
		b.WriteString("\n")
	}
	end := min(m.y+m.pageHeight(), len(m.lines))
	for _, line := range m.lines[m.y:end] {
		if m.x < len(line) {
			line = line[m.x:min(len(line), m.x+m.width)]
		} else {
			line = ""
		}
		b.WriteString(viewerFrameStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(viewerDimStyle.Render(fmt.Sprintf("  depth %d-%d of %d · column %d of %d",
		m.y, max(end-1, m.y), len(m.lines), m.x, m.widest)))
	return b.String()
}
