// Package tui renders an interactive preview of a dry-run job's plan before
// a commit, grounded on the teacher's internal/tui.UndoModel: a
// treeview.TuiTreeModel[T] over a domain type (there log.SessionSummary,
// here planNode) embedded in a wrapper model with a details side panel.
package tui

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sorttv/showsort/internal/job"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// planNode is the treeview data type for one row of a job's plan: a show, a
// season, an episode, or an unprocessed-skip entry.
type planNode struct {
	Kind     string
	Detail   string
	Selected bool
}

// PreviewModel wraps a treeview tree of a job's plan with a details panel
// showing the focused row's reason/path, same split as the teacher's
// UndoModel (tree left, details right).
type PreviewModel struct {
	*treeview.TuiTreeModel[planNode]
	job             *job.Job
	width           int
	height          int
	detailsViewport viewport.Model
	detailsFocused  bool
}

// NewPreview builds a PreviewModel for j. Run it with
// tea.NewProgram(tui.NewPreview(j)).
func NewPreview(j *job.Job) *PreviewModel {
	m := &PreviewModel{job: j, width: 80, height: 24}

	// Chinese and Japanese show titles render at the wrong column width
	// under the ambiguous East Asian Width default; pin both settings the
	// way the teacher's RenameModel does before laying out any tree rows.
	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true

	tree := treeview.NewTree(buildPlanNodes(j), treeview.WithExpandAll[planNode]())
	m.TuiTreeModel = treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[planNode](m.width/2),
		treeview.WithTuiHeight[planNode](m.height-4),
		treeview.WithTuiAllowResize[planNode](true),
	)

	m.detailsViewport = viewport.New(m.width-m.width/2, m.height-4)
	m.detailsViewport.Style = lipgloss.NewStyle()
	return m
}

// buildPlanNodes turns one job's processed and unprocessed shows into a
// show -> season -> episode tree, plus a flat "skipped" branch.
func buildPlanNodes(j *job.Job) []*treeview.Node[planNode] {
	var roots []*treeview.Node[planNode]

	for _, show := range j.ProcessedShows {
		showName := show.Name
		if show.Category != "" {
			showName = fmt.Sprintf("%s [%s]", showName, show.Category)
		}
		showNode := treeview.NewNode(show.ID, showName, planNode{
			Kind:     "show",
			Detail:   fmt.Sprintf("category: %s\nseasons: %d", show.Category, len(show.Seasons)),
			Selected: show.Selected,
		})

		var seasonNodes []*treeview.Node[planNode]
		for _, season := range show.Seasons {
			seasonID := fmt.Sprintf("%s/season-%d", show.ID, season.Number)
			seasonNode := treeview.NewNode(seasonID, fmt.Sprintf("Season %d", season.Number), planNode{
				Kind:     "season",
				Detail:   fmt.Sprintf("%d episodes", len(season.Episodes)),
				Selected: season.Selected,
			})

			var episodeNodes []*treeview.Node[planNode]
			for _, ep := range season.Episodes {
				label := fmt.Sprintf("Episode %d", ep.Number)
				if ep.EndNumber > ep.Number {
					label = fmt.Sprintf("Episodes %d-%d", ep.Number, ep.EndNumber)
				}
				epID := fmt.Sprintf("%s/ep-%d", seasonID, ep.Number)
				episodeNodes = append(episodeNodes, treeview.NewNode(epID, label, planNode{
					Kind:     "episode",
					Selected: ep.Selected,
				}))
			}
			seasonNode.SetChildren(episodeNodes)
			seasonNodes = append(seasonNodes, seasonNode)
		}
		showNode.SetChildren(seasonNodes)
		roots = append(roots, showNode)
	}

	if len(j.UnprocessedShows) > 0 {
		var skipNodes []*treeview.Node[planNode]
		for i, u := range j.UnprocessedShows {
			skipNodes = append(skipNodes, treeview.NewNode(
				fmt.Sprintf("skip-%d", i), u.FolderName, planNode{Kind: "skip", Detail: u.Reason}))
		}
		skipRoot := treeview.NewNode("skipped", "Unprocessed", planNode{Kind: "group"})
		skipRoot.SetChildren(skipNodes)
		roots = append(roots, skipRoot)
	}

	return roots
}

func (m *PreviewModel) Init() tea.Cmd { return nil }

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		treeWidth := m.width / 2
		treeModel, cmd := m.TuiTreeModel.Update(tea.WindowSizeMsg{Width: treeWidth, Height: m.height - 4})
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[planNode])
		m.detailsViewport.Width = m.width - treeWidth
		m.detailsViewport.Height = m.height - 4
		m.syncDetails()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.detailsFocused = !m.detailsFocused
			return m, nil
		}
		if m.detailsFocused {
			var cmd tea.Cmd
			m.detailsViewport, cmd = m.detailsViewport.Update(msg)
			return m, cmd
		}
	}

	treeModel, cmd := m.TuiTreeModel.Update(msg)
	m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[planNode])
	m.syncDetails()
	return m, cmd
}

// syncDetails refreshes the details panel from whichever row is focused.
func (m *PreviewModel) syncDetails() {
	focused := m.TuiTreeModel.Tree.GetFocusedNode()
	if focused == nil {
		m.detailsViewport.SetContent("")
		return
	}
	data := focused.Data()
	if data.Detail == "" {
		m.detailsViewport.SetContent("(no detail)")
		return
	}
	m.detailsViewport.SetContent(data.Detail)
}

func (m *PreviewModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("showsort preview -- job %s", m.job.ID))
	footer := footerStyle.Render("tab focus details • ↑/↓ navigate • q quit")

	left := m.TuiTreeModel.View()
	right := detailStyle.Render(m.detailsViewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(footer)
	return b.String()
}
