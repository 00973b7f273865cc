// Package setup is the terminal configuration form: it collects the
// connection settings, verifies them against Sonarr, and writes the
// config file.
package setup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"showdeck/config"
	"showdeck/services/sonarr"
)

const (
	fieldSonarrURL = iota
	fieldAPIKey
	fieldDaysPast
	fieldDaysFuture
	fieldHTMLFile
	fieldJSONFile
	fieldImageDir
	fieldInterval
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Sonarr URL",
	"API Key",
	"Days to Look Back",
	"Days to Look Forward",
	"HTML Output File",
	"JSON Output File (optional)",
	"Image Cache Directory",
	"Auto-Refresh Interval (hours)",
}

var fieldHints = [fieldCount]string{
	"e.g. http://192.168.1.100:8989",
	"Sonarr > Settings > General",
	"0-90 days",
	"7-365 days",
	"e.g. /var/www/html/dashboard.html",
	"leave empty to skip the snapshot",
	"",
	"1-168",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type pingResult struct {
	err error
}

// Model is the bubbletea state of the setup form.
type Model struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	path    string
	errMsg  string
	okMsg   string
	testing bool
	saved   bool
}

// New builds the form, pre-filled from an existing config when one
// loads cleanly.
func New(path string) Model {
	m := Model{path: path}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fieldHints[i]
		ti.CharLimit = 256
		m.inputs[i] = ti
	}
	m.inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	m.inputs[fieldAPIKey].EchoCharacter = '•'

	m.inputs[fieldImageDir].SetValue("sonarr_images/")
	m.inputs[fieldInterval].SetValue("6")

	if cfg, err := config.Load(path); err == nil {
		m.inputs[fieldSonarrURL].SetValue(cfg.SonarrURL)
		m.inputs[fieldAPIKey].SetValue(cfg.SonarrAPIKey)
		m.inputs[fieldDaysPast].SetValue(strconv.Itoa(cfg.DaysPast))
		m.inputs[fieldDaysFuture].SetValue(strconv.Itoa(cfg.DaysFuture))
		m.inputs[fieldHTMLFile].SetValue(cfg.OutputHTMLFile)
		m.inputs[fieldJSONFile].SetValue(cfg.OutputJSONFile)
		m.inputs[fieldImageDir].SetValue(cfg.ImageCacheDir)
		m.inputs[fieldInterval].SetValue(strconv.Itoa(cfg.RefreshIntervalHours))
	}

	m.inputs[0].Focus()
	return m
}

// Saved reports whether the form wrote a config before exiting.
func (m Model) Saved() bool {
	return m.saved
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown, tea.KeyEnter:
			if msg.Type == tea.KeyEnter && m.focus == fieldCount-1 {
				return m.submit()
			}
			return m.moveFocus(1), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.moveFocus(-1), nil
		case tea.KeyCtrlT:
			return m.testConnection()
		case tea.KeyCtrlS:
			return m.submit()
		}

	case pingResult:
		m.testing = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("connection failed: %v", msg.err)
			m.okMsg = ""
		} else {
			m.errMsg = ""
			m.okMsg = "connected to Sonarr"
		}
		return m, nil
	}

	cmd := m.updateFocused(msg)
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) testConnection() (tea.Model, tea.Cmd) {
	url := strings.TrimSpace(m.inputs[fieldSonarrURL].Value())
	key := strings.TrimSpace(m.inputs[fieldAPIKey].Value())
	if url == "" || key == "" {
		m.errMsg = "enter the Sonarr URL and API key first"
		return m, nil
	}
	m.testing = true
	m.errMsg = ""
	m.okMsg = ""
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return pingResult{err: sonarr.New(url, key).Ping(ctx)}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	cfg, err := m.buildConfig()
	if err != nil {
		m.errMsg = err.Error()
		m.okMsg = ""
		return m, nil
	}
	if err := config.Save(cfg, m.path); err != nil {
		m.errMsg = fmt.Sprintf("saving config: %v", err)
		return m, nil
	}
	m.saved = true
	return m, tea.Quit
}

func (m Model) buildConfig() (*config.Config, error) {
	daysPast, err := atoiField(m.inputs[fieldDaysPast].Value(), "days to look back")
	if err != nil {
		return nil, err
	}
	daysFuture, err := atoiField(m.inputs[fieldDaysFuture].Value(), "days to look forward")
	if err != nil {
		return nil, err
	}
	interval, err := atoiField(m.inputs[fieldInterval].Value(), "refresh interval")
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		SonarrURL:            strings.TrimSpace(m.inputs[fieldSonarrURL].Value()),
		SonarrAPIKey:         strings.TrimSpace(m.inputs[fieldAPIKey].Value()),
		DaysPast:             daysPast,
		DaysFuture:           daysFuture,
		OutputHTMLFile:       strings.TrimSpace(m.inputs[fieldHTMLFile].Value()),
		OutputJSONFile:       strings.TrimSpace(m.inputs[fieldJSONFile].Value()),
		ImageCacheDir:        strings.TrimSpace(m.inputs[fieldImageDir].Value()),
		ImageSize:            "500",
		RefreshIntervalHours: interval,
		HTMLTitle:            "Sonarr Calendar Pro",
		HTMLTheme:            "dark",
		GridColumns:          4,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func atoiField(raw, label string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return n, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sonarr Calendar Pro — Setup"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		if fieldHints[i] != "" {
			b.WriteString("  " + hintStyle.Render("("+fieldHints[i]+")"))
		}
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.testing {
		b.WriteString(hintStyle.Render("testing connection..."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.okMsg != "" {
		b.WriteString(okStyle.Render(m.okMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab/enter next • ctrl+t test connection • ctrl+s save • esc quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the form and reports whether a config was saved.
func Run(path string) (bool, error) {
	final, err := tea.NewProgram(New(path)).Run()
	if err != nil {
		return false, fmt.Errorf("running setup form: %w", err)
	}
	m, ok := final.(Model)
	return ok && m.Saved(), nil
}
