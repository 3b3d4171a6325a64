package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

// Deps are the collaborators shared by the TUI pages.
type Deps struct {
	Client   *api.Client
	Service  wizard.Service
	Geocoder wizard.Geocoder
	Options  []wizard.Option
	// User is shown in the info line.
	User string
	// Context bounds every backend call; nil means context.Background.
	Context context.Context
	// SessionEvents, when set, lets a page react to a sign-out.
	SessionEvents <-chan session.Event
}

func (d Deps) context() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}

type model struct {
	trips    []memories.Memory // everything loaded
	filtered []memories.Memory // trips matching filter
	covers   map[int]int

	filter    memories.TripFilter
	monthIdx  int
	locations []string
	locIdx    int

	currentTrip tripDetailsMsg

	detailFocus bool
	width       int
	height      int
	err         error
	status      string

	client *api.Client
	user   string
	ctx    context.Context
	cancel context.CancelFunc
	events <-chan session.Event

	signedOut bool
	quitting  bool

	cursor           int
	deleting         bool
	deleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(deps Deps) model {
	ctx, cancel := context.WithCancel(deps.context())
	return model{
		covers:    map[int]int{},
		locations: []string{memories.FilterAll},
		client:    deps.Client,
		user:      deps.User,
		ctx:       ctx,
		cancel:    cancel,
		events:    deps.SessionEvents,
	}
}

func tick() tea.Cmd {
	return tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(listTrips(m.ctx, m.client), tick(), waitSignedOut(m.events))
}

func (m model) selected() (memories.Memory, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return memories.Memory{}, false
	}
	return m.filtered[m.cursor], true
}

// Reapply the filter and reload details for the new selection
func (m model) refilter() (model, tea.Cmd) {
	m.filtered = memories.FilterTrips(m.trips, m.filter)
	m.cursor = 0
	m.currentTrip = tripDetailsMsg{}
	if t, ok := m.selected(); ok {
		return m, getTripDetails(m.ctx, m.client, t.ID)
	}
	return m, nil
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case signedOutMsg:
		m.signedOut = true
		m.deleting = false
		m.trips, m.filtered = nil, nil
		m.currentTrip = tripDetailsMsg{}
		m.user = ""
		m.status = textRedStyle.Render(MsgSignedOut)
		return m, nil

	case error:
		if m.signedOut {
			return m, nil
		}
		m.err = msg
		return m, nil

	case tripsLoadedMsg:
		if m.signedOut {
			return m, nil
		}
		m.trips = msg.trips
		m.covers = msg.covers
		m.locations = append([]string{memories.FilterAll}, memories.Locations(m.trips)...)
		if m.locIdx >= len(m.locations) {
			m.locIdx = 0
			m.filter.Location = memories.FilterAll
		}
		return m.refilter()

	case tripDetailsMsg:
		// Ignore details that arrive after the selection moved on
		if t, ok := m.selected(); ok && t.ID == msg.trip.ID {
			m.currentTrip = msg
		}
		return m, nil

	case tripDeletedMsg:
		m.deleting = false
		if m.signedOut {
			return m, nil
		}
		if msg.err != nil {
			m.status = textRedStyle.Render(api.UserMessage(msg.err, "ไม่สามารถลบทริปได้"))
			return m, nil
		}
		kept := make([]memories.Memory, 0, len(m.trips))
		for _, t := range m.trips {
			if t.ID != msg.memoryID {
				kept = append(kept, t)
			}
		}
		m.trips = kept
		m.status = textOkStyle.Render("ลบทริปแล้ว")
		return m.refilter()

	case tea.KeyMsg:
		if m.deleting {
			switch msg.String() {
			case "up", "k":
				m.deleteConfirmIdx = 0
			case "down", "j":
				m.deleteConfirmIdx = 1
			case "enter":
				if t, ok := m.selected(); ok && m.deleteConfirmIdx == 0 {
					return m, deleteTrip(m.ctx, m.client, t.ID)
				}
				m.deleting = false
			case "esc":
				m.deleting = false
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)
		}
		if m.signedOut {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				return m, getTripDetails(m.ctx, m.client, m.filtered[m.cursor].ID)
			}

		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				return m, getTripDetails(m.ctx, m.client, m.filtered[m.cursor].ID)
			}

		case "right", "l", "enter":
			if len(m.filtered) > 0 {
				m.detailFocus = true
			}

		case "left", "h":
			m.detailFocus = false

		case "m":
			// Cycle the month filter
			months := memories.MonthOptions()
			m.monthIdx = (m.monthIdx + 1) % len(months)
			m.filter.Month = months[m.monthIdx]
			return m.refilter()

		case "p":
			// Cycle the park filter
			m.locIdx = (m.locIdx + 1) % len(m.locations)
			m.filter.Location = m.locations[m.locIdx]
			return m.refilter()

		case "c":
			m.monthIdx, m.locIdx = 0, 0
			m.filter = memories.TripFilter{}
			return m.refilter()

		case "r":
			m.status = ""
			return m, listTrips(m.ctx, m.client)

		case "d":
			if len(m.filtered) > 0 {
				m.deleteConfirmIdx = 1
				m.deleting = true
			}
		}
		return m, nil

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tick()
	}

	return m, nil
}

func (m model) filterLine() string {
	month, loc := m.filter.Month, m.filter.Location
	if month == "" {
		month = memories.FilterAll
	}
	if loc == "" {
		loc = memories.FilterAll
	}
	line := fmt.Sprintf("เดือน: %s  สถานที่: %s", accentStyle.Render(month), accentStyle.Render(loc))
	if n := m.filter.ActiveCount(); n > 0 {
		line += fmt.Sprintf("  (%d ตัวกรอง)", n)
	}
	return line
}

func (m model) detailView(width int) string {
	var b strings.Builder
	t := m.currentTrip.trip
	if t.ID == 0 {
		b.WriteString("Select a trip to view details.")
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(labelStyle.Render("ทริป: ")+textStyle.Render(t.ParkName)) + "\n\n")
	b.WriteString(labelStyle.Render("วันที่: ") + memories.FormatTripDate(t.StartDate, t.EndDate) +
		fmt.Sprintf(" (%d วัน)\n", t.DurationDays))
	b.WriteString(labelStyle.Render("ค่าใช้จ่าย: ") + fmt.Sprintf("฿%.2f\n", float64(t.TotalExpense)))
	b.WriteString(labelStyle.Render("ความเป็นส่วนตัว: ") + privacyBadge(t.PrivacyLevel) + "\n")
	if t.HasLocation() {
		b.WriteString(labelStyle.Render("พิกัด: ") + fmt.Sprintf("%.4f, %.4f\n", *t.LocationLat, *t.LocationLng))
	}
	if photoID, ok := m.covers[t.ID]; ok {
		b.WriteString(labelStyle.Render("ภาพปก: ") + memories.PhotoURL(m.client, t.ID, photoID) + "\n")
	}

	if t.Impression != "" {
		b.WriteString("\n" + labelStyle.Render("ความประทับใจ") + "\n" + textStyle.Width(width).Render(t.Impression) + "\n")
	}
	if t.Tips != "" {
		b.WriteString("\n" + labelStyle.Render("เคล็ดลับ") + "\n" + textStyle.Width(width).Render(t.Tips) + "\n")
	}
	if len(t.Places) > 0 {
		names := make([]string, len(t.Places))
		for i, p := range t.Places {
			names[i] = p.PlaceName
		}
		b.WriteString("\n" + labelStyle.Render("สถานที่: ") + accentStyle.Render(strings.Join(names, ", ")) + "\n")
	}
	if len(t.Expenses) > 0 {
		b.WriteString("\n" + labelStyle.Render("รายจ่าย") + "\n")
		for _, e := range t.Expenses {
			b.WriteString(fmt.Sprintf("  %s  ฿%.2f\n", e.Category, float64(e.Amount)))
		}
	}
	if len(m.currentTrip.timelines) > 0 {
		b.WriteString("\n" + labelStyle.Render("ไทม์ไลน์") + "\n")
		for _, tl := range m.currentTrip.timelines {
			b.WriteString(fmt.Sprintf("  %s  %s\n", accentStyle.Render(tl.TimeLabel), tl.Title))
		}
	}
	return b.String()
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "เจอกันใหม่ทริปหน้า!\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleBar := titleStyle.Width(m.width).Render("MyNatureJourney - ทริปของฉัน")
	leftWidth, rightWidth := columnWidths(m.width, m.detailFocus)
	panelHeight := m.height - 3

	// Left column: trip list with filters
	var left strings.Builder
	left.WriteString(subtitleStyle.Width(leftWidth-bordersAndPaddingWidth).Render("  ทริป") + "\n")
	left.WriteString(m.filterLine() + "\n\n")
	if len(m.filtered) == 0 {
		if len(m.trips) == 0 {
			left.WriteString("  ยังไม่มีทริป\n")
		} else {
			left.WriteString("  ไม่พบทริปที่ตรงกับตัวกรอง\n")
		}
	}
	for i, t := range m.filtered {
		isSelected := i == m.cursor
		pointer := generateLinePointer(isSelected && !m.detailFocus, 2)
		availableWidth := leftWidth - len(pointer) - bordersAndPaddingWidth - 1
		line := fmt.Sprintf("%s  %s", memories.FormatShortDate(t.StartDate), t.ParkName)
		if isSelected {
			line = selectedStyle.Render(marqueeText(line, m.marqueeOffset, availableWidth))
		} else {
			line = inactiveStyle.Render(truncateText(line, availableWidth))
		}
		left.WriteString(pointer + line + "\n")
	}
	left.WriteString(fmt.Sprintf("\nรวม %d ทริป  ค่าใช้จ่าย ฿%.2f\n", len(m.filtered), memories.TotalExpense(m.filtered)))

	userStatus := 0
	if m.user != "" {
		userStatus = 1
	}
	apiURL, apiStatus := "-", 2
	if m.client != nil {
		apiURL, apiStatus = m.client.BaseURL(), 1
	}
	left.WriteString(fmt.Sprintf("API: %s\nUser: %s\n",
		TextStatusColorize(apiURL, apiStatus),
		TextStatusColorize(m.user, userStatus)))

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(panelHeight).
		Render(left.String())

	// Right column: trip details or delete confirmation
	var right strings.Builder
	if m.deleting {
		t, _ := m.selected()
		right.WriteString(subtitleStyle.Render("ลบทริป") + "\n\n")
		right.WriteString("ทริป: " + textRedStyle.Render(t.ParkName) + "\n\n")
		yesOpt, noOpt := "Yes", "No"
		if m.deleteConfirmIdx == 0 {
			yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
			noOpt = inactiveStyle.Render("  " + noOpt)
		} else {
			yesOpt = inactiveStyle.Render("  " + yesOpt)
			noOpt = selectedStyle.Render(" >" + noOpt)
		}
		right.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		right.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	} else {
		right.WriteString(subtitleStyle.Render("รายละเอียด") + "\n\n")
		right.WriteString(m.detailView(rightWidth - bordersAndPaddingWidth))
	}
	if m.status != "" {
		right.WriteString("\n\n" + m.status)
	}
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(panelHeight).
		Render(right.String())

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	footerText := "\n↑/↓ to navigate • m month • p park • c clear filters • d to delete • r reload • q to quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

// RunTrips starts the trips browser.
func RunTrips(deps Deps) error {
	p := tea.NewProgram(initModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
