package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

type fieldKind int

const (
	fieldPark fieldKind = iota
	fieldStart
	fieldEnd
	fieldLat
	fieldLng
	fieldPath
	fieldImpression
	fieldTips
	fieldPlace
	fieldExpense
)

type field struct {
	kind  fieldKind
	label string
	index int    // place row
	key   string // expense category
	input textinput.Model
}

func newField(kind fieldKind, label, placeholder, value string) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 512
	in.SetValue(value)
	return field{kind: kind, label: label, input: in}
}

type wizardModel struct {
	w        *wizard.Wizard
	svc      wizard.Service
	geocoder wizard.Geocoder

	fields []field
	focus  int

	privacyIdx int

	width  int
	height int

	message    string // inline error
	info       string
	submitting bool
	canceling  bool
	geocoding  bool
	signedOut  bool
	result     *wizard.Result
	quitting   bool

	ctx          context.Context
	cancel       context.CancelFunc
	cancelSubmit context.CancelFunc
	events       <-chan session.Event
}

// MsgSubmitCanceled is shown after the user aborts a running submission.
const MsgSubmitCanceled = "ยกเลิกการบันทึกแล้ว ข้อมูลยังอยู่ครบ กด enter เพื่อบันทึกอีกครั้ง"

func initWizardModel(deps Deps) wizardModel {
	ctx, cancel := context.WithCancel(deps.context())
	m := wizardModel{
		w:        wizard.New(deps.Options...),
		svc:      deps.Service,
		geocoder: deps.Geocoder,
		ctx:      ctx,
		cancel:   cancel,
		events:   deps.SessionEvents,
	}
	for i, p := range memories.PrivacyLevels {
		if p == m.w.Privacy() {
			m.privacyIdx = i
		}
	}
	m.buildFields()
	return m
}

// Recreate the inputs of the current step from the wizard state
func (m *wizardModel) buildFields() {
	w := m.w
	var fields []field
	switch w.Step() {
	case wizard.StepLocation:
		start, end := w.Dates()
		lat, lng := w.Coordinates()
		fields = []field{
			newField(fieldPark, "ชื่ออุทยาน", "เช่น เขาใหญ่", w.ParkName()),
			newField(fieldStart, "วันที่เริ่มต้น", "YYYY-MM-DD", start),
			newField(fieldEnd, "วันที่สิ้นสุด", "YYYY-MM-DD", end),
			newField(fieldLat, "ละติจูด", "ไม่บังคับ", formatCoordinate(lat)),
			newField(fieldLng, "ลองจิจูด", "ไม่บังคับ", formatCoordinate(lng)),
		}
	case wizard.StepMedia:
		fields = []field{newField(fieldPath, "ไฟล์", "path/to/photo.jpg", "")}
	case wizard.StepDetails:
		fields = []field{
			newField(fieldImpression, "ความประทับใจ", "", w.Impression()),
			newField(fieldTips, "เคล็ดลับ", "", w.Tips()),
		}
		for i, p := range w.Places() {
			f := newField(fieldPlace, fmt.Sprintf("สถานที่ %d", i+1), "ชื่อสถานที่", p)
			f.index = i
			fields = append(fields, f)
		}
		for _, e := range w.Expenses() {
			f := newField(fieldExpense, e.Category, "0", e.Amount)
			f.key = e.Category
			fields = append(fields, f)
		}
	}
	m.fields = fields
	if m.focus >= len(fields) {
		m.focus = len(fields) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.focusField(m.focus)
}

func (m *wizardModel) focusField(i int) {
	for j := range m.fields {
		m.fields[j].input.Blur()
	}
	if i >= 0 && i < len(m.fields) {
		m.focus = i
		m.fields[i].input.Focus()
	}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

func (m *wizardModel) value(kind fieldKind) string {
	for _, f := range m.fields {
		if f.kind == kind {
			return f.input.Value()
		}
	}
	return ""
}

// Push the edited field back into the wizard
func (m *wizardModel) sync(f field) {
	m.message = ""
	switch f.kind {
	case fieldPark:
		m.w.SetParkName(f.input.Value())
	case fieldStart, fieldEnd:
		err := m.w.SetDates(m.value(fieldStart), m.value(fieldEnd))
		if errors.Is(err, wizard.ErrEndBeforeStart) {
			m.message = wizard.MsgEndBeforeStart
		}
	case fieldLat, fieldLng:
		lat, err1 := wizard.ParseCoordinate(m.value(fieldLat))
		lng, err2 := wizard.ParseCoordinate(m.value(fieldLng))
		if err := errors.Join(err1, err2); err != nil {
			m.message = err.Error()
			return
		}
		m.w.SetCoordinates(lat, lng)
	case fieldImpression:
		m.w.SetImpression(f.input.Value())
	case fieldTips:
		m.w.SetTips(f.input.Value())
	case fieldPlace:
		m.w.UpdatePlace(f.index, f.input.Value())
	case fieldExpense:
		m.w.SetExpense(f.key, f.input.Value())
	}
}

func (m wizardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitSignedOut(m.events))
}

func (m wizardModel) changeStep(next bool) wizardModel {
	if next {
		m.w.Next()
	} else {
		m.w.Prev()
	}
	m.focus = 0
	m.buildFields()
	return m
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case geocodeMsg:
		m.geocoding = false
		switch {
		case msg.err != nil:
			m.message = api.UserMessage(msg.err, "ค้นหาพิกัดไม่สำเร็จ")
		case !msg.found:
			m.info = "ไม่พบพิกัดของสถานที่นี้"
		default:
			lat, lng := msg.lat, msg.lng
			m.w.SetCoordinates(&lat, &lng)
			m.info = fmt.Sprintf("พบพิกัด %.4f, %.4f", lat, lng)
			m.buildFields()
		}
		return m, nil

	case signedOutMsg:
		m.signedOut = true
		m.message = MsgSignedOut
		return m, nil

	case submitMsg:
		m.submitting = false
		canceled := m.canceling
		m.canceling = false
		if m.cancelSubmit != nil {
			m.cancelSubmit()
			m.cancelSubmit = nil
		}
		if msg.err != nil {
			var ve *wizard.ValidationError
			switch {
			case errors.As(msg.err, &ve):
				m.message = ve.Message
			case canceled:
				m.message = MsgSubmitCanceled
			case m.signedOut:
				m.message = MsgSignedOut
			default:
				m.message = api.UserMessage(msg.err, wizard.MsgSubmitFailed)
			}
			// Validation may have moved the wizard back
			m.focus = 0
			m.buildFields()
			return m, nil
		}
		m.result = &msg.result
		m.w.Close()
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// The running submit owns the wizard; only allow aborting it.
			switch msg.String() {
			case "ctrl+c", "esc":
				if !m.canceling && m.cancelSubmit != nil {
					m.canceling = true
					m.cancelSubmit()
				}
			}
			return m, nil
		}
		if m.result != nil {
			switch msg.String() {
			case "q", "esc", "enter", "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.cancel()
			m.w.Close()
			return m, tea.Quit

		case "ctrl+n", "pgdown":
			return m.changeStep(true), nil

		case "ctrl+p", "pgup":
			return m.changeStep(false), nil

		case "tab":
			if len(m.fields) > 0 {
				m.focusField((m.focus + 1) % len(m.fields))
			}
			return m, nil

		case "shift+tab":
			if len(m.fields) > 0 {
				m.focusField((m.focus + len(m.fields) - 1) % len(m.fields))
			}
			return m, nil

		case "ctrl+g":
			if m.w.Step() == wizard.StepLocation && m.geocoder != nil {
				name := strings.TrimSpace(m.w.ParkName())
				if len([]rune(name)) < geocode.MinQueryRunes {
					m.message = fmt.Sprintf("ชื่อสถานที่ต้องมีอย่างน้อย %d ตัวอักษร", geocode.MinQueryRunes)
					return m, nil
				}
				m.geocoding = true
				m.info = ""
				return m, geocodePark(m.ctx, m.geocoder, name)
			}
			return m, nil

		case "ctrl+a":
			if m.w.Step() == wizard.StepDetails {
				m.w.AddPlace()
				m.buildFields()
				m.focusField(2 + len(m.w.Places()) - 1)
			}
			return m, nil

		case "ctrl+x":
			switch m.w.Step() {
			case wizard.StepMedia:
				if n := len(m.w.Files()); n > 0 {
					m.w.RemoveFile(n - 1)
				}
			case wizard.StepDetails:
				if m.focus < len(m.fields) && m.fields[m.focus].kind == fieldPlace {
					m.w.RemovePlace(m.fields[m.focus].index)
					m.buildFields()
				}
			}
			return m, nil
		}

		if m.w.Step() == wizard.StepPrivacy {
			switch msg.String() {
			case "up", "k":
				if m.privacyIdx > 0 {
					m.privacyIdx--
				}
			case "down", "j":
				if m.privacyIdx < len(memories.PrivacyLevels)-1 {
					m.privacyIdx++
				}
			case "enter":
				if m.signedOut {
					m.message = MsgSignedOut
					return m, nil
				}
				m.message = ""
				m.submitting = true
				ctx, cancel := context.WithCancel(m.ctx)
				m.cancelSubmit = cancel
				return m, submitWizard(ctx, m.w, m.svc)
			}
			m.w.SetPrivacy(memories.PrivacyLevels[m.privacyIdx])
			return m, nil
		}

		if msg.Type == tea.KeyEnter {
			if m.w.Step() == wizard.StepMedia {
				m.addFile()
				return m, nil
			}
			return m.changeStep(true), nil
		}

		if m.focus < len(m.fields) {
			var cmd tea.Cmd
			m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
			m.sync(m.fields[m.focus])
			return m, cmd
		}
	}
	return m, nil
}

func (m *wizardModel) addFile() {
	path := strings.TrimSpace(m.value(fieldPath))
	if path == "" {
		return
	}
	u, err := memories.FileUpload(path)
	if err == nil {
		err = m.w.AddFiles(u)
	}
	if err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
	m.fields[0].input.Reset()
}

func (m wizardModel) stepIndicator() string {
	var parts []string
	for s := wizard.FirstStep; s <= wizard.LastStep; s++ {
		label := fmt.Sprintf(" %d %s ", s, s.Title())
		if s == m.w.Step() {
			parts = append(parts, selectedStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m wizardModel) fieldsView() string {
	var b strings.Builder
	for i, f := range m.fields {
		pointer := generateLinePointer(i == m.focus, 2)
		b.WriteString(pointer + labelStyle.Render(f.label+": ") + f.input.View() + "\n")
	}
	return b.String()
}

func (m wizardModel) stepView() string {
	var b strings.Builder
	switch m.w.Step() {
	case wizard.StepLocation:
		b.WriteString(m.fieldsView())
		b.WriteString(fmt.Sprintf("\n%s %d วัน\n", labelStyle.Render("ระยะเวลา:"), m.w.Duration()))
	case wizard.StepMedia:
		b.WriteString(m.fieldsView())
		files := m.w.Files()
		b.WriteString(fmt.Sprintf("\n%s %d\n", labelStyle.Render("รูปภาพที่เลือก:"), len(files)))
		for i, f := range files {
			b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, f.Upload.Name, footerStyle.Render(f.Preview)))
		}
	case wizard.StepDetails:
		b.WriteString(m.fieldsView())
		b.WriteString(fmt.Sprintf("\n%s ฿%.2f\n", labelStyle.Render("รวมค่าใช้จ่าย:"), m.w.ExpenseTotal()))
	case wizard.StepPrivacy:
		for i, p := range memories.PrivacyLevels {
			opt := "  " + p.Label()
			if i == m.privacyIdx {
				opt = selectedStyle.Render(" >" + p.Label())
			}
			b.WriteString(opt + "\n")
		}
		s := m.w.Summary()
		b.WriteString("\n" + subtitleStyle.Render("สรุปทริป") + "\n")
		b.WriteString(labelStyle.Render("อุทยาน: ") + s.ParkName + "\n")
		b.WriteString(labelStyle.Render("วันที่: ") + s.DateRange + fmt.Sprintf(" (%d วัน)\n", s.Duration))
		b.WriteString(labelStyle.Render("สถานที่: ") + strings.Join(s.Places, ", ") + "\n")
		b.WriteString(labelStyle.Render("ค่าใช้จ่าย: ") + fmt.Sprintf("฿%.2f\n", s.Total))
		b.WriteString(labelStyle.Render("รูปภาพ: ") + fmt.Sprintf("%d\n", s.PhotoCount))
		b.WriteString(labelStyle.Render("ความเป็นส่วนตัว: ") + privacyBadge(s.Privacy) + "\n")
	}
	return b.String()
}

func (m wizardModel) View() string {
	if m.quitting && m.result == nil {
		return "ยกเลิกการบันทึกทริป\n"
	}
	titleBar := titleStyle.Width(m.width).Render("MyNatureJourney - บันทึกทริปใหม่")

	if m.submitting {
		if m.canceling {
			return titleBar + "\n\nกำลังยกเลิก...\n"
		}
		return titleBar + "\n\nกำลังบันทึกทริป... (esc ยกเลิก)\n"
	}

	if m.result != nil {
		var b strings.Builder
		b.WriteString(textOkStyle.Render(fmt.Sprintf("บันทึกทริป %s สำเร็จ (id %d)", m.result.Memory.ParkName, m.result.Memory.ID)) + "\n")
		for _, u := range m.result.Failed() {
			b.WriteString(textRedStyle.Render(fmt.Sprintf("อัปโหลด %s ไม่สำเร็จ: %v", u.Name, u.Err)) + "\n")
		}
		b.WriteString("\n(enter to exit)")
		return titleBar + "\n\n" + b.String()
	}

	body := m.stepIndicator() + "\n\n" + m.stepView()
	if m.geocoding {
		body += "\nกำลังค้นหาพิกัด...\n"
	}
	if m.info != "" {
		body += "\n" + textOkStyle.Render(m.info) + "\n"
	}
	if m.message != "" {
		body += "\n" + textRedStyle.Render(m.message) + "\n"
	}
	panel := lipgloss.NewStyle().Padding(0, 2).Width(m.width).Render(body)

	var footerText string
	switch m.w.Step() {
	case wizard.StepLocation:
		footerText = "\ntab next field • ctrl+g find coordinates • enter/ctrl+n next step • esc cancel"
	case wizard.StepMedia:
		footerText = "\nenter add file • ctrl+x remove last • ctrl+n next • ctrl+p back • esc cancel"
	case wizard.StepDetails:
		footerText = "\ntab next field • ctrl+a add place • ctrl+x remove place • ctrl+n next • ctrl+p back • esc cancel"
	default:
		footerText = "\n↑/↓ privacy • enter save • ctrl+p back • esc cancel"
	}
	return titleBar + "\n\n" + panel + footerStyle.Width(m.width).Render(footerText)
}

// RunWizard starts the create-trip wizard and returns the saved trip, or nil
// when the user cancelled.
func RunWizard(deps Deps) (*wizard.Result, error) {
	p := tea.NewProgram(initWizardModel(deps), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(wizardModel); ok {
		return m.result, nil
	}
	return nil, nil
}
