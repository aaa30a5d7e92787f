package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg time.Time

type savedMsg struct {
	path string
	err  error
}

type loadedMsg struct {
	path string
	doc  Document
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type librarySavedMsg struct {
	entry LibraryEntry
	err   error
}

type model struct {
	cfg     *Config
	log     Logger
	widget  *CanvasWidget
	clip    Clipboard
	library *Library
	styles  Styles

	acc  inputAccumulator
	snap Snapshot

	width  int
	height int
	mode   Mode
	help   bool

	docID    string
	docName  string
	filePath string

	editID       NodeID
	editOriginal string
	editText     []rune
	editCursor   int

	fileOp   FileOperation
	filename string

	confirmAction ConfirmAction

	successMessage string
	errorMessage   string
}

func newModel(cfg *Config, log Logger, widget *CanvasWidget, library *Library) model {
	return model{
		cfg:     cfg,
		log:     log,
		widget:  widget,
		clip:    systemClipboard{},
		library: library,
		styles:  DefaultStyles(cfg.UI.Color),
		snap:    widget.Snapshot(),
		width:   80,
		height:  24,
		docName: "untitled",
	}
}

func (m model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.cfg.Canvas.FrameRate)
}

func (m model) nextFrame() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) Init() tea.Cmd {
	if m.filePath != "" {
		return tea.Batch(m.nextFrame(), m.loadCmd(m.filePath))
	}
	return m.nextFrame()
}

func (m model) viewport() Vec2 {
	return Vec2{float64(m.width), float64(m.canvasHeight())}
}

func (m model) canvasHeight() int {
	if h := m.height - 1; h > 0 {
		return h
	}
	return 1
}

func (m *model) refresh() {
	m.snap = m.widget.Snapshot()
}

func (m *model) clearMessages() {
	m.successMessage = ""
	m.errorMessage = ""
}

func (m *model) fail(err error) {
	m.successMessage = ""
	m.errorMessage = err.Error()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.acc.abandon()
		return m, nil

	case frameMsg:
		if m.mode == ModeNormal && !m.help {
			m.snap = m.widget.Tick(m.acc.frame(m.viewport().Scale(0.5)))
		} else {
			m.refresh()
		}
		return m, m.nextFrame()

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.acc.mouse(msg, m.cfg.Canvas.WheelZoomStep, m.cfg.Canvas.KeyPanStep)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.log.Errorf("save %s: %v", msg.path, msg.err)
			m.fail(msg.err)
			return m, nil
		}
		m.filePath = msg.path
		m.successMessage = "Saved " + msg.path
		m.log.Infof("saved %s", msg.path)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.log.Warnf("load %s: %v", msg.path, msg.err)
			m.fail(msg.err)
			return m, nil
		}
		m.widget.Load(msg.doc)
		m.docID, m.docName, m.filePath = msg.doc.ID, msg.doc.Name, msg.path
		m.successMessage = "Opened " + msg.path
		m.refresh()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.log.Errorf("export %s: %v", msg.path, msg.err)
			m.fail(msg.err)
			return m, nil
		}
		m.successMessage = "Exported " + msg.path
		m.log.Infof("exported %s", msg.path)
		return m, nil

	case librarySavedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.successMessage = fmt.Sprintf("Stored %q in library", msg.entry.Name)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
			}
			return m, nil
		}
		switch m.mode {
		case ModeEditing:
			return m.updateEditing(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

// pointerOrCenter is where keyboard-created nodes go.
func (m model) pointerOrCenter() Vec2 {
	if m.acc.hasPointer {
		return m.acc.pointer
	}
	return m.viewport().Scale(0.5)
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.acc.key(key, m.cfg.Canvas.WheelZoomStep, m.cfg.Canvas.KeyPanStep) {
		return m, nil
	}
	m.clearMessages()
	w := m.widget

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.cfg.UI.ConfirmQuit {
			m.interruptGesture()
			m.mode, m.confirmAction = ModeConfirm, ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.interruptGesture()
		m.help = true
	case "esc":
		if w.Gesture() != BusyNone {
			m.acc.abandon()
		} else {
			w.ClearSelection()
		}
	case "b":
		w.AddNodeAt(m.pointerOrCenter(), "")
		return m.startEditing()
	case "e", "enter":
		return m.startEditing()
	case "a":
		if _, err := w.AddChildNode(""); err != nil {
			m.fail(err)
			break
		}
		return m.startEditing()
	case "A":
		if _, err := w.AddSiblingNode(""); err != nil {
			m.fail(err)
			break
		}
		return m.startEditing()
	case "d", "delete", "backspace":
		if len(m.snap.selection()) > 0 {
			m.interruptGesture()
			m.mode, m.confirmAction = ModeConfirm, ConfirmDeleteNode
		}
	case "D":
		if n := w.DeleteSelectedTree(); n > 0 {
			m.successMessage = fmt.Sprintf("Deleted %d nodes", n)
		}
	case "t":
		m.successMessage = "Edge type: " + w.ToggleEdgeType().String()
	case "R":
		m.successMessage = fmt.Sprintf("Retyped %d edges", w.RetypeSelectedEdges())
	case "T":
		w.TidyLayout()
	case "u":
		if at, err := w.Undo(); err != nil {
			m.fail(err)
		} else {
			m.successMessage = "Undo " + at.String()
		}
	case "U", "ctrl+r":
		if at, err := w.Redo(); err != nil {
			m.fail(err)
		} else {
			m.successMessage = "Redo " + at.String()
		}
	case "ctrl+a":
		w.SelectAll()
	case "c":
		if ok, err := w.CopySelected(m.clip); err != nil {
			m.fail(err)
		} else if ok {
			m.successMessage = "Copied label"
		}
	case "p":
		if _, err := w.PasteAt(m.clip, m.pointerOrCenter()); err != nil {
			m.fail(err)
		}
	case "0":
		w.ResetView()
	case "f":
		w.FitView(m.viewport())
	case "n":
		m.interruptGesture()
		m.mode, m.confirmAction = ModeConfirm, ConfirmNewDiagram
	case "s":
		m.startFileInput(FileOpSave)
	case "o":
		m.startFileInput(FileOpOpen)
	case "x":
		m.startFileInput(FileOpExportPNG)
	case "X":
		m.startFileInput(FileOpExportTXT)
	case "S":
		if m.library == nil {
			m.fail(errors.New("library unavailable"))
			break
		}
		return m, m.librarySaveCmd()
	}
	m.refresh()
	return m, nil
}

// interruptGesture abandons any pointer gesture before the model leaves
// normal mode. Mouse input is not accumulated outside normal mode, so a
// release there would otherwise never reach the widget.
func (m *model) interruptGesture() {
	if m.widget.Gesture() == BusyNone && !m.acc.down && !m.acc.pressed {
		return
	}
	m.acc.abandon()
	m.snap = m.widget.Tick(m.acc.frame(m.viewport().Scale(0.5)))
}

func (s Snapshot) selection() []NodeID {
	var ids []NodeID
	for _, n := range s.Nodes {
		if n.Selected {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func (m model) startEditing() (tea.Model, tea.Cmd) {
	m.interruptGesture()
	id, label, err := m.widget.BeginEdit()
	if err != nil {
		m.fail(err)
		m.refresh()
		return m, nil
	}
	m.mode = ModeEditing
	m.editID = id
	m.editOriginal = label
	m.editText = []rune(label)
	m.editCursor = len(m.editText)
	m.refresh()
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.widget.CancelEdit(m.editOriginal)
		m.mode = ModeNormal
		m.editText = nil
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyEnter && !msg.Alt, msg.Type == tea.KeyCtrlS:
		m.widget.CommitEdit(m.editOriginal, string(m.editText))
		m.mode = ModeNormal
		m.editText = nil
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.insert('\n')
	case msg.Type == tea.KeyLeft:
		if m.editCursor > 0 {
			m.editCursor--
		}
		return m, nil
	case msg.Type == tea.KeyRight:
		if m.editCursor < len(m.editText) {
			m.editCursor++
		}
		return m, nil
	case msg.Type == tea.KeyBackspace:
		if m.editCursor > 0 {
			m.editText = append(m.editText[:m.editCursor-1], m.editText[m.editCursor:]...)
			m.editCursor--
		}
	case msg.Type == tea.KeyDelete:
		if m.editCursor < len(m.editText) {
			m.editText = append(m.editText[:m.editCursor], m.editText[m.editCursor+1:]...)
		}
	case msg.Type == tea.KeySpace:
		m.insert(' ')
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.insert(r)
		}
	default:
		return m, nil
	}
	m.widget.EditLabel(string(m.editText))
	m.refresh()
	return m, nil
}

func (m *model) insert(r rune) {
	text := make([]rune, 0, len(m.editText)+1)
	text = append(text, m.editText[:m.editCursor]...)
	text = append(text, r)
	text = append(text, m.editText[m.editCursor:]...)
	m.editText = text
	m.editCursor++
}

// editCaret is the screen position of the editing caret.
func (m model) editCaret() *Vec2 {
	n, ok := m.snap.Node(m.editID)
	if !ok {
		return nil
	}
	line, col := 0, 0
	for _, r := range m.editText[:m.editCursor] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	p := m.snap.View.ToScreen(n.Pos.Add(Vec2{float64(2 + col), float64(1 + line)}))
	return &p
}

func (m *model) startFileInput(op FileOperation) {
	m.interruptGesture()
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	if m.filePath != "" && op == FileOpSave {
		m.filename = m.filePath
	}
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.clearMessages()
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.filename += " "
		return m, nil
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		return m, nil
	case tea.KeyEnter:
	default:
		return m, nil
	}

	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return m, nil
	}
	m.mode = ModeNormal
	m.filename = ""
	m.clearMessages()

	switch m.fileOp {
	case FileOpSave:
		return m, m.saveCmd(m.cfg.GetSavePath(name))
	case FileOpOpen:
		return m, m.loadCmd(m.resolveOpenPath(name))
	case FileOpExportPNG:
		return m, m.exportCmd(withExt(name, ".png"), ExportPNG)
	case FileOpExportTXT:
		return m, m.exportCmd(withExt(name, ".txt"), ExportTextFile)
	}
	return m, nil
}

func withExt(name, ext string) string {
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// resolveOpenPath prefers an existing path as typed, then the save directory.
func (m model) resolveOpenPath(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return m.cfg.GetSavePath(name)
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteNode:
			if n := m.widget.DeleteSelected(); n > 0 {
				m.successMessage = fmt.Sprintf("Deleted %d nodes", n)
			}
		case ConfirmNewDiagram:
			m.widget.NewDiagram()
			m.docID, m.docName, m.filePath = "", "untitled", ""
		}
		m.refresh()
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) document() Document {
	if m.docID == "" {
		return NewDocument(m.docName, m.widget.Store().Clone())
	}
	return m.widget.Document(m.docID, m.docName)
}

// saveCmd captures the scene now and writes it in the background.
func (m *model) saveCmd(path string) tea.Cmd {
	d := m.document()
	m.docID = d.ID
	if m.docName == "untitled" {
		m.docName = documentName(path)
		d.Name = m.docName
	}
	return func() tea.Msg {
		return savedMsg{path: path, err: SaveDocument(path, d)}
	}
}

// loadCmd decodes in the background; the scene is replaced when the result
// arrives.
func (m model) loadCmd(path string) tea.Cmd {
	opts := m.cfg.GraphOptions()
	return func() tea.Msg {
		d, err := LoadDocument(path, opts...)
		return loadedMsg{path: path, doc: d, err: err}
	}
}

func (m model) exportCmd(path string, export func(Snapshot, string) error) tea.Cmd {
	snap := m.widget.Snapshot()
	return func() tea.Msg {
		return exportedMsg{path: path, err: export(snap, path)}
	}
}

func (m *model) librarySaveCmd() tea.Cmd {
	d := m.document()
	m.docID = d.ID
	lib := m.library
	return func() tea.Msg {
		entry, err := lib.Save(d)
		return librarySavedMsg{entry: entry, err: err}
	}
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	opts := RenderOptions{ShowAnchors: m.mode == ModeNormal}
	if m.mode == ModeEditing {
		opts.Cursor = m.editCaret()
	}
	grid := RenderSnapshot(m.snap, m.width, m.canvasHeight(), opts)

	var b strings.Builder
	for _, line := range grid.Styled(m.styles) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeEditing:
		status = "Enter to save | Alt+Enter for newline | Esc to cancel"
	case ModeFileInput:
		prompt := map[FileOperation]string{
			FileOpSave:      "Save as",
			FileOpOpen:      "Open",
			FileOpExportPNG: "Export PNG",
			FileOpExportTXT: "Export text",
		}[m.fileOp]
		status = fmt.Sprintf("%s: %s▏", prompt, m.filename)
	case ModeConfirm:
		switch m.confirmAction {
		case ConfirmDeleteNode:
			status = "Delete selected nodes? (y/n)"
		case ConfirmNewDiagram:
			status = "Create new diagram? Unsaved changes will be lost. (y/n)"
		case ConfirmQuit:
			status = "Quit? (y/n)"
		}
	default:
		status = fmt.Sprintf("%s | Zoom: %.0f%% | Edge: %s", m.docName, m.snap.View.Scale*100, m.snap.EdgeType)
		if m.snap.Gesture != BusyNone {
			status += " | " + m.snap.Gesture.String()
		}
		if n := len(m.snap.selection()); n > 0 {
			status += fmt.Sprintf(" | Selected: %d", n)
		}
	}

	line := m.styles.StatusKey.Render(" "+m.mode.String()+" ") + m.styles.Status.Render(" "+status+" ")
	switch {
	case m.errorMessage != "":
		line += " " + m.styles.Error.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		line += " " + m.successMessage
	case m.mode == ModeNormal:
		line += " ? for help | q to quit"
	}
	return line
}

func (m model) helpView() string {
	lines := []string{
		"cognitheon help",
		"===============",
		"",
		"Mouse:",
		"  drag on empty canvas     Select nodes in rectangle (Shift adds)",
		"  drag a node              Move it (and the rest of the selection)",
		"  drag from a ◆ anchor     Link to the node you release over",
		"  Alt+drag                 Pan",
		"  wheel / Shift+wheel      Scroll vertically / horizontally",
		"  Ctrl+wheel               Zoom at pointer",
		"",
		"Navigation:",
		"  h/j/k/l or arrows        Pan (Shift for 2x)",
		"  + / -                    Zoom in / out",
		"  0                        Reset view",
		"  f                        Fit diagram",
		"",
		"Nodes:",
		"  b                        New node at pointer",
		"  e / Enter                Edit label of selected node",
		"  a / A                    New child / sibling of selected node",
		"  d                        Delete selected nodes",
		"  D                        Delete selected node and its subtree",
		"  T                        Tidy tree layout",
		"  Ctrl+A                   Select all",
		"  c / p                    Copy label / paste as new node",
		"",
		"Edges:",
		"  t                        Toggle edge type (line / bezier)",
		"  R                        Apply edge type to selected nodes' edges",
		"",
		"File:",
		"  s / o                    Save / open",
		"  x / X                    Export PNG / text",
		"  S                        Store in library",
		"  n                        New diagram",
		"  u / U                    Undo / redo",
		"",
		"Press ? or Esc to close",
	}
	return strings.Join(lines, "\n")
}

// runEditor starts the terminal editor, optionally opening path.
func runEditor(cfg *Config, log Logger, path string) error {
	store := NewStore(cfg.NewGraph(), cfg.View())
	widget := NewCanvasWidget(store, NewHistory(cfg.History.Depth), cfg.WidgetOptions(), log)

	var library *Library
	if cfg.Storage.LibraryPath != "" {
		lib, err := OpenLibrary(cfg.Storage.LibraryPath)
		if err != nil {
			log.Warnf("library unavailable: %v", err)
		} else {
			library = lib
			defer library.Close()
		}
	}

	m := newModel(cfg, log, widget, library)
	if path != "" {
		m.filePath = path
		m.docName = documentName(path)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
