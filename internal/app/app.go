// Package app wires the editor together: document, layout, caret
// controller, clipboard and session store behind a terminal event loop.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scribe-editor/scribe/internal/clipboard"
	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/docfile"
	"github.com/scribe-editor/scribe/internal/engine/document"
	"github.com/scribe-editor/scribe/internal/engine/notify"
	"github.com/scribe-editor/scribe/internal/renderer/backend"
	"github.com/scribe-editor/scribe/internal/renderer/caret"
	"github.com/scribe-editor/scribe/internal/renderer/layout"
	"github.com/scribe-editor/scribe/internal/session"
)

// CRLF is the line terminator the editor inserts for Enter.
const CRLF = "\r\n"

// doubleClick is the window within which a second press on the same
// cell counts as a double click.
const doubleClick = 500 * time.Millisecond

// Options configure a run of the editor.
type Options struct {
	ConfigPath string
	File       string
}

// App is one editing session over a single file.
type App struct {
	cfg  config.Config
	path string

	doc  *document.Document
	lay  *layout.Layout
	ctrl *caret.Controller
	clip clipboard.Clipboard
	sess *session.Store
	term *backend.Terminal

	width  int
	height int

	lastClickAt time.Time
	lastClickX  int
	lastClickY  int
	dragging    bool
}

// New loads configuration, the document and the session state. The file
// must exist; a missing file aborts startup with a diagnostic error.
func New(opts Options) (*App, error) {
	if opts.File == "" {
		return nil, ErrNoFile
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	doc, err := docfile.Load(opts.File, cfg.DefaultStyle())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s not found", opts.File)
		}
		return nil, fmt.Errorf("file %s not readable: %w", opts.File, err)
	}

	abs, err := filepath.Abs(opts.File)
	if err != nil {
		abs = opts.File
	}

	return &App{
		cfg:  cfg,
		path: abs,
		doc:  doc,
		clip: clipboard.NewMemory(),
		sess: session.Open(cfg.SessionPathOrDefault()),
	}, nil
}

// Run drives the terminal event loop until quit. The terminal must be
// initialized by the caller; Run leaves shutdown to the caller as well.
func (a *App) Run(term *backend.Terminal) error {
	a.term = term
	a.width, a.height = term.Size()

	a.lay = layout.New(a.doc, backend.CellMetrics{}, 0)
	a.ctrl = caret.NewController(a.doc, a.lay)
	a.doc.Subscribe(func(ch notify.Change) { a.ctrl.ApplyEdit(ch) })

	start := 0
	if scroll, ok := a.sess.ScrollFor(a.path); ok {
		start = a.snapToLineStart(min(scroll, a.doc.Len()))
	}
	a.lay.Fill(0, a.height, start)

	if pos, ok := a.sess.CaretFor(a.path); ok {
		a.ctrl.SetCaret(min(pos, a.doc.Len()))
	} else {
		a.ctrl.SetCaret(start)
	}

	for {
		backend.Render(a.term, a.doc, a.lay, a.ctrl)
		a.term.Show()

		ev := a.term.PollEvent()
		var err error
		switch ev.Type {
		case backend.EventKey:
			err = a.handleKey(ev)
		case backend.EventMouse:
			a.handleMouse(ev)
		case backend.EventResize:
			a.resize(ev.Width, ev.Height)
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) handleKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlQ:
		a.recordSession()
		if err := a.sess.Save(); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return ErrQuit

	case backend.KeyCtrlS:
		if err := docfile.Save(a.path, a.doc); err != nil {
			return fmt.Errorf("save %s: %w", a.path, err)
		}

	case backend.KeyCtrlC:
		a.copySelection()
	case backend.KeyCtrlX:
		a.cutSelection()
	case backend.KeyCtrlV:
		a.paste()

	case backend.KeyCtrlB:
		a.ctrl.ToggleBold()
	case backend.KeyCtrlU:
		a.ctrl.ToggleUnderline()
	case backend.KeyCtrlT:
		a.ctrl.ToggleStrike()

	case backend.KeyTab:
		// terminals deliver Ctrl-I as Tab
		if ev.Mod&backend.ModCtrl != 0 {
			a.ctrl.ToggleItalic()
		} else {
			a.typeText("\t")
		}

	case backend.KeyEnter:
		a.typeText(CRLF)

	case backend.KeyBackspace:
		a.backspace()

	case backend.KeyRight:
		a.caretRight()
	case backend.KeyLeft:
		a.caretLeft()
	case backend.KeyUp:
		a.caretVertical(-1)
	case backend.KeyDown:
		a.caretVertical(+1)

	case backend.KeyPageUp:
		a.scrollLines(-a.height)
	case backend.KeyPageDown:
		a.scrollLines(a.height)

	case backend.KeyRune:
		a.typeText(string(ev.Rune))
	}
	return nil
}

// typeText replaces the selection (if any) and inserts at the caret with
// the pending typing style.
func (a *App) typeText(s string) {
	a.deleteSelection()
	p, ok := a.ctrl.Caret()
	if !ok {
		return
	}
	a.doc.SetNextInsertStyle(a.ctrl.ConsumeTypingStyle())
	a.doc.Insert(p.TPos, s)
}

// deleteSelection removes the selected range and leaves the caret at the
// deletion point.
func (a *App) deleteSelection() {
	sel, ok := a.ctrl.Sel()
	if !ok {
		return
	}
	at := sel.Beg.TPos
	a.doc.Delete(sel.Beg.TPos, sel.End.TPos)
	a.ctrl.SetCaret(at)
}

func (a *App) backspace() {
	if _, ok := a.ctrl.Sel(); ok {
		a.deleteSelection()
		return
	}
	p, ok := a.ctrl.Caret()
	if !ok || p.TPos == 0 {
		return
	}
	d := 1
	if p.Off == 0 {
		// at a line start the previous terminator is two characters
		d = 2
	}
	a.doc.Delete(p.TPos-d, p.TPos)
}

func (a *App) caretRight() {
	p, ok := a.ctrl.Caret()
	if !ok {
		return
	}
	pos := p.TPos + 1
	if a.doc.CharAt(pos) == '\n' {
		pos++
	}
	a.ctrl.SetCaret(pos)
}

func (a *App) caretLeft() {
	p, ok := a.ctrl.Caret()
	if !ok {
		return
	}
	pos := p.TPos - 1
	if pos >= 0 && a.doc.CharAt(pos) == '\n' {
		pos--
	}
	a.ctrl.SetCaret(max(0, pos))
}

func (a *App) caretVertical(dir int) {
	p, ok := a.ctrl.Caret()
	if !ok {
		return
	}
	h := a.lay.LineAt(p.Line).H
	a.ctrl.SetCaretAt(p.X, p.Y+dir*h)
}

func (a *App) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseLeft:
		if a.dragging {
			a.ctrl.DragTo(ev.MouseX, ev.MouseY)
			return
		}
		now := time.Now()
		if now.Sub(a.lastClickAt) < doubleClick &&
			ev.MouseX == a.lastClickX && ev.MouseY == a.lastClickY {
			a.ctrl.SelectWordAt(ev.MouseX, ev.MouseY)
			a.lastClickAt = time.Time{}
			return
		}
		a.lastClickAt = now
		a.lastClickX, a.lastClickY = ev.MouseX, ev.MouseY
		a.ctrl.BeginDrag(ev.MouseX, ev.MouseY)
		a.dragging = true

	case backend.MouseRelease:
		if a.dragging {
			a.ctrl.EndDrag()
			a.dragging = false
		}

	case backend.MouseWheelUp:
		a.scrollLines(-3)
	case backend.MouseWheelDown:
		a.scrollLines(3)
	}
}

func (a *App) copySelection() {
	sel, ok := a.ctrl.Sel()
	if !ok {
		return
	}
	a.clip.Set(a.doc.CopyFragment(sel.Beg.TPos, sel.End.TPos), a.doc.ID())
}

func (a *App) cutSelection() {
	sel, ok := a.ctrl.Sel()
	if !ok {
		return
	}
	a.clip.Set(a.doc.CopyFragment(sel.Beg.TPos, sel.End.TPos), a.doc.ID())
	a.doc.Delete(sel.Beg.TPos, sel.End.TPos)
}

func (a *App) paste() {
	frag, ok := a.clip.Get()
	if !ok || frag.IsEmpty() {
		return
	}
	a.deleteSelection()

	p, ok := a.ctrl.Caret()
	if !ok {
		return
	}
	a.clip.IncPasteCount()
	a.doc.InsertFragment(p.TPos, frag)
}

// scrollLines moves the first visible offset by n lines, snapping to a
// line start, then re-resolves the caret and selection.
func (a *App) scrollLines(n int) {
	pos := a.lay.FirstTpos()
	if n > 0 {
		for ; n > 0; n-- {
			pos = a.nextLineStart(pos)
		}
	} else {
		for ; n < 0; n++ {
			pos = a.snapToLineStart(pos - 1)
		}
	}
	if pos == a.lay.FirstTpos() {
		return
	}
	a.lay.Fill(0, a.height, pos)
	a.ctrl.Reresolve()
}

// snapToLineStart walks backwards from pos to the offset just after the
// previous newline, or to the start of the document.
func (a *App) snapToLineStart(pos int) int {
	if pos <= 0 {
		return 0
	}
	var ch byte
	for {
		pos--
		ch = a.doc.CharAt(pos)
		if pos <= 0 || ch == '\n' {
			break
		}
	}
	if pos > 0 {
		pos++
	}
	return pos
}

// nextLineStart walks forwards from pos past the next newline, staying
// put on the document's last line.
func (a *App) nextLineStart(pos int) int {
	for i := pos; i < a.doc.Len(); i++ {
		if a.doc.CharAt(i) == '\n' {
			return i + 1
		}
	}
	return pos
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	a.lay.Fill(0, a.height, a.snapToLineStart(a.lay.FirstTpos()))
	a.ctrl.Reresolve()
}

func (a *App) recordSession() {
	pos := 0
	if p, ok := a.ctrl.Caret(); ok {
		pos = p.TPos
	}
	a.sess.Record(a.path, pos, a.lay.FirstTpos())
}
