package gui

import (
	"strings"

	"github.com/awesome-gocui/gocui"
)

type binding struct {
	key     any
	handler func()
}

// handle adapts a state change to a gocui handler, ending the main loop
// once the state asks to quit.
func (gui *Gui) handle(fn func()) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		fn()
		if gui.quit {
			return gocui.ErrQuit
		}
		return nil
	}
}

// browsing wraps fn so it only runs while no editor or modal is open.
func (gui *Gui) browsing(fn func()) func() {
	return func() {
		if gui.mode == modeBrowse {
			fn()
		}
	}
}

func (gui *Gui) setKeybindings() error {
	down := gui.browsing(func() { gui.form.move(1) })
	up := gui.browsing(func() { gui.form.move(-1) })

	bindings := []binding{
		{gocui.KeyCtrlC, gui.interrupt},
		{'q', gui.browsing(gui.requestQuit)},
		{'j', down},
		{gocui.KeyArrowDown, down},
		{'k', up},
		{gocui.KeyArrowUp, up},
		{gocui.KeyTab, gui.browsing(func() { gui.form.jump(1) })},
		{gocui.KeyBacktab, gui.browsing(func() { gui.form.jump(-1) })},
		{gocui.KeyEnter, gui.browsing(gui.activate)},
		{gocui.KeySpace, gui.browsing(gui.toggle)},
		{'s', gui.browsing(gui.commitAndSave)},
		{'R', gui.browsing(gui.requestReset)},
		{'L', gui.browsing(gui.nextLanguage)},
	}
	for _, b := range bindings {
		if err := gui.g.SetKeybinding("", b.key, gocui.ModNone, gui.handle(b.handler)); err != nil {
			return err
		}
	}
	return nil
}

func (gui *Gui) bindEdit(g *gocui.Gui) error {
	g.DeleteKeybindings(editView)
	if err := g.SetKeybinding(editView, gocui.KeyEnter, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error {
		gui.finishEdit(strings.TrimSpace(v.Buffer()))
		return nil
	}); err != nil {
		return err
	}
	return g.SetKeybinding(editView, gocui.KeyEsc, gocui.ModNone, gui.handle(gui.cancelEdit))
}

func (gui *Gui) bindModal(g *gocui.Gui) error {
	g.DeleteKeybindings(modalView)
	bindings := []binding{
		{'y', func() { gui.modalKey(true) }},
		{'Y', func() { gui.modalKey(true) }},
		{'n', func() { gui.modalKey(false) }},
		{'N', func() { gui.modalKey(false) }},
		{gocui.KeyEnter, func() { gui.modalKey(false) }},
		{gocui.KeyEsc, func() { gui.modalKey(false) }},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding(modalView, b.key, gocui.ModNone, gui.handle(b.handler)); err != nil {
			return err
		}
	}
	return nil
}

// modalKey handles y/n/Enter/Esc in a modal. Message boxes close on any of
// them; confirmations default to no.
func (gui *Gui) modalKey(yes bool) {
	if gui.mode != modeModal {
		return
	}
	if gui.modal.kind == modalMessage {
		gui.closeModal()
		return
	}
	gui.answer(yes)
}

// interrupt is Ctrl-C: it backs out of an editor or modal and asks to quit.
// A second Ctrl-C at the quit prompt quits.
func (gui *Gui) interrupt() {
	if gui.mode == modeModal && gui.modal.kind == modalConfirmQuit {
		gui.quit = true
		return
	}
	if gui.mode != modeBrowse {
		gui.mode = modeBrowse
		gui.modal = modal{}
	}
	gui.requestQuit()
}
