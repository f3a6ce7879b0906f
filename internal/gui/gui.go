// Package gui is the terminal form editor for the config document.
//
// All editing state lives in form and in the Gui's mode fields. Key
// handlers only change that state; layout draws it. This keeps the
// behavior testable without a terminal.
package gui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/awesome-gocui/gocui"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/locale"
	"github.com/thoreinstein/uimpit/internal/logging"
)

// SaveFunc persists a committed document.
type SaveFunc func(ctx context.Context, doc *document.Document) error

// Options configures the editor.
type Options struct {
	Document *document.Document
	Catalog  *locale.Catalog
	Language string
	Save     SaveFunc
	// Warnings from loading the document, shown when the editor opens.
	Warnings []error
}

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeModal
)

type modalKind int

const (
	modalMessage modalKind = iota
	modalConfirmReset
	modalConfirmQuit
)

type modal struct {
	kind  modalKind
	title string
	body  string
}

// Gui is the running editor.
type Gui struct {
	g       *gocui.Gui
	ctx     context.Context
	logger  *slog.Logger
	form    *form
	catalog *locale.Catalog
	tr      *locale.Translator
	save    SaveFunc

	mode     mode
	modal    modal
	editSeed string
	status   string
	quit     bool
}

// New prepares an editor over opts.Document. It does not touch the
// terminal until Run.
func New(ctx context.Context, opts Options) (*Gui, error) {
	if opts.Document == nil {
		return nil, errors.New("gui: nil document")
	}
	if opts.Catalog == nil {
		return nil, errors.New("gui: nil catalog")
	}
	if opts.Save == nil {
		return nil, errors.New("gui: nil save func")
	}
	gui := &Gui{
		ctx:     ctx,
		logger:  logging.FromContext(ctx),
		form:    newForm(opts.Document),
		catalog: opts.Catalog,
		tr:      opts.Catalog.Translator(opts.Language),
		save:    opts.Save,
	}
	if len(opts.Warnings) > 0 {
		lines := make([]string, 0, len(opts.Warnings)+2)
		lines = append(lines, gui.tr.T("warning_load_message"), "")
		for _, w := range opts.Warnings {
			lines = append(lines, "- "+w.Error())
		}
		gui.openModal(modalMessage, gui.tr.T("warning_title"), strings.Join(lines, "\n"))
	}
	return gui, nil
}

// Run takes over the terminal until the user quits and returns the last
// committed document.
func (gui *Gui) Run() (*document.Document, error) {
	g, err := gocui.NewGui(gocui.OutputNormal, true)
	if err != nil {
		return nil, errors.Wrap(err, "initializing terminal")
	}
	defer g.Close()
	gui.g = g

	g.Cursor = false
	g.FgColor = gocui.ColorWhite
	g.SetManagerFunc(gui.layout)
	if err := gui.setKeybindings(); err != nil {
		return nil, err
	}

	gui.logger.Debug("editor started", "language", gui.tr.Language().Code)
	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return nil, errors.Wrap(err, "running editor")
	}
	return gui.form.doc, nil
}

// Language returns the code of the language on screen.
func (gui *Gui) Language() string {
	return gui.tr.Language().Code
}

func (gui *Gui) openModal(kind modalKind, title, body string) {
	gui.mode = modeModal
	gui.modal = modal{kind: kind, title: title, body: body}
}

func (gui *Gui) closeModal() {
	gui.mode = modeBrowse
	gui.modal = modal{}
}

// activate acts on the field under the cursor: integers open the inline
// editor, toggles flip.
func (gui *Gui) activate() {
	spec := gui.form.current()
	if gui.form.disabled(spec.ID) {
		gui.status = gui.tr.T("roleplay_disabled_hint")
		return
	}
	if spec.Kind() == document.KindBool {
		gui.toggle()
		return
	}
	gui.mode = modeEdit
	gui.editSeed = gui.form.text(spec.ID)
	gui.status = ""
}

func (gui *Gui) toggle() {
	spec := gui.form.current()
	if err := gui.form.toggle(spec.ID); err != nil {
		if errors.Is(err, errFieldDisabled) {
			gui.status = gui.tr.T("roleplay_disabled_hint")
		}
		return
	}
	gui.status = ""
}

// finishEdit stores the inline editor's text for the current field.
func (gui *Gui) finishEdit(text string) {
	gui.mode = modeBrowse
	id := gui.form.current().ID
	if err := gui.form.setText(id, text); err != nil {
		gui.logger.Debug("edit rejected", "field", id.String(), "error", err)
	}
}

func (gui *Gui) cancelEdit() {
	gui.mode = modeBrowse
}

// commitAndSave commits pending edits and persists the result, reporting
// the outcome in a modal. An input error leaves the document untouched.
func (gui *Gui) commitAndSave() {
	doc, err := gui.form.commit()
	if err != nil {
		var inputErr *document.InputError
		if errors.As(err, &inputErr) {
			gui.form.focus(inputErr.Field)
		}
		gui.logger.Warn("commit rejected", "error", err)
		gui.openModal(modalMessage, gui.tr.T("error_title"),
			fmt.Sprintf("%s\n\n%v", gui.tr.T("error_invalid_input"), err))
		return
	}

	if err := gui.save(gui.ctx, doc); err != nil {
		gui.logger.Error("save failed", "error", err)
		gui.openModal(modalMessage, gui.tr.T("error_title"), err.Error())
		return
	}
	gui.form.markSaved(doc)
	gui.logger.Info("config saved")
	gui.openModal(modalMessage, gui.tr.T("success_save_title"), gui.tr.T("success_save_message"))
}

func (gui *Gui) requestReset() {
	gui.openModal(modalConfirmReset, gui.tr.T("confirm_reset_title"), gui.tr.T("confirm_reset_message"))
}

// requestQuit quits at once unless there are unsaved changes.
func (gui *Gui) requestQuit() {
	if !gui.form.dirty() {
		gui.quit = true
		return
	}
	gui.openModal(modalConfirmQuit, gui.tr.T("confirm_quit_title"), gui.tr.T("confirm_quit_message"))
}

// answer resolves a yes/no modal.
func (gui *Gui) answer(yes bool) {
	kind := gui.modal.kind
	gui.closeModal()
	if !yes {
		return
	}
	switch kind {
	case modalConfirmReset:
		gui.form.reset()
		gui.logger.Info("reset to defaults")
	case modalConfirmQuit:
		gui.quit = true
	}
}

func (gui *Gui) nextLanguage() {
	next := gui.catalog.Next(gui.tr.Language().Code)
	gui.tr = gui.catalog.Translator(next.Code)
	gui.logger.Debug("language changed", "language", next.Code)
}
