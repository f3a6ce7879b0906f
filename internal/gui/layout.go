package gui

import (
	"fmt"
	"io"
	"strings"

	"github.com/awesome-gocui/gocui"
	"github.com/mattn/go-runewidth"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
)

const (
	headerView   = "header"
	footerView   = "footer"
	editView     = "edit"
	modalView    = "modal"
	tooSmallView = "too-small"

	minColumnWidth = 38
	headerHeight   = 3
	footerHeight   = 3
)

const (
	sgrReset   = "\x1b[0m"
	sgrReverse = "\x1b[7m"
	sgrBold    = "\x1b[1m"
	sgrGated   = "\x1b[34m"
	sgrPending = "\x1b[33m"
)

func categoryView(category string) string {
	return "category:" + category
}

// planColumns splits the categories into a left and a right column, in
// order, keeping the left column no taller than half the total.
func planColumns(categories []string) (left, right []string) {
	total := 0
	for _, c := range categories {
		total += categoryHeight(c)
	}
	height := 0
	for i, c := range categories {
		h := categoryHeight(c)
		if height > 0 && height+h > (total+1)/2 {
			return categories[:i], categories[i:]
		}
		height += h
	}
	return categories, nil
}

// categoryHeight counts the frame lines too.
func categoryHeight(category string) int {
	return len(document.FieldsOf(category)) + 2
}

func columnHeight(categories []string) int {
	h := 0
	for _, c := range categories {
		h += categoryHeight(c)
	}
	return h
}

func setView(g *gocui.Gui, name string, x0, y0, x1, y1 int) (*gocui.View, bool, error) {
	v, err := g.SetView(name, x0, y0, x1, y1, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return nil, false, err
		}
		return v, true, nil
	}
	return v, false, nil
}

func (gui *Gui) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	left, right := planColumns(document.Categories())
	needX := 2 * minColumnWidth
	needY := headerHeight + max(columnHeight(left), columnHeight(right)) + footerHeight

	if maxX < needX || maxY < needY {
		return gui.layoutTooSmall(g, maxX, maxY, needX, needY)
	}
	_ = g.DeleteView(tooSmallView)

	if err := gui.layoutHeader(g, maxX); err != nil {
		return err
	}

	mid := maxX / 2
	if err := gui.layoutColumn(g, left, 0, mid-1); err != nil {
		return err
	}
	if err := gui.layoutColumn(g, right, mid, maxX-1); err != nil {
		return err
	}

	if err := gui.layoutFooter(g, maxX, maxY); err != nil {
		return err
	}

	if err := gui.layoutEdit(g, maxX, maxY); err != nil {
		return err
	}
	if err := gui.layoutModal(g, maxX, maxY); err != nil {
		return err
	}

	switch gui.mode {
	case modeEdit:
		_, err := g.SetCurrentView(editView)
		return err
	case modeModal:
		_, err := g.SetCurrentView(modalView)
		return err
	}
	_, err := g.SetCurrentView(categoryView(gui.form.current().ID.Category))
	return err
}

func (gui *Gui) layoutTooSmall(g *gocui.Gui, maxX, maxY, needX, needY int) error {
	v, _, err := setView(g, tooSmallView, 0, 0, max(maxX-1, 1), max(maxY-1, 1))
	if err != nil {
		return err
	}
	v.Frame = false
	v.Wrap = true
	v.Clear()
	fmt.Fprintf(v, "Terminal too small: %dx%d, need %dx%d.\nResize or press q to quit.", maxX, maxY, needX, needY)
	_, err = g.SetViewOnTop(tooSmallView)
	return err
}

func (gui *Gui) layoutHeader(g *gocui.Gui, maxX int) error {
	v, _, err := setView(g, headerView, 0, 0, maxX-1, headerHeight-1)
	if err != nil {
		return err
	}
	v.Clear()
	gui.renderHeader(v)
	return nil
}

func (gui *Gui) renderHeader(w io.Writer) {
	lang := gui.tr.Language()
	fmt.Fprintf(w, "%sUIMPIT%s  %s  [%s]", sgrBold, sgrReset, gui.tr.T("window_title"), lang.Name)
	if gui.form.dirty() {
		fmt.Fprint(w, "  *")
	}
	if gui.status != "" {
		fmt.Fprintf(w, "  %s", gui.status)
	}
}

func (gui *Gui) layoutColumn(g *gocui.Gui, categories []string, x0, x1 int) error {
	y := headerHeight
	for _, c := range categories {
		h := categoryHeight(c)
		v, _, err := setView(g, categoryView(c), x0, y, x1, y+h-1)
		if err != nil {
			return err
		}
		v.Title = " " + gui.tr.T(c+"_settings_title") + " "
		v.Clear()
		width, _ := v.Size()
		gui.renderCategory(v, c, width)
		y += h
	}
	return nil
}

// renderCategory writes one line per field of category.
func (gui *Gui) renderCategory(w io.Writer, category string, width int) {
	rtl := gui.tr.Language().RTL
	cur := gui.form.current().ID
	for _, spec := range document.FieldsOf(category) {
		line := gui.rowText(spec, width, rtl)
		switch {
		case spec.ID == cur && gui.mode != modeModal:
			line = sgrReverse + line + sgrReset
		case gui.form.disabled(spec.ID):
			line = sgrGated + line + sgrReset
		case gui.form.isPending(spec.ID):
			line = sgrPending + line + sgrReset
		}
		fmt.Fprintln(w, line)
	}
}

// rowText lays out a field's label and value in width cells. Right-to-left
// languages put the label on the right edge.
func (gui *Gui) rowText(spec document.FieldSpec, width int, rtl bool) string {
	value := gui.valueText(spec)
	if gui.form.isPending(spec.ID) {
		value += "*"
	}
	if gui.form.disabled(spec.ID) {
		value = "-" + value
	}

	labelWidth := max(width-runewidth.StringWidth(value)-2, 1)
	label := runewidth.Truncate(gui.tr.T(spec.ID.Field), labelWidth, "…")

	if rtl {
		return value + " " + runewidth.FillLeft(label, max(width-runewidth.StringWidth(value)-1, 0))
	}
	return " " + runewidth.FillRight(label, labelWidth) + " " + value
}

func (gui *Gui) valueText(spec document.FieldSpec) string {
	if spec.Kind() == document.KindBool {
		if gui.form.boolValue(spec.ID) {
			return "[x]"
		}
		return "[ ]"
	}
	return gui.form.text(spec.ID)
}

func (gui *Gui) layoutFooter(g *gocui.Gui, maxX, maxY int) error {
	v, _, err := setView(g, footerView, 0, maxY-footerHeight, maxX-1, maxY-1)
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, gui.footerText())
	return nil
}

func (gui *Gui) footerText() string {
	switch gui.mode {
	case modeEdit:
		return "Enter: OK  Esc: cancel"
	case modeModal:
		if gui.modal.kind == modalMessage {
			return "Enter: OK"
		}
		return "y: yes  n/Esc: no"
	}
	return gui.tr.T("help_keys")
}

func (gui *Gui) layoutEdit(g *gocui.Gui, maxX, maxY int) error {
	if gui.mode != modeEdit {
		return deleteView(g, editView)
	}

	width := min(40, maxX-4)
	x0 := (maxX - width) / 2
	y0 := maxY/2 - 1
	v, created, err := setView(g, editView, x0, y0, x0+width, y0+2)
	if err != nil {
		return err
	}
	v.Title = " " + gui.tr.T(gui.form.current().ID.Field) + " "
	if created {
		v.Editable = true
		v.Editor = digitEditor
		fmt.Fprint(v, gui.editSeed)
		_ = v.SetCursor(len(gui.editSeed), 0)
		g.Cursor = true
		if err := gui.bindEdit(g); err != nil {
			return err
		}
	}
	_, err = g.SetViewOnTop(editView)
	return err
}

func (gui *Gui) layoutModal(g *gocui.Gui, maxX, maxY int) error {
	if gui.mode != modeModal {
		return deleteView(g, modalView)
	}

	lines := strings.Split(gui.modal.body, "\n")
	width := len(gui.modal.title) + 4
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l)+2)
	}
	width = min(width, maxX-4)
	height := min(len(lines)+1, maxY-4)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	v, created, err := setView(g, modalView, x0, y0, x0+width, y0+height)
	if err != nil {
		return err
	}
	if created {
		if err := gui.bindModal(g); err != nil {
			return err
		}
	}
	v.Title = " " + gui.modal.title + " "
	v.Wrap = true
	v.Clear()
	fmt.Fprint(v, gui.modal.body)
	_, err = g.SetViewOnTop(modalView)
	return err
}

func deleteView(g *gocui.Gui, name string) error {
	if err := g.DeleteView(name); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if name == editView {
		g.Cursor = false
	}
	return nil
}

// digitEditor accepts only digits, up to maxDigits of them.
var digitEditor = gocui.EditorFunc(func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case ch >= '0' && ch <= '9' && mod == gocui.ModNone:
		if len(strings.TrimSpace(v.Buffer())) >= maxDigits {
			return
		}
	case ch != 0:
		return
	case key == gocui.KeySpace:
		return
	}
	gocui.DefaultEditor.Edit(v, key, ch, mod)
})
