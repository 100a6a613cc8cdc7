// Package tui provides a read-only terminal browser over an assembled job:
// the object image, the symbol table and the external use sites, side by
// side. It is only offered after a successful assembly.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/word15asm/assembler/assembler"
)

// Browser is the text user interface over one assembled job.
type Browser struct {
	App   *tview.Application
	Job   *assembler.Job
	Uses  []assembler.ExternalUse
	Title string

	// View panels
	ImageView     *tview.TextView
	SymbolView    *tview.TextView
	ExternalsView *tview.TextView
	StatusBar     *tview.TextView

	// Focus order for Tab cycling
	panels []*tview.TextView
	focus  int
}

// NewBrowser creates a browser for a finished job. title is the job base
// name shown in the status bar.
func NewBrowser(job *assembler.Job, uses []assembler.ExternalUse, title string) *Browser {
	return NewBrowserWithScreen(job, uses, title, nil)
}

// NewBrowserWithScreen creates a browser on an explicit tcell screen. Tests
// pass a simulation screen; a nil screen leaves tview to open the terminal.
func NewBrowserWithScreen(job *assembler.Job, uses []assembler.ExternalUse, title string, screen tcell.Screen) *Browser {
	b := &Browser{
		App:   tview.NewApplication(),
		Job:   job,
		Uses:  uses,
		Title: title,
	}

	if screen != nil {
		b.App.SetScreen(screen)
	}

	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	b.render()

	return b
}

// initializeViews creates the view panels
func (b *Browser) initializeViews() {
	b.ImageView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.ImageView.SetBorder(true).SetTitle(" Object Image ")

	b.SymbolView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	b.ExternalsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.ExternalsView.SetBorder(true).SetTitle(" Externals ")

	b.StatusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	b.panels = []*tview.TextView{b.ImageView, b.SymbolView, b.ExternalsView}
}

// buildLayout constructs the browser layout
func (b *Browser) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.SymbolView, 0, 2, false).
		AddItem(b.ExternalsView, 0, 1, false)

	main := tview.NewFlex().
		AddItem(b.ImageView, 0, 2, true).
		AddItem(right, 0, 1, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, true).
		AddItem(b.StatusBar, 1, 0, false)

	b.App.SetRoot(root, true)
	b.App.SetFocus(b.ImageView)
}

// setupKeyBindings installs the global key handler
func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(b.handleKey)
}

// handleKey processes one key event: q/Esc quits, Tab cycles panes.
func (b *Browser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEscape,
		event.Rune() == 'q':
		b.App.Stop()
		return nil
	case event.Key() == tcell.KeyTab:
		b.focus = (b.focus + 1) % len(b.panels)
		b.App.SetFocus(b.panels[b.focus])
		return nil
	}
	return event
}

// render fills every panel from the job
func (b *Browser) render() {
	fmt.Fprintf(b.ImageView, "[yellow]   %d %d[-]\n", b.Job.Code.Len(), b.Job.Data.Len())
	for _, node := range b.Job.Code.Nodes {
		ref := ""
		if node.LabelRef != "" {
			ref = "  -> " + node.LabelRef
		}
		fmt.Fprintf(b.ImageView, "%04d %05o  [green]code[-]%s\n", node.Address, node.Word, ref)
	}
	for _, node := range b.Job.Data.Nodes {
		fmt.Fprintf(b.ImageView, "%04d %05o  [blue]data[-]\n", node.Address, node.Word)
	}

	for _, sym := range b.Job.Symbols.All() {
		tag := ""
		switch {
		case sym.External:
			tag = " [red]extern[-]"
		case sym.Entry:
			tag = " [yellow]entry[-]"
		}
		fmt.Fprintf(b.SymbolView, "%-20s %04d%s\n", sym.Name, sym.Address, tag)
	}

	for _, use := range b.Uses {
		fmt.Fprintf(b.ExternalsView, "%-20s %04d\n", use.Name, use.Address)
	}

	fmt.Fprintf(b.StatusBar, " %s.ob  |  %d code words, %d data words  |  Tab: switch pane  q: quit",
		b.Title, b.Job.Code.Len(), b.Job.Data.Len())
}

// Run starts the interactive loop and blocks until the user quits.
func (b *Browser) Run() error {
	return b.App.Run()
}
