package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"retroconv/internal/batch"
	"retroconv/internal/tui"
)

// reporter prints per-item lines and the final summary. On a terminal with
// more than one item it drives the progress model instead of printing
// lines directly.
type reporter struct {
	out     io.Writer
	title   string
	color   bool
	updates chan tui.Update
	done    chan struct{}
	items   []batch.Item
}

func newReporter(out io.Writer, title string) *reporter {
	return &reporter{out: out, title: title, color: shouldColorize(out)}
}

func (r *reporter) Start(total int) {
	if !r.color || total < 2 {
		return
	}
	r.updates = make(chan tui.Update, 64)
	r.done = make(chan struct{})
	program := tea.NewProgram(tui.NewModel(r.title, r.updates),
		tea.WithOutput(r.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		_, _ = program.Run()
		close(r.done)
	}()
	r.updates <- tui.Update{TotalDelta: total}
}

func (r *reporter) Item(item batch.Item) {
	r.items = append(r.items, item)
	if r.updates != nil {
		select {
		case r.updates <- tui.Update{Item: &item}:
			return
		case <-r.done:
			// The progress model exited early; print lines from here on.
			r.updates = nil
		}
	}
	fmt.Fprintln(r.out, tui.ItemLine(item, r.color))
}

// Stop waits for the progress model to drain. Safe to call more than once.
func (r *reporter) Stop() {
	if r.updates == nil {
		return
	}
	close(r.updates)
	<-r.done
	r.updates = nil
}

func (r *reporter) Summary(found int) {
	fmt.Fprintln(r.out, tui.RenderSummary(tui.BatchRows(found, batch.Summarize(r.items)), r.color))
}

// finish stops the progress model, prints the summary and maps an empty
// run to exit status 2.
func (r *reporter) finish(found int) error {
	r.Stop()
	r.Summary(found)
	if found == 0 {
		return &exitError{code: 2, err: errNothingFound}
	}
	return nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
