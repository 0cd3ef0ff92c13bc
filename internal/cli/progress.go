package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/schollz/progressbar/v3"
)

// FetchProgress shows a progress bar for message downloads. The bar is
// created on the first update, once the total is known.
type FetchProgress struct {
	writer      io.Writer
	bar         *progressbar.ProgressBar
	description string
}

// NewFetchProgress creates a progress display writing to w.
func NewFetchProgress(w io.Writer, description string) *FetchProgress {
	return &FetchProgress{writer: w, description: description}
}

// Func returns the callback to hand to a fetcher. Calls must not overlap.
func (p *FetchProgress) Func() service.ProgressFunc {
	return p.update
}

func (p *FetchProgress) update(done, total int) {
	if total <= 0 {
		return
	}

	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]"+p.description+"[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finished reports whether the bar reached its total.
func (p *FetchProgress) Finished() bool {
	return p.bar != nil && p.bar.IsFinished()
}
