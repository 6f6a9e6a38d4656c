package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/pyted/domain"
)

// BatchProgress draws one bar over the pairs of a batch. It only draws
// when its writer is a terminal outside CI.
type BatchProgress struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar
	draw   bool
	total  int
	failed bool
}

// NewProgressManager creates a progress bar drawing on out
func NewProgressManager(out io.Writer) domain.ProgressManager {
	p := &BatchProgress{}
	p.SetWriter(out)
	return p
}

// NewSilentProgressManager creates a progress manager that never draws
func NewSilentProgressManager() domain.ProgressManager {
	return &BatchProgress{out: io.Discard}
}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	return isTerminal(os.Stderr)
}

func isTerminal(w io.Writer) bool {
	if os.Getenv("CI") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Initialize records the number of pairs
func (p *BatchProgress) Initialize(maxValue int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = maxValue
	p.failed = false
}

// Start draws the empty bar
func (p *BatchProgress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ensureBar(p.total)
}

// Update moves the bar to processed pairs
func (p *BatchProgress) Update(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ensureBar(total) {
		_ = p.bar.Set(processed)
	}
}

// Complete fills the bar, or leaves it where it stopped after a failure
func (p *BatchProgress) Complete(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if success {
		_ = p.bar.Finish()
		return
	}
	p.failed = true
	p.bar.Describe("Stopped")
	_ = p.bar.Exit()
}

// SetWriter redirects the bar; drawing follows the new writer's terminal state
func (p *BatchProgress) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if writer == nil {
		writer = io.Discard
	}
	p.out = writer
	p.draw = isTerminal(writer)
}

// IsInteractive reports whether the bar is drawn
func (p *BatchProgress) IsInteractive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draw
}

// Close releases the bar; a later Start draws a new one
func (p *BatchProgress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil && !p.failed && !p.bar.IsFinished() {
		_ = p.bar.Finish()
	}
	p.bar = nil
}

func (p *BatchProgress) ensureBar(total int) bool {
	if !p.draw {
		return false
	}
	if p.bar == nil {
		p.bar = newPairBar(p.out, total)
	}
	return true
}

func newPairBar(out io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Comparing"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pairs"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}
