// Package reporting renders structured pipeline events for the console.
// The pipeline core never formats text; everything visible happens here.
package reporting

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

// heartbeatInterval is how often the observer refreshes the liveness
// indicator for a long-running step.
const heartbeatInterval = 5 * time.Second

type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	skip    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	detail  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:  lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// ConsoleReporter implements install.Reporter on a terminal.
type ConsoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles

	// Heartbeat observer for the step currently executing. It only
	// refreshes a visual indicator and terminates the moment the step
	// finishes; it never touches run state.
	observerStop chan struct{}
	observerDone chan struct{}
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		out:    out,
		styles: defaultStyles(),
	}
}

// RunStarted implements install.Reporter.
func (r *ConsoleReporter) RunStarted(runID string, plat *platform.Platform, totalSteps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.header.Render(fmt.Sprintf("stagehand run %s", runID)))
	fmt.Fprintln(r.out, r.styles.detail.Render(fmt.Sprintf("platform %s, %d steps", plat, totalSteps)))
}

// StepStarted implements install.Reporter.
func (r *ConsoleReporter) StepStarted(id install.StepID, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "  %s %s\n", r.styles.detail.Render("..."), description)
	r.startObserver(description)
}

// StepFinished implements install.Reporter.
func (r *ConsoleReporter) StepFinished(o install.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopObserver()

	switch o.Kind() {
	case install.OutcomeSuccess:
		fmt.Fprintf(r.out, "  %s %s %s\n",
			r.styles.success.Render("ok"), o.StepID(),
			r.styles.detail.Render(o.Duration().Round(time.Millisecond).String()))
	case install.OutcomeSkipped:
		fmt.Fprintf(r.out, "  %s %s (%s)\n", r.styles.skip.Render("--"), o.StepID(), o.Reason())
	case install.OutcomeWarned:
		fmt.Fprintf(r.out, "  %s %s: %s\n", r.styles.warn.Render("warn"), o.StepID(), o.Reason())
	case install.OutcomeFailed:
		fmt.Fprintf(r.out, "  %s %s: %s\n", r.styles.fail.Render("FAIL"), o.StepID(), o.Reason())
	}
}

// RunFinished implements install.Reporter. An aborted run renders its
// record here; a successful run defers to FinalSummary, which the
// installer emits after the audio phase.
func (r *ConsoleReporter) RunFinished(s install.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopObserver()
	if !s.Aborted {
		return
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.fail.Render(fmt.Sprintf("installation aborted: %v", s.Cause)))
	r.renderWarnings(s.Warnings)
	fmt.Fprintf(r.out, "  run id: %s\n", s.RunID)
}

// FinalSummary renders the closing record of a successful run: every
// accumulated warning, the resolved install path, the run ID and the
// next-step instructions. launchPath is the generated launch script.
func (r *ConsoleReporter) FinalSummary(s install.Summary, launchPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out)
	r.renderWarnings(s.Warnings)
	fmt.Fprintln(r.out, r.styles.success.Render("installation complete"))
	fmt.Fprintf(r.out, "  install path: %s\n", s.InstallPath)
	fmt.Fprintf(r.out, "  run id: %s\n", s.RunID)
	fmt.Fprintln(r.out, r.styles.header.Render("next steps"))
	fmt.Fprintf(r.out, "  run %s to start transcribing\n", launchPath)
}

// renderWarnings prints the warning list. Caller holds the mutex.
func (r *ConsoleReporter) renderWarnings(warnings []install.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(r.out, r.styles.warn.Render(fmt.Sprintf("%d warning(s):", len(warnings))))
	for _, w := range warnings {
		fmt.Fprintf(r.out, "  - [%s] %s\n", w.StepID, w.Message)
	}
}

// AudioReport renders the device configuration result, including the full
// remediation instruction set when no usable input device exists.
func (r *ConsoleReporter) AudioReport(report audio.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.header.Render("audio device check"))
	fmt.Fprintf(r.out, "  virtual cables: %d, stereo mix: %d, microphones: %d\n",
		len(report.Detection.VirtualCables), len(report.Detection.StereoMix), len(report.Detection.Microphones))

	for _, a := range report.Attempts {
		if a.Err != nil {
			fmt.Fprintf(r.out, "  %s could not enable %s: %v\n", r.styles.warn.Render("warn"), a.Device, a.Err)
		} else {
			fmt.Fprintf(r.out, "  %s enabled %s\n", r.styles.success.Render("ok"), a.Device)
		}
	}

	if report.Succeeded() {
		fmt.Fprintln(r.out, r.styles.success.Render(fmt.Sprintf("  %d usable input device(s):", len(report.Usable))))
		for _, d := range report.Usable {
			fmt.Fprintf(r.out, "    - %s (%s)\n", d.Name, d.Kind)
		}
		return
	}

	fmt.Fprintln(r.out, r.styles.fail.Render("  no usable input device found"))
	for i, step := range report.Remediation {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, step)
	}
}

// startObserver spawns the heartbeat goroutine for the running step.
// Caller holds the mutex.
func (r *ConsoleReporter) startObserver(description string) {
	stop := make(chan struct{})
	done := make(chan struct{})
	r.observerStop = stop
	r.observerDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		started := time.Now()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				elapsed := time.Since(started).Round(time.Second)
				r.mu.Lock()
				fmt.Fprintf(r.out, "  %s\n", r.styles.detail.Render(
					fmt.Sprintf("still working: %s (%s)", description, elapsed)))
				r.mu.Unlock()
			}
		}
	}()
}

// stopObserver terminates the heartbeat goroutine, waiting for it so no
// dangling observer outlives its step. Caller holds the mutex.
func (r *ConsoleReporter) stopObserver() {
	if r.observerStop == nil {
		return
	}
	close(r.observerStop)
	done := r.observerDone
	r.observerStop = nil
	r.observerDone = nil

	// The observer may be blocked on the mutex we hold; release it while
	// waiting for the goroutine to drain.
	r.mu.Unlock()
	<-done
	r.mu.Lock()
}

// Ensure ConsoleReporter implements install.Reporter.
var _ install.Reporter = (*ConsoleReporter)(nil)
