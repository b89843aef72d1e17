package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func bar(percent int) string {
	const width = 20
	filled := percent * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + fmt.Sprintf("] %3d%%", percent)
}

// printOutcome prints the streak change of a command. Unlocked achievements
// arrive through the notification inbox.
func printOutcome(w io.Writer, out command.Outcome) {
	if out.Streak != progress.StreakUnchanged {
		fmt.Fprintf(w, "Streak: %d day(s) (%s)\n", out.StreakDays, out.Streak)
	}
}

// flushNotifications prints queued notifications of the active profile.
func (c *cli) flushNotifications(w io.Writer) {
	if c.app == nil {
		return
	}
	profile, err := shared.NewProfileID(c.profileID())
	if err != nil {
		return
	}
	for _, n := range c.app.inbox.Drain(string(profile)) {
		fmt.Fprintln(w, n.Text())
	}
}
