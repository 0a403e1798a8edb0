package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hard-disks/hard-disks/sim/trace"
)

var lang = language.English

// runSummaryTable formats the outcome of a run as a two-column table.
func runSummaryTable(res *runResult) string {
	p := message.NewPrinter(lang)
	s, th := res.State, res.Thermo
	box := s.Box()
	sweeps := (res.Config.NStep + s.Len() - 1) / s.Len()

	keys := []string{"Ensemble", "Seed", "Disks", "Steps", "Final φ", "Final box", "NVT acceptance"}
	msg := map[string]string{
		"Ensemble":       strings.ToUpper(string(th.Ensemble)),
		"Seed":           fmt.Sprintf("%d", res.Seed),
		"Disks":          p.Sprintf("%d", s.Len()),
		"Steps":          p.Sprintf("%d", res.Config.NStep),
		"Final φ":        p.Sprintf("%.5f", s.PackingFraction()),
		"Final box":      p.Sprintf("%.4f × %.4f", box.Lx, box.Ly),
		"NVT acceptance": p.Sprintf("%.2f %%", 100*th.NVTAcceptanceRate),
	}
	if res.Config.Pressure != nil {
		keys = append(keys, "βP", "NPT acceptance")
		msg["βP"] = p.Sprintf("%g", *res.Config.Pressure)
		msg["NPT acceptance"] = p.Sprintf("%.2f %%", 100*th.NPTAcceptanceRate)
	}
	if res.Trace.Enabled() {
		sum := trace.Summarize(res.Trace)
		for _, r := range []trace.Reason{trace.ReasonMetropolis, trace.ReasonOverlap, trace.ReasonNonPhysical} {
			k := "Rejected (" + string(r) + ")"
			keys = append(keys, k)
			msg[k] = p.Sprintf("%d", sum.ReasonCounts[r])
		}
	}
	keys = append(keys, "Density samples", "Elapsed", "Sweeps/sec")
	msg["Density samples"] = p.Sprintf("%d", th.Samples())
	msg["Elapsed"] = res.Elapsed.Round(time.Millisecond).String()
	sec := res.Elapsed.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	msg["Sweeps/sec"] = p.Sprintf("%d", int(float64(sweeps)/sec))
	return fmtTable("hard-disks run", keys, msg)
}

// fmtTable renders keys and their values as a boxed two-column table.
// Widths are measured in terminal cells so φ, β and × line up.
func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for _, k := range keys {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(msg[k]); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	b.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		b.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) +
			" | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
