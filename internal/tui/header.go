package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

const dashboardTitle = "Automation Analytics | Clusters"

// roundSparkWidth is the width of the round latency sparkline in the header.
const roundSparkWidth = 12

// renderHeader renders the two header rows.
//
// Layout:
//
//	row 1 left:   dashboard title
//	row 1 center: "● MODE" indicator
//	row 1 right:  "Last: HH:MM:SS" plus the round latency sparkline
//	row 2:        active filters (date range, cluster, org, job type, template)
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := dashboardTitle
	center := ModeStyle(string(app.vm.Mode)).Render("● " + modeLabel(app))

	var right string
	switch {
	case app.gate.State() == engine.PreflightFailed:
		right = StyleError.Render("preflight failed")
	case app.lastUpdated.IsZero():
		baseURL := ""
		if app.client != nil {
			baseURL = app.client.BaseURL()
		}
		right = StyleDim.Render("Connecting to " + baseURL + "...")
	default:
		right = renderRoundStats(app)
	}

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	centerVW := lipgloss.Width(center)
	rightVW := lipgloss.Width(right)

	// The title gives way first when the terminal is narrow.
	leftRoom := innerWidth - centerVW - rightVW - 2
	if leftRoom < lipgloss.Width(left) {
		left = truncateName(left, max(leftRoom, 0))
	}
	leftVW := lipgloss.Width(left)

	spacing := max(innerWidth-leftVW-centerVW-rightVW, 0)
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	top := StyleHeader.Width(width).MaxWidth(width).Render(row)
	filters := StyleDim.Width(width).MaxWidth(width).Render(truncateName(" "+filterSummary(app), width))
	return top + "\n" + filters
}

// modeLabel names the current view mode for the header indicator.
func modeLabel(app *App) string {
	switch app.vm.Mode {
	case model.ModeAggregate:
		return "ALL CLUSTERS"
	case model.ModePerCluster:
		return "CLUSTER " + sanitize(chartSubtitle(app))
	case model.ModeError:
		return "UNAVAILABLE"
	default:
		return "LOADING"
	}
}

// renderRoundStats renders "Last: HH:MM:SS" followed by a sparkline of recent
// round latencies and the latest latency, colored by severity.
func renderRoundStats(app *App) string {
	parts := []string{StyleDim.Render("Last: " + app.lastUpdated.Format("15:04:05"))}
	if last, ok := app.history.Last(); ok {
		lat := app.history.Latencies()
		sev := roundLatencySeverity(float64(last.Duration.Milliseconds()))
		parts = append(parts,
			RenderSparkline(lat, min(roundSparkWidth, len(lat)), colorIndigo),
			severityToStyle(sev).Render(format.FormatLatency(last.Duration)))
	}
	if app.inFlight > 0 {
		parts = append(parts, StyleYellow.Render("⟳"))
	}
	return strings.Join(parts, " ")
}

// filterSummary renders the active filter selection as one line.
func filterSummary(app *App) string {
	snap := app.params.Current()
	rng := format.FormatDateRange(snap.StartDate, snap.EndDate)
	if tf, ok := timeFrameFor(spanDays(snap)); ok {
		rng += " (" + tf.Label + ")"
	}
	cluster := "All Clusters"
	if !snap.AllClustersSelected() {
		cluster = sanitize(engine.ClusterLabel(app.data.ClusterOptions, snap.ClusterID))
	}
	s := fmt.Sprintf("%s  cluster: %s  org: %s  job type: %s  template: %s",
		rng, cluster, snap.OrgID, snap.JobType, snap.TemplateID)
	if app.watcher != nil {
		s += "  events: " + app.watchState
	}
	return s
}

// timeFrameFor returns the preset whose span matches days, if any.
func timeFrameFor(days int) (model.TimeFrame, bool) {
	for _, tf := range model.TimeFrames {
		if tf.Days == days {
			return tf, true
		}
	}
	return model.TimeFrame{}, false
}

// classifyError maps an error to a short human-readable reason for display.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized"):
		return "Authentication failed (401)"
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		return "Authentication failed (403)"
	case strings.Contains(lower, "503") || strings.Contains(lower, "unavailable"):
		return "Service unavailable (503)"
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "Timeout"
	case isTLSError(err):
		return "TLS error"
	}
	msg = sanitize(msg)
	if len(msg) > 40 {
		return msg[:40] + "..."
	}
	return msg
}

// isTLSError reports whether err looks like a certificate or handshake failure.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate") ||
		strings.Contains(lower, "tls")
}

// sanitize strips terminal escape sequences and control characters from
// backend-supplied text before it is rendered.
func sanitize(s string) string {
	var out strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\x1b' {
			if unicode.IsControl(r) {
				continue
			}
			out.WriteRune(r)
			continue
		}
		if i+1 >= len(rs) {
			break
		}
		switch rs[i+1] {
		case '[': // CSI: parameters up to a final byte in 0x40–0x7E
			i += 2
			for i < len(rs) && (rs[i] < 0x40 || rs[i] > 0x7e) {
				i++
			}
		case ']': // OSC: terminated by BEL or ESC \
			i += 2
			for i < len(rs) {
				if rs[i] == '\x07' {
					break
				}
				if rs[i] == '\x1b' && i+1 < len(rs) && rs[i+1] == '\\' {
					i++
					break
				}
				i++
			}
		default:
			i++
		}
	}
	return out.String()
}

// formatDuration formats an interval compactly, e.g. "10s", "2m" or "1m30s".
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}
