// Package diagfmt renders diagnostic bags for human and machine consumers.
package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tycore/internal/diag"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	infoStyle    = color.New(color.FgCyan)
	noteStyle    = color.New(color.Faint)
)

// Pretty writes one line per diagnostic, plus indented note lines.
func Pretty(w io.Writer, bag *diag.Bag, colorize bool) {
	for _, d := range bag.Items() {
		sev := d.Severity.String()
		if colorize {
			sev = styleFor(d.Severity).Sprint(sev)
		}
		if d.Subject != "" {
			fmt.Fprintf(w, "%s[%s] %s: %s\n", sev, d.Code, d.Subject, d.Message)
		} else {
			fmt.Fprintf(w, "%s[%s]: %s\n", sev, d.Code, d.Message)
		}
		for _, n := range d.Notes {
			note := "  note: " + n.Msg
			if colorize {
				note = noteStyle.Sprint(note)
			}
			fmt.Fprintln(w, note)
		}
	}
}

// DiagnosticOutput is the JSON shape of one diagnostic.
type DiagnosticOutput struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes,omitempty"`
}

// JSON writes the whole bag as an indented JSON array.
func JSON(w io.Writer, bag *diag.Bag) error {
	out := make([]DiagnosticOutput, 0, bag.Len())
	for _, d := range bag.Items() {
		o := DiagnosticOutput{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Subject:  d.Subject,
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			o.Notes = append(o.Notes, n.Msg)
		}
		out = append(out, o)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func styleFor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorStyle
	case diag.SevWarning:
		return warningStyle
	default:
		return infoStyle
	}
}
