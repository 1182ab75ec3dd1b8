package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/frahmantamala/project-management/pkg/logger"
)

// Printer renders command results as aligned tables or JSON.
type Printer struct {
	out    io.Writer
	format string
	Logger *slog.Logger
}

func NewPrinter(out io.Writer, format string, lg *slog.Logger) *Printer {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Printer{out: out, format: format, Logger: lg}
}

func (p *Printer) JSON() bool {
	return p.format == "json"
}

func (p *Printer) WriteJSON(data interface{}) {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		p.Logger.Error("failed to encode JSON output", "error", err)
	}
}

// WriteTable writes rows under headers, or data as JSON in json mode.
func (p *Printer) WriteTable(data interface{}, headers []string, rows [][]string) {
	if p.JSON() {
		p.WriteJSON(data)
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		p.Logger.Error("failed to write table", "error", err)
	}
}

// WriteFields writes label/value pairs, or data as JSON in json mode.
func (p *Printer) WriteFields(data interface{}, fields [][2]string) {
	if p.JSON() {
		p.WriteJSON(data)
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	if err := tw.Flush(); err != nil {
		p.Logger.Error("failed to write fields", "error", err)
	}
}

// WriteMessage prints a confirmation line; in json mode it becomes
// {"message": ...}.
func (p *Printer) WriteMessage(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.JSON() {
		p.WriteJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(p.out, msg)
}

func printerFor(out io.Writer, deps *Dependencies) *Printer {
	return NewPrinter(out, outputFormat, deps.Logger)
}
