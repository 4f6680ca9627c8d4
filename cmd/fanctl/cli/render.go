// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fanctl/fanctl/lib/command"
)

// Output formats for daemon responses.
const (
	FormatNatural = "natural"
	FormatJSON    = "json"
)

// ParseFormat validates an --output-format value. Matching is case
// insensitive so "JSON" works too.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(name) {
	case FormatNatural:
		return FormatNatural, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (want natural or json)", name)
	}
}

// Renderer formats daemon responses and daemon status lines for a
// terminal. Styles degrade to plain text when the writer is not a
// terminal.
type Renderer struct {
	out    io.Writer
	errOut io.Writer

	label   lipgloss.Style
	value   lipgloss.Style
	failure lipgloss.Style
	bullet  lipgloss.Style
	header  lipgloss.Style
}

// NewRenderer creates a Renderer writing results to out and failures
// to errOut.
func NewRenderer(out, errOut io.Writer) *Renderer {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)
	return &Renderer{
		out:     out,
		errOut:  errOut,
		label:   outRenderer.NewStyle().Bold(true),
		value:   outRenderer.NewStyle().Foreground(lipgloss.Color("6")),
		failure: errRenderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		bullet:  outRenderer.NewStyle().Foreground(lipgloss.Color("8")),
		header:  outRenderer.NewStyle().Bold(true).Underline(true),
	}
}

// Response prints a decoded response. A failure is written to errOut
// and returned as an *ExitError with code 1.
func (r *Renderer) Response(response command.Response) error {
	if !response.OK() {
		fmt.Fprintf(r.errOut, "%s %s\n", r.failure.Render("Error:"), response.Reason)
		return &ExitError{Code: 1}
	}

	switch {
	case response.Configuration != nil:
		r.status(response)
	case response.Strategies != nil:
		fmt.Fprintln(r.out, r.label.Render("Strategy list:"))
		for _, name := range response.Strategies {
			fmt.Fprintf(r.out, "  %s %s\n", r.bullet.Render("-"), r.value.Render(name))
		}
	case response.Speed != "":
		r.field("Fan speed:", response.Speed+"%")
	case response.Active != nil:
		r.field("Active:", strconv.FormatBool(*response.Active))
	case response.Strategy != "":
		strategy := response.Strategy
		if response.Default != nil && *response.Default {
			strategy += " (default)"
		}
		r.field("Current strategy:", strategy)
	default:
		fmt.Fprintln(r.out, "OK")
	}
	return nil
}

// status prints the full "print all" report.
func (r *Renderer) status(response command.Response) {
	rows := [][2]string{
		{"Strategy:", response.Strategy},
		{"Default:", formatBoolPointer(response.Default)},
		{"Active:", formatBoolPointer(response.Active)},
		{"Fan speed:", response.Speed + "%"},
		{"Temperature:", response.Temperature + "°C"},
		{"Moving average:", response.MovingAverageTemperature + "°C"},
		{"Effective:", response.EffectiveTemperature + "°C"},
	}
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "%s %s\n", r.label.Width(width).Render(row[0]), r.value.Render(row[1]))
	}
	if response.Configuration != nil {
		fmt.Fprintf(r.out, "%s %s\n", r.label.Width(width).Render("Strategies:"),
			r.value.Render(strings.Join(response.Configuration.StrategyNames(), ", ")))
	}
}

func (r *Renderer) field(label, value string) {
	fmt.Fprintf(r.out, "%s %s\n", r.label.Render(label), r.value.Render(value))
}

func formatBoolPointer(value *bool) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatBool(*value)
}

// StatusHeader prints the column header for daemon status lines.
func (r *Renderer) StatusHeader() {
	fmt.Fprintln(r.out, r.header.Render(fmt.Sprintf("%-15s %-10s %-10s %s", "Strategy", "Temp", "Speed", "Active")))
}

// StatusLine prints one daemon tick under StatusHeader.
func (r *Renderer) StatusLine(strategy string, temperature float64, speed int, active bool) {
	fmt.Fprintf(r.out, "%-15s %-10.1f %-10d %t\n", strategy, temperature, speed, active)
}
