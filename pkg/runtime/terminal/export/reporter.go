package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

type TableConfig struct {
	NameWidth     int
	SeverityWidth int
	StatusWidth   int
	DetailsWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:     28,
		SeverityWidth: 10,
		StatusWidth:   10,
		DetailsWidth:  60,
	}
}

// Reporter renders diagnostic and fix reports as console tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(name, severity, status, details string) string {
			if len(details) > c.config.DetailsWidth {
				details = details[:c.config.DetailsWidth-3] + "..."
			}
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.SeverityWidth, severity,
				c.config.StatusWidth, status,
				c.config.DetailsWidth, details)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.DetailsWidth+2))
		},
		"checkStatus": func(hasProblem bool) string {
			if hasProblem {
				return "PROBLEM"
			}
			return "ok"
		},
		"fixStatus": func(success bool) string {
			if success {
				return "fixed"
			}
			return "FAILED"
		},
	}
}

func (c *Reporter) HandleDiagnostics(report domain.DiagnosticReport) error {
	tmpl := `
Auth diagnostics

{{separator}}
{{formatRow "Problem" "Severity" "Status" "Details"}}
{{separator}}
{{range .Problems}}{{formatRow .Problem.Name (printf "%s" .Problem.Severity) (checkStatus .HasProblem) .Details}}
{{end}}{{separator}}

Detected: {{.Summary.Total}} (critical: {{.Summary.Critical}}, high: {{.Summary.High}}, medium: {{.Summary.Medium}}, low: {{.Summary.Low}})
`
	return c.render("diagnostics", tmpl, report)
}

func (c *Reporter) HandleFixes(report domain.FixReport) error {
	if report.Summary.Total == 0 {
		_, err := fmt.Fprintln(c.writer, "No problems detected; nothing to fix.")
		return err
	}

	tmpl := `
Fix results

{{separator}}
{{formatRow "Problem" "Severity" "Status" "Message"}}
{{separator}}
{{range .Applied}}{{formatRow .Problem.Name (printf "%s" .Problem.Severity) (fixStatus .Success) .Message}}
{{end}}{{separator}}

Attempted: {{.Summary.Total}}, successful: {{.Summary.Successful}}, failed: {{.Summary.Failed}}
`
	return c.render("fixes", tmpl, report)
}

func (c *Reporter) HandleResult(title string, result domain.FixResult) error {
	status := "FAILED"
	if result.Success {
		status = "ok"
	}
	if result.Details != "" {
		_, err := fmt.Fprintf(c.writer, "%s: %s - %s (%s)\n", title, status, result.Message, result.Details)
		return err
	}
	_, err := fmt.Fprintf(c.writer, "%s: %s - %s\n", title, status, result.Message)
	return err
}

func (c *Reporter) HandleReauth(needed bool) error {
	if needed {
		_, err := fmt.Fprintln(c.writer, "Reauthentication required.")
		return err
	}
	_, err := fmt.Fprintln(c.writer, "Session is healthy; no reauthentication needed.")
	return err
}

func (c *Reporter) render(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(c.funcMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := t.Execute(c.writer, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
