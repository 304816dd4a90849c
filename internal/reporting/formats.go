package reporting

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/beevik/etree"
	json "github.com/json-iterator/go"
)

// writeOnce serializes Write/Close and rejects a second Write.
type writeOnce struct {
	writer  io.WriteCloser
	mu      sync.Mutex
	written bool
}

func (w *writeOnce) write(render func(io.Writer) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return fmt.Errorf("report already written")
	}
	w.written = true
	return render(w.writer)
}

func (w *writeOnce) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Close()
}

// JSONReporter writes the run as an indented JSON document.
type JSONReporter struct {
	writeOnce
}

func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writeOnce{writer: writer}}
}

type jsonDocument struct {
	*RunReport
	Summary Summary `json:"summary"`
}

func (r *JSONReporter) Write(report *RunReport) error {
	return r.write(func(w io.Writer) error {
		data, err := json.MarshalIndent(jsonDocument{RunReport: report, Summary: report.Summary()}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	})
}

// JUnitReporter writes a JUnit XML testsuite that CI systems can ingest.
type JUnitReporter struct {
	writeOnce
}

func NewJUnitReporter(writer io.WriteCloser) *JUnitReporter {
	return &JUnitReporter{writeOnce{writer: writer}}
}

func (r *JUnitReporter) Write(report *RunReport) error {
	return r.write(func(w io.Writer) error {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

		sum := report.Summary()
		suites := doc.CreateElement("testsuites")
		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", report.Title)
		suite.CreateAttr("tests", strconv.Itoa(sum.Total))
		suite.CreateAttr("failures", strconv.Itoa(sum.Failed+sum.XPassed))
		suite.CreateAttr("skipped", strconv.Itoa(sum.Skipped+sum.XFailed))
		suite.CreateAttr("time", seconds(report.Duration().Seconds()))
		suite.CreateAttr("timestamp", report.Start.UTC().Format("2006-01-02T15:04:05"))

		props := suite.CreateElement("properties")
		for _, kv := range [][2]string{{"run_id", report.ID}, {"env", report.Env}, {"scope", report.Scope}} {
			p := props.CreateElement("property")
			p.CreateAttr("name", kv[0])
			p.CreateAttr("value", kv[1])
		}

		for _, c := range report.Cases {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("name", c.Name)
			tc.CreateAttr("classname", "pagepilot")
			tc.CreateAttr("time", seconds(c.Duration.Seconds()))

			switch c.Status {
			case StatusFailed:
				f := tc.CreateElement("failure")
				f.CreateAttr("message", c.Error)
				f.SetText(c.Error)
			case StatusXPassed:
				f := tc.CreateElement("failure")
				f.CreateAttr("message", "unexpectedly passed")
				f.SetText(c.Reason)
			case StatusSkipped, StatusXFailed:
				s := tc.CreateElement("skipped")
				msg := c.Reason
				if c.Status == StatusXFailed {
					msg = "expected failure: " + c.Error
				}
				s.CreateAttr("message", msg)
			}
			if c.Screenshot != "" {
				tc.CreateElement("system-out").SetText("[[ATTACHMENT|" + c.Screenshot + "]]")
			}
		}

		doc.Indent(2)
		_, err := doc.WriteTo(w)
		return err
	})
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// HTMLReporter writes a self-contained HTML page.
type HTMLReporter struct {
	writeOnce
}

func NewHTMLReporter(writer io.WriteCloser) *HTMLReporter {
	return &HTMLReporter{writeOnce{writer: writer}}
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"base": filepath.Base,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Report.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
.passed { color: #1a7f37; } .failed { color: #cf222e; } .skipped { color: #6e7781; }
.xfailed { color: #9a6700; } .xpassed { color: #8250df; }
pre { white-space: pre-wrap; margin: 0; }
</style>
</head>
<body>
<h1>{{.Report.Title}}</h1>
<p>Run {{.Report.ID}} · env <b>{{.Report.Env}}</b> · scope {{.Report.Scope}} · started {{.Report.Start.Format "2006-01-02 15:04:05"}} · took {{.Report.Duration}}</p>
<p>{{.Summary.Total}} scenarios:
<span class="passed">{{.Summary.Passed}} passed</span>,
<span class="failed">{{.Summary.Failed}} failed</span>,
<span class="skipped">{{.Summary.Skipped}} skipped</span>,
<span class="xfailed">{{.Summary.XFailed}} xfailed</span>,
<span class="xpassed">{{.Summary.XPassed}} xpassed</span></p>
<table>
<tr><th>Scenario</th><th>Result</th><th>Duration</th><th>Details</th></tr>
{{range .Report.Cases}}<tr>
<td>{{.Name}}</td>
<td class="{{.Status}}">{{.Status}}</td>
<td>{{.Duration}}</td>
<td>{{if .Error}}<pre>{{.Error}}</pre>{{end}}{{if .Reason}}<p>{{.Reason}}</p>{{end}}{{if .Screenshot}}<a href="{{.Screenshot}}"><img src="{{.Screenshot}}" alt="{{base .Screenshot}}" width="320"></a>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

func (r *HTMLReporter) Write(report *RunReport) error {
	return r.write(func(w io.Writer) error {
		return htmlReport.Execute(w, struct {
			Report  *RunReport
			Summary Summary
		}{report, report.Summary()})
	})
}
