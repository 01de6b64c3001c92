// Package report renders a completed job as a standalone HTML summary,
// reproducing original_source/report.py with Go's html/template instead of
// f-string concatenation.
package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sorttv/showsort/internal/job"
)

// Data is the view model handed to the report template.
type Data struct {
	Job       *job.Job
	StartTime time.Time
	EndTime   time.Time
	DryRun    bool
}

// Duration returns the wall-clock span of the run for display.
func (d Data) Duration() time.Duration { return d.EndTime.Sub(d.StartTime) }

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>showsort report — {{.Job.ID}}</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#121212;color:#e0e0e0;padding:20px}
.container{max-width:1100px;margin:0 auto;background:#1e1e1e;border-radius:8px;padding:30px}
h1{border-bottom:3px solid #5dade2;padding-bottom:10px}
h2{color:#b0b0b0;border-left:4px solid #5dade2;padding-left:15px;margin-top:30px}
table{width:100%;border-collapse:collapse;margin-top:10px}
th,td{text-align:left;padding:6px 10px;border-bottom:1px solid #333}
.status-moved{color:#58d68d}
.status-skipped,.status-error,.status-timeout{color:#e74c3c}
</style>
</head>
<body>
<div class="container">
<h1>showsort report</h1>
<p>Job {{.Job.ID}} — {{if .DryRun}}dry run{{else}}executed{{end}} — {{.Job.Status}}</p>
<p>{{.Job.InputDir}} &rarr; {{.Job.OutputDir}}</p>
<p>Duration: {{.Duration}}</p>

<h2>Statistics</h2>
<table>
{{range $k, $v := .Job.Stats}}<tr><td>{{$k}}</td><td>{{$v}}</td></tr>
{{end}}
</table>

<h2>Processed shows</h2>
<table>
<tr><th>Show</th><th>Category</th><th>Seasons</th></tr>
{{range .Job.ProcessedShows}}<tr><td>{{.Name}}</td><td>{{.Category}}</td><td>{{len .Seasons}}</td></tr>
{{end}}
</table>

<h2>Episodes</h2>
<table>
<tr><th>Show</th><th>Season</th><th>Episode</th><th>Video</th><th>Audio</th></tr>
{{range $show := .Job.ProcessedShows}}{{range $season := $show.Seasons}}{{range $ep := $season.Episodes}}<tr><td>{{$show.Name}}</td><td>{{$season.Number}}</td><td>{{$ep.Number}}</td><td>{{$ep.VideoCodec}}</td><td>{{$ep.AudioCodec}}</td></tr>
{{end}}{{end}}{{end}}
</table>

<h2>Unprocessed shows</h2>
<table>
<tr><th>Folder</th><th>Reason</th></tr>
{{range .Job.UnprocessedShows}}<tr><td>{{.FolderName}}</td><td>{{.Reason}}</td></tr>
{{end}}
</table>

{{if .Job.Error}}<h2>Error</h2><p>{{.Job.Error}}</p>{{end}}
</div>
</body>
</html>
`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// Write renders the report for data to w.
func Write(w io.Writer, data Data) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}
