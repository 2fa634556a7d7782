package console

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/clipstream/clipstream/internal/controller"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"isVideo":   func(b controller.Block) bool { return b.Kind == controller.BlockVideo },
	"isMessage": func(b controller.Block) bool { return b.Kind == controller.BlockMessage },
	"isHeading": func(b controller.Block) bool { return b.Kind == controller.BlockHeading },
	"isTopic":   func(b controller.Block) bool { return b.Kind == controller.BlockTopic },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="clips">
{{- range .View.Blocks}}
{{- if isVideo .}}
<video src="{{.Src}}" controls style="width: 100%; max-width: 400px; margin-bottom: 10px;"></video>
{{- else if isMessage .}}
<p>{{.Text}}</p>
{{- else if isHeading .}}
<h3>{{.Text}}</h3>
{{- else if isTopic .}}
<p><strong>{{.Label}}</strong>: {{.Description}}</p>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

// WriteReport renders v as a standalone HTML page with one player per clip.
func WriteReport(w io.Writer, title string, v controller.View) error {
	return reportTemplate.Execute(w, struct {
		Title string
		View  controller.View
	}{Title: title, View: v})
}

// SaveReport writes the report to path.
func SaveReport(path, title string, v controller.View) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteReport(f, title, v); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}
