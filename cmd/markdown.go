package cmd

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// printMarkdown renders markdown for the terminal on stdout.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// renderMarkdown styles markdown for the terminal. It falls back to the raw
// text when it cannot be styled.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// writeHTML converts the markdown report into a standalone HTML page. When
// image is not empty, the chart is embedded after the title.
func writeHTML(w io.Writer, title, md, image string) error {
	var body bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := conv.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("cannot convert report to html: %w", err)
	}

	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	if image != "" {
		fmt.Fprintf(w, "<img src=\"%s\" alt=\"%s\">\n", html.EscapeString(image), html.EscapeString(title))
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "</body>\n</html>\n")
	return err
}
