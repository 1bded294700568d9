// Package printing renders club reports to PDF.
//
// ReportRenderer executes the embedded HTML templates with pt-BR formatting
// helpers and hands the result to a PDFRenderer. ChromedpRenderer drives a
// headless Chrome through the DevTools protocol, either launched locally or
// reached through a remote DevTools URL.
//
//	pdf := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	defer pdf.Close()
//	renderer := NewReportRenderer(NewTemplateEngine(), pdf, ReportRendererConfig{})
//	data, err := renderer.Export(ctx, doc)
package printing
