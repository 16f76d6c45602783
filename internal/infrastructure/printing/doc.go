// Package printing renders sales reports to PDF.
//
// Report data is bound to an embedded html/template document by the
// TemplateEngine and the resulting HTML is printed by a headless Chrome
// through the Chrome DevTools Protocol (ChromedpRenderer). A remote browser
// can be used by setting ChromedpConfig.RemoteURL, which is the usual setup
// in containers:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    return err
//	}
//	printer, err := NewReportPrinter(renderer, NewTemplateEngine(), ReportPrinterOptions{})
//	if err != nil {
//	    return err
//	}
//	pdf, err := printer.PrintSalesReport(ctx, doc)
package printing
