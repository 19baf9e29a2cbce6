package enclose

import (
	"path/filepath"
)

// ExampleFileName is the name of the sample document CreateExampleMarkdown writes.
const ExampleFileName = "invoice_example.md"

// exampleInvoice is a small invoice with headings, a table and a list.
// Lines ending in two spaces are hard breaks.
const exampleInvoice = `# Invoice Example

## Invoice #INV-2025-001

**Date:** June 25, 2025  
**Due Date:** July 25, 2025

### Bill To:
**Customer Name:** John Smith  
**Address:** 123 Main Street  
**City:** New York, NY 10001

### Services Provided:

| Item | Description | Quantity | Rate | Amount |
|------|-------------|----------|------|--------|
| 1 | Web Development | 40 hrs | $100/hr | $4,000 |
| 2 | Design Services | 20 hrs | $80/hr | $1,600 |
| 3 | Consultation | 10 hrs | $120/hr | $1,200 |

### Summary:
- **Subtotal:** $6,800
- **Tax (8.5%):** $578
- **Total:** $7,378

### Payment Terms:
Payment is due within 30 days of invoice date.

### Notes:
Thank you for your business!
`

// CreateExampleMarkdown writes a sample invoice into the output directory
// and returns its path.
func (p *Processor) CreateExampleMarkdown() (string, error) {
	path := filepath.Join(p.cfg.outputDir, ExampleFileName)
	if err := writeOutput(path, []byte(exampleInvoice)); err != nil {
		return "", stageErr(StageMarkdownToPDF, path, ErrConversion, err)
	}
	return path, nil
}
