package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF draws a built Document onto an A4 page and returns the PDF bytes.
func RenderPDF(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	// Issuer header
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41) // Dark gray
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, doc.Issuer.BusinessName)
	pdf.Ln(8)

	if doc.Issuer.DJName != "" && doc.Issuer.DJName != doc.Issuer.BusinessName {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, doc.Issuer.DJName)
		pdf.Ln(6)
	}
	pdf.Ln(5)

	// Invoice details
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", doc.Meta.Number))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", doc.Meta.IssuedDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Due: %s", doc.Meta.DueDate.Format("02-Jan-2006")))
	pdf.Ln(12)

	// Billing information section
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, doc.BillTo.ClientName)
	pdf.Ln(6)
	if doc.BillTo.ClientEmail != "" {
		pdf.Cell(0, 6, doc.BillTo.ClientEmail)
		pdf.Ln(6)
	}
	if doc.BillTo.ClientPhone != "" {
		pdf.Cell(0, 6, doc.BillTo.ClientPhone)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Service summary, wrapped to the document's text width
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(doc.MaxTextWidth, 6, doc.ServiceDescription, "", "L", false)
	pdf.Ln(6)

	// Items table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240) // Light gray background

	headers := []string{"Description", "Qty", "Rate", "Amount"}
	colWidths := []float64{80, 20, 30, 40}

	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	for _, item := range doc.Items {
		pdf.CellFormat(colWidths[0], 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%g", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, FormatAmount(item.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, FormatAmount(item.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	// Single implicit line when the invoice carries no itemization
	if len(doc.Items) == 0 {
		pdf.CellFormat(colWidths[0], 8, doc.ServiceDescription, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, "1", "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, doc.LineTotal, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, doc.LineTotal, "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(5)

	// Total
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, doc.LineTotal, "", 0, "R", false, 0, "")
	pdf.Ln(10)

	// Payment details
	if doc.PaymentTerms != "" || doc.PaymentInstructions != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Payment Details:")
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 8)
		if doc.PaymentTerms != "" {
			pdf.MultiCell(doc.MaxTextWidth, 5, fmt.Sprintf("Terms: %s", doc.PaymentTerms), "", "L", false)
		}
		if doc.PaymentInstructions != "" {
			pdf.MultiCell(doc.MaxTextWidth, 5, doc.PaymentInstructions, "", "L", false)
		}
		pdf.Ln(4)
	}

	// Notes
	if doc.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(doc.MaxTextWidth, 5, doc.Notes, "", "L", false)
		pdf.Ln(4)
	}

	// Footer
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128) // Gray
	pdf.Cell(0, 5, doc.Footer.ThankYou)
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("For any queries, contact: %s", doc.Footer.ContactEmail))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
