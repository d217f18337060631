// Package document assembles the renderer-agnostic representation of an
// invoice that the PDF backend draws from. Building is pure: no I/O, no
// side effects, deterministic for a given invoice.
package document

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gigpro/internal/common"
	"gigpro/internal/models"
)

// maxTextWidthMM is the suggested wrap width hint carried on the document.
// Free text is carried unwrapped in full; wrapping is the renderer's job.
const maxTextWidthMM = 170

// footerThankYou is the fixed closing line on every invoice.
const footerThankYou = "Thank you for your business!"

type IssuerBlock struct {
	BusinessName string
	DJName       string
}

type InvoiceMeta struct {
	Number     string
	IssuedDate time.Time
	DueDate    time.Time
}

type BillTo struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
}

type Footer struct {
	ThankYou     string
	ContactEmail string
}

// Document is the structured tree handed to a rendering backend.
type Document struct {
	Issuer              IssuerBlock
	Meta                InvoiceMeta
	BillTo              BillTo
	ServiceDescription  string
	Items               []models.InvoiceItem
	LineTotal           string
	PaymentInstructions string
	PaymentTerms        string
	Notes               string
	Footer              Footer
	MaxTextWidth        float64
}

// Build assembles a Document from an invoice and its resolved relations.
// The gig is optional; the client is not, since a Bill-To section cannot be
// empty.
func Build(invoice *models.Invoice, user *models.User, client *models.Client, gig *models.Gig) (*Document, error) {
	if invoice == nil || user == nil {
		return nil, &common.InvalidDocumentError{Reason: "invoice and user are required"}
	}
	if client == nil {
		return nil, &common.InvalidDocumentError{Reason: "invoice has no client to bill"}
	}
	if math.IsNaN(invoice.Amount) || math.IsInf(invoice.Amount, 0) || invoice.Amount < 0 {
		return nil, &common.InvalidDocumentError{Reason: "invoice total is not a finite non-negative number"}
	}

	doc := &Document{
		Issuer: IssuerBlock{
			BusinessName: issuerBusinessName(user),
			DJName:       common.SafeString(user.StageName),
		},
		Meta: InvoiceMeta{
			Number:     invoice.InvoiceNumber,
			IssuedDate: invoice.IssuedDate,
			DueDate:    invoice.DueDate,
		},
		BillTo: BillTo{
			ClientName:  client.Name,
			ClientEmail: common.SafeString(client.Email),
			ClientPhone: common.SafeString(client.Phone),
		},
		ServiceDescription:  serviceDescription(gig),
		Items:               invoice.Items,
		LineTotal:           FormatAmount(invoice.Amount),
		PaymentInstructions: common.SafeString(user.PaymentInstructions),
		PaymentTerms:        common.SafeString(user.PaymentTerms),
		Notes:               common.SafeString(invoice.Notes),
		Footer: Footer{
			ThankYou:     footerThankYou,
			ContactEmail: user.Email,
		},
		MaxTextWidth: maxTextWidthMM,
	}
	return doc, nil
}

func issuerBusinessName(user *models.User) string {
	if name := common.SafeString(user.BusinessName); name != "" {
		return name
	}
	djName := common.SafeString(user.StageName)
	if djName == "" {
		djName = user.Email
	}
	return fmt.Sprintf("%s's DJ Services", djName)
}

// serviceDescription derives the one-line summary of what was performed:
// "DJ Services - {title} at {location} on {date} ({start}-{end})", dropping
// whichever parts are missing.
func serviceDescription(gig *models.Gig) string {
	var b strings.Builder
	b.WriteString("DJ Services")
	if gig == nil {
		return b.String()
	}
	if gig.Title != "" {
		b.WriteString(" - ")
		b.WriteString(gig.Title)
	}
	if loc := common.SafeString(gig.Location); loc != "" {
		b.WriteString(" at ")
		b.WriteString(loc)
	}
	if !gig.Date.IsZero() {
		b.WriteString(" on ")
		b.WriteString(gig.Date.Format("Jan 2, 2006"))
	}
	start := common.SafeString(gig.StartTime)
	end := common.SafeString(gig.EndTime)
	if start != "" && end != "" {
		b.WriteString(fmt.Sprintf(" (%s-%s)", start, end))
	}
	return b.String()
}

// FormatAmount renders a currency amount to two decimal places.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
