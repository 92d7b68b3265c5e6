package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/service"
)

const (
	dateLayout = "02 Jan 2006"
	lineHeight = 6.0
)

// AgreementRenderer lays out a rental agreement on A4 pages.
type AgreementRenderer struct {
	now func() time.Time
}

var _ service.AgreementRenderer = (*AgreementRenderer)(nil)

func NewAgreementRenderer() *AgreementRenderer {
	return &AgreementRenderer{now: time.Now}
}

func (r *AgreementRenderer) ContentType() string {
	return "application/pdf"
}

func (r *AgreementRenderer) Render(data service.AgreementData) ([]byte, error) {
	if data.Rental == nil || data.Land == nil {
		return nil, fmt.Errorf("agreement needs a rental and a land")
	}

	doc := r.build(data)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render agreement: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write agreement: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *AgreementRenderer) build(data service.AgreementData) *fpdf.Fpdf {
	rental, land := data.Rental, data.Land
	generated := r.now()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(generated)
	doc.SetTitle("Land Rental Agreement "+rental.ID, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "LAND RENTAL AGREEMENT", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	line(doc, "Agreement Date: "+generated.Format(dateLayout))
	line(doc, "Agreement ID: "+rental.ID)
	doc.Ln(3)

	heading(doc, "PARTIES")
	line(doc, "Landowner: "+partyName(data.Landowner, rental.LandownerID))
	line(doc, "Farmer: "+partyName(data.Farmer, rental.FarmerID))
	doc.Ln(3)

	heading(doc, "LAND DETAILS")
	line(doc, "Land Title: "+land.Title)
	line(doc, "Location: "+joinNonEmpty(land.Address.Village, land.Address.City, land.Address.District, land.Address.State))
	line(doc, fmt.Sprintf("Total Acres: %s", acres(land.TotalAcres)))
	line(doc, fmt.Sprintf("Rented Acres: %s", acres(rental.RentedAcres)))
	line(doc, "Price per Acre (monthly): "+money(rental.PricePerAcre))
	doc.Ln(3)

	heading(doc, "RENTAL TERMS")
	line(doc, "Start Date: "+rental.StartDate.Format(dateLayout))
	line(doc, "End Date: "+rental.EndDate.Format(dateLayout))
	line(doc, fmt.Sprintf("Duration: %d months", rental.Duration))
	line(doc, "Total Amount: "+money(rental.TotalAmount))
	line(doc, "Payment Schedule: "+rental.PaymentSchedule)
	line(doc, "Security Deposit: "+money(rental.SecurityDeposit))
	if rental.Terms.Maintenance != "" {
		line(doc, "Maintenance: "+rental.Terms.Maintenance)
	}
	if rental.Terms.Utilities != "" {
		line(doc, "Utilities: "+rental.Terms.Utilities)
	}
	doc.Ln(3)

	heading(doc, "PAYMENT SCHEDULE")
	scheduleTable(doc, rental.Payments)
	doc.Ln(3)

	if len(rental.Terms.CropsAllowed) > 0 {
		heading(doc, "ALLOWED CROPS")
		line(doc, strings.Join(rental.Terms.CropsAllowed, ", "))
		doc.Ln(3)
	}

	if len(rental.Terms.Restrictions) > 0 {
		heading(doc, "RESTRICTIONS")
		line(doc, strings.Join(rental.Terms.Restrictions, ", "))
		doc.Ln(3)
	}

	heading(doc, "SIGNATURES")
	doc.Ln(4)
	line(doc, "Landowner: _________________")
	line(doc, "Date: _________________")
	doc.Ln(4)
	line(doc, "Farmer: _________________")
	line(doc, "Date: _________________")

	return doc
}

func scheduleTable(doc *fpdf.Fpdf, payments []entity.Installment) {
	widths := []float64{15, 50, 50, 40}
	headers := []string{"#", "Due Date", "Amount", "Status"}

	doc.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for i, p := range payments {
		doc.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], 6, p.DueDate.Format(dateLayout), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, money(p.Amount), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, p.Status, "1", 0, "L", false, 0, "")
		doc.Ln(-1)
	}
	doc.SetFont("Helvetica", "", 11)
}

func heading(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "BU", 13)
	doc.CellFormat(0, 8, text+":", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
}

func line(doc *fpdf.Fpdf, text string) {
	doc.MultiCell(0, lineHeight, text, "", "L", false)
}

func partyName(u *entity.User, fallback string) string {
	if u == nil {
		return fallback
	}
	if u.Phone != "" {
		return fmt.Sprintf("%s (%s)", u.Name, u.Phone)
	}
	return u.Name
}

func money(v float64) string {
	return fmt.Sprintf("INR %.2f", v)
}

func acres(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
