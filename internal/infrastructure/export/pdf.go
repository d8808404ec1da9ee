package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	associationName     = "Asociación de Vivienda"
	associationLocation = "Lima, Perú"
)

func formatAmount(d decimal.Decimal) string {
	return "S/ " + d.StringFixed(2)
}

func addHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, associationName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, associationLocation, "", 1, "C", false, 0, "")
	pdf.Ln(3)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

// MembersPDF renders the member roster as a PDF table under the given title.
func MembersPDF(members []member.Member, title string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	addHeader(pdf, tr(title))

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, tr(fmt.Sprintf("Total de socios: %d", len(members))), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Fecha: "+time.Now().Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(55, 6, "Nombre", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "DNI", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Lote", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Cuota", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Pagado", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Estado", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, m := range members {
		pdf.CellFormat(55, 6, tr(m.FullName()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, m.Document, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, m.Lot, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatAmount(m.Quota), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, formatAmount(m.PaidTotal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, m.Status.String(), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BatchPDF renders a bulk registration batch with its child due records.
func BatchPDF(batch *dues.Batch, children []dues.DueRecord, memberNames map[uuid.UUID]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	addHeader(pdf, tr("REGISTRO MASIVO DE APORTES"))

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Concepto: "+batch.Concept), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Periodo: %s %d", batch.Period.Month, batch.Period.Year)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Tipo: "+batch.Type.DisplayName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Creado por: "+batch.CreatedByName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Registros: %d (pagados %d, pendientes %d)",
		batch.Totals.Records, batch.Totals.Paid, batch.Totals.Pending)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Monto total: "+formatAmount(batch.Totals.TotalAmount)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(60, 6, "Socio", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Fecha", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Monto", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Estado", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Comentario", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, c := range children {
		name := memberNames[c.MemberID]
		if name == "" {
			name = c.MemberID.String()
		}
		pdf.CellFormat(60, 6, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, c.Date.Format("02/01/2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatAmount(c.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, c.Status.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, tr(c.Comment), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Generado: %s", time.Now().Format("02/01/2006 15:04")),
		"", 0, "C", false, 0, "")
}
