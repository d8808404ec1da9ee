// Package export renders member rosters and bulk registration batches as
// downloadable XLSX and PDF documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// MembersXLSX renders the member roster as an XLSX workbook.
func MembersXLSX(members []member.Member) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Socios"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Nombre", "Apellidos", "DNI", "Lote", "Estado", "Cuota Mensual", "Total Pagado", "Saldo Pendiente"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, m := range members {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.FirstName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.LastName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Document)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Lot)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Status.String())
		quota, _ := m.Quota.Float64()
		paid, _ := m.PaidTotal.Float64()
		balance, _ := m.Quota.Sub(m.PaidTotal).Float64()
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), quota)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), paid)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), balance)
	}

	_ = f.SetColWidth(sheet, "A", "B", 20)
	_ = f.SetColWidth(sheet, "C", "E", 12)
	_ = f.SetColWidth(sheet, "F", "H", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BatchXLSX renders a bulk registration batch as an XLSX workbook with a
// summary sheet and one row per child due record. memberNames maps member
// IDs to display names for the join.
func BatchXLSX(batch *dues.Batch, children []dues.DueRecord, memberNames map[uuid.UUID]string) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "Resumen"
	detailSheet := "Aportes"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Registro Masivo de Aportes")
	_ = f.SetCellValue(summarySheet, "A3", "Concepto")
	_ = f.SetCellValue(summarySheet, "B3", batch.Concept)
	_ = f.SetCellValue(summarySheet, "A4", "Tipo")
	_ = f.SetCellValue(summarySheet, "B4", batch.Type.DisplayName())
	_ = f.SetCellValue(summarySheet, "A5", "Periodo")
	_ = f.SetCellValue(summarySheet, "B5", fmt.Sprintf("%s %d", batch.Period.Month, batch.Period.Year))
	_ = f.SetCellValue(summarySheet, "A6", "Creado por")
	_ = f.SetCellValue(summarySheet, "B6", batch.CreatedByName)
	_ = f.SetCellValue(summarySheet, "A7", "Total registros")
	_ = f.SetCellValue(summarySheet, "B7", batch.Totals.Records)
	_ = f.SetCellValue(summarySheet, "A8", "Pagados")
	_ = f.SetCellValue(summarySheet, "B8", batch.Totals.Paid)
	_ = f.SetCellValue(summarySheet, "A9", "Pendientes")
	_ = f.SetCellValue(summarySheet, "B9", batch.Totals.Pending)
	total, _ := batch.Totals.TotalAmount.Float64()
	_ = f.SetCellValue(summarySheet, "A10", "Monto total (S/)")
	_ = f.SetCellValue(summarySheet, "B10", total)

	headers := []string{"Socio", "Fecha", "Monto (S/)", "Estado", "Comentario"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(detailSheet, cell, h)
	}
	for i, c := range children {
		row := i + 2
		name := memberNames[c.MemberID]
		if name == "" {
			name = c.MemberID.String()
		}
		amount, _ := c.Amount.Float64()
		_ = f.SetCellValue(detailSheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(detailSheet, fmt.Sprintf("B%d", row), c.Date.Format("02/01/2006"))
		_ = f.SetCellValue(detailSheet, fmt.Sprintf("C%d", row), amount)
		_ = f.SetCellValue(detailSheet, fmt.Sprintf("D%d", row), c.Status.String())
		_ = f.SetCellValue(detailSheet, fmt.Sprintf("E%d", row), c.Comment)
	}

	_ = f.SetColWidth(detailSheet, "A", "A", 30)
	_ = f.SetColWidth(detailSheet, "B", "D", 14)
	_ = f.SetColWidth(detailSheet, "E", "E", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
