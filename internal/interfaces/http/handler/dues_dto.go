package handler

import (
	duesapp "github.com/asociacion/backend/internal/application/dues"
	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
)

// DueRecordResponse represents a due record in API responses
// @Description Due record payment information
type DueRecordResponse struct {
	ID        string             `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	MemberID  string             `json:"socio_id" example:"123e4567-e89b-12d3-a456-426614174001"`
	BatchID   *string            `json:"registro_masivo_id,omitempty"`
	Concept   string             `json:"concepto" example:"Cuota Enero 2024"`
	Type      string             `json:"tipo" example:"cuota_mensual"`
	Period    valueobject.Period `json:"periodo"`
	Amount    float64            `json:"monto" example:"50.00"`
	Date      string             `json:"fecha" example:"2024-01-15T00:00:00Z"`
	Status    string             `json:"estado" example:"pagado"`
	Comment   string             `json:"comentario" example:"Pagó en efectivo"`
	CreatedAt string             `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt string             `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// ToDueRecordResponse converts a domain due record to its response representation
func ToDueRecordResponse(r *dues.DueRecord) DueRecordResponse {
	amount, _ := r.Amount.Float64()
	resp := DueRecordResponse{
		ID:        r.ID.String(),
		MemberID:  r.MemberID.String(),
		Concept:   r.Concept,
		Type:      string(r.Type),
		Period:    r.Period,
		Amount:    amount,
		Date:      r.Date.Format(timeFormat),
		Status:    string(r.Status),
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(timeFormat),
		UpdatedAt: r.UpdatedAt.Format(timeFormat),
	}
	if r.BatchID != nil {
		id := r.BatchID.String()
		resp.BatchID = &id
	}
	return resp
}

// ToDueRecordResponses converts a slice of domain due records to response representations
func ToDueRecordResponses(records []dues.DueRecord) []DueRecordResponse {
	responses := make([]DueRecordResponse, len(records))
	for i := range records {
		responses[i] = ToDueRecordResponse(&records[i])
	}
	return responses
}

// BatchTotalsResponse represents denormalized batch totals
// @Description Aggregate counters for one bulk registration batch
type BatchTotalsResponse struct {
	Records     int     `json:"total_registros" example:"25"`
	Paid        int     `json:"total_pagados" example:"18"`
	Pending     int     `json:"total_pendientes" example:"7"`
	TotalAmount float64 `json:"total_monto" example:"900.00"`
}

func toBatchTotalsResponse(t dues.BatchTotals) BatchTotalsResponse {
	amount, _ := t.TotalAmount.Float64()
	return BatchTotalsResponse{
		Records:     t.Records,
		Paid:        t.Paid,
		Pending:     t.Pending,
		TotalAmount: amount,
	}
}

// BatchResponse represents a bulk registration batch header in API responses
// @Description Bulk registration batch header with totals
type BatchResponse struct {
	ID          string              `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Concept     string              `json:"concepto" example:"Cuota Enero 2024"`
	Type        string              `json:"tipo" example:"cuota_mensual"`
	Period      valueobject.Period  `json:"periodo"`
	BaseAmount  float64             `json:"monto_base" example:"50.00"`
	DefaultDate string              `json:"fecha_defecto" example:"2024-01-15T00:00:00Z"`
	CreatedBy   string              `json:"creado_por" example:"Administrador"`
	Totals      BatchTotalsResponse `json:"totales"`
	CreatedAt   string              `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   string              `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// ToBatchResponse converts a domain batch to its response representation
func ToBatchResponse(b *dues.Batch) BatchResponse {
	baseAmount, _ := b.BaseAmount.Float64()
	return BatchResponse{
		ID:          b.ID.String(),
		Concept:     b.Concept,
		Type:        string(b.Type),
		Period:      b.Period,
		BaseAmount:  baseAmount,
		DefaultDate: b.DefaultDate.Format(timeFormat),
		CreatedBy:   b.CreatedByName,
		Totals:      toBatchTotalsResponse(b.Totals),
		CreatedAt:   b.CreatedAt.Format(timeFormat),
		UpdatedAt:   b.UpdatedAt.Format(timeFormat),
	}
}

// ToBatchResponses converts a slice of domain batches to response representations
func ToBatchResponses(batches []dues.Batch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses
}

// ChildRecordResponse represents a batch child record joined with member data
// @Description Due record within a batch, enriched with the member's name and lot
type ChildRecordResponse struct {
	DueRecordResponse
	MemberName     string `json:"socio_nombre" example:"Carlos García"`
	MemberDocument string `json:"socio_dni" example:"44556677"`
	MemberLot      string `json:"socio_lote" example:"A-12"`
}

// BatchDetailResponse represents a batch header together with its child records
// @Description Batch header plus every due record it created
type BatchDetailResponse struct {
	Batch    BatchResponse         `json:"registro_masivo"`
	Children []ChildRecordResponse `json:"aportes"`
}

// ToBatchDetailResponse converts a batch detail view to its response representation
func ToBatchDetailResponse(detail *duesapp.BatchDetail) BatchDetailResponse {
	children := make([]ChildRecordResponse, len(detail.Children))
	for i := range detail.Children {
		children[i] = ChildRecordResponse{
			DueRecordResponse: ToDueRecordResponse(&detail.Children[i].Record),
			MemberName:        detail.Children[i].MemberName,
			MemberDocument:    detail.Children[i].MemberDocument,
			MemberLot:         detail.Children[i].MemberLot,
		}
	}
	return BatchDetailResponse{
		Batch:    ToBatchResponse(&detail.Batch),
		Children: children,
	}
}

// DuplicateCandidateResponse represents one advisory duplicate match
// @Description Existing due record that matches a member and period being registered
type DuplicateCandidateResponse struct {
	RecordID   string             `json:"aporte_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	MemberID   string             `json:"socio_id" example:"123e4567-e89b-12d3-a456-426614174001"`
	MemberName string             `json:"socio_nombre" example:"Carlos García"`
	Concept    string             `json:"concepto" example:"Cuota Enero 2024"`
	Period     valueobject.Period `json:"periodo"`
	Amount     float64            `json:"monto" example:"50.00"`
	Status     string             `json:"estado" example:"pagado"`
}

// ToDuplicateCandidateResponses converts duplicate candidates to response representations
func ToDuplicateCandidateResponses(candidates []duesapp.DuplicateCandidate) []DuplicateCandidateResponse {
	responses := make([]DuplicateCandidateResponse, len(candidates))
	for i, c := range candidates {
		amount, _ := c.Amount.Float64()
		responses[i] = DuplicateCandidateResponse{
			RecordID:   c.RecordID.String(),
			MemberID:   c.MemberID.String(),
			MemberName: c.MemberName,
			Concept:    c.Concept,
			Period:     c.Period,
			Amount:     amount,
			Status:     string(c.Status),
		}
	}
	return responses
}

// BatchResultResponse represents the outcome of committing a bulk registration
// @Description Created batch identifier, its totals, and the wizard summary
type BatchResultResponse struct {
	BatchID string              `json:"registro_masivo_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Totals  BatchTotalsResponse `json:"totales"`
	Summary SummaryResponse     `json:"resumen"`
}

// SummaryResponse represents the confirmation summary of a bulk registration
// @Description Counts shown on the wizard confirmation step
type SummaryResponse struct {
	Selected           int     `json:"seleccionados" example:"25"`
	Unselected         int     `json:"no_seleccionados" example:"3"`
	TotalAmount        float64 `json:"total_monto" example:"1250.00"`
	WithComments       int     `json:"con_comentarios" example:"4"`
	DuplicatesExcluded int     `json:"duplicados" example:"1"`
}

// ToBatchResultResponse converts a batch creation result to its response representation
func ToBatchResultResponse(result *duesapp.BatchResult) BatchResultResponse {
	summaryAmount, _ := result.Summary.TotalAmount.Float64()
	return BatchResultResponse{
		BatchID: result.BatchID.String(),
		Totals:  toBatchTotalsResponse(result.Totals),
		Summary: SummaryResponse{
			Selected:           result.Summary.Selected,
			Unselected:         result.Summary.Unselected,
			TotalAmount:        summaryAmount,
			WithComments:       result.Summary.WithComments,
			DuplicatesExcluded: result.Summary.DuplicatesExcluded,
		},
	}
}
