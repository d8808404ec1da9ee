package handler

import (
	"fmt"
	"time"

	duesapp "github.com/asociacion/backend/internal/application/dues"
	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/asociacion/backend/internal/infrastructure/export"
	"github.com/asociacion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchHandler handles bulk registration API endpoints
type BatchHandler struct {
	BaseHandler
	bulkService           *duesapp.BulkRegistrationService
	editorService         *duesapp.BatchEditorService
	reconciliationService *duesapp.ReconciliationService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(
	bulkService *duesapp.BulkRegistrationService,
	editorService *duesapp.BatchEditorService,
	reconciliationService *duesapp.ReconciliationService,
) *BatchHandler {
	return &BatchHandler{
		bulkService:           bulkService,
		editorService:         editorService,
		reconciliationService: reconciliationService,
	}
}

// EventRequest represents the definition of a bulk registration event
// @Description What is being charged, to be applied to every selected member
type EventRequest struct {
	Concept     string        `json:"concepto" binding:"required,min=1,max=200" example:"Cuota Enero 2024"`
	Type        string        `json:"tipo" binding:"required,oneof=cuota_mensual extraordinario multa otro" example:"cuota_mensual"`
	Period      PeriodRequest `json:"periodo" binding:"required"`
	BaseAmount  float64       `json:"monto_base" binding:"gte=0" example:"50.00"`
	DefaultDate time.Time     `json:"fecha_defecto" binding:"required" example:"2024-01-15T00:00:00Z"`
	CreatedBy   string        `json:"creado_por" binding:"max=100" example:"Administrador"`
}

// SelectionRequest represents one member row of the bulk registration grid
// @Description Per-member selection with optional amount, date and comment overrides
type SelectionRequest struct {
	MemberID string     `json:"socio_id" binding:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174001"`
	Selected bool       `json:"seleccionado" example:"true"`
	Amount   *float64   `json:"monto,omitempty" binding:"omitempty,gte=0" example:"60.00"`
	Date     *time.Time `json:"fecha,omitempty" example:"2024-01-20T00:00:00Z"`
	Comment  string     `json:"comentario" binding:"max=500" example:"Pagó la mitad"`
}

// CreateBatchRequest represents a request to register dues for many members at once
// @Description Event definition plus the per-member selection grid
type CreateBatchRequest struct {
	Event      EventRequest       `json:"evento" binding:"required"`
	Selections []SelectionRequest `json:"selecciones" binding:"required,dive"`
}

// CheckDuplicatesRequest represents a request for advisory duplicate detection
// @Description Members and period to check for already registered dues
type CheckDuplicatesRequest struct {
	MemberIDs []string      `json:"socio_ids" binding:"required,dive,uuid"`
	Period    PeriodRequest `json:"periodo" binding:"required"`
}

// UpdateChildRecordRequest represents a request to edit one record inside a batch
// @Description New amount, date and comment for a batch child record
type UpdateChildRecordRequest struct {
	Amount  float64   `json:"monto" binding:"gte=0" example:"60.00"`
	Date    time.Time `json:"fecha" binding:"required" example:"2024-01-20T00:00:00Z"`
	Comment string    `json:"comentario" binding:"max=500" example:"Corregido"`
}

// Create godoc
// @ID           createBatch
// @Summary      Register dues for many members in one atomic operation
// @Tags         registros-masivos
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[BatchResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /registros-masivos [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	selections := make([]duesapp.MemberSelection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		memberID, err := uuid.Parse(sel.MemberID)
		if err != nil {
			h.BadRequest(c, fmt.Sprintf("Invalid member ID: %s", sel.MemberID))
			return
		}
		selection := duesapp.MemberSelection{
			MemberID: memberID,
			Selected: sel.Selected,
			Comment:  sel.Comment,
			Date:     sel.Date,
		}
		if sel.Amount != nil {
			amount := decimal.NewFromFloat(*sel.Amount)
			selection.Amount = &amount
		}
		selections = append(selections, selection)
	}

	result, err := h.bulkService.CreateBatch(c.Request.Context(), duesapp.CreateBatchRequest{
		Event: duesapp.EventDefinition{
			Concept:     req.Event.Concept,
			Type:        dues.DueType(req.Event.Type),
			Period:      valueobject.Period{Month: req.Event.Period.Month, Year: req.Event.Period.Year},
			BaseAmount:  decimal.NewFromFloat(req.Event.BaseAmount),
			DefaultDate: req.Event.DefaultDate,
			CreatedBy:   req.Event.CreatedBy,
		},
		Selections: selections,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToBatchResultResponse(result))
}

// CheckDuplicates godoc
// @ID           checkBatchDuplicates
// @Summary      Find dues already registered for the given members and period
// @Tags         registros-masivos
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[[]DuplicateCandidateResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /registros-masivos/duplicados [post]
func (h *BatchHandler) CheckDuplicates(c *gin.Context) {
	var req CheckDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, fmt.Sprintf("Invalid member ID: %s", raw))
			return
		}
		memberIDs = append(memberIDs, id)
	}

	candidates, err := h.bulkService.CheckDuplicates(
		c.Request.Context(),
		memberIDs,
		valueobject.Period{Month: req.Period.Month, Year: req.Period.Year},
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDuplicateCandidateResponses(candidates))
}

// List godoc
// @ID           listBatches
// @Summary      List bulk registration batches newest first
// @Tags         registros-masivos
// @Produce      json
// @Success      200 {object} APIResponse[[]BatchResponse]
// @Router       /registros-masivos [get]
func (h *BatchHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := toSharedFilter(listReq)
	if tipo := c.Query("tipo"); tipo != "" {
		filter.Filters["type"] = tipo
	}
	if mes := c.Query("mes"); mes != "" {
		filter.Filters["period_month"] = mes
	}
	if anio := c.Query("anio"); anio != "" {
		filter.Filters["period_year"] = anio
	}

	result, err := h.editorService.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToBatchResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// GetDetail godoc
// @ID           getBatchDetail
// @Summary      Get a batch header with its child records
// @Tags         registros-masivos
// @Produce      json
// @Param        search query string false "Filter children by member name or comment"
// @Param        estado query string false "Filter children by status" Enums(pagado, pendiente)
// @Success      200 {object} APIResponse[BatchDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /registros-masivos/{id} [get]
func (h *BatchHandler) GetDetail(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	filter := duesapp.DetailFilter{Search: c.Query("search")}
	if estado := c.Query("estado"); estado != "" {
		status := dues.DueStatus(estado)
		filter.Status = &status
	}

	detail, err := h.editorService.GetBatchDetail(c.Request.Context(), batchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToBatchDetailResponse(detail))
}

// UpdateChildRecord godoc
// @ID           updateBatchChildRecord
// @Summary      Edit one record inside a batch
// @Tags         registros-masivos
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[DueRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /registros-masivos/{id}/aportes/{aporteId} [put]
func (h *BatchHandler) UpdateChildRecord(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}
	recordID, err := uuid.Parse(c.Param("aporteId"))
	if err != nil {
		h.BadRequest(c, "Invalid due record ID")
		return
	}

	var req UpdateChildRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.editorService.UpdateChildRecord(c.Request.Context(), batchID, recordID, duesapp.UpdateChildRequest{
		Amount:  decimal.NewFromFloat(req.Amount),
		Date:    req.Date,
		Comment: req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDueRecordResponse(record))
}

// Delete godoc
// @ID           deleteBatch
// @Summary      Delete a batch and reverse its ledger effect
// @Tags         registros-masivos
// @Produce      json
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /registros-masivos/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	if err := h.editorService.DeleteBatch(c.Request.Context(), batchID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReconcileTotals godoc
// @ID           reconcileBatchTotals
// @Summary      Recompute a batch's denormalized totals from its children
// @Tags         registros-masivos
// @Produce      json
// @Success      200 {object} APIResponse[BatchTotalsResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /registros-masivos/{id}/reconciliar [post]
func (h *BatchHandler) ReconcileTotals(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	totals, err := h.reconciliationService.ReconcileBatchTotals(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBatchTotalsResponse(*totals))
}

// Export godoc
// @ID           exportBatch
// @Summary      Export a batch as XLSX or PDF
// @Tags         registros-masivos
// @Produce      application/octet-stream
// @Param        formato query string false "xlsx or pdf" default(xlsx)
// @Failure      404 {object} ErrorResponse
// @Router       /registros-masivos/{id}/export [get]
func (h *BatchHandler) Export(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	detail, err := h.editorService.GetBatchDetail(c.Request.Context(), batchID, duesapp.DetailFilter{})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	children := make([]dues.DueRecord, len(detail.Children))
	memberNames := make(map[uuid.UUID]string, len(detail.Children))
	for i, child := range detail.Children {
		children[i] = child.Record
		memberNames[child.Record.MemberID] = child.MemberName
	}

	switch c.DefaultQuery("formato", "xlsx") {
	case "pdf":
		data, err := export.BatchPDF(&detail.Batch, children, memberNames)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		sendAttachment(c, data, "application/pdf",
			fmt.Sprintf("RegistroMasivo_%s.pdf", time.Now().Format("2006-01-02")))

	case "xlsx":
		data, err := export.BatchXLSX(&detail.Batch, children, memberNames)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		sendAttachment(c, data,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("RegistroMasivo_%s.xlsx", time.Now().Format("2006-01-02")))

	default:
		h.BadRequest(c, "formato must be 'xlsx' or 'pdf'")
	}
}
