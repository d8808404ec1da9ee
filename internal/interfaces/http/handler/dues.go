package handler

import (
	"time"

	duesapp "github.com/asociacion/backend/internal/application/dues"
	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/asociacion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueHandler handles individual due record API endpoints
type DueHandler struct {
	BaseHandler
	dueService *duesapp.DueService
}

// NewDueHandler creates a new DueHandler
func NewDueHandler(dueService *duesapp.DueService) *DueHandler {
	return &DueHandler{dueService: dueService}
}

// PeriodRequest represents a billing period in request bodies
// @Description Billing period as a Spanish month name and a year
type PeriodRequest struct {
	Month string `json:"mes" binding:"required" example:"Enero"`
	Year  int    `json:"anio" binding:"required,min=2000,max=2100" example:"2024"`
}

// CreateDueRequest represents a request to register a single due record
// @Description Request body for registering a payment outside the bulk workflow
type CreateDueRequest struct {
	MemberID string        `json:"socio_id" binding:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174001"`
	Concept  string        `json:"concepto" binding:"required,min=1,max=200" example:"Cuota Enero 2024"`
	Type     string        `json:"tipo" binding:"required,oneof=cuota_mensual extraordinario multa otro" example:"cuota_mensual"`
	Period   PeriodRequest `json:"periodo" binding:"required"`
	Amount   float64       `json:"monto" binding:"gte=0" example:"50.00"`
	Date     time.Time     `json:"fecha" binding:"required" example:"2024-01-15T00:00:00Z"`
	Comment  string        `json:"comentario" binding:"max=500" example:"Pagó en efectivo"`
}

// UpdateDueRequest represents a request to revise a due record
// @Description Request body for revising a payment's amount, date, or comment
type UpdateDueRequest struct {
	Amount  float64   `json:"monto" binding:"gte=0" example:"60.00"`
	Date    time.Time `json:"fecha" binding:"required" example:"2024-01-20T00:00:00Z"`
	Comment string    `json:"comentario" binding:"max=500" example:"Pagó con recargo"`
}

// List godoc
// @ID           listDues
// @Summary      List due records
// @Tags         aportes
// @Produce      json
// @Success      200 {object} APIResponse[[]DueRecordResponse]
// @Router       /aportes [get]
func (h *DueHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := toSharedFilter(listReq)
	if estado := c.Query("estado"); estado != "" {
		filter.Filters["status"] = estado
	}
	if socioID := c.Query("socio_id"); socioID != "" {
		filter.Filters["member_id"] = socioID
	}
	if mes := c.Query("mes"); mes != "" {
		filter.Filters["period_month"] = mes
	}
	if anio := c.Query("anio"); anio != "" {
		filter.Filters["period_year"] = anio
	}

	records, err := h.dueService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDueRecordResponses(records))
}

// ListByMember godoc
// @ID           listMemberDues
// @Summary      List one member's payment history
// @Tags         aportes
// @Produce      json
// @Success      200 {object} APIResponse[[]DueRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /socios/{id}/aportes [get]
func (h *DueHandler) ListByMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	records, err := h.dueService.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDueRecordResponses(records))
}

// Get godoc
// @ID           getDue
// @Summary      Get one due record
// @Tags         aportes
// @Produce      json
// @Success      200 {object} APIResponse[DueRecordResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /aportes/{id} [get]
func (h *DueHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due record ID")
		return
	}

	record, err := h.dueService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDueRecordResponse(record))
}

// Create godoc
// @ID           createDue
// @Summary      Register a single payment
// @Tags         aportes
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[DueRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /aportes [post]
func (h *DueHandler) Create(c *gin.Context) {
	var req CreateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	record, err := h.dueService.Create(c.Request.Context(), duesapp.CreateDueRequest{
		MemberID: memberID,
		Concept:  req.Concept,
		Type:     dues.DueType(req.Type),
		Period:   valueobject.Period{Month: req.Period.Month, Year: req.Period.Year},
		Amount:   decimal.NewFromFloat(req.Amount),
		Date:     req.Date,
		Comment:  req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToDueRecordResponse(record))
}

// Update godoc
// @ID           updateDue
// @Summary      Revise a payment
// @Tags         aportes
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[DueRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /aportes/{id} [put]
func (h *DueHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due record ID")
		return
	}

	var req UpdateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.dueService.Update(c.Request.Context(), id, duesapp.UpdateChildRequest{
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
// @ID           deleteDue
// @Summary      Delete a payment and reverse its ledger effect
// @Tags         aportes
// @Produce      json
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /aportes/{id} [delete]
func (h *DueHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due record ID")
		return
	}

	if err := h.dueService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
