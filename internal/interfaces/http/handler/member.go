package handler

import (
	"fmt"
	"net/http"
	"time"

	duesapp "github.com/asociacion/backend/internal/application/dues"
	memberapp "github.com/asociacion/backend/internal/application/member"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/infrastructure/export"
	"github.com/asociacion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberHandler handles member roster API endpoints
type MemberHandler struct {
	BaseHandler
	memberService         *memberapp.Service
	reconciliationService *duesapp.ReconciliationService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *memberapp.Service, reconciliationService *duesapp.ReconciliationService) *MemberHandler {
	return &MemberHandler{
		memberService:         memberService,
		reconciliationService: reconciliationService,
	}
}

// CreateMemberRequest represents a request to register a member
// @Description Request body for registering a new member
type CreateMemberRequest struct {
	FirstName string  `json:"nombre" binding:"required,min=1,max=100" example:"Carlos"`
	LastName  string  `json:"apellidos" binding:"max=100" example:"García Quispe"`
	Document  string  `json:"dni" binding:"required,min=1,max=20" example:"44556677"`
	Lot       string  `json:"lote" binding:"max=20" example:"A-12"`
	Quota     float64 `json:"cuota" binding:"gte=0" example:"50.00"`
}

// UpdateMemberRequest represents a request to edit a member
// @Description Request body for editing a member
type UpdateMemberRequest struct {
	FirstName *string  `json:"nombre" binding:"omitempty,min=1,max=100"`
	LastName  *string  `json:"apellidos" binding:"omitempty,max=100"`
	Lot       *string  `json:"lote" binding:"omitempty,max=20"`
	Quota     *float64 `json:"cuota" binding:"omitempty,gte=0"`
	Status    *string  `json:"estado" binding:"omitempty,oneof=activo inactivo"`
}

// List godoc
// @ID           listMembers
// @Summary      List members
// @Tags         socios
// @Produce      json
// @Success      200 {object} APIResponse[[]MemberResponse]
// @Router       /socios [get]
func (h *MemberHandler) List(c *gin.Context) {
	filter, err := memberFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToMemberResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getMember
// @Summary      Get one member
// @Tags         socios
// @Produce      json
// @Success      200 {object} APIResponse[MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /socios/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	m, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

// Create godoc
// @ID           createMember
// @Summary      Register a new member
// @Tags         socios
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /socios [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	m, err := h.memberService.Create(c.Request.Context(), memberapp.CreateMemberInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Document:  req.Document,
		Lot:       req.Lot,
		Quota:     decimal.NewFromFloat(req.Quota),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToMemberResponse(m))
}

// Update godoc
// @ID           updateMember
// @Summary      Edit a member
// @Tags         socios
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /socios/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := memberapp.UpdateMemberInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Lot:       req.Lot,
	}
	if req.Quota != nil {
		d := decimal.NewFromFloat(*req.Quota)
		input.Quota = &d
	}
	if req.Status != nil {
		s := member.Status(*req.Status)
		input.Status = &s
	}

	m, err := h.memberService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

// ListDelinquent godoc
// @ID           listDelinquentMembers
// @Summary      List members behind on their quota
// @Tags         socios
// @Produce      json
// @Success      200 {object} APIResponse[[]MemberResponse]
// @Router       /socios/morosos [get]
func (h *MemberHandler) ListDelinquent(c *gin.Context) {
	members, err := h.memberService.ListDelinquent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponses(members))
}

// Export godoc
// @ID           exportMembers
// @Summary      Export the member roster as XLSX or PDF
// @Tags         socios
// @Produce      application/octet-stream
// @Param        formato query string false "xlsx or pdf" default(xlsx)
// @Router       /socios/export [get]
func (h *MemberHandler) Export(c *gin.Context) {
	filter, err := memberFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	// Exports cover the whole roster, not a page of it.
	filter.Page = 0
	filter.PageSize = 0

	result, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch c.DefaultQuery("formato", "xlsx") {
	case "pdf":
		title := "LISTA COMPLETA DE SOCIOS"
		if filter.Status != nil {
			if *filter.Status == member.StatusActive {
				title = "LISTA DE SOCIOS ACTIVOS"
			} else {
				title = "LISTA DE SOCIOS INACTIVOS"
			}
		}
		data, err := export.MembersPDF(result.Items, title)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		sendAttachment(c, data, "application/pdf",
			fmt.Sprintf("Socios_%s.pdf", time.Now().Format("2006-01-02")))

	case "xlsx":
		data, err := export.MembersXLSX(result.Items)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		sendAttachment(c, data,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("Socios_%s.xlsx", time.Now().Format("2006-01-02")))

	default:
		h.BadRequest(c, "formato must be 'xlsx' or 'pdf'")
	}
}

// ReconcileBalance godoc
// @ID           reconcileMemberBalance
// @Summary      Recompute a member's paid total from their payment history
// @Tags         socios
// @Produce      json
// @Success      200 {object} APIResponse[MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /socios/{id}/reconciliar [post]
func (h *MemberHandler) ReconcileBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	m, err := h.reconciliationService.ReconcileMemberBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

func memberFilterFromQuery(c *gin.Context) (member.Filter, error) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		return member.Filter{}, err
	}

	filter := member.Filter{Filter: toSharedFilter(listReq)}

	if estado := c.Query("estado"); estado != "" {
		s := member.Status(estado)
		if s.IsValid() {
			filter.Status = &s
		}
	}
	return filter, nil
}

func sendAttachment(c *gin.Context, data []byte, contentType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
