package handler

import "github.com/asociacion/backend/internal/domain/member"

// MemberResponse represents a member in API responses
// @Description Member details returned by the API
type MemberResponse struct {
	ID        string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FirstName string  `json:"nombre" example:"Carlos"`
	LastName  string  `json:"apellidos" example:"García Quispe"`
	Document  string  `json:"dni" example:"44556677"`
	Lot       string  `json:"lote" example:"A-12"`
	Status    string  `json:"estado" example:"activo" enums:"activo,inactivo"`
	Quota     float64 `json:"cuota" example:"50.00"`
	PaidTotal float64 `json:"pagado" example:"350.00"`
	Balance   float64 `json:"saldo" example:"-300.00"`
	CreatedAt string  `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt string  `json:"updated_at" example:"2026-01-24T12:00:00Z"`
}

// ToMemberResponse converts a domain member to its API representation
func ToMemberResponse(m *member.Member) MemberResponse {
	quota, _ := m.Quota.Float64()
	paid, _ := m.PaidTotal.Float64()
	balance, _ := m.Quota.Sub(m.PaidTotal).Float64()
	return MemberResponse{
		ID:        m.ID.String(),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Document:  m.Document,
		Lot:       m.Lot,
		Status:    m.Status.String(),
		Quota:     quota,
		PaidTotal: paid,
		Balance:   balance,
		CreatedAt: m.CreatedAt.Format(timeFormat),
		UpdatedAt: m.UpdatedAt.Format(timeFormat),
	}
}

// ToMemberResponses converts a slice of domain members
func ToMemberResponses(members []member.Member) []MemberResponse {
	result := make([]MemberResponse, len(members))
	for i := range members {
		result[i] = ToMemberResponse(&members[i])
	}
	return result
}
