package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	duesapp "github.com/asociacion/backend/internal/application/dues"
	memberapp "github.com/asociacion/backend/internal/application/member"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupMemberHandler() (*MemberHandler, *MockMemberRepository) {
	memberRepo := new(MockMemberRepository)
	dueRepo := new(MockDueRecordRepository)
	batchRepo := new(MockBatchRepository)
	logger := zap.NewNop()

	service := memberapp.NewService(memberRepo, logger)
	reconciliation := duesapp.NewReconciliationService(batchRepo, dueRepo, memberRepo, logger)

	return NewMemberHandler(service, reconciliation), memberRepo
}

func TestMemberHandler_List_Success(t *testing.T) {
	handler, memberRepo := setupMemberHandler()

	socio := createTestMember(t, "Carlos")
	memberRepo.On("FindAll", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return([]member.Member{*socio}, nil)
	memberRepo.On("Count", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return(int64(1), nil)

	router := setupTestRouter()
	router.GET("/socios", handler.List)

	req := httptest.NewRequest("GET", "/socios", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Carlos")
	memberRepo.AssertExpectations(t)
}

func TestMemberHandler_List_InvalidPageSize(t *testing.T) {
	handler, memberRepo := setupMemberHandler()

	router := setupTestRouter()
	router.GET("/socios", handler.List)

	req := httptest.NewRequest("GET", "/socios?page_size=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	memberRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestMemberHandler_Export_FullRoster(t *testing.T) {
	handler, memberRepo := setupMemberHandler()

	socio := createTestMember(t, "Carlos")
	// Exports fetch everything in one unpaginated query.
	memberRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f member.Filter) bool {
		return f.Page == 0 && f.PageSize == 0
	})).Return([]member.Member{*socio}, nil)
	memberRepo.On("Count", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return(int64(1), nil)

	router := setupTestRouter()
	router.GET("/socios/export", handler.Export)

	req := httptest.NewRequest("GET", "/socios/export?formato=xlsx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Socios_")
	assert.NotEmpty(t, w.Body.Bytes())
	memberRepo.AssertExpectations(t)
}

func TestMemberHandler_Export_PDF(t *testing.T) {
	handler, memberRepo := setupMemberHandler()

	socio := createTestMember(t, "Carlos")
	memberRepo.On("FindAll", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return([]member.Member{*socio}, nil)
	memberRepo.On("Count", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return(int64(1), nil)

	router := setupTestRouter()
	router.GET("/socios/export", handler.Export)

	req := httptest.NewRequest("GET", "/socios/export?formato=pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".pdf")
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestMemberHandler_Export_InvalidFormat(t *testing.T) {
	handler, memberRepo := setupMemberHandler()

	memberRepo.On("FindAll", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return([]member.Member{}, nil)
	memberRepo.On("Count", mock.Anything, mock.AnythingOfType("member.Filter")).
		Return(int64(0), nil)

	router := setupTestRouter()
	router.GET("/socios/export", handler.Export)

	req := httptest.NewRequest("GET", "/socios/export?formato=csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
