package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	domainerr "github.com/ledgertriage/ledgertriage/internal/domain/error"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/handler"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/middleware"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/routes"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
	usecasemocks "github.com/ledgertriage/ledgertriage/mocks/port/usecase"
)

type fakeStore struct{ err error }

func (f fakeStore) Ping(context.Context) error { return f.err }

type fixture struct {
	router   *gin.Engine
	ops      *usecasemocks.MockOperationUseCase
	tagging  *usecasemocks.MockTaggingUseCase
	accounts *usecasemocks.MockAccountUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		router:   gin.New(),
		ops:      usecasemocks.NewMockOperationUseCase(t),
		tagging:  usecasemocks.NewMockTaggingUseCase(t),
		accounts: usecasemocks.NewMockAccountUseCase(t),
	}
	log := logger.NewNoopLogger()

	routes.SetupMiddlewares(f.router, log, nil)
	routes.SetupRoutes(f.router, routes.Handlers{
		Operations:   handler.NewOperationHandler(f.ops, f.tagging, log, 3),
		Tags:         handler.NewTagHandler(f.tagging, log),
		BankAccounts: handler.NewBankAccountHandler(f.accounts, log),
		Health:       handler.NewHealthHandler(fakeStore{}, "test", log),
	})
	return f
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListOperations(t *testing.T) {
	f := newFixture(t)
	f.ops.On("FindAll", mock.Anything).Return([]*entity.Operation{
		{ID: 2, Date: "2024-02-01", Type: "CARD", Details: "RENT", AmountInCents: -90050, Hash: "h", State: entity.StatePendingTriage, BankAccountID: 1, TagIDs: []uint64{3}},
	}, nil)

	w := f.do(http.MethodGet, "/operations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var resp []dto.OperationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "-900.50", resp[0].Amount)
	assert.Equal(t, "PendingTriage", resp[0].State)
	assert.Equal(t, []uint64{3}, resp[0].TagsIDs)
}

func TestTriageRouteDoesNotClashWithID(t *testing.T) {
	f := newFixture(t)
	f.ops.On("FindTriage", mock.Anything).Return([]*entity.Operation{}, nil)

	w := f.do(http.MethodGet, "/operations/triage", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetOperationErrors(t *testing.T) {
	f := newFixture(t)
	f.ops.On("FindByID", mock.Anything, uint64(9)).Return(nil, fmt.Errorf("%w: id 9", domainerr.ErrOperationNotFound))

	w := f.do(http.MethodGet, "/operations/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domainerr.CodeOperationNotFound, decodeError(t, w).Code)

	w = f.do(http.MethodGet, "/operations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domainerr.CodeInvalidRequest, decodeError(t, w).Code)
}

func TestInsertBatch(t *testing.T) {
	f := newFixture(t)
	f.ops.On("InsertBatch", mock.Anything, mock.MatchedBy(func(ops []*entity.Operation) bool {
		return len(ops) == 2 && ops[0].AmountInCents == -1250 && ops[1].AmountInCents == 700
	})).Return(2, nil)

	cents := int64(700)
	w := f.do(http.MethodPost, "/operations/batch", dto.OperationBatchRequest{Operations: []dto.OperationRequest{
		{Date: "2024-01-01", Type: "CARD", Amount: "-12.50", Hash: "a", BankAccountID: 1},
		{Date: "2024-01-02", Type: "TRANSFER", AmountInCents: &cents, Hash: "b", BankAccountID: 1},
	}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"inserted":2}`, w.Body.String())
}

func TestInsertBatchRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/operations/batch", dto.OperationBatchRequest{Operations: []dto.OperationRequest{
		{Date: "2024-01-01", Type: "CARD", Amount: "1.234", Hash: "a", BankAccountID: 1},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, domainerr.CodeInvalidAmount, resp.Code)
	assert.Contains(t, resp.Message, "operation #0")

	w = f.do(http.MethodPost, "/operations/batch", dto.OperationBatchRequest{Operations: make([]dto.OperationRequest, 4)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "exceeds the limit")

	f.ops.On("InsertBatch", mock.Anything, mock.Anything).
		Return(0, domainerr.NewOperationError(0, "hash", "is required", domainerr.ErrInvalidOperation)).Once()
	w = f.do(http.MethodPost, "/operations/batch", dto.OperationBatchRequest{Operations: []dto.OperationRequest{
		{Date: "2024-01-01", Type: "CARD", Amount: "1", BankAccountID: 1},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domainerr.CodeInvalidOperation, decodeError(t, w).Code)
}

func TestImport(t *testing.T) {
	f := newFixture(t)
	f.ops.On("Import", mock.Anything, mock.Anything).Return(&usecase.ImportResult{Inserted: 2, Flagged: 2, Tagged: 1}, nil)

	w := f.do(http.MethodPost, "/operations/import", dto.OperationBatchRequest{Operations: []dto.OperationRequest{
		{Date: "2024-01-01", Type: "CARD", Amount: "1", Hash: "a", BankAccountID: 1},
		{Date: "2024-01-01", Type: "CARD", Amount: "1", Hash: "a", BankAccountID: 1},
	}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"inserted":2,"flagged":2,"tagged":1}`, w.Body.String())
}

func TestRefreshCollisionsErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"conflict", domainerr.NewCollisionGroupError("h1", []string{"Ok", "PendingTriage"}), http.StatusConflict},
		{"storage", fmt.Errorf("%w: database is locked", domainerr.ErrStorageFailure), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ops.On("DetectCollisions", mock.Anything).Return(0, tt.err)

			w := f.do(http.MethodPost, "/operations/collisions/refresh", nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRefreshCollisions(t *testing.T) {
	f := newFixture(t)
	f.ops.On("DetectCollisions", mock.Anything).Return(4, nil)

	w := f.do(http.MethodPost, "/operations/collisions/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flagged":4}`, w.Body.String())
}

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t)
	f.ops.On("ResolveViaEdit", mock.Anything, uint64(5), "reviewed").
		Return(&entity.Operation{ID: 5, Details: "reviewed", State: entity.StateOk}, nil)

	w := f.do(http.MethodPut, "/operations/5/details", map[string]string{"details": "reviewed"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.OperationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ok", resp.State)
	assert.Equal(t, []uint64{}, resp.TagsIDs)

	w = f.do(http.MethodPut, "/operations/5/details", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOperation(t *testing.T) {
	f := newFixture(t)
	f.ops.On("Delete", mock.Anything, uint64(5)).Return(nil)

	w := f.do(http.MethodDelete, "/operations/5", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestApplyTagsOnOperation(t *testing.T) {
	f := newFixture(t)
	f.tagging.On("ApplyRules", mock.Anything, uint64(8)).Return(2, nil)

	w := f.do(http.MethodPost, "/operations/8/tags/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tagged":2}`, w.Body.String())
}

func TestSaveTagRule(t *testing.T) {
	f := newFixture(t)
	f.tagging.On("SaveTagRule", mock.Anything, mock.MatchedBy(func(r *entity.TagRule) bool {
		return r.Kind == entity.RuleAmountRange && r.AmountMin != nil && *r.AmountMin == -100000 && r.AmountMax == nil
	})).Return(func() *entity.TagRule {
		lo := int64(-100000)
		return &entity.TagRule{ID: 1, TagID: 2, Kind: entity.RuleAmountRange, AmountMin: &lo}
	}(), nil)

	lo := "-1000"
	w := f.do(http.MethodPost, "/tag-rules", dto.TagRuleRequest{TagID: 2, Kind: "amount_range", AmountMin: &lo})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"tag_id":2,"kind":"amount_range","amount_min":"-1000.00"}`, w.Body.String())
}

func TestSaveTagRuleMalformed(t *testing.T) {
	f := newFixture(t)
	f.tagging.On("SaveTagRule", mock.Anything, mock.Anything).
		Return(nil, domainerr.NewMalformedRuleError(0, "details_regex", "invalid pattern"))

	w := f.do(http.MethodPost, "/tag-rules", dto.TagRuleRequest{TagID: 2, Kind: "details_regex", Value: "("})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, domainerr.CodeMalformedRule, decodeError(t, w).Code)
}

func TestTagsAndRetag(t *testing.T) {
	f := newFixture(t)
	f.tagging.On("ListTags", mock.Anything).Return([]*entity.Tag{{ID: 1, Name: "rent", Color: "#f00"}}, nil)
	f.tagging.On("SaveTag", mock.Anything, &entity.Tag{Name: "food"}).Return(&entity.Tag{ID: 2, Name: "food"}, nil)
	f.tagging.On("ListTagRules", mock.Anything).Return([]*entity.TagRule{}, nil)
	f.tagging.On("RetagAll", mock.Anything).Return(7, nil)

	w := f.do(http.MethodGet, "/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"rent","color":"#f00"}]`, w.Body.String())

	w = f.do(http.MethodPost, "/tags", dto.TagRequest{Name: "food"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"name":"food","color":""}`, w.Body.String())

	w = f.do(http.MethodPost, "/tags", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/tag-rules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodPost, "/tag-rules/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tagged":7}`, w.Body.String())
}

func TestBankAccounts(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("ListBankAccounts", mock.Anything).Return([]*entity.BankAccount{{ID: 1, Name: "Main account", Slug: "main", Currency: "EUR"}}, nil)
	f.accounts.On("SaveBankAccount", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: name is required", domainerr.ErrInvalidBankAccount))

	w := f.do(http.MethodGet, "/bank-accounts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Main account","slug":"main","currency":"EUR"}]`, w.Body.String())

	w = f.do(http.MethodPost, "/bank-accounts", dto.BankAccountRequest{Name: " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domainerr.CodeInvalidBankAccount, decodeError(t, w).Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test","store":"ok"}`, w.Body.String())
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.ops.On("FindAll", mock.Anything).Run(func(mock.Arguments) { panic("kaboom") })

	w := f.do(http.MethodGet, "/operations", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, domainerr.CodeInternalServer, decodeError(t, w).Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	f := newFixture(t)
	f.ops.On("FindTriage", mock.Anything).Return([]*entity.Operation{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/operations/triage", nil)
	req.Header.Set(middleware.RequestIDHeader, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", w.Header().Get(middleware.RequestIDHeader))
}
