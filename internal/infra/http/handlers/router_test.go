package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
	"github.com/tvdoutor/contratos/internal/infra/memory"
	"github.com/tvdoutor/contratos/internal/usecase"
)

const testPassword = "senha123"

type testAPI struct {
	handler http.Handler
	store   *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newLimitedTestAPI(t, 100)
}

func newLimitedTestAPI(t *testing.T, loginLimit int) *testAPI {
	t.Helper()

	store := memory.NewStore(time.Now)
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background(), hash))

	manager := auth.NewManager(store.Users, auth.NewMemoryBlacklist(), "test-secret", time.Hour)
	processor := usecase.NewProcessDocumentUseCase(store.Contracts, memory.DocumentGenerator{BaseURL: "http://docs.test"}, nil)
	creator := usecase.NewCreateContractUseCase(store.Contracts, memory.NewArchive(), &usecase.InlinePublisher{Processor: processor})

	rt := &Router{
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:5173"},
		LoginLimiter:   middleware.LoginRateLimit(loginLimit),
		Auth:           manager,
		Health:         NewHealthHandler("memory"),
		Sessions:       NewAuthHandler(manager),
		Drafts:         NewDraftHandler(usecase.NewDraftService(usecase.NewMemoryDraftStore(), time.Hour), creator),
		Contracts:      NewContractHandler(creator, usecase.NewContractQueries(store.Contracts)),
		Users:          NewUserHandler(usecase.NewManageUsersUseCase(store.Users, store.Logs, auth.BcryptHasher{Cost: 4})),
		Reports: NewReportHandler(
			usecase.NewReportsUseCase(store.Reports),
			usecase.NewDashboardUseCase(store.Reports, store.Contracts, store.Users),
		),
	}
	return &testAPI{handler: rt.Handler(), store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "memory", resp.Backend)
}

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler("postgres")
	h.Register("database", func(context.Context) error { return assert.AnError })
	h.Register("rabbitmq", nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "degraded", resp.Status)
	assert.True(t, strings.HasPrefix(resp.Dependencies["database"], "unhealthy"))
	assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])
}

func TestAuth(t *testing.T) {
	api := newTestAPI(t)

	t.Run("wrong password", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": memory.DemoAdminEmail, "password": "errada"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("bad json", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", "", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/contracts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me then logout", func(t *testing.T) {
		token := api.login(t, memory.DemoAdminEmail)

		rec := api.do(t, http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), memory.DemoAdminEmail)

		rec = api.do(t, http.MethodPost, "/auth/logout", token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(t, http.MethodGet, "/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogin_RateLimited(t *testing.T) {
	api := newLimitedTestAPI(t, 1)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"x@y.com","password":"nope"}`))
		req.RemoteAddr = "10.1.1.1:4000"
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func fillDraft(t *testing.T, api *testAPI, token, id string) {
	t.Helper()
	fields := map[string]string{
		"cityState":                  "São Paulo, SP",
		"signatureDate":              "2025-03-10",
		"contractedPlan":             "cuidar-educar-exclusivo",
		"implementationValuePerUnit": "10000",
		"paymentMethod":              "pix",
		"dueDate":                    "2025-04-10",
		"contractTerm":               "12",
		"equipment43":                "2",
		"equipment55":                "1",
		"players":                    "3",
	}
	for field, value := range fields {
		rec := api.do(t, http.MethodPatch, "/drafts/"+id+"/fields", token, fieldChange{Field: field, Value: value})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	contractor := map[string]string{
		"contractorName":          "Clínica Saúde Ltda",
		"contractorTaxId":         "11222333000181",
		"contractorAddress":       "Rua das Flores, 100 - Centro",
		"legalRepresentativeName": "Maria Souza",
		"representativeTaxId":     "52998224725",
	}
	for field, value := range contractor {
		rec := api.do(t, http.MethodPatch, "/drafts/"+id+"/contractors/0", token, fieldChange{Field: field, Value: value})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestDraftFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "comercial@tvdoutor.com.br")

	rec := api.do(t, http.MethodPost, "/drafts", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	snap := decode[usecase.FormSnapshot](t, rec)
	require.NotEmpty(t, snap.ID)
	initialProgress := snap.Progress

	rec = api.do(t, http.MethodPost, "/drafts/"+snap.ID+"/submit", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	verr := decode[ErrorResponse](t, rec)
	assert.Equal(t, usecase.CodeValidation, verr.Error)
	assert.NotEmpty(t, verr.Errors)
	assert.NotEmpty(t, verr.FirstTab)

	fillDraft(t, api, token, snap.ID)

	rec = api.do(t, http.MethodGet, "/drafts/"+snap.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[usecase.FormSnapshot](t, rec)
	assert.Equal(t, "R$ 100,00", snap.Draft.ImplementationValue)
	assert.Equal(t, "R$ 199,00", snap.Draft.MonthlyValue, "plano exclusivo preenche a mensalidade")
	assert.Equal(t, 600.0, snap.Quote.CalculatedImplementationValue)
	assert.Empty(t, snap.Errors)

	rec = api.do(t, http.MethodPost, "/drafts/"+snap.ID+"/submit", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode[usecase.CreateContractOutput](t, rec)
	require.True(t, out.Success)
	require.NotEmpty(t, out.ContractID)
	assert.Equal(t, 799.0, out.Quote.ContractTotal)

	rec = api.do(t, http.MethodGet, "/contracts/"+out.ContractID+"/processing", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[usecase.ProcessingStatusOutput](t, rec)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, "http://docs.test/"+out.ContractID+".pdf", status.DownloadURL)

	rec = api.do(t, http.MethodGet, "/drafts/"+snap.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, initialProgress, decode[usecase.FormSnapshot](t, rec).Progress, "o rascunho volta ao estado inicial")
}

func TestDraftContractors(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "comercial@tvdoutor.com.br")

	snap := decode[usecase.FormSnapshot](t, api.do(t, http.MethodPost, "/drafts", token, nil))

	rec := api.do(t, http.MethodDelete, "/drafts/"+snap.ID+"/contractors/0", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/drafts/"+snap.ID+"/contractors", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[usecase.FormSnapshot](t, rec).Draft.Contractors, 2)

	rec = api.do(t, http.MethodPatch, "/drafts/"+snap.ID+"/contractors/7", token, fieldChange{Field: "contractorName", Value: "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/drafts/"+snap.ID+"/contractors/abc", token, fieldChange{Field: "contractorName", Value: "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/drafts/"+snap.ID+"/contractors/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[usecase.FormSnapshot](t, rec).Draft.Contractors, 1)

	other := api.login(t, memory.DemoAdminEmail)
	rec = api.do(t, http.MethodGet, "/drafts/"+snap.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "rascunho de outro usuário")

	rec = api.do(t, http.MethodDelete, "/drafts/"+snap.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, http.MethodGet, "/drafts/"+snap.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContracts(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "comercial@tvdoutor.com.br")

	t.Run("quote", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/contracts/quote", token, map[string]any{
			"equipment43":                "2",
			"equipment55":                "1",
			"players":                    "3",
			"implementationValuePerUnit": "R$ 100,00",
			"monthlyValue":               "R$ 199,00",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"formattedContractTotal":"R$ 799,00"`)
	})

	t.Run("preview incomplete", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/contracts/preview", token, map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("error keys use the posted names", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/contracts", token, map[string]any{
			"implementationValuePerUnit": "",
			"contractors": []map[string]string{{
				"contractorName":  "Clínica Saúde Ltda",
				"contractorTaxId": "11.222.333/0001-82",
			}},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errs := decode[ErrorResponse](t, rec).Errors
		assert.Contains(t, errs, "implementationValuePerUnit")
		assert.Equal(t, "CNPJ inválido", errs["contractor-0-contractorTaxId"])
		assert.Contains(t, errs, "contractor-0-representativeTaxId")
		assert.NotContains(t, errs, "contractor-0-contractorName")
	})

	t.Run("search", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/contracts?status=approved", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decode[[]map[string]any](t, rec)
		assert.Len(t, rows, 2)

		rec = api.do(t, http.MethodGet, "/contracts?status=bogus", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/contracts/00000000-0000-4000-9000-0000000000ff", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("status change needs admin", func(t *testing.T) {
		path := "/contracts/00000000-0000-4000-9000-000000000003/status"
		rec := api.do(t, http.MethodPatch, path, token, map[string]string{"status": "approved"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		admin := api.login(t, memory.DemoAdminEmail)
		rec = api.do(t, http.MethodPatch, path, admin, map[string]string{"status": "approved"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestUsers(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/users", api.login(t, "comercial@tvdoutor.com.br"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := api.login(t, memory.DemoAdminEmail)
	rec = api.do(t, http.MethodPost, "/users", admin, map[string]any{
		"name": "Nova Vendedora", "email": "nova@tvdoutor.com.br", "password": "segredo1", "role": "user",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[usecase.CreateUserOutput](t, rec)

	rec = api.do(t, http.MethodPost, "/users", admin, map[string]any{
		"name": "Dup", "email": "nova@tvdoutor.com.br", "password": "segredo1", "role": "user",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/users?q=nova", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(t, http.MethodPatch, "/users/"+created.UserID, admin, map[string]any{"name": "Nova Gerente"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodPost, "/users/"+created.UserID+"/password", admin, map[string]string{"password": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodDelete, "/users/"+created.UserID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReports(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "comercial@tvdoutor.com.br")

	for _, path := range []string{"/reports/monthly-revenue", "/reports/contract-status", "/reports/contracts-by-state"} {
		rec := api.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEqual(t, "[]\n", rec.Body.String(), path)
	}

	rec := api.do(t, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[usecase.DashboardStats](t, rec)
	assert.Equal(t, 5, stats.ContractsGenerated)
}
