package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/vulca/internal/auth/domain"
	"github.com/smallbiznis/vulca/internal/auth/session"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/config"
)

type fakeAuthService struct {
	loginCalls int
	role       string
	user       *authdomain.User
	session    *authdomain.Session
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	_ = ctx
	return &authdomain.User{ID: snowflake.ID(200), Email: req.Email, Role: req.Role}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	if req.Password != "parola-sigura" {
		return nil, authdomain.ErrInvalidCredentials
	}
	return &authdomain.LoginResult{
		User:      f.user,
		RawToken:  "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		SessionID: snowflake.ID(300),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	_ = rawToken
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	_ = ctx
	if rawToken != "session-token" || f.session == nil {
		return nil, authdomain.ErrInvalidSession
	}
	return f.session, nil
}

func (f *fakeAuthService) UserByID(ctx context.Context, id snowflake.ID) (*authdomain.User, error) {
	_ = ctx
	_ = id
	if f.user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeAuthService) CountUsers(ctx context.Context) (int64, error) {
	_ = ctx
	return 1, nil
}

func (f *fakeAuthService) RoleOf(ctx context.Context, userID, companyID snowflake.ID) (string, error) {
	_ = ctx
	_ = userID
	_ = companyID
	return f.role, nil
}

func (f *fakeAuthService) DeleteUser(ctx context.Context, id snowflake.ID) error {
	_ = ctx
	_ = id
	return nil
}

type fakeBillService struct {
	saveCalls int
	lastSave  billdomain.SaveRequest
}

func (f *fakeBillService) OpenDraft(ctx context.Context, companyID snowflake.ID) (*billdomain.BillDraft, error) {
	_ = ctx
	_ = companyID
	return billdomain.NewDraft("draft-token"), nil
}

func (f *fakeBillService) Save(ctx context.Context, req billdomain.SaveRequest) (*billdomain.Bill, error) {
	f.saveCalls++
	f.lastSave = req
	_ = ctx
	return &billdomain.Bill{ID: snowflake.ID(77), CompanyID: req.CompanyID, CalculatedTotal: 120}, nil
}

func (f *fakeBillService) Get(ctx context.Context, companyID, id snowflake.ID) (*billdomain.Bill, error) {
	_ = ctx
	_ = companyID
	_ = id
	return nil, billdomain.ErrBillNotFound
}

func (f *fakeBillService) List(ctx context.Context, companyID snowflake.ID, filter billdomain.ListFilter) ([]billdomain.Bill, error) {
	_ = ctx
	_ = companyID
	_ = filter
	return nil, nil
}

func (f *fakeBillService) Delete(ctx context.Context, companyID, id snowflake.ID) error {
	_ = ctx
	_ = companyID
	_ = id
	return nil
}

func newAuthedFixture(role string) (*Server, *fakeAuthService) {
	auth := &fakeAuthService{
		role: role,
		user: &authdomain.User{ID: snowflake.ID(100), Email: "ana@example.com", DisplayName: "Ana", Role: ""},
		session: &authdomain.Session{
			ID:     snowflake.ID(300),
			UserID: snowflake.ID(100),
		},
	}
	srv := &Server{
		cfg:      config.Config{},
		sessions: session.NewManager(config.Config{}),
		authsvc:  auth,
	}
	return srv, auth
}

func TestLoginSetsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, auth := newAuthedFixture("")

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"parola-sigura"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if auth.loginCalls != 1 {
		t.Fatalf("expected 1 login call, got %d", auth.loginCalls)
	}
	cookie := resp.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "_sid=") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, _ := newAuthedFixture("")

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"gresita"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthRequiredWithoutCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, _ := newAuthedFixture("")

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/me", srv.AuthRequired(), srv.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	var payload errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	if payload.Error.Type != "unauthorized" {
		t.Fatalf("expected unauthorized payload, got %q", payload.Error.Type)
	}
}

func TestRequireRoleForbidsLowerRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, _ := newAuthedFixture(authdomain.RoleCompanyUser)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/companies/:companyId/schema",
		srv.AuthRequired(),
		srv.CompanyContext(),
		srv.RequireRole(authdomain.RoleCompanyAdmin),
		srv.GetSchema,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/companies/4242/schema", nil)
	req.AddCookie(&http.Cookie{Name: "_sid", Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestSaveBillPassesTokenAndCompany(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, _ := newAuthedFixture(authdomain.RoleCompanyUser)
	bills := &fakeBillService{}
	srv.billSvc = bills

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/companies/:companyId/bills",
		srv.AuthRequired(),
		srv.CompanyContext(),
		srv.RequireRole(authdomain.RoleCompanyUser),
		srv.SaveBill,
	)

	body := bytes.NewBufferString(`{"token":"draft-token","form":{"sec-1":{"category":"cat-1","size":"R16"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/companies/4242/bills", body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "_sid", Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if bills.saveCalls != 1 {
		t.Fatalf("expected 1 save call, got %d", bills.saveCalls)
	}
	if bills.lastSave.Token != "draft-token" {
		t.Fatalf("expected draft token passed through, got %q", bills.lastSave.Token)
	}
	if bills.lastSave.CompanyID != snowflake.ID(4242) {
		t.Fatalf("expected company 4242, got %d", bills.lastSave.CompanyID)
	}
	if bills.lastSave.Form.String("sec-1", "size") != "R16" {
		t.Fatalf("expected form size preserved, got %q", bills.lastSave.Form.String("sec-1", "size"))
	}
}

func TestPreviewSchemaAppliesOps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/preview", srv.PreviewSchema)

	body := bytes.NewBufferString(`{
		"sections": [],
		"ops": [
			{"op": "add_section"},
			{"op": "set_section_title", "index": 0, "title": "Servicii"},
			{"op": "set_section_type", "index": 0, "type": "services"},
			{"op": "add_service", "index": 0, "name": "Dejantat", "defaultWheels": 4}
		]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/preview", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Sections []struct {
			Title    string `json:"title"`
			Type     string `json:"type"`
			Order    int    `json:"order"`
			Services []struct {
				Name string `json:"name"`
			} `json:"services"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal preview: %v", err)
	}
	if len(payload.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(payload.Sections))
	}
	section := payload.Sections[0]
	if section.Title != "Servicii" || section.Type != "services" || section.Order != 1 {
		t.Fatalf("unexpected section: %+v", section)
	}
	if len(section.Services) != 1 || section.Services[0].Name != "Dejantat" {
		t.Fatalf("unexpected services: %+v", section.Services)
	}
}

func TestPreviewSchemaUnknownOpReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/preview", srv.PreviewSchema)

	body := bytes.NewBufferString(`{"sections": [], "ops": [{"op": "explode"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/preview", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
