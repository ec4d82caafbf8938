package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/invest-marketplace/config"
	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/validation"
)

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
	jwt    *helpers.JWTManager
}

func init() { helpers.PasswordCost = bcrypt.MinCost }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	store := memory.NewStore(nil)
	core := application.NewCore(store, nil, &config.Config{}, logger)
	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	identity := application.NewIdentityService(core, jwt)
	auth := NewAuthHandler(identity, logger, "", false)
	users := NewUserHandler(identity, logger)
	companies := NewCompanyHandler(application.NewCompanyService(core), logger)
	owners := NewOwnershipHandler(application.NewOwnershipService(core), logger)
	deals := NewDealHandler(application.NewDealService(core), logger)
	notes := NewNotificationHandler(application.NewNotificationService(core), logger)
	payments := NewPaymentHandler(application.NewSubscriptionService(core), logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/payments/webhook", middleware.WebhookToken("hook"), payments.Webhook)
	api.GET("/company/filter", companies.Filter)

	p := api.Group("/", middleware.Auth(nil, jwt))
	p.GET("/user/profile", users.GetProfile)
	p.POST("/company", companies.Register)
	p.GET("/company/:id", companies.Get)
	p.GET("/company/:id/owners", owners.ListOwners)
	p.POST("/investment/investor", deals.Propose)
	p.GET("/investment/investor", deals.ListMine)
	p.GET("/notification", notes.Feed)

	return &testServer{engine: r, store: store, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

// signup registers and logs in a user, returning its id and access token.
func (s *testServer) signup(t *testing.T, email, userType string) (string, string) {
	t.Helper()
	code, _ := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name":       "Test",
		"last_name":        "User",
		"email":            email,
		"password":         "Passw0rd!",
		"confirm_password": "Passw0rd!",
		"user_type":        userType,
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "Passw0rd!"})
	require.Equal(t, http.StatusOK, code)
	user := body["user"].(map[string]any)
	tokens := body["tokens"].(map[string]any)
	return user["id"].(string), tokens["access_token"].(string)
}

func TestRegister_ValidationAndConflict(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Failure", body["status"])
	require.NotEmpty(t, body["request_id"])
	require.Contains(t, body["details"], "email")

	s.signup(t, "dup@example.com", "Investor")
	code, body = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name":       "A",
		"last_name":        "B",
		"email":            "dup@example.com",
		"password":         "Passw0rd!",
		"confirm_password": "Passw0rd!",
		"user_type":        "business",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "email is already registered", body["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "who@example.com", "Investor")

	code, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "who@example.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Failure", body["status"])
}

func TestCompanyAndDealFlow(t *testing.T) {
	s := newTestServer(t)
	_, bizToken := s.signup(t, "biz@example.com", "Business")
	investorID, invToken := s.signup(t, "inv@example.com", "Investor")

	code, body := s.do(t, http.MethodPost, "/api/company", bizToken, gin.H{
		"name":           "Acme",
		"description":    "Widgets",
		"contact_number": "+6281234567",
		"contact_email":  "acme@example.com",
		"industry":       "Tech",
		"location":       "Bandung",
		"founder_year":   2019,
		"valuation":      500000,
		"stock_market":   false,
		"user_role":      "CEO",
	})
	require.Equal(t, http.StatusCreated, code, body)
	companyID := body["company"].(map[string]any)["id"].(string)

	code, body = s.do(t, http.MethodGet, "/api/company/"+companyID+"/owners", bizToken, nil)
	require.Equal(t, http.StatusOK, code)
	owners := body["owners"].([]any)
	require.Len(t, owners, 1)
	require.Equal(t, "CEO", owners[0].(map[string]any)["role"])

	deal := gin.H{"company_id": companyID, "amount": "2500.50", "equity_percentage": 5}
	code, body = s.do(t, http.MethodPost, "/api/investment/investor", invToken, deal)
	require.Equal(t, http.StatusForbidden, code, "no subscription yet")

	code, _ = s.do(t, http.MethodPost, "/api/company", invToken, gin.H{
		"name":           "Nope",
		"description":    "x",
		"contact_number": "1",
		"contact_email":  "n@example.com",
		"industry":       "x",
		"location":       "x",
		"founder_year":   2000,
		"user_role":      "x",
	})
	require.Equal(t, http.StatusForbidden, code)

	start, end := time.Now().UTC(), time.Now().UTC().Add(24*time.Hour)
	require.NoError(t, s.store.Repos().Users().UpdateSubscription(context.Background(), investorID, start, end))

	code, body = s.do(t, http.MethodPost, "/api/investment/investor", invToken, deal)
	require.Equal(t, http.StatusCreated, code, body)
	created := body["deal"].(map[string]any)
	require.Equal(t, "Pending", created["deal_status"])
	require.Equal(t, "2500.5", created["amount"])

	code, body = s.do(t, http.MethodGet, "/api/investment/investor", invToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["deals"].([]any), 1)

	code, body = s.do(t, http.MethodGet, "/api/notification", bizToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total_notifications"])
	require.EqualValues(t, 1, body["page"])
}

func TestFilter_BadQuery(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/api/company/filter?founded_min=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, body["details"], "founded_min")

	code, body = s.do(t, http.MethodGet, "/api/company/filter?sort_by=name&order=desc", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 0, body["total_results"])
	require.Empty(t, body["companies"])
}

func TestProfile_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodGet, "/api/user/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	_, token := s.signup(t, "me@example.com", "Investor")
	code, body := s.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	user := body["user"].(map[string]any)
	require.Equal(t, "me@example.com", user["email"])
	require.Empty(t, user["deals"])
}

func TestPaymentWebhook(t *testing.T) {
	s := newTestServer(t)
	userID, _ := s.signup(t, "payer@example.com", "Investor")

	send := func(token string, body any) (int, map[string]any) {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.WebhookTokenHeader, token)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}
	event := gin.H{
		"id":   "evt_123",
		"type": "checkout.session.completed",
		"data": gin.H{"object": gin.H{"metadata": gin.H{"user_id": userID, "amount": "100", "duration": "1"}}},
	}

	code, _ := send("wrong", event)
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := send("hook", event)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["replayed"])

	code, body = send("hook", event)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["replayed"])

	code, body = send("hook", gin.H{"id": "evt_124", "type": "payment_intent.created"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "event ignored", body["message"])

	u, err := s.store.Repos().Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, u.Paid)
}

func TestCompletionFromMetadata(t *testing.T) {
	in, ok := completionFromMetadata("e1", map[string]string{"company_id": "c1", "owner_id": "u1"})
	require.True(t, ok)
	require.Equal(t, "company", string(in.SubjectType))
	require.Equal(t, "c1", in.SubjectID)
	require.Equal(t, defaultDurationMonths, in.DurationMonths)

	_, ok = completionFromMetadata("e2", map[string]string{"user_id": "u1", "duration": "a year"})
	require.False(t, ok)
}
