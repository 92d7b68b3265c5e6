package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/adapter/api"
	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/adapter/repository"
	"agrirent/internal/infrastructure/payment"
	"agrirent/internal/infrastructure/pdf"
	"agrirent/internal/infrastructure/ratelimit"
	"agrirent/internal/infrastructure/storage"
	"agrirent/internal/infrastructure/token"
	"agrirent/internal/infrastructure/websocket"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Data    map[string]interface{} `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	lands := repository.NewMemoryLandRepository()
	rentals := repository.NewMemoryRentalRepository()
	chats := repository.NewMemoryChatRepository()

	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	ws := websocket.NewManager()
	authUseCase := usecase.NewAuthUseCase(users, token.NewJWTService("test-secret", time.Hour))
	chatUseCase := usecase.NewChatUseCase(chats, users, ws)

	handler.Setup(
		authUseCase,
		usecase.NewUserUseCase(users),
		usecase.NewLandUseCase(lands, users, nil, chatUseCase, nil),
		usecase.NewRentalUseCase(rentals, lands, users, pdf.NewAgreementRenderer(), files, nil, ws),
		usecase.NewPaymentUseCase(rentals, lands, payment.NewManualGateway(), nil, ws),
		chatUseCase,
		usecase.NewChatbotUseCase(nil, nil, time.Second),
	)
	handler.SetupFileHandler(files)
	handler.SetupHealthHandler(nil)
	handler.SetupWebSocketHandler(ws)

	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	limiter := ratelimit.NewRateLimiterWithPolicies(map[string]ratelimit.Policy{
		ratelimit.ActionLogin: {Burst: 100, Every: time.Millisecond},
	})
	Setup(e, middleware.NewAuthMiddleware(authUseCase), limiter)
	return e
}

func call(t *testing.T, e *echo.Echo, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON ||
		rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSONCharsetUTF8 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func register(t *testing.T, e *echo.Echo, name, role string) (token, id string) {
	t.Helper()
	rec, env := call(t, e, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := env.Data["user"].(map[string]interface{})
	return env.Data["token"].(string), user["id"].(string)
}

func landBody() map[string]interface{} {
	return map[string]interface{}{
		"title":          "Canal-side plot",
		"description":    "Flat alluvial land with year round canal water",
		"totalAcres":     10,
		"availableAcres": 10,
		"pricePerAcre":   1000,
		"location":       map[string]interface{}{"coordinates": []float64{73.85, 18.52}},
		"address":        map[string]string{"village": "Wagholi", "city": "Pune", "state": "Maharashtra"},
		"soilType":       "alluvial",
		"waterSource":    "canal",
	}
}

func TestAuthRoutes(t *testing.T) {
	e := newServer(t)
	tok, _ := register(t, e, "asha", "landowner")

	rec, env := call(t, e, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": "asha", "email": "asha@example.com", "password": "secret123", "role": "landowner",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	rec, env = call(t, e, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": "x", "email": "not-an-email", "password": "123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	fields := map[string]bool{}
	for _, fe := range env.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["role"])

	rec, _ = call(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "asha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = call(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ASHA@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Data["token"])

	rec, _ = call(t, e, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = call(t, e, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "landowner", env.Data["user"].(map[string]interface{})["role"])
}

func TestLandCatalogRoutes(t *testing.T) {
	e := newServer(t)
	ownerTok, _ := register(t, e, "owner", "landowner")
	farmerTok, _ := register(t, e, "farmer", "farmer")

	rec, _ := call(t, e, http.MethodPost, "/api/land", farmerTok, landBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := call(t, e, http.MethodPost, "/api/land", ownerTok, landBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	landID := env.Data["land"].(map[string]interface{})["id"].(string)

	rec, env = call(t, e, http.MethodGet, "/api/land?minPrice=500&city=pune", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["lands"], 1)
	assert.EqualValues(t, 1, env.Data["pagination"].(map[string]interface{})["totalItems"])

	rec, env = call(t, e, http.MethodGet, "/api/land?latitude=28.61&longitude=77.20&radius=50", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["lands"], 0)

	rec, _ = call(t, e, http.MethodGet, "/api/land?sortBy=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = call(t, e, http.MethodGet, "/api/land/"+landID, farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	land := env.Data["land"].(map[string]interface{})
	assert.EqualValues(t, 1, land["views"])
	assert.Equal(t, "owner", land["owner"].(map[string]interface{})["name"])

	rec, env = call(t, e, http.MethodGet, "/api/land/my-listings", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["lands"], 1)

	rec, env = call(t, e, http.MethodPost, "/api/land/"+landID+"/inquire", farmerTok, map[string]string{
		"message": "Is the canal water available in summer?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, env.Data["chat"].(map[string]interface{})["id"])

	rec, env = call(t, e, http.MethodGet, "/api/chat/unread-count", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Data["unreadCount"])

	rec, _ = call(t, e, http.MethodPut, "/api/land/"+landID, farmerTok, map[string]interface{}{"pricePerAcre": 2000})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = call(t, e, http.MethodPut, "/api/land/"+landID, ownerTok, map[string]interface{}{"pricePerAcre": 2000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2000, env.Data["land"].(map[string]interface{})["pricePerAcre"])

	rec, _ = call(t, e, http.MethodDelete, "/api/land/"+landID, ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, e, http.MethodGet, "/api/land/"+landID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserDirectoryIsRoleGated(t *testing.T) {
	e := newServer(t)
	ownerTok, ownerID := register(t, e, "owner", "landowner")
	farmerTok, _ := register(t, e, "farmer", "farmer")

	rec, _ := call(t, e, http.MethodGet, "/api/user/farmers", farmerTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := call(t, e, http.MethodGet, "/api/user/farmers", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["farmers"], 1)

	rec, env = call(t, e, http.MethodGet, "/api/user/landowners", farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["landowners"], 1)

	rec, env = call(t, e, http.MethodGet, "/api/user/"+ownerID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ownerID, env.Data["user"].(map[string]interface{})["id"])

	rec, env = call(t, e, http.MethodPost, "/api/user/rate/"+ownerID, farmerTok, map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 4, env.Data["rating"])
}

func TestRentalAndPaymentFlow(t *testing.T) {
	e := newServer(t)
	ownerTok, _ := register(t, e, "owner", "landowner")
	farmerTok, farmerID := register(t, e, "farmer", "farmer")

	_, env := call(t, e, http.MethodPost, "/api/land", ownerTok, landBody())
	landID := env.Data["land"].(map[string]interface{})["id"].(string)

	start := time.Now().UTC().AddDate(0, 1, 0)
	rec, env := call(t, e, http.MethodPost, "/api/agreement/generate", ownerTok, map[string]interface{}{
		"landId":          landID,
		"farmerId":        farmerID,
		"rentedAcres":     4,
		"pricePerAcre":    1000,
		"startDate":       start.Format("2006-01-02"),
		"endDate":         start.AddDate(0, 6, 0).Format("2006-01-02"),
		"duration":        6,
		"paymentSchedule": "monthly",
		"terms":           map[string]string{"maintenance": "farmer", "utilities": "separate"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rental := env.Data["rental"].(map[string]interface{})
	rentalID := rental["id"].(string)
	assert.Equal(t, "pending", rental["status"])
	assert.EqualValues(t, 24000, rental["totalAmount"])
	assert.Len(t, rental["payments"], 6)

	rec, _ = call(t, e, http.MethodGet, "/api/agreement/"+rentalID+"/document", farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec, _ = call(t, e, http.MethodPost, "/api/agreement/"+rentalID+"/sign", farmerTok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = call(t, e, http.MethodPost, "/api/agreement/"+rentalID+"/sign", farmerTok, map[string]string{"signature": "farmer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", env.Data["rental"].(map[string]interface{})["status"])

	rec, env = call(t, e, http.MethodPost, "/api/agreement/"+rentalID+"/sign", ownerTok, map[string]string{"signature": "owner"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", env.Data["rental"].(map[string]interface{})["status"])

	rec, env = call(t, e, http.MethodGet, "/api/agreement/my-rentals?status=active", farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["rentals"], 1)

	rec, env = call(t, e, http.MethodPost, "/api/payment/process", farmerTok, map[string]interface{}{
		"rentalId": rentalID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	rec, _ = call(t, e, http.MethodPost, "/api/payment/process", farmerTok, map[string]interface{}{
		"rentalId": rentalID, "paymentIndex": 0, "amount": 3999, "paymentMethod": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = call(t, e, http.MethodPost, "/api/payment/process", farmerTok, map[string]interface{}{
		"rentalId": rentalID, "paymentIndex": 0, "amount": 4000, "paymentMethod": "cash", "transactionId": "RCPT-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := env.Data["payment"].(map[string]interface{})
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, "RCPT-1", paid["transactionId"])

	rec, env = call(t, e, http.MethodGet, "/api/payment/"+rentalID+"/schedule", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payments := env.Data["payments"].([]interface{})
	assert.Equal(t, "paid", payments[0].(map[string]interface{})["status"])
	assert.Equal(t, "pending", payments[1].(map[string]interface{})["status"])

	rec, _ = call(t, e, http.MethodPost, "/api/payment/"+rentalID+"/reminder", farmerTok, map[string]interface{}{"paymentIndex": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = call(t, e, http.MethodPost, "/api/payment/"+rentalID+"/reminder", ownerTok, map[string]interface{}{"paymentIndex": 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = call(t, e, http.MethodPost, "/api/agreement/"+rentalID+"/cancel", farmerTok, map[string]string{
		"reason": "Monsoon failed this season",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", env.Data["rental"].(map[string]interface{})["status"])
}

func TestChatRoutes(t *testing.T) {
	e := newServer(t)
	ownerTok, ownerID := register(t, e, "owner", "landowner")
	farmerTok, _ := register(t, e, "farmer", "farmer")

	rec, env := call(t, e, http.MethodPost, "/api/chat", farmerTok, map[string]string{
		"participantId": ownerID, "initialMessage": "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	chatID := env.Data["chat"].(map[string]interface{})["id"].(string)

	rec, _ = call(t, e, http.MethodPost, "/api/chat", farmerTok, map[string]string{"participantId": ownerID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = call(t, e, http.MethodPost, "/api/chat/"+chatID+"/messages", ownerTok, map[string]string{"content": "Hi there"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Hi there", env.Data["message"].(map[string]interface{})["content"])

	rec, env = call(t, e, http.MethodGet, "/api/chat", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["chats"], 1)

	rec, env = call(t, e, http.MethodGet, "/api/chat/"+chatID, farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["messages"], 2)

	rec, env = call(t, e, http.MethodGet, "/api/chat/unread-count", farmerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, env.Data["unreadCount"])

	rec, _ = call(t, e, http.MethodDelete, "/api/chat/"+chatID, ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = call(t, e, http.MethodGet, "/api/chat", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data["chats"], 0)
}

func TestChatbotRoutesArePublic(t *testing.T) {
	e := newServer(t)

	rec, env := call(t, e, http.MethodPost, "/api/chatbot/message", "", map[string]string{
		"message": "How do I pay my rent installment?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fallback", env.Data["source"])
	assert.NotEmpty(t, env.Data["response"])

	rec, env = call(t, e, http.MethodGet, "/api/chatbot/faq", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Data["faqs"])

	rec, env = call(t, e, http.MethodGet, "/api/chatbot/tips/farming", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Data["tips"])

	rec, _ = call(t, e, http.MethodPost, "/api/chatbot/feedback", "", map[string]interface{}{
		"message": "hi", "response": "hello", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newServer(t)

	rec, _ := call(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}
