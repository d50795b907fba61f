package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lodgehall/internal/config"
	"lodgehall/internal/model"
	"lodgehall/internal/repository"
	"lodgehall/internal/service"
	"lodgehall/pkg/crypto"
	"lodgehall/pkg/response"
)

const strongPassword = "Vt7#qLm2!xR9pWz"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.NewSQLiteDB(config.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Skipf("skip: sqlite not available: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	userRepo := repository.NewPGUserRepository(db)
	lodgeRepo := repository.NewPGLodgeRepository(db)

	tokens := service.NewTokenService(repository.NewPGTokenRepository(db), userRepo,
		repository.NewMemoryTokenCache(), time.Minute, 128, logger)
	users := service.NewUserService(userRepo, tokens, service.PasswordPolicy{
		MinEntropy: 35,
		Argon2:     crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1},
	})
	authz := service.NewAuthorizer(lodgeRepo)
	lodges := service.NewLodgeService(lodgeRepo, authz)
	cabins := service.NewCabinService(lodgeRepo, repository.NewPGCabinRepository(db),
		repository.NewPGMessageRepository(db), userRepo, authz)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	router := SetupRouter(cfg, logger, tokens,
		NewUserHandler(users, tokens),
		NewLodgeHandler(lodges),
		NewCabinHandler(cabins),
	)
	return &testServer{router: router, db: db}
}

// do sends body (if non-nil) as JSON and decodes the response into out (if
// non-nil).
func (s *testServer) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

// signup registers a user and logs in, returning the profile and token.
func (s *testServer) signup(t *testing.T, name string) (PublicUser, string) {
	t.Helper()
	var user PublicUser
	if code := s.do(t, http.MethodPost, "/user", "", RegisterRequest{DisplayName: name, Password: strongPassword}, &user); code != http.StatusCreated {
		t.Fatalf("register %s: status %d", name, code)
	}
	var tok TokenResponse
	if code := s.do(t, http.MethodPost, "/login", "", LoginRequest{ID: user.ID.String(), Password: strongPassword}, &tok); code != http.StatusOK {
		t.Fatalf("login %s: status %d", name, code)
	}
	return user, tok.Token
}

func (s *testServer) createLodge(t *testing.T, token, name string, public bool) LodgeResponse {
	t.Helper()
	var lodge LodgeResponse
	if code := s.do(t, http.MethodPost, "/lodge", token, CreateLodgeRequest{Name: name, Public: &public}, &lodge); code != http.StatusCreated {
		t.Fatalf("create lodge %s: status %d", name, code)
	}
	return lodge
}

func assertError(t *testing.T, s *testServer, method, path, token string, body interface{}, wantStatus int) {
	t.Helper()
	var errBody response.ErrorBody
	code := s.do(t, method, path, token, body, &errBody)
	if code != wantStatus {
		t.Errorf("%s %s status = %d, want %d (%s)", method, path, code, wantStatus, errBody.Message)
	}
	if errBody.Error != strconv.Itoa(wantStatus) || errBody.Message == "" {
		t.Errorf("%s %s error body = %+v", method, path, errBody)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	if code := s.do(t, http.MethodGet, "/healthz", "", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", code, body)
	}
}

func TestExampleScenario(t *testing.T) {
	s := newTestServer(t)

	var ada PublicUser
	code := s.do(t, http.MethodPost, "/user", "", RegisterRequest{DisplayName: "Ada", Password: strongPassword}, &ada)
	if code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", code)
	}
	if ada.DisplayName != "Ada" || ada.Pronouns != "" || ada.Description != "" || ada.ID.String() == "" {
		t.Errorf("register body = %+v", ada)
	}

	var tok TokenResponse
	code = s.do(t, http.MethodPost, "/login", "", LoginRequest{ID: ada.ID.String(), Password: strongPassword}, &tok)
	if code != http.StatusOK || len(tok.Token) != 128 || tok.ID != ada.ID {
		t.Fatalf("login = %d %+v, want 200 with 128-char token", code, tok)
	}

	math := s.createLodge(t, tok.Token, "Math", false)
	if math.Public || math.Name != "Math" {
		t.Errorf("lodge = %+v, want private Math", math)
	}

	var admins []PublicUser
	if code := s.do(t, http.MethodGet, "/lodge/"+math.ID.String()+"/admins", tok.Token, nil, &admins); code != http.StatusOK {
		t.Fatalf("admins status = %d", code)
	}
	if len(admins) != 1 || admins[0].ID != ada.ID {
		t.Errorf("admins = %+v, want Ada only", admins)
	}

	_, otherToken := s.signup(t, "Grace")
	assertError(t, s, http.MethodPost, "/lodge/"+math.ID.String()+"/cabin", otherToken,
		CreateCabinRequest{Name: "general"}, http.StatusForbidden)

	var n int64
	s.db.Model(&model.Cabin{}).Count(&n)
	if n != 0 {
		t.Errorf("cabins persisted = %d, want 0", n)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	assertError(t, s, http.MethodPost, "/user", "",
		RegisterRequest{DisplayName: strings.Repeat("a", 33), Password: strongPassword}, http.StatusBadRequest)
	assertError(t, s, http.MethodPost, "/user", "",
		RegisterRequest{Password: strongPassword}, http.StatusBadRequest)
	assertError(t, s, http.MethodPost, "/user", "",
		RegisterRequest{DisplayName: "Ada", Password: "password"}, http.StatusBadRequest)
	assertError(t, s, http.MethodPost, "/user", "", "not an object", http.StatusBadRequest)

	var n int64
	s.db.Model(&model.User{}).Count(&n)
	if n != 0 {
		t.Errorf("users persisted = %d, want 0", n)
	}
}

func TestLogin_Errors(t *testing.T) {
	s := newTestServer(t)
	ada, _ := s.signup(t, "Ada")

	assertError(t, s, http.MethodPost, "/login", "", LoginRequest{ID: ada.ID.String(), Password: "Wrong#Passw0rd!"}, http.StatusUnauthorized)
	assertError(t, s, http.MethodPost, "/login", "", LoginRequest{ID: "nope", Password: strongPassword}, http.StatusBadRequest)
	assertError(t, s, http.MethodPost, "/login", "", LoginRequest{Password: strongPassword}, http.StatusBadRequest)
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	ada, token := s.signup(t, "Ada")
	grace, _ := s.signup(t, "Grace")

	var me PublicUser
	if code := s.do(t, http.MethodGet, "/user", token, nil, &me); code != http.StatusOK || me.ID != ada.ID {
		t.Errorf("GET /user = %d %+v", code, me)
	}
	if code := s.do(t, http.MethodGet, "/user/"+ada.ID.String(), token, nil, &me); code != http.StatusOK || me.ID != ada.ID {
		t.Errorf("GET /user/:self = %d %+v", code, me)
	}

	assertError(t, s, http.MethodGet, "/user", "", nil, http.StatusUnauthorized)
	assertError(t, s, http.MethodGet, "/user", "bogus", nil, http.StatusUnauthorized)
	assertError(t, s, http.MethodGet, "/user/"+grace.ID.String(), token, nil, http.StatusForbidden)
	assertError(t, s, http.MethodGet, "/user/not-a-uuid", token, nil, http.StatusBadRequest)

	var users []PublicUser
	if code := s.do(t, http.MethodGet, "/users", "", nil, &users); code != http.StatusOK || len(users) != 2 {
		t.Errorf("GET /users = %d, %d users", code, len(users))
	}
	var admins []PublicUser
	if code := s.do(t, http.MethodGet, "/admins", "", nil, &admins); code != http.StatusOK || len(admins) != 0 {
		t.Errorf("GET /admins = %d, %d users", code, len(admins))
	}
}

func TestUpdateProfile_KeepsOmittedFields(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "Ada")

	var updated PublicUser
	code := s.do(t, http.MethodPut, "/user", token, map[string]string{"pronouns": "she/her"}, &updated)
	if code != http.StatusOK {
		t.Fatalf("PUT /user status = %d", code)
	}
	if updated.DisplayName != "Ada" || updated.Pronouns != "she/her" {
		t.Errorf("PUT /user = %+v, want name kept and pronouns set", updated)
	}

	assertError(t, s, http.MethodPut, "/user", token, map[string]string{"pronouns": strings.Repeat("p", 17)}, http.StatusBadRequest)
	assertError(t, s, http.MethodPut, "/user", "", map[string]string{"pronouns": "they"}, http.StatusUnauthorized)
}

func TestResetToken(t *testing.T) {
	s := newTestServer(t)
	ada, oldToken := s.signup(t, "Ada")

	var fresh TokenResponse
	if code := s.do(t, http.MethodPost, "/user/reset", oldToken, nil, &fresh); code != http.StatusOK {
		t.Fatalf("POST /user/reset status = %d", code)
	}
	if fresh.ID != ada.ID || fresh.Token == oldToken || len(fresh.Token) != 128 {
		t.Errorf("reset = %+v", fresh)
	}

	assertError(t, s, http.MethodGet, "/user", oldToken, nil, http.StatusUnauthorized)
	if code := s.do(t, http.MethodGet, "/user", fresh.Token, nil, nil); code != http.StatusOK {
		t.Errorf("GET /user with new token = %d, want 200", code)
	}
}

func TestLodgeVisibility(t *testing.T) {
	s := newTestServer(t)
	_, adaToken := s.signup(t, "Ada")
	_, graceToken := s.signup(t, "Grace")
	private := s.createLodge(t, adaToken, "Math", false)
	public := s.createLodge(t, adaToken, "Open", true)

	privatePath := "/lodge/" + private.ID.String()
	assertError(t, s, http.MethodGet, privatePath, "", nil, http.StatusUnauthorized)
	assertError(t, s, http.MethodGet, privatePath, graceToken, nil, http.StatusForbidden)
	assertError(t, s, http.MethodGet, privatePath+"/members", graceToken, nil, http.StatusForbidden)

	var got LodgeResponse
	if code := s.do(t, http.MethodGet, privatePath, adaToken, nil, &got); code != http.StatusOK || got.ID != private.ID {
		t.Errorf("member GET private lodge = %d %+v", code, got)
	}
	if code := s.do(t, http.MethodGet, "/lodge/"+public.ID.String(), "", nil, &got); code != http.StatusOK || got.ID != public.ID {
		t.Errorf("anonymous GET public lodge = %d %+v", code, got)
	}

	var lodges []LodgeResponse
	if code := s.do(t, http.MethodGet, "/lodges", "", nil, &lodges); code != http.StatusOK || len(lodges) != 1 || lodges[0].ID != public.ID {
		t.Errorf("GET /lodges = %d %+v, want only the public lodge", code, lodges)
	}

	assertError(t, s, http.MethodGet, "/lodge/not-a-uuid", adaToken, nil, http.StatusBadRequest)
	assertError(t, s, http.MethodGet, "/lodge/00000000-0000-0000-0000-000000000000", adaToken, nil, http.StatusBadRequest)
}

func TestJoinLodge(t *testing.T) {
	s := newTestServer(t)
	_, adaToken := s.signup(t, "Ada")
	grace, graceToken := s.signup(t, "Grace")
	lodge := s.createLodge(t, adaToken, "Math", true)
	path := "/lodge/" + lodge.ID.String() + "/join"

	var m MembershipResponse
	if code := s.do(t, http.MethodPost, path, graceToken, nil, &m); code != http.StatusOK {
		t.Fatalf("join status = %d", code)
	}
	if m.UserID != grace.ID || m.LodgeID != lodge.ID || m.Admin {
		t.Errorf("join = %+v, want non-admin membership", m)
	}
	if code := s.do(t, http.MethodPost, path, graceToken, nil, &m); code != http.StatusOK || m.Admin {
		t.Errorf("second join = %d %+v", code, m)
	}

	var members []PublicUser
	if code := s.do(t, http.MethodGet, "/lodge/"+lodge.ID.String()+"/members", "", nil, &members); code != http.StatusOK || len(members) != 2 {
		t.Errorf("members = %d, %d users; want 2", code, len(members))
	}
	assertError(t, s, http.MethodPost, path, "", nil, http.StatusUnauthorized)
}

func TestCabinsAndMessages(t *testing.T) {
	s := newTestServer(t)
	ada, adaToken := s.signup(t, "Ada")
	_, graceToken := s.signup(t, "Grace")
	lodge := s.createLodge(t, adaToken, "Math", true)
	lodgePath := "/lodge/" + lodge.ID.String()
	if code := s.do(t, http.MethodPost, lodgePath+"/join", graceToken, nil, nil); code != http.StatusOK {
		t.Fatalf("join status = %d", code)
	}

	var general, staff CabinResponse
	if code := s.do(t, http.MethodPost, lodgePath+"/cabin", adaToken, CreateCabinRequest{Name: "general", Topic: "chat"}, &general); code != http.StatusCreated {
		t.Fatalf("create cabin status = %d", code)
	}
	if code := s.do(t, http.MethodPost, lodgePath+"/cabin", adaToken, CreateCabinRequest{Name: "staff", RequireAdmin: true}, &staff); code != http.StatusCreated {
		t.Fatalf("create staff cabin status = %d", code)
	}

	generalPath := lodgePath + "/cabin/" + general.ID.String()
	var got CabinResponse
	if code := s.do(t, http.MethodGet, generalPath, "", nil, &got); code != http.StatusOK || got.ID != general.ID || got.LodgeID != lodge.ID {
		t.Errorf("GET cabin = %d %+v", code, got)
	}

	var msg PublicMessage
	if code := s.do(t, http.MethodPost, generalPath+"/message", adaToken, SendMessageRequest{Content: "hello"}, &msg); code != http.StatusCreated {
		t.Fatalf("send status = %d", code)
	}
	if msg.Content != "hello" || msg.User == nil || msg.User.ID != ada.ID || msg.CabinID != general.ID {
		t.Errorf("send = %+v", msg)
	}

	var msgs []PublicMessage
	if code := s.do(t, http.MethodGet, generalPath+"/messages", "", nil, &msgs); code != http.StatusOK || len(msgs) != 1 {
		t.Errorf("GET messages = %d, %d messages", code, len(msgs))
	}

	staffPath := lodgePath + "/cabin/" + staff.ID.String()
	assertError(t, s, http.MethodPost, staffPath+"/message", graceToken, SendMessageRequest{Content: "hi"}, http.StatusForbidden)
	assertError(t, s, http.MethodGet, staffPath+"/messages", graceToken, nil, http.StatusForbidden)
	assertError(t, s, http.MethodPost, generalPath+"/message", graceToken, SendMessageRequest{}, http.StatusBadRequest)
	assertError(t, s, http.MethodPost, generalPath+"/message", "", SendMessageRequest{Content: "hi"}, http.StatusUnauthorized)

	var cabins []CabinResponse
	if code := s.do(t, http.MethodGet, lodgePath+"/cabins", graceToken, nil, &cabins); code != http.StatusOK || len(cabins) != 1 {
		t.Errorf("member GET cabins = %d, %d cabins; want 1", code, len(cabins))
	}
	if code := s.do(t, http.MethodGet, lodgePath+"/cabins", adaToken, nil, &cabins); code != http.StatusOK || len(cabins) != 2 {
		t.Errorf("admin GET cabins = %d, %d cabins; want 2", code, len(cabins))
	}

	other := s.createLodge(t, adaToken, "Physics", true)
	assertError(t, s, http.MethodGet, "/lodge/"+other.ID.String()+"/cabin/"+general.ID.String(), adaToken, nil, http.StatusBadRequest)
}

func TestRouterErrorShape(t *testing.T) {
	s := newTestServer(t)

	var body response.ErrorBody
	if code := s.do(t, http.MethodDelete, "/user", "", nil, &body); code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /user status = %d, want 405", code)
	}
	if body.Error != "405" {
		t.Errorf("405 body = %+v", body)
	}

	body = response.ErrorBody{}
	if code := s.do(t, http.MethodGet, "/nowhere", "", nil, &body); code != http.StatusNotFound {
		t.Errorf("GET /nowhere status = %d, want 404", code)
	}
	if body.Error != "404" {
		t.Errorf("404 body = %+v", body)
	}
}
