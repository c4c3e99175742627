package mockapi_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus/hooks/test"

	"showmetasks/internal/mockapi"
)

func do(t *testing.T, srv *mockapi.Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, mockapi.BasePath+path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

type list struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Deleted   bool   `json:"deleted"`
}

func TestServer_RequiresBearer(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := mockapi.New(logger)

	rec := do(t, srv, http.MethodGet, "/list", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if srv.Calls("GET /list") != 0 {
		t.Error("expected rejected calls not to be counted")
	}
}

func TestServer_UsersAreIsolated(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := mockapi.New(logger)

	if rec := do(t, srv, http.MethodPost, "/list", "alice", `{"name":"Work"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var alice, bob []list
	if err := sonic.ConfigStd.Unmarshal(do(t, srv, http.MethodGet, "/list", "alice", "").Body.Bytes(), &alice); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := sonic.ConfigStd.Unmarshal(do(t, srv, http.MethodGet, "/list", "bob", "").Body.Bytes(), &bob); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(alice) != 2 || !alice[0].IsDefault || alice[1].Name != "Work" {
		t.Errorf("expected default list and Work for alice, got %+v", alice)
	}
	if len(bob) != 1 || bob[0].Name != mockapi.DefaultListName {
		t.Errorf("expected only the default list for bob, got %+v", bob)
	}
	if n := srv.Calls("GET /list"); n != 2 {
		t.Errorf("expected 2 list calls, got %d", n)
	}
}

func TestServer_DefaultListProtected(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := mockapi.New(logger)

	var def list
	rec := do(t, srv, http.MethodGet, "/list/default", "alice", "")
	if err := sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &def); err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := "/list/" + strconv.FormatInt(def.ID, 10)
	if rec := do(t, srv, http.MethodPut, path, "alice", `{"deleted":true}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on soft delete, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, path, "alice", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on delete, got %d", rec.Code)
	}
}

func TestServer_FailList(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := mockapi.New(logger)
	id := srv.SeedList("alice", "Work", false)
	srv.FailList(id, http.StatusInternalServerError, "boom")

	rec := do(t, srv, http.MethodPut, "/list/"+strconv.FormatInt(id, 10), "alice", `{"deleted":true}`)
	if rec.Code != http.StatusInternalServerError || rec.Body.String() != "boom" {
		t.Errorf("expected injected failure, got %d %q", rec.Code, rec.Body.String())
	}
	if deleted, ok := srv.ListDeleted(id); !ok || deleted {
		t.Errorf("expected list untouched, got deleted=%v ok=%v", deleted, ok)
	}
}
