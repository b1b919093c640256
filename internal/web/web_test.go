package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/armory/internal/armor"
	"github.com/erazemk/armory/internal/auth"
	"github.com/erazemk/armory/internal/db"
	"github.com/erazemk/armory/internal/export"
	"github.com/erazemk/armory/internal/model"
	"github.com/erazemk/armory/internal/store"
)

const testJWTSecret = "test-secret"

type testSite struct {
	*httptest.Server
	db   *sql.DB
	hood int64
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	hood, err := store.CreateArmor(ctx, database, model.Armor{
		Name: "Hylian Hood", SetCode: "HYLIAN_SET", BodyPart: model.BodyPartHead, MaxLevel: 2,
	})
	if err != nil {
		t.Fatalf("CreateArmor: %v", err)
	}
	if _, err := store.CreateArmor(ctx, database, model.Armor{
		Name: "Sand Boots", BodyPart: model.BodyPartLegs, MaxLevel: 0,
	}); err != nil {
		t.Fatalf("CreateArmor: %v", err)
	}
	if err := store.AddUpgradeCost(ctx, database, model.UpgradeCost{
		ArmorID: hood.ID, Level: 1, Material: "AMBER", Quantity: 5,
	}); err != nil {
		t.Fatalf("AddUpgradeCost: %v", err)
	}

	tracker := armor.NewTracker(database, armor.DefaultConfig())
	router, err := NewRouter(database, testJWTSecret, auth.DefaultLifetimes(), tracker)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testSite{Server: server, db: database, hood: hood.ID}
}

func (s *testSite) createUser(t *testing.T, username, role string) int64 {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	u, err := store.CreateUser(context.Background(), s.db, username, string(hash), role)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u.ID
}

// client returns an HTTP client with a cookie jar that does not follow
// redirects.
func (s *testSite) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testSite) login(t *testing.T, c *http.Client, username string) {
	t.Helper()
	resp, err := c.PostForm(s.URL+"/login", url.Values{"username": {username}, "password": {"password"}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("login failed: %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestArmorPageRequiresLogin(t *testing.T) {
	site := newTestSite(t)

	resp, _ := get(t, site.client(t), site.URL+"/")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	site := newTestSite(t)
	site.createUser(t, "link@hyrule.gov", model.RoleUser)

	resp, err := site.client(t).PostForm(site.URL+"/login", url.Values{
		"username": {"link@hyrule.gov"}, "password": {"wrong"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected login page, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Invalid email or password.") {
		t.Error("expected error message on login page")
	}
}

func TestArmorPage(t *testing.T) {
	site := newTestSite(t)
	site.createUser(t, "link@hyrule.gov", model.RoleUser)
	c := site.client(t)
	site.login(t, c, "link@hyrule.gov")

	resp, body := get(t, c, site.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"Hylian Hood", "Sand Boots", "Not purchased", "Amber"} {
		if !strings.Contains(body, want) {
			t.Errorf("armor page missing %q", want)
		}
	}
	if strings.Index(body, "Hylian Hood") > strings.Index(body, "Sand Boots") {
		t.Error("expected set pieces before pieces without a set")
	}
}

func TestUpdateArmorForm(t *testing.T) {
	site := newTestSite(t)
	userID := site.createUser(t, "link@hyrule.gov", model.RoleUser)
	c := site.client(t)
	site.login(t, c, "link@hyrule.gov")

	resp, err := c.PostForm(site.URL+"/update-armor", url.Values{
		"Hylian Hood": {"1"},
		"Sand Boots":  {""},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	levels, err := store.GetUserLevels(context.Background(), site.db, userID)
	if err != nil {
		t.Fatalf("GetUserLevels: %v", err)
	}
	if len(levels) != 1 || levels[site.hood] != 1 {
		t.Errorf("expected only the hood at level 1, got %v", levels)
	}

	_, body := get(t, c, site.URL+"/?saved=1")
	if !strings.Contains(body, "Armor levels saved.") {
		t.Error("expected saved message")
	}
	if !strings.Contains(body, "Nothing left to collect.") {
		t.Error("expected no remaining materials")
	}
}

func TestUpdateArmorFormMalformed(t *testing.T) {
	site := newTestSite(t)
	userID := site.createUser(t, "link@hyrule.gov", model.RoleUser)
	c := site.client(t)
	site.login(t, c, "link@hyrule.gov")

	resp, err := c.PostForm(site.URL+"/update-armor", url.Values{
		"Hylian Hood": {"one"},
		"Sand Boots":  {"0"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	levels, _ := store.GetUserLevels(context.Background(), site.db, userID)
	if len(levels) != 0 {
		t.Errorf("rejected form must not change state, got %v", levels)
	}
}

func TestLogoutRevokesCookie(t *testing.T) {
	site := newTestSite(t)
	site.createUser(t, "link@hyrule.gov", model.RoleUser)
	c := site.client(t)
	site.login(t, c, "link@hyrule.gov")

	u, _ := url.Parse(site.URL)
	cookies := c.Jar.Cookies(u)

	resp, err := c.Post(site.URL+"/logout", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()

	// Replay the old cookie.
	replay := site.client(t)
	replay.Jar.SetCookies(u, cookies)
	resp, _ = get(t, replay, site.URL+"/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected redirect for revoked cookie, got %d", resp.StatusCode)
	}
}

func TestUsersPageAdminOnly(t *testing.T) {
	site := newTestSite(t)
	site.createUser(t, "link@hyrule.gov", model.RoleUser)
	site.createUser(t, "impa@hyrule.gov", model.RoleAdmin)

	user := site.client(t)
	site.login(t, user, "link@hyrule.gov")
	resp, _ := get(t, user, site.URL+"/users")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user, got %d", resp.StatusCode)
	}

	admin := site.client(t)
	site.login(t, admin, "impa@hyrule.gov")
	resp, body := get(t, admin, site.URL+"/users")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "link@hyrule.gov") {
		t.Error("expected user list")
	}
}

func TestArmorExport(t *testing.T) {
	site := newTestSite(t)
	site.createUser(t, "link@hyrule.gov", model.RoleUser)
	c := site.client(t)
	site.login(t, c, "link@hyrule.gov")

	resp, body := get(t, c, site.URL+"/armor/export.xlsx")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != export.ContentType {
		t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if len(body) == 0 {
		t.Error("expected a workbook")
	}
}
