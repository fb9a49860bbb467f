package handlers_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/csg33k/wages-generator/internal/adapters/sqldb"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/adapters/xlsx"
	"github.com/csg33k/wages-generator/internal/auth"
	"github.com/csg33k/wages-generator/internal/domain"
	"github.com/csg33k/wages-generator/internal/handlers"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type memRepo struct {
	mu   sync.Mutex
	runs map[string]domain.Run
}

func (m *memRepo) CreateRun(_ context.Context, r *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.runs[r.ID] = *r
	return nil
}

func (m *memRepo) GetRun(_ context.Context, id string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, sqldb.ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) ListRuns(context.Context) ([]domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Run
	for _, r := range m.runs {
		r.Content = nil
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) DeleteRun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return sqldb.ErrNotFound
	}
	delete(m.runs, id)
	return nil
}

type server struct {
	t      *testing.T
	repo   *memRepo
	h      http.Handler
	cookie *http.Cookie
}

func newServer(t *testing.T) *server {
	t.Helper()
	salt := []byte("fixed-test-salt!")
	creds := auth.Credentials{Username: "Kiri", Salt: salt, Hash: auth.HashPassword("s3cret", salt, 100), Iterations: 100}
	sessions := auth.NewSessions([]byte("test-secret"), time.Hour)
	repo := &memRepo{runs: map[string]domain.Run{}}
	h := handlers.New(
		repo,
		wages.New(),
		xlsx.NewReader(),
		auth.NewGate(creds, auth.NewThrottle(5, time.Minute)),
		sessions,
		handlers.Settings{DefaultBatch: "0000001"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	token, op, err := sessions.Issue("Kiri")
	if err != nil {
		t.Fatal(err)
	}
	return &server{t: t, repo: repo, h: h.Routes(), cookie: sessions.Cookie(token, op.ExpiresAt)}
}

func (s *server) do(req *http.Request, authed bool) *httptest.ResponseRecorder {
	s.t.Helper()
	if authed {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, v url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func manualForm(rows ...[5]string) url.Values {
	v := url.Values{"batch": {"0000001"}, "year": {"2025"}, "filing_quarter": {"3"}}
	for _, r := range rows {
		v.Add("full_name", r[0])
		v.Add("ssn", r[1])
		v.Add("salary", r[2])
		v.Add("account_number", r[3])
		v.Add("quarter", r[4])
	}
	return v
}

var juan = [5]string{"Juan Carlos Perez Lopez", "123-45-6789", "1234.56", "1234567890", "001"}

// ---------------------------------------------------------------------------
// Session gate
// ---------------------------------------------------------------------------

func TestRequiresSession(t *testing.T) {
	s := newServer(t)

	rec := s.do(httptest.NewRequest("GET", "/", nil), false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("plain request: want 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	req := httptest.NewRequest("POST", "/preview", nil)
	req.Header.Set("HX-Request", "true")
	rec = s.do(req, false)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("HX-Redirect") != "/login" {
		t.Errorf("htmx request: want 401 with HX-Redirect, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	s := newServer(t)

	rec := s.do(formRequest("POST", "/login", url.Values{"username": {"Kiri"}, "password": {"nope"}}), false)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid user name or password.") {
		t.Errorf("bad password: got %d", rec.Code)
	}

	rec = s.do(formRequest("POST", "/login", url.Values{"username": {"Kiri"}, "password": {"s3cret"}}), false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("good password: want 303, got %d", rec.Code)
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatal("no HTTP-only session cookie set")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(session)
	if rec := s.do(req, false); rec.Code != http.StatusOK {
		t.Errorf("index with new session: got %d", rec.Code)
	}
}

func TestLogin_LocksOut(t *testing.T) {
	s := newServer(t)
	bad := url.Values{"username": {"Kiri"}, "password": {"nope"}}
	var rec *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		rec = s.do(formRequest("POST", "/login", bad), false)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("fifth failure: want 429, got %d", rec.Code)
	}
	good := url.Values{"username": {"Kiri"}, "password": {"s3cret"}}
	if rec := s.do(formRequest("POST", "/login", good), false); rec.Code != http.StatusTooManyRequests {
		t.Errorf("login while locked: want 429, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	s := newServer(t)
	rec := s.do(httptest.NewRequest("POST", "/logout", nil), true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("want 303, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("session cookie not cleared: %+v", cookies)
	}
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func TestGenerate_ManualGrid(t *testing.T) {
	s := newServer(t)
	ana := [5]string{"Ana Torres", "987654321", "50", "55501", "001"}
	rec := s.do(formRequest("POST", "/generate", manualForm(juan, [5]string{}, ana)), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Wages253.txt"` {
		t.Errorf("Content-Disposition: %q", cd)
	}
	body := rec.Body.String()
	lines := strings.Split(body, "\r\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines without trailing CRLF, got %d", len(lines))
	}
	for i, l := range lines {
		if len(l) != 150 {
			t.Errorf("line %d: length %d", i, len(l))
		}
	}
	if !strings.HasPrefix(lines[1], "987654321") {
		t.Errorf("second line is not Ana: %q", lines[1][:9])
	}

	if len(s.repo.runs) != 1 {
		t.Fatalf("want 1 stored run, got %d", len(s.repo.runs))
	}
	for _, run := range s.repo.runs {
		if run.Filename != "Wages253.txt" || run.RowCount != 2 || run.Operator != "Kiri" || run.Batch != "000001" {
			t.Errorf("unexpected run: %+v", run)
		}
		if string(run.Content) != body {
			t.Error("stored content differs from download")
		}
	}
}

func TestGenerate_TrailingCRLF(t *testing.T) {
	s := newServer(t)
	v := manualForm(juan)
	v.Set("trailing_crlf", "on")
	rec := s.do(formRequest("POST", "/generate", v), true)
	if rec.Code != http.StatusOK || !strings.HasSuffix(rec.Body.String(), "\r\n") || rec.Body.Len() != 152 {
		t.Errorf("want one CRLF-terminated line, got %d bytes (status %d)", rec.Body.Len(), rec.Code)
	}
}

func TestGenerate_Workbook(t *testing.T) {
	s := newServer(t)

	var tpl bytes.Buffer
	if err := xlsx.WriteTemplate(&tpl); err != nil {
		t.Fatal(err)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{"batch": "42", "year": "2026", "filing_quarter": "1"} {
		mw.WriteField(k, v)
	}
	fw, err := mw.CreateFormFile("workbook", "employees.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(tpl.Bytes())
	mw.Close()

	req := httptest.NewRequest("POST", "/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := s.do(req, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Wages261.txt") {
		t.Errorf("Content-Disposition: %q", cd)
	}
	line := rec.Body.String()
	if len(line) != 150 || line[75:81] != "000042" {
		t.Errorf("unexpected record: %q", line)
	}
}

func TestGenerate_Errors(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"validation", manualForm([5]string{"Juan Perez", "abc", "1", "12", "001"}), "Row 2, Column &#39;SSN&#39;"},
		{"partial", manualForm([5]string{"Juan Perez", "1", "", "12", "001"}), "Field is required."},
		{"no rows", manualForm(), "no non-empty employee rows found"},
		{"batch", func() url.Values { v := manualForm(juan); v.Set("batch", " "); return v }(), "Batch number is required."},
		{"quarter", func() url.Values { v := manualForm(juan); v.Set("filing_quarter", ""); return v }(), "quarter must be selected"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newServer(t)
			rec := s.do(formRequest("POST", "/generate", c.form), true)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("want 422, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), c.want) {
				t.Errorf("body lacks %q", c.want)
			}
			if len(s.repo.runs) != 0 {
				t.Error("a run was stored despite the error")
			}
		})
	}
}

func TestGenerate_JSONGrid(t *testing.T) {
	s := newServer(t)
	body := `[
		{"full_name": "Juan Carlos Perez Lopez", "ssn": "123-45-6789", "salary": "1234.56", "account_number": "1234567890", "quarter": "001"},
		{"full_name": "", "ssn": "", "salary": "", "account_number": "", "quarter": ""}
	]`
	req := httptest.NewRequest("POST", "/generate?batch=42&year=2025&filing_quarter=3", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := s.do(req, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Wages253.txt") {
		t.Errorf("Content-Disposition: %q", cd)
	}
	line := rec.Body.String()
	if len(line) != 150 || !strings.HasPrefix(line, "123456789") || line[75:81] != "000042" {
		t.Errorf("unexpected record: %q", line)
	}
	for _, run := range s.repo.runs {
		if run.Batch != "000042" || run.RowCount != 1 {
			t.Errorf("unexpected run: %+v", run)
		}
	}
}

func TestGenerate_JSONGridErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"malformed": {`{"full_name": `, "decode grid"},
		"invalid row": {`[{"full_name": "Juan Perez", "ssn": "abc", "salary": "1", "account_number": "12", "quarter": "001"}]`, "Row 2, Column &#39;SSN&#39;"},
		"empty": {`[]`, "no non-empty employee rows found"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := newServer(t)
			req := httptest.NewRequest("POST", "/generate?filing_quarter=3", strings.NewReader(c.body))
			req.Header.Set("Content-Type", "application/json")
			rec := s.do(req, true)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("want 422, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), c.want) {
				t.Errorf("body lacks %q", c.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	s := newServer(t)
	req := formRequest("POST", "/preview", manualForm(juan, [5]string{}))
	req.Header.Set("HX-Request", "true")
	rec := s.do(req, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Record Preview · Row 2") {
		t.Error("preview fragment missing")
	}
	if len(s.repo.runs) != 0 {
		t.Error("preview stored a run")
	}
}

func TestPreview_ErrorFragment(t *testing.T) {
	s := newServer(t)
	req := formRequest("POST", "/preview", manualForm([5]string{"Madonna", "1", "1", "12", "001"}))
	req.Header.Set("HX-Request", "true")
	rec := s.do(req, true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "error-box") || strings.Contains(body, "<html") {
		t.Errorf("want a bare error fragment, got %q", body)
	}
}

func TestPreview_PDF(t *testing.T) {
	s := newServer(t)
	rec := s.do(formRequest("POST", "/preview?format=pdf", manualForm(juan)), true)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("want a PDF, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

// ---------------------------------------------------------------------------
// Run history
// ---------------------------------------------------------------------------

func TestRuns(t *testing.T) {
	s := newServer(t)
	if rec := s.do(formRequest("POST", "/generate", manualForm(juan)), true); rec.Code != http.StatusOK {
		t.Fatalf("generate: %d", rec.Code)
	}
	var id string
	for k := range s.repo.runs {
		id = k
	}

	rec := s.do(httptest.NewRequest("GET", "/", nil), true)
	if !strings.Contains(rec.Body.String(), "/runs/"+id+"/download") {
		t.Error("index does not list the run")
	}

	rec = s.do(httptest.NewRequest("GET", "/runs/"+id+"/download", nil), true)
	if rec.Code != http.StatusOK || rec.Body.Len() != 150 {
		t.Errorf("download: %d, %d bytes", rec.Code, rec.Body.Len())
	}

	rec = s.do(httptest.NewRequest("GET", "/runs/"+id+"/pdf", nil), true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), "Wages253_report.pdf") {
		t.Errorf("pdf: %d %q", rec.Code, rec.Header().Get("Content-Disposition"))
	}

	rec = s.do(httptest.NewRequest("DELETE", "/runs/"+id, nil), true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No files generated yet.") {
		t.Errorf("delete: %d %q", rec.Code, rec.Body.String())
	}

	for _, req := range []*http.Request{
		httptest.NewRequest("GET", "/runs/"+id+"/download", nil),
		httptest.NewRequest("GET", "/runs/"+id+"/pdf", nil),
		httptest.NewRequest("DELETE", "/runs/"+id, nil),
	} {
		if rec := s.do(req, true); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s after delete: want 404, got %d", req.Method, req.URL.Path, rec.Code)
		}
	}
}

func TestTemplateDownload(t *testing.T) {
	s := newServer(t)
	rec := s.do(httptest.NewRequest("GET", "/template", nil), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("template is not a zip container")
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("Content-Disposition: %q", rec.Header().Get("Content-Disposition"))
	}
}
