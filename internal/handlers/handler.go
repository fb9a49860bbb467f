package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/wages-generator/internal/adapters/manual"
	"github.com/csg33k/wages-generator/internal/adapters/pdf"
	"github.com/csg33k/wages-generator/internal/adapters/sqldb"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/adapters/xlsx"
	"github.com/csg33k/wages-generator/internal/auth"
	"github.com/csg33k/wages-generator/internal/domain"
	"github.com/csg33k/wages-generator/internal/ports"
	"github.com/csg33k/wages-generator/internal/templates"
)

const maxUpload = 10 << 20

// Settings are the form defaults shown to the operator.
type Settings struct {
	DefaultBatch string
	TrailingCRLF bool
}

type Handler struct {
	repo     ports.RunRepository
	enc      ports.RecordEncoder
	rows     ports.RowReader
	gate     *auth.Gate
	sessions *auth.Sessions
	settings Settings
	log      *slog.Logger
	now      func() time.Time
}

func New(repo ports.RunRepository, enc ports.RecordEncoder, rows ports.RowReader,
	gate *auth.Gate, sessions *auth.Sessions, settings Settings, log *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		enc:      enc,
		rows:     rows,
		gate:     gate,
		sessions: sessions,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", h.loginForm)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)

	mux.Handle("GET /{$}", h.operator(h.index))
	mux.Handle("POST /preview", h.operator(h.preview))
	mux.Handle("POST /generate", h.operator(h.generate))
	mux.Handle("GET /runs/{id}/download", h.operator(h.downloadRun))
	mux.Handle("GET /runs/{id}/pdf", h.operator(h.runPDF))
	mux.Handle("DELETE /runs/{id}", h.operator(h.deleteRun))
	mux.Handle("GET /template", h.operator(h.downloadTemplate))
	return mux
}

// ── Session ───────────────────────────────────────────────────────────────────

type operatorKey struct{}

// operator rejects requests without a valid session cookie. htmx requests
// get an HX-Redirect; plain requests a 303 to the login page.
func (h *Handler) operator(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, err := h.sessions.FromRequest(r)
		if err != nil {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), operatorKey{}, op)))
	})
}

func operatorName(r *http.Request) string {
	if op, ok := r.Context().Value(operatorKey{}).(*domain.Operator); ok {
		return op.Username
	}
	return ""
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.FromRequest(r); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, templates.Login("", ""))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	username := r.FormValue("username")
	err := h.gate.Login(username, r.FormValue("password"))
	switch {
	case errors.Is(err, auth.ErrLockedOut):
		h.log.Warn("login locked out", "user", username)
		renderStatus(w, r, http.StatusTooManyRequests, templates.Login(username, err.Error()))
		return
	case err != nil:
		h.log.Warn("login failed", "user", username)
		renderStatus(w, r, http.StatusUnauthorized, templates.Login(username, "Invalid user name or password."))
		return
	}

	token, op, err := h.sessions.Issue(username)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	h.log.Info("operator logged in", "user", op.Username, "session", op.SessionID)
	http.SetCookie(w, h.sessions.Cookie(token, op.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ClearCookie())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ── Pages ─────────────────────────────────────────────────────────────────────

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.ListRuns(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	render(w, r, templates.Index(h.indexData(r, runs, "")))
}

func (h *Handler) indexData(r *http.Request, runs []domain.Run, errMsg string) templates.IndexData {
	now := h.now()
	return templates.IndexData{
		Operator:     operatorName(r),
		Runs:         runs,
		DefaultBatch: h.settings.DefaultBatch,
		Year:         now.Year(),
		Quarter:      (int(now.Month())-1)/3 + 1,
		TrailingCRLF: h.settings.TrailingCRLF,
		Error:        errMsg,
	}
}

// preview encodes the first row and renders its field audit, or a PDF of it
// with ?format=pdf.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := h.enc.Encode(in.rows[0], h.now(), in.batch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		var buf bytes.Buffer
		if err := pdf.PreviewPDF(&buf, rec); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		download(w, "application/pdf", fmt.Sprintf("preview_row%d.pdf", rec.RowNumber), buf.Bytes())
		return
	}
	render(w, r, templates.Preview(rec))
}

// generate encodes every row, stores the run and downloads the file.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename, err := wages.OutputFilename(in.year, in.quarter)
	if err != nil {
		h.fail(w, r, &inputError{err.Error()})
		return
	}
	batch, err := wages.NormalizeBatch(in.batch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.enc.EncodeAll(r.Context(), in.rows, h.now(), batch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := wages.WriteFile(&buf, records, in.trailingCRLF); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	run := &domain.Run{
		Filename:     filename,
		Batch:        batch,
		Quarter:      strconv.Itoa(in.quarter),
		RowCount:     len(records),
		TrailingCRLF: in.trailingCRLF,
		Content:      buf.Bytes(),
		Operator:     operatorName(r),
		CreatedAt:    h.now().UTC(),
	}
	if err := h.repo.CreateRun(r.Context(), run); err != nil {
		h.log.Error("store run", "file", filename, "err", err)
		http.Error(w, err.Error(), 500)
		return
	}
	h.log.Info("generated wages file", "run", run.ID, "file", filename, "records", run.RowCount, "operator", run.Operator)
	download(w, "text/plain; charset=utf-8", filename, run.Content)
}

// ── Runs ──────────────────────────────────────────────────────────────────────

func (h *Handler) downloadRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.getRun(w, r)
	if !ok {
		return
	}
	download(w, "text/plain; charset=utf-8", run.Filename, run.Content)
}

func (h *Handler) runPDF(w http.ResponseWriter, r *http.Request) {
	run, ok := h.getRun(w, r)
	if !ok {
		return
	}
	records, err := wages.ParseFile(run.Content)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	if err := pdf.RunPDF(&buf, run, records); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	name := strings.TrimSuffix(run.Filename, ".txt") + "_report.pdf"
	download(w, "application/pdf", name, buf.Bytes())
}

func (h *Handler) deleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.DeleteRun(r.Context(), id); err != nil {
		if errors.Is(err, sqldb.ErrNotFound) {
			http.Error(w, "run not found", 404)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}
	h.log.Info("deleted run", "run", id, "operator", operatorName(r))
	runs, err := h.repo.ListRuns(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	render(w, r, templates.RunList(runs))
}

func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) (*domain.Run, bool) {
	run, err := h.repo.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, sqldb.ErrNotFound) {
		http.Error(w, "run not found", 404)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return nil, false
	}
	return run, true
}

func (h *Handler) downloadTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := xlsx.WriteTemplate(&buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	download(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "EmployeeTemplate.xlsx", buf.Bytes())
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// inputError is an operator mistake outside any row (bad year, no rows).
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

// fail reports operator-correctable errors with 422 and everything else
// with 500. htmx targets get a fragment; full posts re-render the page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *wages.ValidationError
		ie *inputError
		mc *xlsx.MissingColumnsError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve), errors.As(err, &ie), errors.As(err, &mc),
		errors.Is(err, wages.ErrNoRows), errors.Is(err, xlsx.ErrNoData):
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
	}

	if r.Header.Get("HX-Request") == "true" {
		renderStatus(w, r, status, templates.Error(err.Error()))
		return
	}
	runs, lerr := h.repo.ListRuns(r.Context())
	if lerr != nil {
		h.log.Error("list runs", "err", lerr)
	}
	renderStatus(w, r, status, templates.Index(h.indexData(r, runs, err.Error())))
}

// input is one submitted generation request.
type input struct {
	rows         []domain.InputRow
	batch        string
	year         int
	quarter      int
	trailingCRLF bool
}

// readInput reads rows from a JSON grid body, the uploaded workbook when one
// is attached, or the manual grid form. Settings come from form fields, or
// from the query string for JSON bodies.
func (h *Handler) readInput(r *http.Request) (*input, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, &inputError{"could not read form: " + err.Error()}
	}

	in := &input{
		batch:        h.settings.DefaultBatch,
		year:         h.now().Year(),
		trailingCRLF: r.FormValue("trailing_crlf") != "",
	}
	if _, ok := r.Form["batch"]; ok {
		in.batch = r.FormValue("batch")
	}
	if v := strings.TrimSpace(r.FormValue("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, &inputError{"year must be a number"}
		}
		in.year = y
	}
	in.quarter, _ = strconv.Atoi(r.FormValue("filing_quarter"))

	var err error
	switch {
	case isJSON(r):
		grid, jerr := manual.DecodeJSON(r.Body)
		if jerr != nil {
			return nil, &inputError{jerr.Error()}
		}
		in.rows, err = manual.Rows(grid)
	default:
		if f, hdr, ferr := r.FormFile("workbook"); ferr == nil && hdr.Size > 0 {
			defer f.Close()
			in.rows, err = h.rows.ReadRows(r.Context(), f)
		} else {
			in.rows, err = manual.Rows(manual.FromForm(r.Form))
		}
	}
	if err != nil {
		return nil, err
	}
	if len(in.rows) == 0 {
		return nil, wages.ErrNoRows
	}
	return in, nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render", "path", r.URL.Path, "err", err)
	}
}

func download(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(body)
}
