package api

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/matkit/internal/matstore"
	"github.com/samcharles93/matkit/pkg/matfile"
)

func newTestServer(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := matstore.New(8)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Purge)
	server, err := NewServer(dir, store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	e := echo.New()
	server.Register(e)
	return e, dir
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doConditional(t *testing.T, e *echo.Echo, path, etag string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListFiles(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	if err := writeTestMAT(filepath.Join(dir, "a.mat"), testVar{name: "a", re: []float64{1}}); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := writeTestMAT(filepath.Join(dir, "b.mat"), testVar{name: "b", re: []float64{2}}); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a mat"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var list FileList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Object != "list" {
		t.Fatalf("list object: got %q", list.Object)
	}
	if len(list.Data) != 2 || list.Data[0].Name != "a.mat" || list.Data[1].Name != "b.mat" {
		t.Fatalf("list data: got %+v", list.Data)
	}
	if list.Data[0].Size == 0 {
		t.Fatalf("listed file has no size")
	}
}

func TestFileSummary(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	err := writeTestMAT(filepath.Join(dir, "pair.mat"),
		testVar{name: "left", re: []float64{1, 2}},
		testVar{name: "right", re: []float64{3, 4}})
	if err != nil {
		t.Fatalf("write mat: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files/pair.mat", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var detail FileDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if detail.Name != "pair.mat" {
		t.Fatalf("name: got %q", detail.Name)
	}
	if detail.Description != "api test file" {
		t.Fatalf("description: got %q", detail.Description)
	}
	if detail.ByteOrder != "little" {
		t.Fatalf("byte order: got %q", detail.ByteOrder)
	}
	if detail.Version != 0x0100 {
		t.Fatalf("version: got %#x", detail.Version)
	}
	if detail.Elements != 2 || detail.Variables != 2 {
		t.Fatalf("counts: got %d elements, %d variables", detail.Elements, detail.Variables)
	}
	if detail.ETag == "" {
		t.Fatalf("summary has no etag")
	}
	if got := rec.Header().Get("ETag"); got != `"`+detail.ETag+`"` {
		t.Fatalf("etag header: got %q", got)
	}

	// A bare name resolves with the .mat suffix appended.
	rec = doJSON(t, e, http.MethodGet, "/v1/files/pair", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("suffixless status: got %d", rec.Code)
	}
}

func TestVariableListingAndValues(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	err := writeTestMAT(filepath.Join(dir, "mix.mat"),
		testVar{name: "plain", re: []float64{1, 0.5}},
		testVar{name: "wave", re: []float64{1, 2}, im: []float64{-1, -2}})
	if err != nil {
		t.Fatalf("write mat: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files/mix.mat/variables", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("variables status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var list VariableList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode variables: %v", err)
	}
	if list.File != "mix.mat" || len(list.Data) != 2 {
		t.Fatalf("variables list: got %+v", list)
	}
	if list.Data[0].Name != "plain" || list.Data[0].Class != "mxDOUBLE_CLASS" || list.Data[0].Complex {
		t.Fatalf("first variable: got %+v", list.Data[0])
	}
	if !list.Data[1].Complex {
		t.Fatalf("second variable not complex: %+v", list.Data[1])
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/files/mix.mat/variables/wave", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("values status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Name string    `json:"name"`
		Type string    `json:"type"`
		Dims []int32   `json:"dims"`
		Real []float64 `json:"real"`
		Imag []float64 `json:"imag"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode values: %v", err)
	}
	if got.Name != "wave" || got.Type != "miDOUBLE" {
		t.Fatalf("values identity: got %+v", got)
	}
	if len(got.Dims) != 2 || got.Dims[0] != 1 || got.Dims[1] != 2 {
		t.Fatalf("values dims: got %v", got.Dims)
	}
	if len(got.Real) != 2 || got.Real[0] != 1 || got.Real[1] != 2 {
		t.Fatalf("real values: got %v", got.Real)
	}
	if len(got.Imag) != 2 || got.Imag[0] != -1 || got.Imag[1] != -2 {
		t.Fatalf("imag values: got %v", got.Imag)
	}
}

func TestVariableMissing(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	if err := writeTestMAT(filepath.Join(dir, "a.mat"), testVar{name: "a", re: []float64{1}}); err != nil {
		t.Fatalf("write mat: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files/a.mat/variables/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing variable status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Error ResponseError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Type != "not_found_error" {
		t.Fatalf("error type: got %q", envelope.Error.Type)
	}
}

func TestConditionalRequests(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	path := filepath.Join(dir, "a.mat")
	if err := writeTestMAT(path, testVar{name: "a", re: []float64{1}}); err != nil {
		t.Fatalf("write mat: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files/a.mat", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first status: got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("first response has no etag header")
	}

	rec = doConditional(t, e, "/v1/files/a.mat", etag)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("304 carried a body: %s", rec.Body.String())
	}

	// Rewriting the file invalidates the old validator.
	if err := writeTestMAT(path, testVar{name: "a", re: []float64{1, 2, 3}}); err != nil {
		t.Fatalf("rewrite mat: %v", err)
	}
	rec = doConditional(t, e, "/v1/files/a.mat", etag)
	if rec.Code != http.StatusOK {
		t.Fatalf("post-rewrite status: got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got == etag || got == "" {
		t.Fatalf("post-rewrite etag not refreshed: %q", got)
	}
}

func TestUndecodableFile(t *testing.T) {
	t.Parallel()

	e, dir := newTestServer(t)
	junk := bytes.Repeat([]byte{'x'}, 200)
	if err := os.WriteFile(filepath.Join(dir, "junk.mat"), junk, 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	rec := doJSON(t, e, http.MethodGet, "/v1/files/junk.mat", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("junk status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Error ResponseError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Type != "undecodable_file_error" {
		t.Fatalf("error type: got %q", envelope.Error.Type)
	}
}

func TestUnknownFile(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)
	rec := doJSON(t, e, http.MethodGet, "/v1/files/absent.mat", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("absent file status: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestResolveFileRejectsEscapes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := matstore.New(2)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	srv, err := NewServer(dir, store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := writeTestMAT(filepath.Join(dir, "h.mat"), testVar{name: "h", re: []float64{1}}); err != nil {
		t.Fatalf("write mat: %v", err)
	}

	for _, name := range []string{"", ".", "..", "../h.mat", "sub/h.mat", ".hidden.mat"} {
		if _, err := srv.resolveFile(name); !errors.Is(err, ErrFileNotServed) {
			t.Fatalf("resolveFile(%q): got %v, want ErrFileNotServed", name, err)
		}
	}

	path, err := srv.resolveFile("h")
	if err != nil {
		t.Fatalf("resolveFile(h): %v", err)
	}
	if filepath.Base(path) != "h.mat" {
		t.Fatalf("suffix resolution: got %q", path)
	}
}

type testVar struct {
	name string
	re   []float64
	im   []float64
}

// writeTestMAT writes a little-endian MAT-file with one 1 x len(re)
// double variable per testVar.
func writeTestMAT(path string, vars ...testVar) error {
	le := binary.LittleEndian

	var out bytes.Buffer
	var hdr [128]byte
	copy(hdr[:], "api test file")
	le.PutUint16(hdr[124:126], 0x0100)
	le.PutUint16(hdr[126:128], 0x4d49)
	out.Write(hdr[:])

	for _, v := range vars {
		body := matrixBody(v)
		var tg [8]byte
		le.PutUint32(tg[0:4], uint32(matfile.TypeMatrix))
		le.PutUint32(tg[4:8], uint32(len(body)))
		out.Write(tg[:])
		out.Write(body)
		for out.Len()%8 != 0 {
			out.WriteByte(0)
		}
	}
	return os.WriteFile(path, out.Bytes(), 0o644)
}

func matrixBody(v testVar) []byte {
	le := binary.LittleEndian

	var body bytes.Buffer
	tag := func(typ matfile.DataType, size uint32) {
		var tg [8]byte
		le.PutUint32(tg[0:4], uint32(typ))
		le.PutUint32(tg[4:8], size)
		body.Write(tg[:])
	}
	doubles := func(vals []float64) {
		for _, f := range vals {
			var b [8]byte
			le.PutUint64(b[:], math.Float64bits(f))
			body.Write(b[:])
		}
	}

	tag(matfile.TypeUint32, 8)
	var flags [8]byte
	le.PutUint64(flags[:], uint64(matfile.ClassDouble))
	body.Write(flags[:])

	tag(matfile.TypeInt32, 8)
	var dims [8]byte
	le.PutUint32(dims[0:4], 1)
	le.PutUint32(dims[4:8], uint32(len(v.re)))
	body.Write(dims[:])

	tag(matfile.TypeInt8, uint32(len(v.name)))
	body.WriteString(v.name)
	for body.Len()%8 != 0 {
		body.WriteByte(0)
	}

	tag(matfile.TypeDouble, uint32(8*len(v.re)))
	doubles(v.re)
	if v.im != nil {
		tag(matfile.TypeDouble, uint32(8*len(v.im)))
		doubles(v.im)
	}
	return body.Bytes()
}
