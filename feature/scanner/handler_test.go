package scanner

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qr-registry/core/listing"
	"qr-registry/core/reconcile"
	"qr-registry/core/reconcile/mocks"
	"qr-registry/core/session"
	"qr-registry/feature/media"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testEnv struct {
	app      *fiber.App
	store    *mocks.RecordStore
	uploader *mocks.MediaUploader
	listing  *listing.Cache
	feature  *Feature
	spool    *media.Spool
}

func setupTestApp(t *testing.T) testEnv {
	t.Helper()
	store := new(mocks.RecordStore)
	uploader := new(mocks.MediaUploader)
	cache := listing.New()
	engine := reconcile.NewEngine(store, uploader, zap.NewNop())

	spool, err := media.NewSpool(t.TempDir())
	require.NoError(t, err)

	feature := NewFeature(session.NewManager(engine, cache, zap.NewNop(), 0), spool, zap.NewNop())
	app := fiber.New()
	require.NoError(t, feature.Load(app))

	return testEnv{app: app, store: store, uploader: uploader, listing: cache, feature: feature, spool: spool}
}

func (e testEnv) do(t *testing.T, method, target string, body any) (int, SessionView) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req)
}

func (e testEnv) send(t *testing.T, req *http.Request) (int, SessionView) {
	t.Helper()
	resp, err := e.app.Test(req, 2000)
	require.NoError(t, err)

	var view SessionView
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	}
	return resp.StatusCode, view
}

func (e testEnv) create(t *testing.T) string {
	status, view := e.do(t, "POST", "/scan/sessions", nil)
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, session.PhaseIdle, view.Phase)
	return view.ID
}

func multipartImage(t *testing.T, target, name string, data []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestScanFlow_NewCode(t *testing.T) {
	env := setupTestApp(t)
	id := env.create(t)
	base := "/scan/sessions/" + id

	env.store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").Return([]reconcile.Record{}, nil).Once()

	status, view := env.do(t, "POST", base+"/decode?wait=true", DecodeRequest{Code: "ABC123"})
	require.Equal(t, 200, status)
	require.Equal(t, session.PhaseDrafting, view.Phase)
	assert.Equal(t, "ABC123", view.Draft.Code)

	note, author := "hallway", "Alice"
	status, view = env.do(t, "PUT", base+"/draft", DraftRequest{Note: &note, Author: &author})
	require.Equal(t, 200, status)
	assert.Equal(t, "hallway", view.Draft.Note)
	assert.Equal(t, "Alice", view.Draft.Author)

	status, view = env.send(t, multipartImage(t, base+"/media", "h1.png", pngHeader))
	require.Equal(t, 200, status)
	handle := view.Draft.Media
	assert.Equal(t, env.spool.Dir(), filepath.Dir(handle))
	assert.True(t, strings.HasSuffix(handle, "-h1.png"))

	created := reconcile.Record{ID: "r1", Code: "ABC123", MediaRef: "https://cdn/u1", Note: "hallway", Author: "Alice"}
	env.uploader.On("Upload", mock.Anything, handle).Return("https://cdn/u1", nil).Once()
	env.store.On("Create", mock.Anything, reconcile.Payload{
		Code: "ABC123", MediaRef: "https://cdn/u1", Note: "hallway", Author: "Alice",
	}).Return(created, nil).Once()

	status, view = env.do(t, "POST", base+"/save?wait=true", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, session.PhaseIdle, view.Phase)
	require.NotNil(t, view.Saved)
	assert.Equal(t, "r1", view.Saved.ID)

	got, ok := env.listing.Get("r1")
	assert.True(t, ok)
	assert.Equal(t, created, got)

	// The spooled file is released once the commit lands
	assert.NoFileExists(t, handle)

	status, _ = env.do(t, "DELETE", base, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = env.do(t, "GET", base, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestScanFlow_ViewEditRescan(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)

	existing := reconcile.Record{ID: "r9", Code: "XYZ", MediaRef: "https://cdn/x", Note: "n", Author: "Bob"}
	env.store.On("Query", mock.Anything, reconcile.FieldCode, "XYZ").Return([]reconcile.Record{existing}, nil).Once()

	status, view := env.do(t, "POST", base+"/decode?wait=true", DecodeRequest{Code: "XYZ"})
	require.Equal(t, 200, status)
	require.Equal(t, session.PhaseViewing, view.Phase)
	assert.Equal(t, "r9", view.Matched.ID)

	status, view = env.do(t, "POST", base+"/edit", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, session.PhaseDrafting, view.Phase)
	assert.Equal(t, "r9", view.TargetID)
	assert.Equal(t, "https://cdn/x", view.Draft.Media)

	status, view = env.do(t, "POST", base+"/rescan", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, session.PhaseIdle, view.Phase)

	env.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	env.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestScan_DuplicateDecodeConflicts(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)

	release := make(chan struct{})
	env.store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").
		Run(func(mock.Arguments) { <-release }).
		Return([]reconcile.Record{}, nil).Once()

	status, view := env.do(t, "POST", base+"/decode", DecodeRequest{Code: "ABC123"})
	require.Equal(t, fiber.StatusAccepted, status)
	assert.True(t, view.Busy)

	status, view = env.do(t, "POST", base+"/decode", DecodeRequest{Code: "ABC123"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, session.ErrBusy.Error(), view.Error)

	close(release)
	status, view = env.do(t, "GET", base+"?wait=true", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, session.PhaseDrafting, view.Phase)
	env.store.AssertNumberOfCalls(t, "Query", 1)
}

func TestScan_SaveIncompleteDraft(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)
	env.store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").Return([]reconcile.Record{}, nil).Once()

	env.do(t, "POST", base+"/decode?wait=true", DecodeRequest{Code: "ABC123"})

	status, view := env.do(t, "POST", base+"/save", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, session.PhaseDrafting, view.Phase)
	assert.Contains(t, view.Error, "note")
	env.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestScan_UploadFailureKeepsDraft(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)
	handle, err := env.spool.Write("h1.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	env.store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").Return([]reconcile.Record{}, nil).Once()
	env.uploader.On("Upload", mock.Anything, handle).Return("", reconcile.ErrUploadFailed).Once()

	env.do(t, "POST", base+"/decode?wait=true", DecodeRequest{Code: "ABC123"})
	note, author := "hallway", "Alice"
	status, _ := env.do(t, "PUT", base+"/draft", DraftRequest{Note: &note, Author: &author, Media: &handle})
	require.Equal(t, 200, status)

	status, view := env.do(t, "POST", base+"/save?wait=true", nil)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, session.PhaseDrafting, view.Phase)
	assert.Equal(t, reconcile.Draft{Code: "ABC123", Media: handle, Note: "hallway", Author: "Alice"}, view.Draft)
	assert.FileExists(t, handle)
	env.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScan_DraftRejectsServerPaths(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)
	env.store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").Return([]reconcile.Record{}, nil).Once()
	env.do(t, "POST", base+"/decode?wait=true", DecodeRequest{Code: "ABC123"})

	private := filepath.Join(t.TempDir(), "private.png")
	require.NoError(t, os.WriteFile(private, pngHeader, 0o600))

	note := "hallway"
	for _, ref := range []string{private, "file://" + private, filepath.Join(env.spool.Dir(), "..", "private.png")} {
		status, _ := env.do(t, "PUT", base+"/draft", DraftRequest{Note: &note, Media: &ref})
		assert.Equal(t, fiber.StatusBadRequest, status, ref)
	}

	// Nothing from the rejected request was applied
	_, view := env.do(t, "GET", base, nil)
	assert.Equal(t, reconcile.Draft{Code: "ABC123"}, view.Draft)

	remote := "https://cdn.example.com/media/qr/a.png"
	status, view := env.do(t, "PUT", base+"/draft", DraftRequest{Media: &remote})
	assert.Equal(t, 200, status)
	assert.Equal(t, remote, view.Draft.Media)
}

func TestScan_Rejections(t *testing.T) {
	env := setupTestApp(t)
	base := "/scan/sessions/" + env.create(t)

	status, view := env.do(t, "POST", base+"/edit", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, session.ErrNotApplicable.Error(), view.Error)

	note := "x"
	status, _ = env.do(t, "PUT", base+"/draft", DraftRequest{Note: &note})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = env.send(t, multipartImage(t, base+"/media", "a.png", pngHeader))
	assert.Equal(t, fiber.StatusConflict, status)
	entries, err := os.ReadDir(env.spool.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	status, _ = env.do(t, "POST", base+"/decode", DecodeRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/scan/sessions/unknown/save", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestService_Sweep(t *testing.T) {
	env := setupTestApp(t)
	svc := env.feature.Service()
	id := env.create(t)

	assert.Zero(t, svc.Sweep(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, svc.Sweep(time.Millisecond))

	_, err := svc.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoader(t *testing.T) {
	env := setupTestApp(t)
	assert.Equal(t, "scanner", env.feature.Name())
	assert.True(t, env.feature.IsEnabled())
}
