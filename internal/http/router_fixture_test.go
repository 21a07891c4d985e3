package httpx

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/trash-classifier/internal/adapters/memory"
	"github.com/target/trash-classifier/internal/mocks"
	"github.com/target/trash-classifier/internal/service"
)

// routerFixture is a running router backed by an in-memory session store and mocked model/decoder.
type routerFixture struct {
	server *httptest.Server
	gen    *mocks.MockGenerator
	images *mocks.MockImageDecoder
	store  *memory.SessionStore
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	SkipIfNoTemplates(t)

	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	images := mocks.NewMockImageDecoder(ctrl)
	store, err := memory.NewSessionStore(64)
	require.NoError(t, err)

	controller, err := service.NewController(service.ControllerOptions{
		Deps: service.ControllerDeps{Sessions: store, Generator: gen, Images: images},
	})
	require.NoError(t, err)

	handler, err := NewRouter(RouterServices{
		Controller:      controller,
		GenAIConfigured: func() bool { return true },
		MaxUploadBytes:  1 << 20,
		TemplateFS:      os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &routerFixture{server: srv, gen: gen, images: images, store: store}
}

// browser keeps cookies and the last CSRF token like a real user agent would.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
	csrf   string
	htmx   bool
}

func (f *routerFixture) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: f.server.URL, client: &http.Client{Jar: jar}}
}

type page struct {
	status int
	header http.Header
	body   string
	doc    *goquery.Document
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	req.Header.Set("Accept", "text/html")
	if b.htmx {
		req.Header.Set("Hx-Request", "true")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	require.NoError(b.t, err)
	if token, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value"); ok && token != "" {
		b.csrf = token
	}
	return page{status: resp.StatusCode, header: resp.Header, body: string(raw), doc: doc}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// post submits a form with the current CSRF token.
func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, b.csrf)
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// upload posts a multipart form with one file in the image field.
func (b *browser) upload(path string, data []byte) page {
	b.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(b.t, mw.WriteField(DefaultCSRFCookieName, b.csrf))
	if data != nil {
		fw, err := mw.CreateFormFile(FieldImage, "photo.png")
		require.NoError(b.t, err)
		_, err = fw.Write(data)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, b.base+path, &body)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

// loginAs walks Home -> role -> Login and returns the dashboard page.
func (b *browser) loginAs(role, username, password string) page {
	b.t.Helper()
	b.get("/")
	b.post("/select-role", url.Values{FieldRole: {role}})
	return b.post("/login", url.Values{FieldUsername: {username}, FieldPassword: {password}})
}

// sessionID returns the session cookie the browser currently holds.
func (b *browser) sessionID() string {
	b.t.Helper()
	u, err := url.Parse(b.base)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == DefaultSessionCookie {
			return c.Value
		}
	}
	return ""
}

func pageOf(p page) string {
	v, _ := p.doc.Find("section.page").Attr("data-page")
	return v
}

func bannerText(p page) string {
	return strings.TrimSpace(p.doc.Find(".banner").Text())
}
