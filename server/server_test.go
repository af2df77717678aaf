package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/suite"
	"golang.org/x/net/html"

	"portfolio/logger"
	"portfolio/options"
)

type serverTestSuite struct {
	suite.Suite
	server  *Server
	httpSrv *httptest.Server
	client  *http.Client
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(serverTestSuite))
}

func (s *serverTestSuite) SetupTest() {
	var err error
	s.server, err = New(&options.ServeOptions{
		Addr:            "127.0.0.1:0",
		CORSOrigins:     []string{"https://*.example.com"},
		MetricsEnabled:  true,
		BindRetries:     1,
		ShutdownTimeout: time.Second,
	}, logger.NewNoopLogger())
	s.Require().Nil(err)
	s.httpSrv = httptest.NewServer(s.server.Handler())
	s.client = s.httpSrv.Client()
}

func (s *serverTestSuite) TearDownTest() {
	s.httpSrv.Close()
}

func (s *serverTestSuite) get(path string) (*http.Response, *html.Node) {
	res, err := s.client.Get(s.httpSrv.URL + path)
	s.Require().Nil(err)
	return res, s.parse(res)
}

func (s *serverTestSuite) post(path string, form url.Values) (*http.Response, *html.Node) {
	res, err := s.client.PostForm(s.httpSrv.URL+path, form)
	s.Require().Nil(err)
	return res, s.parse(res)
}

func (s *serverTestSuite) parse(res *http.Response) *html.Node {
	defer func() {
		_ = res.Body.Close()
	}()
	doc, err := html.Parse(res.Body)
	s.Require().Nil(err)
	return doc
}

func findByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		for _, attr := range node.Attr {
			if attr.Key == "id" && attr.Val == id {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(node *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	if match(node) {
		found = append(found, node)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		found = append(found, findAll(child, match)...)
	}
	return found
}

func attr(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(node *html.Node) string {
	if node == nil {
		return ""
	}
	var builder strings.Builder
	for _, text := range findAll(node, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		builder.WriteString(text.Data)
	}
	return strings.TrimSpace(builder.String())
}

func listItems(doc *html.Node) []string {
	items := []string{}
	list := findByID(doc, "list")
	if list == nil {
		return items
	}
	for _, li := range findAll(list, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "li" }) {
		if attr(li, "class") == "empty" {
			continue
		}
		items = append(items, textOf(li))
	}
	return items
}

func hiddenItems(doc *html.Node) []string {
	items := []string{}
	for _, input := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "input" && attr(n, "name") == fieldListItem
	}) {
		items = append(items, attr(input, "value"))
	}
	return items
}

func (s *serverTestSuite) TestStaticPages() {
	for path, page := range map[string]string{"/": "index", "/profile": "profile", "/works": "works", "/contact": "contact"} {
		res, doc := s.get(path)
		s.Require().Equal(http.StatusOK, res.StatusCode, path)
		s.Require().Contains(res.Header.Get("Content-Type"), "text/html")
		s.Require().NotNil(findByID(doc, page), "missing main element for %v", path)
	}
}

func (s *serverTestSuite) TestUnknownPathAndMethod() {
	res, _ := s.get("/missing")
	s.Require().Equal(http.StatusNotFound, res.StatusCode)

	res, _ = s.post("/profile", url.Values{})
	s.Require().Equal(http.StatusMethodNotAllowed, res.StatusCode)
}

func (s *serverTestSuite) TestConvertPages() {
	for _, path := range []string{"/stacks", "/infix_to_postfix"} {
		res, doc := s.get(path)
		s.Require().Equal(http.StatusOK, res.StatusCode)
		s.Require().Nil(findByID(doc, "postfix"))

		res, doc = s.post(path, url.Values{fieldInfixInput: {"( A + B ) * C"}})
		s.Require().Equal(http.StatusOK, res.StatusCode)
		s.Require().Equal("A B + C *", textOf(findByID(doc, "postfix")))
		s.Require().Nil(findByID(doc, "message"))

		_, doc = s.post(path, url.Values{fieldInfixInput: {"A + ("}})
		s.Require().Equal("Error: Mismatched parentheses.", textOf(findByID(doc, "message")))
		s.Require().Nil(findByID(doc, "postfix"))

		_, doc = s.post(path, url.Values{})
		s.Require().Equal("Please enter an expression.", textOf(findByID(doc, "message")))
	}
}

func (s *serverTestSuite) TestListsRoundTrip() {
	_, doc := s.get("/lists")
	s.Require().Empty(listItems(doc))

	_, doc = s.post("/lists", url.Values{fieldAction: {"insert_end"}, fieldData: {"x"}})
	s.Require().Equal([]string{"x"}, listItems(doc))

	form := url.Values{fieldListItem: hiddenItems(doc), fieldAction: {"insert_end"}, fieldData: {"y"}}
	_, doc = s.post("/lists", form)
	s.Require().Equal([]string{"x", "y"}, listItems(doc))
	s.Require().Equal("Added 'y' to the end.", textOf(findByID(doc, "message")))

	form = url.Values{fieldListItem: hiddenItems(doc), fieldAction: {"remove_beg"}}
	_, doc = s.post("/lists", form)
	s.Require().Equal([]string{"y"}, listItems(doc))
	s.Require().Equal([]string{"y"}, hiddenItems(doc))
	s.Require().Equal("Removed 'x'.", textOf(findByID(doc, "message")))

	form = url.Values{fieldListItem: hiddenItems(doc), fieldAction: {"remove_at"}, fieldData: {"z"}}
	_, doc = s.post("/lists", form)
	s.Require().Equal("'z' not found.", textOf(findByID(doc, "message")))

	form = url.Values{fieldAction: {"remove_end"}}
	_, doc = s.post("/lists", form)
	s.Require().Equal("List is empty.", textOf(findByID(doc, "message")))
}

func (s *serverTestSuite) TestListItemsAreEscaped() {
	_, doc := s.post("/lists", url.Values{fieldAction: {"insert_beg"}, fieldData: {"<b>bold</b>"}})
	s.Require().Equal([]string{"<b>bold</b>"}, listItems(doc))
	s.Require().Equal([]string{"<b>bold</b>"}, hiddenItems(doc))
}

func (s *serverTestSuite) TestCalculators() {
	_, doc := s.post("/areaofcircle", url.Values{fieldRadius: {"2"}})
	s.Require().Equal("12.56", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaofcircle", url.Values{fieldRadius: {"abc"}})
	s.Require().Equal("Invalid input. Please enter a number.", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaoftriangle", url.Values{fieldBase: {"3"}, fieldHeight: {"5"}})
	s.Require().Equal("7.5", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaoftriangle", url.Values{fieldBase: {"3"}, fieldHeight: {"4"}})
	s.Require().Equal("6.0", textOf(findByID(doc, "result")))

	_, doc = s.post("/touppercase", url.Values{fieldInput: {"Hello"}})
	s.Require().Equal("HELLO", textOf(findByID(doc, "result")))

	_, doc = s.get("/areaofcircle")
	s.Require().Nil(findByID(doc, "result"))
}

func (s *serverTestSuite) TestCalculatorsBlankAndMissingFields() {
	_, doc := s.post("/areaofcircle", url.Values{fieldRadius: {""}})
	s.Require().Equal("Invalid input. Please enter a number.", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaofcircle", url.Values{"other": {"1"}})
	s.Require().Equal("0.0", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaoftriangle", url.Values{fieldBase: {"3"}, fieldHeight: {" "}})
	s.Require().Equal("Invalid input. Please enter valid numbers.", textOf(findByID(doc, "result")))

	_, doc = s.post("/areaoftriangle", url.Values{fieldBase: {"3"}})
	s.Require().Equal("0.0", textOf(findByID(doc, "result")))
}

func (s *serverTestSuite) TestHealthAndMetrics() {
	res, err := s.client.Get(s.httpSrv.URL + "/healthz")
	s.Require().Nil(err)
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	s.Require().Nil(err)
	s.Require().Equal("ok", string(body))

	s.post("/stacks", url.Values{fieldInfixInput: {"A + B"}})
	s.post("/lists", url.Values{fieldAction: {"bogus"}})

	res, err = s.client.Get(s.httpSrv.URL + "/metrics")
	s.Require().Nil(err)
	body, err = io.ReadAll(res.Body)
	_ = res.Body.Close()
	s.Require().Nil(err)
	metrics := string(body)
	s.Require().Contains(metrics, `portfolio_conversions_total{outcome="converted"} 1`)
	s.Require().Contains(metrics, `portfolio_list_actions_total{action="unknown"} 1`)
	s.Require().Contains(metrics, `portfolio_http_requests_total{code="200",method="GET",route="GET /healthz"} 1`)
}

func (s *serverTestSuite) TestMetricsDisabled() {
	server, err := New(&options.ServeOptions{Addr: ":0"}, logger.NewNoopLogger())
	s.Require().Nil(err)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Require().Equal(http.StatusNotFound, recorder.Code)
}

func (s *serverTestSuite) TestRequestIDHeader() {
	res, _ := s.get("/")
	_, err := ulid.ParseStrict(res.Header.Get(RequestIDHeader))
	s.Require().Nil(err)
}

func (s *serverTestSuite) TestCORS() {
	request, err := http.NewRequest(http.MethodGet, s.httpSrv.URL+"/", nil)
	s.Require().Nil(err)
	request.Header.Set("Origin", "https://www.example.com")
	res, err := s.client.Do(request)
	s.Require().Nil(err)
	_ = res.Body.Close()
	s.Require().Equal("https://www.example.com", res.Header.Get("Access-Control-Allow-Origin"))

	request.Header.Set("Origin", "https://evil.test")
	res, err = s.client.Do(request)
	s.Require().Nil(err)
	_ = res.Body.Close()
	s.Require().Empty(res.Header.Get("Access-Control-Allow-Origin"))
}

func (s *serverTestSuite) TestRecoveryMiddleware() {
	handler := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), logger.NewNoopLogger())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Require().Equal(http.StatusInternalServerError, recorder.Code)
}

func (s *serverTestSuite) TestInvalidOriginPattern() {
	_, err := New(&options.ServeOptions{Addr: ":0", CORSOrigins: []string{"https://[a-"}}, logger.NewNoopLogger())
	s.Require().NotNil(err)
}

func (s *serverTestSuite) TestServeShutsDownOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	listener, err := s.server.Listen(ctx)
	s.Require().Nil(err)

	done := make(chan error, 1)
	go func() {
		done <- s.server.Serve(ctx, listener)
	}()

	address := "http://" + listener.Addr().String()
	s.Require().Eventually(func() bool {
		res, err := http.Get(address + "/healthz")
		if err != nil {
			return false
		}
		_ = res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		s.Require().Nil(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not shut down")
	}
}

func (s *serverTestSuite) TestListenFailsWhenAddressTaken() {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().Nil(err)
	defer func() {
		_ = taken.Close()
	}()

	server, err := New(&options.ServeOptions{Addr: taken.Addr().String(), BindRetries: 2}, logger.NewNoopLogger())
	s.Require().Nil(err)
	_, err = server.Listen(context.Background())
	s.Require().NotNil(err)
}

func (s *serverTestSuite) TestListenWithZeroBindRetriesTriesOnce() {
	server, err := New(&options.ServeOptions{Addr: "127.0.0.1:0"}, logger.NewNoopLogger())
	s.Require().Nil(err)
	listener, err := server.Listen(context.Background())
	s.Require().Nil(err)
	s.Require().NotNil(listener)
	s.Require().Nil(listener.Close())
}
