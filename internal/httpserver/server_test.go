package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/havefun/internal/accumulator"
	"github.com/robalobadob/havefun/internal/category"
	"github.com/robalobadob/havefun/internal/store"
	"github.com/robalobadob/havefun/internal/tally"
)

type ServerTestSuite struct {
	suite.Suite
	backend store.Backend
	router  http.Handler
	server  *httptest.Server
}

func (suite *ServerTestSuite) SetupTest() {
	ctx := context.Background()
	suite.backend = store.NewMemory()
	srv := New(Deps{
		Chinchon:     accumulator.NewStore(ctx, accumulator.Chinchon, suite.backend),
		DiezMil:      accumulator.NewStore(ctx, accumulator.DiezMil, suite.backend),
		Generala:     category.NewStore(ctx, suite.backend),
		Truco:        tally.NewStore(ctx, tally.Fifteen, suite.backend),
		WinDebounce:  2 * time.Second,
		ClientOrigin: "http://localhost:5173",
	})
	suite.router = srv.Router()
	suite.server = httptest.NewServer(suite.router)
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.server.Close()
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

// do sends a request and decodes the JSON response into out (when non-nil).
func (suite *ServerTestSuite) do(method, path, body string, out any) int {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, rd)
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	suite.Require().NoError(err)
	if out != nil {
		suite.Require().NoError(json.Unmarshal(raw, out), string(raw))
	}
	return res.StatusCode
}

func (suite *ServerTestSuite) TestHealthAndNotFound() {
	var health map[string]bool
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/health", "", &health))
	suite.True(health["ok"])

	var nf map[string]string
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/nope", "", &nf))
	suite.Equal("not_found", nf["error"])
}

func (suite *ServerTestSuite) TestCORSPreflight() {
	req, err := http.NewRequest(http.MethodOptions, suite.server.URL+"/truco/us/increment", nil)
	suite.Require().NoError(err)
	res, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	res.Body.Close()
	suite.Equal(http.StatusNoContent, res.StatusCode)
	suite.Equal("http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))
}

func (suite *ServerTestSuite) TestChinchonScenario() {
	var v accumulatorView
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/chinchon/", "", &v))
	suite.Require().Len(v.Players, 1)
	id := v.Players[0].ID
	turns := "/chinchon/players/" + id + "/turns/"

	suite.do(http.MethodPut, turns+"0", `{"value":30}`, &v)
	suite.do(http.MethodPut, turns+"1", `{"value":20}`, &v)
	suite.Equal(50, v.Players[0].Total)
	suite.Equal(50, v.Players[0].Remaining)
	suite.Equal(3, v.Rows)

	suite.do(http.MethodPut, turns+"0", `{"value":0}`, &v)
	suite.Equal(20, v.Players[0].Total)

	// the entry pad clamps chinchón hands to 0..100
	suite.do(http.MethodPut, turns+"2", `{"value":140}`, &v)
	suite.Equal(120, v.Players[0].Total)
	suite.True(v.Players[0].Over)
	suite.Nil(v.Winner)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPut, turns+"x", `{"value":1}`, nil))
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPut, turns+"3", `{}`, nil))
}

func (suite *ServerTestSuite) TestAccumulatorPlayers() {
	var v accumulatorView
	suite.do(http.MethodPost, "/chinchon/players", `{"name":"  Bea "}`, &v)
	suite.Require().Len(v.Players, 2)
	suite.Equal("Bea", v.Players[1].Name)

	suite.do(http.MethodPost, "/chinchon/players", "", &v)
	suite.Equal("Jugador 3", v.Players[2].Name)

	suite.do(http.MethodPatch, "/chinchon/players/"+v.Players[2].ID, `{"name":"Caro"}`, &v)
	suite.Equal("Caro", v.Players[2].Name)

	suite.do(http.MethodDelete, "/chinchon/players/"+v.Players[0].ID, "", &v)
	suite.Len(v.Players, 2)
	suite.Equal("Bea", v.Players[0].Name)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/chinchon/players", `{`, nil))
}

func (suite *ServerTestSuite) TestDiezMilWinnerFiresOnce() {
	var v accumulatorView
	suite.do(http.MethodGet, "/diez-mil/", "", &v)
	id := v.Players[0].ID
	turns := "/diez-mil/players/" + id + "/turns/"

	suite.do(http.MethodPut, turns+"0", `{"value":9500}`, &v)
	suite.Nil(v.Winner)

	var entry accumulator.EntryOptions
	suite.do(http.MethodGet, turns+"1/entry", "", &entry)
	suite.Equal(500, entry.Max)

	suite.do(http.MethodPut, turns+"1", `{"value":600}`, &v)
	suite.True(v.Ignored)
	suite.Equal(9500, v.Players[0].Total)

	suite.do(http.MethodPut, turns+"1", `{"value":500}`, &v)
	suite.Require().NotNil(v.Winner)
	suite.Equal(id, v.Winner.ID)
	suite.Equal("Jugador 1", v.Winner.Name)

	suite.do(http.MethodGet, "/diez-mil/", "", &v)
	suite.Nil(v.Winner, "re-render must not fire again")

	suite.do(http.MethodDelete, turns+"last", "", &v)
	suite.Equal(9500, v.Players[0].Total)

	var series []accumulator.Point
	suite.do(http.MethodGet, "/diez-mil/series", "", &series)
	suite.Len(series, 1)

	suite.do(http.MethodPost, "/diez-mil/reset", "", &v)
	suite.Len(v.Players, 1)
	suite.Equal(0, v.Players[0].Total)
	suite.Equal(10000, v.Players[0].Remaining)
}

func (suite *ServerTestSuite) TestGeneralaScenario() {
	var v generalaView
	suite.do(http.MethodGet, "/generala/", "", &v)
	suite.Require().Len(v.Players, 2)
	suite.Len(v.Categories, len(category.Defs))
	scores := "/generala/players/p1/scores/"

	suite.do(http.MethodPut, scores+"ones", `{"value":3}`, &v)
	suite.Equal(3, v.Players[0].Total)

	suite.do(http.MethodPut, scores+"generala", `{"value":50}`, &v)
	suite.Equal(53, v.Players[0].Total)

	suite.do(http.MethodPut, scores+"full", `{"value":"X"}`, &v)
	suite.Equal(53, v.Players[0].Total)
	suite.Equal(category.Crossed(), v.Players[0].Scores[7].Value)

	suite.do(http.MethodPut, scores+"ones", `{"value":7}`, &v)
	suite.True(v.Ignored)
	suite.Equal(53, v.Players[0].Total)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPut, scores+"chance", `{"value":4}`, nil))

	var history []category.Event
	suite.do(http.MethodGet, "/generala/history", "", &history)
	suite.Len(history, 3)

	var steps []category.Step
	suite.do(http.MethodGet, "/generala/series", "", &steps)
	suite.Require().Len(steps, 4)
	suite.Equal(53, steps[3].Totals["p1"])

	suite.do(http.MethodPost, "/generala/reset", "", &v)
	suite.Equal(0, v.Players[0].Total)
	suite.Len(v.Players, 2)
	suite.do(http.MethodGet, "/generala/history", "", &history)
	suite.Empty(history)
}

func (suite *ServerTestSuite) TestGeneralaOptions() {
	var opts []category.Option
	suite.do(http.MethodGet, "/generala/options/fives", "", &opts)
	suite.Require().Len(opts, 7)
	suite.Equal(category.Number(25), opts[4].Value)

	suite.do(http.MethodGet, "/generala/options/poker", "", &opts)
	suite.Require().Len(opts, 3)
	suite.Equal(category.Number(45), opts[1].Value)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/generala/options/chance", "", nil))
}

func (suite *ServerTestSuite) TestTrucoWinOnFifteenth() {
	var v trucoView
	for i := 0; i < 14; i++ {
		suite.do(http.MethodPost, "/truco/us/increment", "", &v)
		suite.Nil(v.Winner)
	}
	suite.do(http.MethodPost, "/truco/us/increment", "", &v)
	suite.Require().NotNil(v.Winner)
	suite.Equal("us", v.Winner.ID)
	suite.Equal(15, v.Teams[tally.Us].Total)
	suite.Equal(5, v.Teams[tally.Us].Minor.Squares[2].Filled())

	suite.do(http.MethodGet, "/truco/", "", &v)
	suite.Nil(v.Winner)
	suite.do(http.MethodPost, "/truco/us/increment", "", &v)
	suite.Nil(v.Winner)
	suite.Equal(15, v.Teams[tally.Us].Total)

	suite.do(http.MethodPost, "/truco/them/decrement", "", &v)
	suite.Equal(0, v.Teams[tally.Them].Total)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPost, "/truco/nobody/increment", "", nil))

	suite.do(http.MethodPost, "/truco/reset", "", &v)
	suite.Equal(0, v.Teams[tally.Us].Total)
}

func (suite *ServerTestSuite) TestStatePersistsAcrossRestart() {
	var v accumulatorView
	suite.do(http.MethodGet, "/chinchon/", "", &v)
	suite.do(http.MethodPut, "/chinchon/players/"+v.Players[0].ID+"/turns/0", `{"value":7}`, &v)

	restarted := New(Deps{Chinchon: accumulator.NewStore(context.Background(), accumulator.Chinchon, suite.backend)})
	ts := httptest.NewServer(restarted.Router())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/chinchon/")
	suite.Require().NoError(err)
	defer res.Body.Close()
	var after accumulatorView
	suite.Require().NoError(json.NewDecoder(res.Body).Decode(&after))
	suite.Equal(7, after.Players[0].Total)
}

func (suite *ServerTestSuite) TestTurnBeyondFreeRowIsIgnored() {
	var v accumulatorView
	suite.do(http.MethodGet, "/chinchon/", "", &v)
	turns := "/chinchon/players/" + v.Players[0].ID + "/turns/"

	suite.Equal(http.StatusOK, suite.do(http.MethodPut, turns+"3000000", `{"value":5}`, &v))
	suite.True(v.Ignored)
	suite.Empty(v.Players[0].Turns)
	suite.Equal(1, v.Rows)

	suite.do(http.MethodPut, turns+"0", `{"value":5}`, &v)
	suite.do(http.MethodPut, turns+"2", `{"value":5}`, &v)
	suite.True(v.Ignored)
	suite.Len(v.Players[0].Turns, 1)
}

func (suite *ServerTestSuite) TestGeneralaRejectsFractions() {
	suite.Equal(http.StatusBadRequest,
		suite.do(http.MethodPut, "/generala/players/p1/scores/threes", `{"value":3.9}`, nil))

	var history []category.Event
	suite.do(http.MethodGet, "/generala/history", "", &history)
	suite.Empty(history)
}

func (suite *ServerTestSuite) TestAddPlayerWithChunkedEmptyBody() {
	req := httptest.NewRequest(http.MethodPost, "/chinchon/players", strings.NewReader(""))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var v accumulatorView
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &v))
	suite.Require().Len(v.Players, 2)
	suite.Equal("Jugador 2", v.Players[1].Name)
}
