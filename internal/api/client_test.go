package api

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"tournament-companion/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// fakeAPI answers GraphQL requests from memory and records what it got.
type fakeAPI struct {
	requests []graphQLRequest
	status   int
	respond  func(req graphQLRequest) string
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		var req graphQLRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		api.requests = append(api.requests, req)
		if api.status != 0 {
			ctx.SetStatusCode(api.status)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(api.respond(req))
	}}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })

	return newClient("http://companion.test/graphql", 1000, func(string) (net.Conn, error) {
		return ln.Dial()
	})
}

func TestClient_GetTournament(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{respond: func(graphQLRequest) string {
		return `{"data":{"tournament":{"id":"` + id.String() + `","name":"Кубок","modType":"HRTA","gameType":"ARENA",
			"withBargains":true,"withBargainsColor":false,"withForeignHeroes":true}}}`
	}}
	c := newTestClient(t, api)

	got, err := c.GetTournament(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.Tournament{
		ID: id, Name: "Кубок", ModType: domain.ModHrta, GameType: domain.GameTypeArena,
		WithBargains: true, WithForeignHeroes: true,
	}, got)

	require.Len(t, api.requests, 1)
	assert.Contains(t, api.requests[0].Query, "tournament(id: $id)")
	assert.Equal(t, id.String(), api.requests[0].Variables["id"])
}

func TestClient_GetTournamentNotFound(t *testing.T) {
	c := newTestClient(t, &fakeAPI{respond: func(graphQLRequest) string {
		return `{"data":{"tournament":null}}`
	}})

	_, err := c.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_GetGamesMapsEnums(t *testing.T) {
	matchID := uuid.New()
	c := newTestClient(t, &fakeAPI{respond: func(graphQLRequest) string {
		return `{"data":{"games":[
			{"id":"` + uuid.NewString() + `","matchId":"` + matchID.String() + `","firstPlayerRace":1,"firstPlayerHero":10,
			 "secondPlayerRace":2,"secondPlayerHero":null,"bargainsColor":"BARGAINS_COLOR_BLUE","bargainsAmount":-150,
			 "result":"SECOND_PLAYER_WON","outcome":"OPPONENT_SURRENDER"},
			{"id":"` + uuid.NewString() + `","matchId":"` + matchID.String() + `","result":"NOT_SELECTED"}
		]}}`
	}})

	games, err := c.GetGames(context.Background(), matchID)
	require.NoError(t, err)
	require.Len(t, games, 2)

	g := games[0]
	assert.Equal(t, matchID, g.MatchID)
	require.NotNil(t, g.FirstPlayerRace)
	assert.Equal(t, int64(1), *g.FirstPlayerRace)
	assert.Nil(t, g.SecondPlayerHero)
	require.NotNil(t, g.BargainsColor)
	assert.Equal(t, domain.BargainsColorBlue, *g.BargainsColor)
	require.NotNil(t, g.BargainsAmount)
	assert.Equal(t, int64(-150), *g.BargainsAmount)
	assert.Equal(t, domain.ResultSecondPlayerWon, g.Result)
	require.NotNil(t, g.Outcome)
	assert.Equal(t, domain.OutcomeOpponentSurrender, *g.Outcome)

	assert.Equal(t, domain.ResultNotSelected, games[1].Result)
	assert.Nil(t, games[1].BargainsAmount)
}

func TestClient_GetGamesRejectsUnknownEnum(t *testing.T) {
	c := newTestClient(t, &fakeAPI{respond: func(graphQLRequest) string {
		return `{"data":{"games":[{"id":"` + uuid.NewString() + `","result":"DRAW"}]}}`
	}})

	_, err := c.GetGames(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "DRAW")
}

func TestClient_GetMatchesAndHeroes(t *testing.T) {
	tid, uid := uuid.New(), uuid.New()
	api := &fakeAPI{respond: func(req graphQLRequest) string {
		if req.Variables["modType"] != nil {
			return `{"data":{"heroesNew":{"heroes":{"entities":[{"id":10,"name":"Ирина","race":1}]}}}}`
		}
		return `{"data":{"matches":[{"id":"` + uuid.NewString() + `","tournamentId":"` + tid.String() +
			`","firstPlayer":"` + uid.String() + `","secondPlayer":"` + uuid.NewString() + `"}]}}`
	}}
	c := newTestClient(t, api)

	matches, err := c.GetMatches(context.Background(), tid, &uid)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Involves(uid))
	assert.Equal(t, uid.String(), api.requests[0].Variables["userId"])

	heroes, err := c.GetHeroes(context.Background(), domain.ModUniverse)
	require.NoError(t, err)
	assert.Equal(t, []domain.Hero{{ID: 10, Name: "Ирина", Race: 1}}, heroes)
	assert.Equal(t, "UNIVERSE", api.requests[1].Variables["modType"])
}

func TestClient_UpdateGameSendsOnlySetFields(t *testing.T) {
	api := &fakeAPI{respond: func(graphQLRequest) string {
		return `{"data":{"updateGame":{"id":"` + uuid.NewString() + `"}}}`
	}}
	c := newTestClient(t, api)

	amount := int64(200)
	result := domain.ResultFirstPlayerWon
	id := uuid.New()
	require.NoError(t, c.UpdateGame(context.Background(), domain.UpdateGame{ID: id, BargainsAmount: &amount, Result: &result}))

	vars := api.requests[0].Variables
	assert.Len(t, vars, 3)
	assert.Equal(t, id.String(), vars["id"])
	assert.EqualValues(t, 200, vars["bargainsAmount"])
	assert.Equal(t, "FIRST_PLAYER_WON", vars["result"])
}

func TestClient_Errors(t *testing.T) {
	t.Run("graphql", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{respond: func(graphQLRequest) string {
			return `{"data":null,"errors":[{"message":"boom"}]}`
		}})
		_, err := c.ListTournaments(context.Background())
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, []string{"boom"}, apiErr.Messages)
	})

	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{status: fasthttp.StatusBadGateway})
		_, err := c.GetUsers(context.Background(), uuid.New())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, fasthttp.StatusBadGateway, statusErr.Code)
	})

	t.Run("deadline", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{respond: func(graphQLRequest) string { return `{"data":{"users":[]}}` }})
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		users, err := c.GetUsers(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}
