package server

import (
	"context"
	"errors"

	"tournament-companion/internal/domain"
	"tournament-companion/internal/service"
	"tournament-companion/internal/stats"

	"connectrpc.com/connect"
	"github.com/samber/lo"
)

// CompanionServer serves the commands of the companion UI.
type CompanionServer struct {
	tournaments *service.TournamentService
	reports     *service.ReportService
}

func NewCompanionServer(tournaments *service.TournamentService, reports *service.ReportService) *CompanionServer {
	return &CompanionServer{tournaments: tournaments, reports: reports}
}

func (s *CompanionServer) ListTournaments(ctx context.Context, _ *connect.Request[ListTournamentsRequest]) (*connect.Response[ListTournamentsResponse], error) {
	tournaments, err := s.tournaments.ListTournaments(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListTournamentsResponse{Tournaments: lo.Map(tournaments, func(t domain.Tournament, _ int) Tournament {
		return toTournament(t)
	})}), nil
}

func (s *CompanionServer) GetTournament(ctx context.Context, req *connect.Request[GetTournamentRequest]) (*connect.Response[Tournament], error) {
	id, err := parseID("id", req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	t, err := s.tournaments.GetTournament(ctx, id)
	if err != nil {
		return nil, connectError(err)
	}
	resp := toTournament(t)
	return connect.NewResponse(&resp), nil
}

func (s *CompanionServer) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	tid, err := parseID("tournamentId", req.Msg.TournamentID)
	if err != nil {
		return nil, connectError(err)
	}
	users, err := s.tournaments.ListParticipants(ctx, tid)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListParticipantsResponse{Participants: lo.Map(users, func(u domain.User, _ int) Participant {
		return toParticipant(u)
	})}), nil
}

func (s *CompanionServer) ListMatches(ctx context.Context, req *connect.Request[ListMatchesRequest]) (*connect.Response[ListMatchesResponse], error) {
	tid, err := parseID("tournamentId", req.Msg.TournamentID)
	if err != nil {
		return nil, connectError(err)
	}
	user, err := parseOptionalID("userId", req.Msg.UserID)
	if err != nil {
		return nil, connectError(err)
	}
	matches, err := s.tournaments.ListMatches(ctx, tid, user)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListMatchesResponse{Matches: lo.Map(matches, func(m service.MatchWithPlayers, _ int) Match {
		return toMatch(m)
	})}), nil
}

func (s *CompanionServer) ListGames(ctx context.Context, req *connect.Request[ListGamesRequest]) (*connect.Response[ListGamesResponse], error) {
	mid, err := parseID("matchId", req.Msg.MatchID)
	if err != nil {
		return nil, connectError(err)
	}
	games, err := s.tournaments.ListGames(ctx, mid)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListGamesResponse{Games: lo.Map(games, func(g domain.RawGame, _ int) Game {
		return toGame(g)
	})}), nil
}

func (s *CompanionServer) ListHeroes(ctx context.Context, req *connect.Request[ListHeroesRequest]) (*connect.Response[ListHeroesResponse], error) {
	mod, err := domain.ParseModType(req.Msg.ModType)
	if err != nil {
		return nil, connectError(&invalidArgument{field: "modType", err: err})
	}
	heroes, err := s.tournaments.ListHeroes(ctx, mod, req.Msg.Race)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListHeroesResponse{Heroes: lo.Map(heroes, func(h domain.Hero, _ int) Hero {
		return toHero(h)
	})}), nil
}

func (s *CompanionServer) UpdateGame(ctx context.Context, req *connect.Request[UpdateGameRequest]) (*connect.Response[UpdateGameResponse], error) {
	update, err := req.Msg.toDomain()
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.tournaments.UpdateGame(ctx, update); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&UpdateGameResponse{}), nil
}

func (s *CompanionServer) GenerateReport(ctx context.Context, req *connect.Request[GenerateReportRequest]) (*connect.Response[ReportRun], error) {
	tid, err := parseID("tournamentId", req.Msg.TournamentID)
	if err != nil {
		return nil, connectError(err)
	}
	run, err := s.reports.Generate(ctx, service.GenerateRequest{
		TournamentID: tid,
		Refresh:      req.Msg.Refresh,
		OutputPath:   req.Msg.OutputPath,
	})
	if err != nil {
		return nil, connectError(err)
	}
	resp := toReportRun(*run)
	return connect.NewResponse(&resp), nil
}

func (s *CompanionServer) ListReports(ctx context.Context, req *connect.Request[ListReportsRequest]) (*connect.Response[ListReportsResponse], error) {
	tid, err := parseOptionalID("tournamentId", req.Msg.TournamentID)
	if err != nil {
		return nil, connectError(err)
	}
	runs, err := s.reports.ListReports(ctx, tid)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListReportsResponse{Reports: lo.Map(runs, func(r domain.ReportRun, _ int) ReportRun {
		return toReportRun(r)
	})}), nil
}

func connectError(err error) error {
	var (
		invalid *invalidArgument
		lookup  *stats.LookupError
	)
	switch {
	case errors.As(err, &invalid), errors.Is(err, service.ErrEmptyUpdate):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, domain.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &lookup):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
