package server

import (
	"encoding/json"
	"net/http"

	"tournament-companion/internal/middleware"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const CompanionPath = "/companion.v1.CompanionService/"

const (
	ListTournamentsProcedure  = CompanionPath + "ListTournaments"
	GetTournamentProcedure    = CompanionPath + "GetTournament"
	ListParticipantsProcedure = CompanionPath + "ListParticipants"
	ListMatchesProcedure      = CompanionPath + "ListMatches"
	ListGamesProcedure        = CompanionPath + "ListGames"
	ListHeroesProcedure       = CompanionPath + "ListHeroes"
	UpdateGameProcedure       = CompanionPath + "UpdateGame"
	GenerateReportProcedure   = CompanionPath + "GenerateReport"
	ListReportsProcedure      = CompanionPath + "ListReports"
)

// JSONCodec lets connect carry plain Go structs. It replaces the default
// protojson codec registered under the same name.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewHandler mounts every companion procedure under CompanionPath.
func NewHandler(s *CompanionServer) (string, http.Handler) {
	opt := connect.WithCodec(JSONCodec{})
	mux := http.NewServeMux()
	mux.Handle(ListTournamentsProcedure, connect.NewUnaryHandler(ListTournamentsProcedure, s.ListTournaments, opt))
	mux.Handle(GetTournamentProcedure, connect.NewUnaryHandler(GetTournamentProcedure, s.GetTournament, opt))
	mux.Handle(ListParticipantsProcedure, connect.NewUnaryHandler(ListParticipantsProcedure, s.ListParticipants, opt))
	mux.Handle(ListMatchesProcedure, connect.NewUnaryHandler(ListMatchesProcedure, s.ListMatches, opt))
	mux.Handle(ListGamesProcedure, connect.NewUnaryHandler(ListGamesProcedure, s.ListGames, opt))
	mux.Handle(ListHeroesProcedure, connect.NewUnaryHandler(ListHeroesProcedure, s.ListHeroes, opt))
	mux.Handle(UpdateGameProcedure, connect.NewUnaryHandler(UpdateGameProcedure, s.UpdateGame, opt))
	mux.Handle(GenerateReportProcedure, connect.NewUnaryHandler(GenerateReportProcedure, s.GenerateReport, opt))
	mux.Handle(ListReportsProcedure, connect.NewUnaryHandler(ListReportsProcedure, s.ListReports, opt))
	return CompanionPath, mux
}

// NewRouter wraps the companion handler with request logging and CORS.
func NewRouter(s *CompanionServer, logger zerolog.Logger) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(c.Handler)

	path, handler := NewHandler(s)
	r.Mount(path, handler)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}
