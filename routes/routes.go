package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/goolstar/goolstar-api/handlers"
	"github.com/goolstar/goolstar-api/middleware"
	"github.com/goolstar/goolstar-api/models"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Category   *handlers.CategoryHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Player     *handlers.PlayerHandler
	Match      *handlers.MatchHandler
	Standing   *handlers.StandingHandler
	Bracket    *handlers.BracketHandler
	Finance    *handlers.FinanceHandler
	Referee    *handlers.RefereeHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, auth *middleware.Authenticator) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/auth/me", h.Auth.Me)
	})

	router.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Category.List)
		r.Get("/{categoryID}", h.Category.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Category.Create)
			r.Put("/{categoryID}", h.Category.Update)
			r.Delete("/{categoryID}", h.Category.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.GetByID)
		r.Get("/{tournamentID}/stats", h.Tournament.Stats)
		r.Get("/{tournamentID}/teams", h.Team.ListByTournament)
		r.Get("/{tournamentID}/matches", h.Match.ListByTournament)
		r.Get("/{tournamentID}/standings", h.Standing.Persisted)
		r.Get("/{tournamentID}/standings/live", h.Standing.Tables)
		r.Get("/{tournamentID}/bracket", h.Bracket.Bracket)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}", h.Tournament.Update)
			r.Patch("/{tournamentID}/stage", h.Tournament.UpdateStage)
			r.Post("/{tournamentID}/draw", h.Tournament.DrawGroups)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
			r.Post("/{tournamentID}/best-losers", h.Standing.BestLosers)
			r.Post("/{tournamentID}/phases", h.Bracket.GenerateFirstPhase)
			r.Post("/{tournamentID}/phases/next", h.Bracket.GenerateNextPhase)
			r.Delete("/{tournamentID}", h.Tournament.Delete)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetByID)
		r.Get("/{teamID}/players", h.Player.ListByTeam)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Team.Create)
			r.Put("/{teamID}", h.Team.Update)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
			r.Get("/{teamID}/transactions", h.Finance.TeamLedger)
			r.Get("/{teamID}/balance", h.Finance.TeamBalance)
			r.Delete("/{teamID}", h.Team.Delete)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", h.Player.GetByID)
		r.Get("/{playerID}/eligibility", h.Player.Eligibility)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Player.Create)
			r.Put("/{playerID}", h.Player.Update)
			r.Post("/{playerID}/photo", h.Player.UploadPhoto)
			r.Delete("/{playerID}", h.Player.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Match.Schedule)
			r.Post("/{matchID}/lineup", h.Match.SubmitLineup)
			r.Post("/{matchID}/complete", h.Match.Complete)
			r.Post("/{matchID}/walkover", h.Match.RecordWalkover)
			r.Post("/{matchID}/referee-fee", h.Finance.CollectRefereeFee)
			r.Delete("/{matchID}", h.Match.Delete)
		})
	})

	router.Route("/referees", func(r chi.Router) {
		r.Get("/", h.Referee.List)
		r.Get("/{refereeID}", h.Referee.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", h.Referee.Create)
			r.Put("/{refereeID}", h.Referee.Update)
			r.Get("/{refereeID}/payments", h.Finance.RefereePayments)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.Authorize(models.RoleAdmin, models.RoleOrganizer))

		r.Post("/transactions", h.Finance.RecordPayment)
		r.Delete("/transactions/{transactionID}", h.Finance.DeleteTransaction)
		r.Post("/cards/{cardID}/pay", h.Finance.PayCardFine)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
}
