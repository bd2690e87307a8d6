package main

import (
	"log"
	"net/http"

	"github.com/SugarStoneMaster/MyMovieList/internal/cache"
	"github.com/SugarStoneMaster/MyMovieList/internal/config"
	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/handler"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title MyMovieList API
// @version 1.0
// @description Movie catalog backend (Mongo, subset-pattern review caches, batched aggregates)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db.InitMongo(cfg)
	defer db.Close()
	cache.InitRedis(cfg)

	// repos
	movieRepo := repository.NewMovieRepository()
	reviewRepo := repository.NewReviewRepository()
	userRepo := repository.NewUserRepository()
	troupeRepo := repository.NewTroupeRepository()

	// services
	statsSvc := service.NewStatsService(movieRepo, reviewRepo, userRepo)
	feed := service.NewReviewFeed()
	movieSvc := service.NewMovieService(movieRepo)
	reviewSvc := service.NewReviewService(reviewRepo, movieRepo, statsSvc, feed)
	listSvc := service.NewListService(userRepo, movieRepo, statsSvc)
	troupeSvc := service.NewTroupeService(troupeRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	maintSvc := service.NewMaintenanceService(movieRepo, reviewRepo, statsSvc)

	// handlers
	movieH := handler.NewMovieHandler(movieSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	listH := handler.NewListHandler(listSvc)
	troupeH := handler.NewTroupeHandler(troupeSvc)
	authH := handler.NewAuthHandler(authSvc)
	maintH := handler.NewMaintenanceHandler(maintSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// public routes
	r.Get("/health", handler.Health)

	r.Post("/api/auth/register", authH.Register)
	r.Post("/api/auth/login", authH.Login)
	r.Post("/api/user/apple_sign_in", authH.AppleSignIn)

	r.Get("/api/movies", movieH.List)
	r.Get("/api/movies/{id}", movieH.Get)
	r.Get("/api/movies/{id}/reviews", reviewH.ListByMovie)
	r.Get("/api/movies/{id}/ws/reviews", reviewH.Feed)

	r.Get("/api/troupe", troupeH.List)
	r.Get("/api/troupe/{id}", troupeH.Get)

	// routes requiring a signed-in user
	authMw := handler.JWTAuth(cfg.JWTSecret)
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/api/movies/{id}/reviews", reviewH.Add)
		r.Put("/api/reviews/{id}", reviewH.Update)

		r.Post("/api/user/list", listH.Add)
		r.Put("/api/user/list", listH.Update)
		r.Delete("/api/user/list/{userId}/{movieId}", listH.Remove)
		r.Get("/api/user/list/{userId}", listH.Entries)

		// admin-only
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())
			handler.MountMaintenanceRoutes(r, maintH)
		})
	})

	// swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP listening on :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
