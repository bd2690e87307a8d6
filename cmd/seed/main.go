package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/SugarStoneMaster/MyMovieList/internal/config"
	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/ingest"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"
)

func main() {
	csvPath := flag.String("csv", "TMDB_all_movies.csv", "path to the TMDB movie export")
	flag.Parse()

	cfg := config.Load()
	db.InitMongo(cfg)
	defer db.Close()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("[seed] open %s: %v", *csvPath, err)
	}
	defer f.Close()

	rows, err := ingest.ParseCSV(f)
	if err != nil {
		log.Fatalf("[seed] parse csv: %v", err)
	}
	log.Printf("[seed] %d usable rows", len(rows))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	omdb := ingest.NewOMDBClient(cfg.OMDBAPIKey)
	movies, troupe := ingest.BuildDocs(ctx, rows, omdb.MovieCover)

	movieRepo := repository.NewMovieRepository()
	troupeRepo := repository.NewTroupeRepository()

	insertedMovies, err := movieRepo.InsertMany(ctx, movies)
	if err != nil {
		log.Fatalf("[seed] insert movies: %v", err)
	}
	insertedTroupe, err := troupeRepo.InsertMany(ctx, troupe)
	if err != nil {
		log.Fatalf("[seed] insert troupe: %v", err)
	}

	log.Printf("[seed] inserted %d movies, %d troupe members", insertedMovies, insertedTroupe)
}
