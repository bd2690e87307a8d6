// Package ingest seeds the document store from the TMDB movie CSV:
// it builds movie documents with empty review caches and zeroed
// counters, and the troupe collection with per-member appearance
// summaries. Runs once; troupe data is not maintained incrementally
// afterwards.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
)

// Only movies released in this window are ingested.
const (
	minReleaseYear = 1995
	maxReleaseYear = 2025
)

// Row is one cleaned CSV record.
type Row struct {
	ID                  string
	Title               string
	VoteAverage         float64
	VoteCount           int64
	ReleaseDate         time.Time
	ReleaseYear         int
	Overview            string
	Tagline             string
	Status              string
	Runtime             int
	Budget              int64
	Revenue             int64
	Popularity          float64
	IMDBID              string
	Genres              []string
	ProductionCompanies []string
	ProductionCountries []string
	SpokenLanguages     []string
	Cast                []string
	Directors           []string
}

// PosterFunc resolves a poster URL for an IMDb id.
type PosterFunc func(ctx context.Context, imdbID string) string

// ParseCSV reads the export, drops duplicate ids and rows outside the
// release-year window, and returns the usable rows.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"id", "title", "release_date"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv is missing the %q column", required)
		}
	}

	seen := make(map[string]bool)
	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		row, ok := parseRow(record, idx)
		if !ok || seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string, idx map[string]int) (Row, bool) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{
		ID:       field("id"),
		Title:    field("title"),
		Overview: field("overview"),
		Tagline:  field("tagline"),
		Status:   field("status"),
		IMDBID:   field("imdb_id"),
	}
	if row.ID == "" || row.Title == "" {
		return Row{}, false
	}

	date, err := time.Parse("2006-01-02", field("release_date"))
	if err != nil {
		return Row{}, false
	}
	row.ReleaseDate = date
	row.ReleaseYear = date.Year()
	if row.ReleaseYear < minReleaseYear || row.ReleaseYear > maxReleaseYear {
		return Row{}, false
	}

	row.VoteAverage = round2(parseFloat(field("vote_average")))
	row.VoteCount = parseInt(field("vote_count"))
	row.Runtime = int(parseInt(field("runtime")))
	row.Budget = parseInt(field("budget"))
	row.Revenue = parseInt(field("revenue"))
	row.Popularity = parseFloat(field("popularity"))

	row.Genres = splitList(field("genres"))
	row.ProductionCompanies = splitList(field("production_companies"))
	row.ProductionCountries = splitList(field("production_countries"))
	row.SpokenLanguages = splitList(field("spoken_languages"))
	row.Cast = splitList(field("cast"))
	row.Directors = splitList(field("director"))

	return row, true
}

// BuildDocs turns the rows into movie documents plus the troupe
// collection, resolving posters along the way. Each troupe member
// accumulates one appearance summary per movie it shows up in.
func BuildDocs(ctx context.Context, rows []Row, poster PosterFunc) ([]models.MovieDoc, []models.TroupeDoc) {
	movies := make([]models.MovieDoc, 0, len(rows))
	troupe := make(map[string]*models.TroupeDoc)
	var order []string

	for _, row := range rows {
		posterURL := poster(ctx, row.IMDBID)

		movie := models.MovieDoc{
			Title:               row.Title,
			Poster:              posterURL,
			Overview:            row.Overview,
			Tagline:             row.Tagline,
			Status:              row.Status,
			ReleaseDate:         row.ReleaseDate,
			ReleaseYear:         row.ReleaseYear,
			Genres:              row.Genres,
			ProductionCompanies: row.ProductionCompanies,
			ProductionCountries: row.ProductionCountries,
			SpokenLanguages:     row.SpokenLanguages,
			Budget:              row.Budget,
			Revenue:             row.Revenue,
			Runtime:             row.Runtime,
			Popularity:          row.Popularity,
			VoteAverage:         row.VoteAverage,
			VoteCount:           row.VoteCount,
			Reviews:             []models.ReviewSnapshot{},
		}

		appearance := models.TroupeMovie{
			Title:       row.Title,
			Poster:      posterURL,
			ReleaseYear: row.ReleaseYear,
		}
		movie.Actors = collectMembers(row.Cast, "actor", appearance, troupe, &order)
		movie.Directors = collectMembers(row.Directors, "director", appearance, troupe, &order)

		movies = append(movies, movie)
	}

	members := make([]models.TroupeDoc, 0, len(order))
	for _, name := range order {
		members = append(members, *troupe[name])
	}
	return movies, members
}

func collectMembers(names []string, troupeType string, appearance models.TroupeMovie, troupe map[string]*models.TroupeDoc, order *[]string) []models.TroupeRef {
	refs := make([]models.TroupeRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, models.TroupeRef{FullName: name})

		if member, ok := troupe[name]; ok {
			member.Movies = append(member.Movies, appearance)
			continue
		}
		troupe[name] = &models.TroupeDoc{
			FullName: name,
			Type:     troupeType,
			Movies:   []models.TroupeMovie{appearance},
		}
		*order = append(*order, name)
	}
	return refs
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// Some numeric columns come through as floats ("120.0").
	return int64(parseFloat(s))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
