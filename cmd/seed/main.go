package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"perch/internal/config"
	"perch/internal/database"
	"perch/internal/logger"
	"perch/internal/models"
	"perch/internal/repository"
	"perch/internal/timezone"
)

var (
	rows     = flag.Int("rows", 5, "Number of seat rows to generate")
	cols     = flag.Int("cols", 8, "Number of seat columns to generate")
	bookings = flag.Int("bookings", 0, "Number of sample bookings to create over the next two weeks")
	dryRun   = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")
	log := logger.Get()

	log.Info("Starting seeder", "rows", *rows, "cols", *cols, "bookings", *bookings)

	if *rows < 1 || *rows > 26 || *cols < 1 || *cols > 99 {
		log.Error("rows must be 1..26 and cols 1..99")
		os.Exit(1)
	}

	if *dryRun {
		log.Info("Dry run, no changes will be made",
			"would_create_seats", *rows**cols,
			"would_create_bookings", *bookings)
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	tz, err := timezone.New(cfg.TimeZone)
	if err != nil {
		logger.Fatal("Failed to load time zone", "error", err, "zone", cfg.TimeZone)
	}

	repos := repository.NewRepositories(db)
	ctx := context.Background()

	seats := make([]models.Seat, 0, *rows**cols)
	for row := 1; row <= *rows; row++ {
		for col := 1; col <= *cols; col++ {
			seats = append(seats, models.Seat{
				Row:   row,
				Col:   col,
				Label: fmt.Sprintf("%c%d", 'A'+row-1, col),
			})
		}
	}

	created, err := repos.Seats.RegenerateLayout(ctx, seats)
	if err != nil {
		logger.Fatal("Failed to generate seat layout", "error", err)
	}
	log.Info("Seat layout generated", "seats", len(created))

	if *bookings > 0 {
		seedBookings(ctx, repos, tz, created, *bookings)
	}

	log.Info("Seeding completed successfully")
}

var sampleNames = []string{
	"Alice", "Bob", "Chris", "Dana", "Elliot", "Fran", "Gabe", "Hana",
}

// seedBookings scatters sample bookings over the next 14 days. Collisions
// with already placed samples are skipped rather than retried.
func seedBookings(ctx context.Context, repos *repository.Repositories, tz *timezone.Normalizer, seats []models.Seat, count int) {
	log := logger.Get()
	today := tz.CanonicalDay(time.Now())

	placed := 0
	for i := 0; i < count; i++ {
		seat := seats[rand.Intn(len(seats))]
		day := tz.AddDays(today, rand.Intn(14))

		booking := &models.Booking{
			SeatID:   seat.ID,
			UserName: sampleNames[rand.Intn(len(sampleNames))],
			Date:     day,
		}
		if err := repos.Bookings.Create(ctx, booking); err != nil {
			log.Debug("Skipping colliding sample booking",
				"seat_id", seat.ID,
				"date", tz.FormatForAPI(day))
			continue
		}
		placed++
	}

	log.Info("Sample bookings created", "requested", count, "placed", placed)
}
