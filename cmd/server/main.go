package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"voltbook/internal/api"
	"voltbook/internal/logging"
	"voltbook/internal/metrics"
	"voltbook/internal/repository"
	"voltbook/internal/service"
	"voltbook/internal/storage/memory"
)

func main() {
	godotenv.Load()

	log, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	metrics.Init()

	var (
		bookings  service.BookingStore
		stations  service.StationStore
		reports   service.ReportStore
		directory service.ContactDirectory
	)

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("failed to open DB", zap.Error(err))
		}
		if err := db.Ping(); err != nil {
			log.Fatal("failed to connect to DB", zap.Error(err))
		}
		bookingRepo := repository.NewBookingRepository(db)
		stationRepo := repository.NewStationRepository(db)
		bookings, stations, reports, directory = bookingRepo, stationRepo, bookingRepo, stationRepo
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		store := memory.NewStore()
		bookings, stations, reports, directory = store, store, store, store
	}

	sender := service.NewSenderService(log, directory)
	engine := service.NewBookingService(log, bookings, stations).WithNotifier(sender)
	reportSvc := service.NewReportService(log, reports)
	jobs := service.NewJobService(log, bookings, engine)

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", jobs.SweepDueBookings); err != nil {
		log.Fatal("failed to schedule booking sweep", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	router := api.NewRouter(api.NewBookingHandler(engine), api.NewAdminHandler(reportSvc))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("server running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handlers.RecoveryHandler()(cors(router))); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
