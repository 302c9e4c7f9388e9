package consumers

import (
	"context"

	"perch/internal/config"
	"perch/internal/database"
	"perch/internal/logger"
	"perch/internal/messaging"
	"perch/internal/models"
	"perch/internal/repository"
	"perch/internal/timezone"
)

// ConsumerService subscribes to booking and layout events and writes the
// audit trail. It runs as its own process so the API stays unaffected by
// consumer restarts.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	tz, err := timezone.New(cfg.TimeZone)
	if err != nil {
		natsClient.Close()
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos, tz)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	log := logger.Get()
	log.Info("Starting NATS consumers...")

	subscriptions := map[string]func([]byte){
		models.EventBookingCreated:    cs.handlers.HandleBookingCreated,
		models.EventBookingUpdated:    cs.handlers.HandleBookingUpdated,
		models.EventBookingCancelled:  cs.handlers.HandleBookingCancelled,
		models.EventLayoutRegenerated: cs.handlers.HandleLayoutRegenerated,
	}

	for subject, handler := range subscriptions {
		if _, err := cs.nats.SubscribeQueue(subject, "audit", wrap(handler)); err != nil {
			return err
		}
	}

	log.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	log := logger.Get()
	log.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
