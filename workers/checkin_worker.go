package workers

import (
	"context"
	"sync"
	"time"

	"aegis/config"
	"aegis/repositories"
	"aegis/services"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckInWorker periodically sweeps scheduled check-ins that passed
// their grace window and marks them missed.
type CheckInWorker struct {
	checkinService *services.CheckInService
	interval       time.Duration

	isRunning bool
	mutex     sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCheckInWorker(checkinService *services.CheckInService, interval time.Duration) *CheckInWorker {
	if interval <= 0 {
		interval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CheckInWorker{
		checkinService: checkinService,
		interval:       interval,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// StartCheckInWorker builds a worker with its own repository instances
// and starts it.
func StartCheckInWorker(db *mongo.Database, cfg *config.Config) *CheckInWorker {
	dispatcher := utils.NewDispatcher(cfg.FirebaseCredentials, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	userRepo := repositories.NewUserRepository(db)
	notificationService := services.NewNotificationService(repositories.NewNotificationRepository(db), userRepo, dispatcher)
	checkinService := services.NewCheckInService(
		repositories.NewCheckInRepository(db),
		repositories.NewContactRepository(db),
		userRepo,
		notificationService,
	)

	worker := NewCheckInWorker(checkinService, time.Minute)
	worker.Start()
	return worker
}

func (cw *CheckInWorker) Start() error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if cw.isRunning {
		return nil
	}
	cw.isRunning = true

	logrus.Info("Starting check-in worker...")

	cw.wg.Add(1)
	go cw.run()

	return nil
}

func (cw *CheckInWorker) Stop() error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if !cw.isRunning {
		return nil
	}

	logrus.Info("Stopping check-in worker...")

	cw.cancel()
	cw.isRunning = false
	cw.wg.Wait()

	logrus.Info("Check-in worker stopped")
	return nil
}

func (cw *CheckInWorker) run() {
	defer cw.wg.Done()

	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-cw.ctx.Done():
			return
		case <-ticker.C:
			cw.sweep()
		}
	}
}

func (cw *CheckInWorker) sweep() {
	ctx, cancel := context.WithTimeout(cw.ctx, 30*time.Second)
	defer cancel()

	if missed := cw.checkinService.SweepOverdue(ctx); missed > 0 {
		logrus.WithField("missed", missed).Info("Marked overdue check-ins as missed")
	}
}
