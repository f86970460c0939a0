// Package worker runs the in-process background jobs: the RSS refresh loop
// and the invite sweeps. Digest cadences stay on external cron triggers and
// are not scheduled here.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"radar/internal/feedfetch"
	"radar/internal/services"

	"github.com/robfig/cron/v3"
)

const (
	inviteExpirySpec   = "0 * * * *" // hourly
	inviteReminderSpec = "0 9 * * *" // daily at 09:00 UTC
	jobTimeout         = 10 * time.Minute
)

// WorkerService manages background workers for the application
type WorkerService struct {
	cron       *cron.Cron
	rssFetcher *feedfetch.RSSFetcher
	invites    *services.InvitesService
	ctx        context.Context
	cancel     context.CancelFunc
	running    bool
	mu         sync.RWMutex
}

// NewWorkerService creates a new worker service
func NewWorkerService(rssFetcher *feedfetch.RSSFetcher, invites *services.InvitesService, rssSpec string) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())

	ws := &WorkerService{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		rssFetcher: rssFetcher,
		invites:    invites,
		ctx:        ctx,
		cancel:     cancel,
	}

	ws.mustSchedule(rssSpec, ws.refreshFeeds)
	ws.mustSchedule(inviteExpirySpec, ws.expireInvites)
	ws.mustSchedule(inviteReminderSpec, ws.remindInvites)

	return ws
}

func (ws *WorkerService) mustSchedule(spec string, job func()) {
	if _, err := ws.cron.AddFunc(spec, job); err != nil {
		log.Fatalf("Invalid cron spec %q: %v", spec, err)
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return
	}

	log.Println("Starting background workers...")
	ws.cron.Start()
	ws.running = true
}

// Stop stops all background workers and waits for in-flight jobs.
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return
	}

	log.Println("Stopping background workers...")
	ws.cancel()
	<-ws.cron.Stop().Done()
	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	entries := ws.cron.Entries()
	next := time.Time{}
	if len(entries) > 0 {
		next = entries[0].Next
	}

	return map[string]interface{}{
		"running":  ws.running,
		"jobs":     len(entries),
		"next_run": next,
	}
}

func (ws *WorkerService) refreshFeeds() {
	ctx, cancel := context.WithTimeout(ws.ctx, jobTimeout)
	defer cancel()

	if _, err := ws.rssFetcher.RefreshAll(ctx); err != nil {
		log.Printf("RSS refresh failed: %v", err)
	}
}

func (ws *WorkerService) expireInvites() {
	expired, err := ws.invites.ExpireSweep(time.Now())
	if err != nil {
		log.Printf("Invite expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Invite expiry sweep: %d invites expired", expired)
	}
}

func (ws *WorkerService) remindInvites() {
	ctx, cancel := context.WithTimeout(ws.ctx, jobTimeout)
	defer cancel()

	result, err := ws.invites.SendReminders(ctx, time.Now())
	if err != nil {
		log.Printf("Invite reminder run failed: %v", err)
		return
	}
	if result.Processed > 0 {
		log.Printf("Invite reminders: %d processed, %d sent, %d errors",
			result.Processed, result.Sent, len(result.Errors))
	}
}
