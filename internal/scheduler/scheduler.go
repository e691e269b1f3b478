package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/health"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic work: import tasks on their own cron
// expressions and the link health sweep on a fixed one
type Scheduler struct {
	cron          *cron.Cron
	importService *service.ImportService
	monitor       *health.Monitor
	taskRepo      *repository.ImportTaskRepository
	sweepCron     string
	ctx           context.Context
	cancel        context.CancelFunc

	// entries is touched from cron jobs, the expiry ticker, and HTTP
	// handlers via ReloadTask
	mu      sync.Mutex
	entries map[uint]cron.EntryID
}

// NewScheduler creates a scheduler. sweepCron is a six-field cron spec for
// the health sweep.
func NewScheduler(importService *service.ImportService, monitor *health.Monitor, sweepCron string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		importService: importService,
		monitor:       monitor,
		taskRepo:      repository.NewImportTaskRepository(),
		sweepCron:     sweepCron,
		ctx:           ctx,
		cancel:        cancel,
		entries:       make(map[uint]cron.EntryID),
	}
}

// Start loads active tasks, registers the health sweep, and starts cron
func (s *Scheduler) Start() error {
	log.Println("Starting scheduler...")

	if err := s.loadActiveTasks(); err != nil {
		return fmt.Errorf("failed to load active tasks: %w", err)
	}

	if s.monitor != nil && s.sweepCron != "" {
		if _, err := s.cron.AddFunc(s.sweepCron, s.runSweep); err != nil {
			return fmt.Errorf("invalid sweep cron expression %q: %w", s.sweepCron, err)
		}
		log.Printf("Registered health sweep: %s", s.sweepCron)
	}

	s.cron.Start()
	go s.checkExpiredTasks()

	log.Println("Scheduler started")
	return nil
}

// Stop halts cron and the expiry checker
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// ReloadTask re-registers a task after it changed. Inactive and deleted
// tasks are just removed.
func (s *Scheduler) ReloadTask(taskID uint) error {
	s.removeTask(taskID)

	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil
	}
	if task.Status == "active" {
		return s.addTask(task)
	}
	return nil
}

func (s *Scheduler) loadActiveTasks() error {
	tasks, err := s.importService.GetAllActive()
	if err != nil {
		return err
	}

	for i := range tasks {
		if err := s.addTask(&tasks[i]); err != nil {
			log.Printf("Failed to add task %d: %v", tasks[i].ID, err)
		}
	}

	log.Printf("Loaded %d active import tasks", len(tasks))
	return nil
}

func (s *Scheduler) addTask(task *model.ImportTask) error {
	nextRun, err := s.calculateNextRun(task.CronExpression)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	taskID := task.ID
	entryID, err := s.cron.AddFunc(task.CronExpression, func() {
		// re-read so a run always uses the latest task definition
		current, err := s.taskRepo.GetByID(taskID)
		if err != nil {
			log.Printf("Failed to get task %d: %v", taskID, err)
			return
		}
		s.executeTask(current)
	})
	if err != nil {
		return err
	}

	s.trackEntry(task.ID, entryID)

	task.NextRunAt = nextRun
	if err := s.taskRepo.Update(task); err != nil {
		log.Printf("Failed to update task %d next run time: %v", task.ID, err)
	}

	log.Printf("Scheduled task %d (%s), next run: %v", task.ID, task.CronExpression, nextRun)
	return nil
}

// trackEntry records a task's cron entry, unregistering any previous one
func (s *Scheduler) trackEntry(taskID uint, entryID cron.EntryID) {
	s.mu.Lock()
	old, existed := s.entries[taskID]
	s.entries[taskID] = entryID
	s.mu.Unlock()

	if existed {
		s.cron.Remove(old)
	}
}

// dropEntry forgets a task's cron entry and returns it for removal
func (s *Scheduler) dropEntry(taskID uint) (cron.EntryID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entryID, ok := s.entries[taskID]
	if ok {
		delete(s.entries, taskID)
	}
	return entryID, ok
}

func (s *Scheduler) removeTask(taskID uint) {
	if entryID, ok := s.dropEntry(taskID); ok {
		s.cron.Remove(entryID)
		log.Printf("Removed task %d from scheduler", taskID)
	}
}

func (s *Scheduler) executeTask(task *model.ImportTask) {
	if task.Status != "active" {
		log.Printf("Task %d is not active, removing from scheduler", task.ID)
		s.removeTask(task.ID)
		return
	}

	if task.AutoDestroyAt != nil && time.Now().After(*task.AutoDestroyAt) {
		log.Printf("Task %d has expired, stopping", task.ID)
		task.Status = "expired"
		if err := s.taskRepo.Update(task); err != nil {
			log.Printf("Failed to expire task %d: %v", task.ID, err)
		}
		s.removeTask(task.ID)
		return
	}

	if err := s.importService.ExecuteTask(s.ctx, task); err != nil {
		log.Printf("Task %d execution failed: %v", task.ID, err)
	}

	now := time.Now()
	task.LastRunAt = &now
	if nextRun, err := s.calculateNextRun(task.CronExpression); err == nil {
		task.NextRunAt = nextRun
	}
	if err := s.taskRepo.Update(task); err != nil {
		log.Printf("Failed to update task %d run times: %v", task.ID, err)
	}
}

func (s *Scheduler) runSweep() {
	stats, err := s.monitor.Sweep(s.ctx)
	if err != nil {
		log.Printf("Health sweep failed: %v", err)
		return
	}
	log.Printf("Health sweep done: checked=%d healthy=%d deactivated=%d in %v",
		stats.Checked, stats.Healthy, stats.Deactivated, stats.Duration)
}

func (s *Scheduler) calculateNextRun(cronExpr string) (*time.Time, error) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, err
	}

	next := schedule.Next(time.Now())
	return &next, nil
}

func (s *Scheduler) checkExpiredTasks() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.importService.MarkExpiredTasks()
			if err != nil {
				log.Printf("Failed to check expired tasks: %v", err)
				continue
			}
			for i := range expired {
				s.removeTask(expired[i].ID)
			}
		}
	}
}
