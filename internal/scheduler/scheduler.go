package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/quizzy/internal/database"
)

// Default window outside which no reminders are sent
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier interface for sending study reminders
type Notifier interface {
	SendStudyReminder(chatID int64, savedCards int) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for chats whose reminder hour has arrived
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders sends a study nudge to every chat that asked for one
// at the current hour
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := DefaultReminderStartHour
	endHour := DefaultReminderEndHour

	if startHourStr := os.Getenv("REMINDER_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("REMINDER_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	prefRepo := database.NewPreferenceRepository()
	bookmarkRepo := database.NewBookmarkRepository()

	chatIDs, err := prefRepo.GetChatsForReminder(currentHour)
	if err != nil {
		log.Printf("Error getting chats for reminder: %v", err)
		return
	}

	for _, chatID := range chatIDs {
		saved, err := bookmarkRepo.Count()
		if err != nil {
			log.Printf("Error counting saved cards for chat %d: %v", chatID, err)
			continue
		}

		if err := s.notifier.SendStudyReminder(chatID, saved); err != nil {
			log.Printf("Error sending reminder to chat %d: %v", chatID, err)
		}
	}
}
