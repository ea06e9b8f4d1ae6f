// Package shared contains common domain types, errors and events
// that are used across all domain packages.
package shared

import "time"

// EventType represents the type of domain event.
type EventType string

// Domain event types. Handlers subscribe by type.
const (
	// Account events
	EventAccountRegistered EventType = "account.registered"

	// Program events
	EventProgramStarted EventType = "program.started"

	// Progress events
	EventTaskCompleted  EventType = "progress.task_completed"
	EventXPGained       EventType = "progress.xp_gained"
	EventLevelUp        EventType = "progress.level_up"
	EventDayAdvanced    EventType = "progress.day_advanced"
	EventDaysMissed     EventType = "progress.days_missed"
	EventFocusCompleted EventType = "progress.focus_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Account Events
// ═══════════════════════════════════════════════════════════════════════════

// AccountRegisteredEvent is emitted after a successful signup.
type AccountRegisteredEvent struct {
	BaseEvent
	Email         string `json:"email"`
	Name          string `json:"name"`
	AcademicLevel string `json:"academic_level"`
}

// Payload implements Event interface.
func (e AccountRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email":          e.Email,
		"name":           e.Name,
		"academic_level": e.AcademicLevel,
	}
}

// NewAccountRegisteredEvent creates a new AccountRegisteredEvent.
func NewAccountRegisteredEvent(userID, email, name, academicLevel string) AccountRegisteredEvent {
	return AccountRegisteredEvent{
		BaseEvent:     NewBaseEvent(EventAccountRegistered, userID),
		Email:         email,
		Name:          name,
		AcademicLevel: academicLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Program Events
// ═══════════════════════════════════════════════════════════════════════════

// ProgramStartedEvent is emitted when the 30-day program (re)starts.
type ProgramStartedEvent struct {
	BaseEvent
	StartDate string `json:"start_date"`
	TaskCount int    `json:"task_count"`
}

// Payload implements Event interface.
func (e ProgramStartedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"start_date": e.StartDate,
		"task_count": e.TaskCount,
	}
}

// NewProgramStartedEvent creates a new ProgramStartedEvent.
func NewProgramStartedEvent(userID, startDate string, taskCount int) ProgramStartedEvent {
	return ProgramStartedEvent{
		BaseEvent: NewBaseEvent(EventProgramStarted, userID),
		StartDate: startDate,
		TaskCount: taskCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// TaskCompletedEvent is emitted when a task is toggled on.
type TaskCompletedEvent struct {
	BaseEvent
	TaskID string `json:"task_id"`
	Date   string `json:"date"`
}

// Payload implements Event interface.
func (e TaskCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"task_id": e.TaskID,
		"date":    e.Date,
	}
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent.
func NewTaskCompletedEvent(userID, taskID, date string) TaskCompletedEvent {
	return TaskCompletedEvent{
		BaseEvent: NewBaseEvent(EventTaskCompleted, userID),
		TaskID:    taskID,
		Date:      date,
	}
}

// XPGainedEvent is emitted whenever XP is awarded.
type XPGainedEvent struct {
	BaseEvent
	Amount int    `json:"amount"`
	Total  int    `json:"total"`
	Reason string `json:"reason"`
}

// Payload implements Event interface.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"amount": e.Amount,
		"total":  e.Total,
		"reason": e.Reason,
	}
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(userID string, amount, total int, reason string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, userID),
		Amount:    amount,
		Total:     total,
		Reason:    reason,
	}
}

// LevelUpEvent is emitted when an XP award crosses a level boundary.
type LevelUpEvent struct {
	BaseEvent
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Label    string `json:"label"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_level": e.OldLevel,
		"new_level": e.NewLevel,
		"label":     e.Label,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(userID string, oldLevel, newLevel int, label string) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: NewBaseEvent(EventLevelUp, userID),
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		Label:     label,
	}
}

// DayAdvancedEvent is emitted when the unlocked day is marked done.
type DayAdvancedEvent struct {
	BaseEvent
	Day    int    `json:"day"`
	Streak int    `json:"streak"`
	Date   string `json:"date"`
}

// Payload implements Event interface.
func (e DayAdvancedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"day":    e.Day,
		"streak": e.Streak,
		"date":   e.Date,
	}
}

// NewDayAdvancedEvent creates a new DayAdvancedEvent.
func NewDayAdvancedEvent(userID string, day, streak int, date string) DayAdvancedEvent {
	return DayAdvancedEvent{
		BaseEvent: NewBaseEvent(EventDayAdvanced, userID),
		Day:       day,
		Streak:    streak,
		Date:      date,
	}
}

// DaysMissedEvent is emitted when date sync moves days into the missed set.
type DaysMissedEvent struct {
	BaseEvent
	Days        []int `json:"days"`
	UnlockedDay int   `json:"unlocked_day"`
}

// Payload implements Event interface.
func (e DaysMissedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"days":         e.Days,
		"unlocked_day": e.UnlockedDay,
	}
}

// NewDaysMissedEvent creates a new DaysMissedEvent.
func NewDaysMissedEvent(userID string, days []int, unlockedDay int) DaysMissedEvent {
	return DaysMissedEvent{
		BaseEvent:   NewBaseEvent(EventDaysMissed, userID),
		Days:        days,
		UnlockedDay: unlockedDay,
	}
}

// FocusCompletedEvent is emitted after a finished focus session.
type FocusCompletedEvent struct {
	BaseEvent
	Minutes int `json:"minutes"`
	XP      int `json:"xp"`
}

// Payload implements Event interface.
func (e FocusCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"minutes": e.Minutes,
		"xp":      e.XP,
	}
}

// NewFocusCompletedEvent creates a new FocusCompletedEvent.
func NewFocusCompletedEvent(userID string, minutes, xp int) FocusCompletedEvent {
	return FocusCompletedEvent{
		BaseEvent: NewBaseEvent(EventFocusCompleted, userID),
		Minutes:   minutes,
		XP:        xp,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
