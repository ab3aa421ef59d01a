package entities

// ReminderPayload is the content of a daily review reminder.
type ReminderPayload struct {
	DueCount     int
	NewCount     int
	OverdueCount int
	Streak       int
}
