package entities

// Learner identifies one user of the bot and the chat that reminders go to.
type Learner struct {
	UserID int64
	ChatID int64
}
