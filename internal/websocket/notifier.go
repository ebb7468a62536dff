package websocket

import "github.com/google/uuid"

// Notifier publishes job-board events to connected clients.
type Notifier struct {
	hub *Hub
}

// NewNotifier creates a notifier backed by the hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// JobPosted announces a new posting to every connected client.
func (n *Notifier) JobPosted(jobID uuid.UUID, title, company, location, category string) {
	n.hub.Broadcast(&Message{
		Type:     "job_posted",
		JobID:    jobID.String(),
		JobTitle: title,
		Company:  company,
		Location: location,
		Category: category,
	})
}

// ApplicationReceived notifies the posting's owner that someone applied.
// The applicant's name travels as Actor; their identity id does not leave
// the server.
func (n *Notifier) ApplicationReceived(ownerID, jobID uuid.UUID, jobTitle, applicantName string) {
	n.hub.Broadcast(&Message{
		Type:     "application_received",
		JobID:    jobID.String(),
		JobTitle: jobTitle,
		Actor:    applicantName,
		To:       ownerID,
	})
}

// HasConnectedClients checks if a user has any active WebSocket connections.
func (n *Notifier) HasConnectedClients(userID uuid.UUID) bool {
	return n.hub.ClientCount(userID) > 0
}
