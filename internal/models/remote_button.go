package models

import "time"

// Remote button actions.
const (
	RemoteActionNext  = "next"
	RemoteActionPrev  = "prev"
	RemoteActionPause = "pause"
)

// RemoteButton is a physical button wired to the display, identified by MAC.
type RemoteButton struct {
	ID         string    `json:"id"`
	MACAddress string    `json:"macAddress"`
	Name       string    `json:"name"`
	Action     string    `json:"action"`
	IsActive   bool      `json:"isActive"`
	PressCount int       `json:"pressCount"`
	LastPress  time.Time `json:"lastPress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
