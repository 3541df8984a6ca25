// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package message manages the public contact-form inbox.
//
// Anyone may submit a message; reading and triaging the inbox is an
// admin-only concern.
package message

import "time"

// Status is the triage state of an inbox message.
type Status string

const (
	StatusNew  Status = "new"
	StatusRead Status = "read"
)

// Valid reports whether the status is a known triage state.
func (status Status) Valid() bool {
	return status == StatusNew || status == StatusRead
}

// Message is one contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListFilter narrows an inbox listing.
type ListFilter struct {
	Status Status
	Search string
}

// Stats summarises the inbox for the admin dashboard.
type Stats struct {
	Total int `json:"total"`
	New   int `json:"new"`
	Read  int `json:"read"`
}
