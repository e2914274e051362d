// Package domain holds the fresh pipeline types shared by ingestion and transport
package domain

import (
	"time"

	"joinfeed/internal/core/normalize"
)

// Message is one unit of upstream content after source adaptation.
// Transient: produced by a fetch or a push event, consumed by
// normalization and extraction, then discarded
type Message struct {
	ID        string
	CreatedAt time.Time
	Text      string
	Blocks    []normalize.Block
	Author    string
	FromBot   bool
}

// Entry is one accepted identifier living in the freshness buffer
type Entry struct {
	Identifier string
	ObservedAt time.Time
	Source     string
}

// Item is the wire form of an Entry
type Item struct {
	Identifier string `json:"identifier" example:"AbCdEfGh12345678"`
	AgeSeconds int    `json:"ageSeconds" example:"4"`
	Source     string `json:"source" example:"relay-bot"`
}

// FreshPayload is the consumer feed response. Success flips false only
// after the upstream has been down across repeated cycles, so a polling
// client can tell "legitimately nothing new" from "system broken"
type FreshPayload struct {
	Success   bool   `json:"success" example:"true"`
	Count     int    `json:"count" example:"2"`
	Items     []Item `json:"items"`
	Timestamp int64  `json:"timestamp" example:"1756400000000"`
	Error     string `json:"error,omitempty" example:"upstream unavailable"`
}

// LastError records the most recent ingestion failure for diagnostics
type LastError struct {
	Message string `json:"message" example:"discord rate limited"`
	At      string `json:"at" example:"2026-08-29T13:05:00Z"`
}

// StatusPayload is the diagnostic counters response
type StatusPayload struct {
	Instance       string     `json:"instance" example:"7a9f1c2e-0b34-4d7e-9f10-2c55aa01d9be"`
	Mode           string     `json:"mode" example:"lazy"`
	UptimeSeconds  int64      `json:"uptimeSeconds" example:"300"`
	WindowSeconds  int        `json:"windowSeconds" example:"30"`
	BufferSize     int        `json:"bufferSize" example:"3"`
	CurrentlyFresh int        `json:"currentlyFresh" example:"2"`
	TotalSeen      int64      `json:"totalSeen" example:"57"`
	FetchAttempts  int64      `json:"fetchAttempts" example:"40"`
	FetchSuccesses int64      `json:"fetchSuccesses" example:"38"`
	FetchFailures  int64      `json:"fetchFailures" example:"2"`
	LastFetch      string     `json:"lastFetch,omitempty" example:"2026-08-29T13:05:00Z"`
	LastError      *LastError `json:"lastError,omitempty"`
}

// ExtractInput is the debug extraction request body
type ExtractInput struct {
	Text string `json:"text" validate:"required,min=1,max=8000" example:"Job ID: AbCdEfGh12345678"`
}

// ExtractResult is the debug extraction response
type ExtractResult struct {
	Found       int      `json:"found" example:"1"`
	Identifiers []string `json:"identifiers"`
	Platform    string   `json:"platform,omitempty" example:"PC"`
}
