package models

import (
	"time"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// HistoryEntry represents one visit of a tool in the usage history.
// ToolID is unique within the history list.
type HistoryEntry struct {
	ToolID       string `json:"toolId"`
	ToolSlug     string `json:"toolSlug"`
	ToolName     string `json:"toolName"`
	ToolIcon     string `json:"toolIcon"`
	ToolCategory string `json:"toolCategory"`

	// Timestamp is the visit instant in milliseconds since the Unix epoch
	Timestamp int64 `json:"timestamp"`

	// Date is the human-readable visit date, month/day/year
	Date string `json:"date"`
}

// ToolVisit is the caller-supplied part of a history entry.
type ToolVisit struct {
	ToolID       string `json:"toolId" validate:"required,tool_id"`
	ToolSlug     string `json:"toolSlug" validate:"max=128"`
	ToolName     string `json:"toolName" validate:"max=200"`
	ToolIcon     string `json:"toolIcon" validate:"max=200"`
	ToolCategory string `json:"toolCategory" validate:"max=100"`
}

// NewHistoryEntry stamps a visit with the given instant.
func NewHistoryEntry(visit ToolVisit, now time.Time) HistoryEntry {
	return HistoryEntry{
		ToolID:       visit.ToolID,
		ToolSlug:     visit.ToolSlug,
		ToolName:     visit.ToolName,
		ToolIcon:     visit.ToolIcon,
		ToolCategory: visit.ToolCategory,
		Timestamp:    now.UnixMilli(),
		Date:         now.Format(constants.HistoryDateLayout),
	}
}

// VisitedAt returns the visit instant.
func (e HistoryEntry) VisitedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}
