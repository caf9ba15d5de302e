package mcp

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/schedule"
	"github.com/2beens/programtracker/internal/tracker"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// trackerService is the part of tracker.Service the tools need.
type trackerService interface {
	Program() *program.Program
	Schedule(ctx context.Context, userID, programID string) (tracker.ScheduleView, error)
	Day(ctx context.Context, userID, programID string, week, day int) (tracker.DayView, error)
	ToggleExercise(ctx context.Context, userID, programID string, week, day int, exerciseID string) (tracker.DayView, error)
	UpdateNotes(ctx context.Context, userID, programID string, week, day int, notes string) (tracker.DayView, error)
}

// Handler turns MCP tool calls into tracker service calls.
type Handler struct {
	service trackerService
}

func NewHandler(service trackerService) *Handler {
	return &Handler{
		service: service,
	}
}

// RunInput addresses a user's run of a program.
type RunInput struct {
	UserID    string `json:"user_id" jsonschema:"User id"`
	ProgramID string `json:"program_id" jsonschema:"Program id (see get_program)"`
}

// DayInput addresses one day of a run. Week and day are 0-based.
type DayInput struct {
	UserID    string `json:"user_id" jsonschema:"User id"`
	ProgramID string `json:"program_id" jsonschema:"Program id (see get_program)"`
	Week      int    `json:"week" jsonschema:"0-based week index"`
	Day       int    `json:"day" jsonschema:"0-based day index within the week"`
}

type ToggleExerciseInput struct {
	UserID     string `json:"user_id" jsonschema:"User id"`
	ProgramID  string `json:"program_id" jsonschema:"Program id (see get_program)"`
	Week       int    `json:"week" jsonschema:"0-based week index"`
	Day        int    `json:"day" jsonschema:"0-based day index within the week"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise instance id, e.g. week0-day0-warm-up-arm-circles (see get_day)"`
}

type UpdateNotesInput struct {
	UserID    string `json:"user_id" jsonschema:"User id"`
	ProgramID string `json:"program_id" jsonschema:"Program id (see get_program)"`
	Week      int    `json:"week" jsonschema:"0-based week index"`
	Day       int    `json:"day" jsonschema:"0-based day index within the week"`
	Notes     string `json:"notes" jsonschema:"Free text notes, replaces the current notes of the day"`
}

type programSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Weeks        int      `json:"weeks"`
	Days         int      `json:"days"`
	WorkoutTypes []string `json:"workoutTypes"`
}

type daySummary struct {
	Week      int    `json:"week"`
	Day       int    `json:"day"`
	Date      string `json:"date"`
	Workout   string `json:"workout"`
	Completed int    `json:"completedExercises"`
	HasNotes  bool   `json:"hasNotes"`
}

type progressSummary struct {
	StartDate  string             `json:"startDate"`
	Progress   schedule.Progress  `json:"progress"`
	SyncStatus tracker.SyncStatus `json:"syncStatus"`
	Days       []daySummary       `json:"days"`
}

func (h *Handler) GetProgramTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		p := h.service.Program()
		if p == nil {
			return errorResult("No program loaded"), nil, nil
		}
		summary := programSummary{
			ID:          p.ID,
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			Weeks:       len(p.Schedule.Weeks),
			Days:        p.DaysCount(),
		}
		for key := range p.WorkoutTypes {
			summary.WorkoutTypes = append(summary.WorkoutTypes, key)
		}
		sort.Strings(summary.WorkoutTypes)
		return jsonResult(summary), nil, nil
	}
}

func (h *Handler) GetProgressTool() func(context.Context, *mcp.CallToolRequest, RunInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RunInput) (*mcp.CallToolResult, any, error) {
		view, err := h.service.Schedule(ctx, in.UserID, in.ProgramID)
		if err != nil {
			return errorResult("Error fetching progress: " + err.Error()), nil, nil
		}

		summary := progressSummary{
			StartDate:  schedule.DateKey(view.State.StartDate),
			Progress:   view.Progress,
			SyncStatus: view.SyncStatus,
		}
		for w, week := range view.State.Schedule {
			for d, dw := range week {
				completed := 0
				for _, done := range dw.Completed {
					if done {
						completed++
					}
				}
				summary.Days = append(summary.Days, daySummary{
					Week:      w,
					Day:       d,
					Date:      schedule.DateKey(dw.Date),
					Workout:   dw.Workout,
					Completed: completed,
					HasNotes:  dw.UserNotes != nil && *dw.UserNotes != "",
				})
			}
		}
		return jsonResult(summary), nil, nil
	}
}

func (h *Handler) GetDayTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		view, err := h.service.Day(ctx, in.UserID, in.ProgramID, in.Week, in.Day)
		if err != nil {
			return errorResult("Error fetching day: " + err.Error()), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

func (h *Handler) ToggleExerciseTool() func(context.Context, *mcp.CallToolRequest, ToggleExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ToggleExerciseInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseID == "" {
			return errorResult("exercise_id is required"), nil, nil
		}
		view, err := h.service.ToggleExercise(ctx, in.UserID, in.ProgramID, in.Week, in.Day, in.ExerciseID)
		if err != nil {
			return errorResult("Error toggling exercise: " + err.Error()), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

func (h *Handler) UpdateNotesTool() func(context.Context, *mcp.CallToolRequest, UpdateNotesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UpdateNotesInput) (*mcp.CallToolResult, any, error) {
		view, err := h.service.UpdateNotes(ctx, in.UserID, in.ProgramID, in.Week, in.Day, in.Notes)
		if err != nil {
			return errorResult("Error updating notes: " + err.Error()), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
