package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing a user's program run as tools.
// The main backend mounts it at /mcp, cmd/tracker_mcp serves it over stdio.
func NewServer(service trackerService, version string) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "program-tracker",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_program",
		Description: "Returns the loaded training program: id, name, version, number of weeks and days, and the workout type keys. Use it to find the program_id the other tools take.",
	}, h.GetProgramTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress",
		Description: "Returns the progress of a user's run of a program: start date, completion totals, save status and one line per scheduled day (date, workout, completed exercises). Args: user_id, program_id.",
	}, h.GetProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_day",
		Description: "Returns one scheduled day with its resolved workout (sections, exercises with sets/reps/RPE and instance ids), completion and day stats. Args: user_id, program_id, week, day (0-based).",
	}, h.GetDayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "toggle_exercise",
		Description: "Flips the completion of one exercise of a day. Args: user_id, program_id, week, day, exercise_id (instance id from get_day).",
	}, h.ToggleExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "update_notes",
		Description: "Replaces the notes of a day. Args: user_id, program_id, week, day, notes.",
	}, h.UpdateNotesTool())

	return s
}
