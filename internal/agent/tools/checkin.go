package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

type addCheckinArgs struct {
	Mood         string   `json:"mood"`
	Win          string   `json:"win"`
	Blocker      string   `json:"blocker"`
	SleepHours   *float64 `json:"sleep_hours"`
	Achievements string   `json:"achievements"`
	Notes        string   `json:"notes"`
}

func (a *addCheckinArgs) validate() error {
	a.Mood = strings.TrimSpace(a.Mood)
	if a.Mood == "" {
		return errors.New("mood is required")
	}
	if a.SleepHours != nil && (*a.SleepHours < 0 || *a.SleepHours > 24) {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	return nil
}

func (a addCheckinArgs) record() map[string]any {
	rec := map[string]any{"mood": a.Mood}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			rec[k] = v
		}
	}
	set("win", a.Win)
	set("blocker", a.Blocker)
	set("achievements", a.Achievements)
	set("notes", a.Notes)
	if a.SleepHours != nil {
		rec["sleepHours"] = *a.SleepHours
	}
	return rec
}

// AddDailyCheckin stores a check-in and appends its summary to the
// student's long-term memory.
func AddDailyCheckin(svc services.CheckinService, memory agent.MemoryBank) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "add_daily_checkin",
		Description: "Record today's check-in: mood, a win, a blocker and optionally sleep.",
		Parameters: schema(map[string]any{
			"mood":         str("How the student feels."),
			"win":          str("Something that went well."),
			"blocker":      str("Something in the way."),
			"sleep_hours":  map[string]any{"type": "number", "description": "Hours slept last night."},
			"achievements": str("Other achievements."),
			"notes":        str("Anything else worth keeping."),
		}, "mood"),
	}, func(ctx context.Context, studentID string, args addCheckinArgs) (any, error) {
		doc, err := svc.Create(ctx, studentID, args.record())
		if err != nil {
			return nil, downstream(err)
		}
		if memory != nil {
			if err := memory.Add(ctx, studentID, agent.SummarizeCheckin(doc)); err != nil {
				return nil, &Error{Kind: KindDownstream, Err: fmt.Errorf("check-in %v stored but memory update failed: %w", doc["id"], err)}
			}
		}
		return map[string]any{
			"message": fmt.Sprintf("Daily check-in stored with id %v", doc["id"]),
			"checkin": doc,
		}, nil
	})
}

type recentCheckinsArgs struct {
	Limit int `json:"limit"`
}

func GetRecentCheckins(svc services.CheckinService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "get_recent_checkins",
		Description: "List the student's most recent check-ins, newest first.",
		Parameters: schema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "How many to return (default 7)."},
		}),
	}, func(ctx context.Context, studentID string, args recentCheckinsArgs) (any, error) {
		items, err := svc.ListRecent(ctx, studentID, args.Limit)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"checkins": items}, nil
	})
}
