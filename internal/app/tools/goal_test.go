package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
)

type stubPlanner struct {
	out string
	err error
}

func (p stubPlanner) Plan(context.Context, string) (string, error) {
	return p.out, p.err
}

func TestGoalBreakdownWithPlanner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	plan := "**Step 1: Learn the basics**\n- read the docs\nStep 2: Build something\n• a todo app"
	tool := tools.NewGoalBreakdownTool(stubPlanner{out: plan}, store)

	out, err := tool.Call(ctx, tools.ToolContext{UserID: "u1"}, "Break down: Learn Go")
	require.NoError(t, err)
	assert.Equal(t, plan, out)

	saved, err := store.ListPlansByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Learn Go", saved[0].Goal)
	assert.True(t, saved[0].Generated)
	require.Len(t, saved[0].Steps, 2)
	assert.Equal(t, "Learn the basics", saved[0].Steps[0].Title)
	assert.Equal(t, []string{"read the docs"}, saved[0].Steps[0].Details)
	assert.Equal(t, []string{"a todo app"}, saved[0].Steps[1].Details)
}

func TestGoalBreakdownFallsBackWhenPlannerFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	tool := tools.NewGoalBreakdownTool(stubPlanner{err: errors.New("timeout")}, store)

	out, err := tool.Call(ctx, tools.ToolContext{UserID: "u1"}, "goal: learn python programming")
	require.NoError(t, err)
	assert.Contains(t, out, "🎯 Goal: learn python programming")
	assert.Contains(t, out, "Structured Action Plan (8 steps)")
	assert.Contains(t, out, "1. Programming Fundamentals:")

	saved, err := store.ListPlansByUser(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.False(t, saved[0].Generated)
	assert.Len(t, saved[0].Steps, 8)
}

func TestGoalBreakdownNeedsGoal(t *testing.T) {
	tool := tools.NewGoalBreakdownTool(nil, nil)

	out, err := tool.Call(context.Background(), tools.ToolContext{}, "break down")
	require.NoError(t, err)
	assert.Contains(t, out, "Please provide a goal to break down.")
}

func TestFallbackPlanSteps(t *testing.T) {
	assert.Equal(t, "Market Research", tools.FallbackPlanSteps("open a bakery business")[0].Title)
	assert.Equal(t, "Design Fundamentals", tools.FallbackPlanSteps("learn ui design")[0].Title)
	assert.Equal(t, "Foundation Research", tools.FallbackPlanSteps("be happy every day")[0].Title)
}
