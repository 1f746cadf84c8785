package agentflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const (
	plannerTemperature = 0.3
	plannerMaxTokens   = 2000
	plannerTimeout     = 30 * time.Second
)

const plannerSystemPrompt = "You are an expert learning and project advisor who breaks down goals into detailed, actionable steps."

// PlannerAgent: turns a goal into a three-step action plan. It backs the goal breakdown tool.
type PlannerAgent struct {
	llm     domain.ChatClient
	model   string
	timeout time.Duration
}

func NewPlannerAgent(llm domain.ChatClient, model string, timeout time.Duration) *PlannerAgent {
	if timeout <= 0 {
		timeout = plannerTimeout
	}
	return &PlannerAgent{llm: llm, model: model, timeout: timeout}
}

func (a *PlannerAgent) Name() string {
	return "planner"
}

// Plan asks the model for the breakdown. An empty answer is an error so callers can fall back.
func (a *PlannerAgent) Plan(ctx context.Context, goal string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.llm.Complete(ctx, domain.CompletionRequest{
		Purpose: domain.PurposeGoalPlanner,
		Model:   a.model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: plannerSystemPrompt},
			{Role: domain.RoleUser, Content: BreakdownPrompt(goal)},
		},
		Temperature: plannerTemperature,
		MaxTokens:   plannerMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("planner: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("planner: empty plan for %q", goal)
	}
	return out, nil
}

// BreakdownPrompt asks for exactly three steps with four bullets each.
func BreakdownPrompt(goal string) string {
	step := func(n int) string {
		return fmt.Sprintf("Step %d: [Step title]\n"+
			"• Complete, actionable task description without brackets\n"+
			"• Measurable milestone with specific metrics\n"+
			"• Practical deliverable that can be completed\n"+
			"• Validation method to confirm completion\n", n)
	}

	return fmt.Sprintf("Break down this goal into exactly 3 actionable steps: %q\n\n"+
		"Use this EXACT format for each step:\n\n%s\n%s\n%s\n"+
		"IMPORTANT RULES:\n"+
		"- DO NOT include bracketed labels in your response\n"+
		"- Each bullet point should be a complete sentence without formatting brackets\n"+
		"- Provide ALL 3 steps in one response\n"+
		"- Make each checkpoint specific, actionable, and measurable\n"+
		"- Steps should build progressively toward the goal\n"+
		"- Focus on practical actions the user can take immediately\n\n"+
		"Goal: %s", goal, step(1), step(2), step(3), goal)
}
