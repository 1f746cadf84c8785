package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// GoalPlanner turns a goal into a step-by-step plan text.
type GoalPlanner interface {
	Plan(ctx context.Context, goal string) (string, error)
}

var (
	goalBreakDownPrefix = regexp.MustCompile(`(?i)break down:?\s*`)
	goalPrefix          = regexp.MustCompile(`(?i)goal:?\s*`)
	planStepLine        = regexp.MustCompile(`(?i)^\**\s*step\s*(\d+)\s*[:.)-]\s*(.+?)\**$`)
)

type fallbackDomain struct {
	keywords []string
	steps    []string
}

// Checked in order; the generic plan is used when none matches.
var fallbackDomains = []fallbackDomain{
	{
		keywords: []string{"programming", "coding", "software", "web development", "app", "python", "javascript"},
		steps: []string{
			"Programming Fundamentals: Master basic programming concepts, syntax, and problem-solving approaches.",
			"Development Environment: Set up IDE, version control (Git), and development tools.",
			"Core Technologies: Learn essential frameworks, libraries, and best practices.",
			"Build Projects: Create small applications to practice concepts.",
			"Advanced Concepts: Study algorithms, data structures, and design patterns.",
			"Professional Skills: Learn testing, debugging, and code review practices.",
			"Portfolio Development: Build showcase projects and contribute to open source.",
			"Career Preparation: Practice interviews, networking, and continuous learning.",
		},
	},
	{
		keywords: []string{"business", "startup", "entrepreneur", "marketing", "sales"},
		steps: []string{
			"Market Research: Understand your target audience, competitors, and market opportunity.",
			"Business Planning: Develop business model, revenue streams, and strategic goals.",
			"Product Development: Create minimum viable product (MVP) and iterate based on feedback.",
			"Marketing Strategy: Build brand awareness through digital marketing and content creation.",
			"Operations Setup: Establish business processes, legal structure, and financial systems.",
			"Team Building: Recruit team members, advisors, and build company culture.",
			"Scaling & Growth: Optimize operations, expand market reach, and secure funding.",
			"Long-term Strategy: Plan for sustainability, exit strategies, and market expansion.",
		},
	},
	{
		keywords: []string{"design", "ui", "ux", "graphic", "creative"},
		steps: []string{
			"Design Fundamentals: Learn color theory, typography, composition, and visual hierarchy.",
			"Tool Mastery: Master design software (Figma, Adobe Creative Suite, Sketch).",
			"User Research: Understand user needs, behavior, and design thinking methodology.",
			"Prototyping: Create wireframes, mockups, and interactive prototypes.",
			"Portfolio Building: Develop diverse projects showcasing different design skills.",
			"Industry Knowledge: Study current trends, accessibility, and platform guidelines.",
			"Collaboration Skills: Learn to work with developers, product managers, and stakeholders.",
			"Professional Growth: Build client relationships, freelancing skills, and design leadership.",
		},
	},
}

var genericSteps = []string{
	"Foundation Research: Study the basics, terminology, and core concepts thoroughly.",
	"Skill Assessment: Identify required skills and create a learning roadmap.",
	"Learning Resources: Gather books, courses, tutorials, and expert guidance.",
	"Practical Application: Start with small projects to apply what you learn.",
	"Community Engagement: Join relevant communities and find mentors.",
	"Iterative Improvement: Practice regularly and seek feedback for growth.",
	"Advanced Mastery: Dive deep into specialized areas and emerging trends.",
	"Knowledge Sharing: Teach others, create content, and build your reputation.",
}

// GoalBreakdownTool asks the planner for a three-step plan and saves every plan it returns.
type GoalBreakdownTool struct {
	planner GoalPlanner
	store   domain.PlanStore
	now     func() time.Time
}

func NewGoalBreakdownTool(planner GoalPlanner, store domain.PlanStore) *GoalBreakdownTool {
	return &GoalBreakdownTool{
		planner: planner,
		store:   store,
		now:     time.Now,
	}
}

func (t *GoalBreakdownTool) Name() string { return "goal_breakdown" }

func (t *GoalBreakdownTool) Description() string {
	return "Break down a goal into small, achievable tasks (e.g., 'Break down: Launch a website')."
}

func (t *GoalBreakdownTool) Call(ctx context.Context, tctx ToolContext, command string) (string, error) {
	log := observability.LoggerFromContext(ctx).With("tool", t.Name())

	goal := ExtractGoal(command)
	if goal == "" {
		return "Please provide a goal to break down. Example: 'Break down: Learn LLM training and fine-tuning'", nil
	}

	plan := &domain.GoalPlan{
		ID:        uuid.NewString(),
		UserID:    domain.UserID(tctx.UserID),
		Goal:      goal,
		CreatedAt: t.now(),
	}

	var text string
	if t.planner != nil {
		out, err := t.planner.Plan(ctx, goal)
		if err != nil {
			log.Warn("goal planner failed, using fallback plan", "error", err)
		} else if strings.TrimSpace(out) != "" {
			text = strings.TrimSpace(out)
			plan.Generated = true
			plan.Steps = ParsePlanSteps(text)
		}
	}
	if text == "" {
		plan.Steps = FallbackPlanSteps(goal)
		text = formatFallbackPlan(goal, plan.Steps)
	}
	plan.Text = text

	if t.store != nil {
		if err := t.store.AppendPlan(ctx, plan); err != nil {
			log.Error("saving goal plan failed", "error", err)
		}
	}
	return text, nil
}

// ExtractGoal strips the "break down:" and "goal:" prefixes.
func ExtractGoal(command string) string {
	goal := command
	if strings.Contains(strings.ToLower(goal), "break down") {
		goal = goalBreakDownPrefix.ReplaceAllString(goal, "")
	}
	if strings.Contains(strings.ToLower(goal), "goal:") {
		goal = goalPrefix.ReplaceAllString(goal, "")
	}
	return strings.TrimSpace(goal)
}

// ParsePlanSteps reads "Step N: title" lines and the bullets under them.
func ParsePlanSteps(text string) []domain.PlanStep {
	var steps []domain.PlanStep
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := planStepLine.FindStringSubmatch(line); m != nil {
			steps = append(steps, domain.PlanStep{Title: strings.Trim(m[2], "* ")})
			continue
		}
		if len(steps) == 0 {
			continue
		}
		detail := strings.TrimSpace(strings.TrimLeft(line, "•-*· "))
		if detail != "" {
			last := &steps[len(steps)-1]
			last.Details = append(last.Details, detail)
		}
	}
	return steps
}

// FallbackPlanSteps picks the keyword-specific plan for goal.
func FallbackPlanSteps(goal string) []domain.PlanStep {
	lower := strings.ToLower(goal)
	src := genericSteps
	for _, d := range fallbackDomains {
		if hasKeyword(lower, d.keywords...) {
			src = d.steps
			break
		}
	}

	steps := make([]domain.PlanStep, 0, len(src))
	for _, s := range src {
		title, detail, _ := strings.Cut(s, ": ")
		steps = append(steps, domain.PlanStep{Title: title, Details: []string{detail}})
	}
	return steps
}

func formatFallbackPlan(goal string, steps []domain.PlanStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Goal: %s\n\n📋 Structured Action Plan (%d steps):\n\n", goal, len(steps))
	for i, s := range steps {
		fmt.Fprintf(&b, "   %d. %s: %s\n", i+1, s.Title, strings.Join(s.Details, " "))
		b.WriteString("      📚 Learning Sources: Research relevant books, online courses, documentation, and expert blogs\n")
		b.WriteString("      🎥 Video Resources: Find YouTube tutorials, conference talks, and educational content\n")
	}
	fmt.Fprintf(&b, "\n💡 Next Steps:\n• Start researching step 1 immediately - knowledge builds momentum\n• Customize each step based on your specific interests in %s\n• Set weekly milestones and track your progress consistently\n• Connect with others learning %s for support and motivation", goal, goal)
	return b.String()
}
