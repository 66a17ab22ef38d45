package app

import (
	"fmt"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/agent/tools"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// Agents holds the three runtimes built from the agent roster.
type Agents struct {
	Hub        agent.Runtime
	Onboarding agent.Runtime
	Reports    *agent.Runner
}

// wireAgents builds the analytics runner first so it can be handed to the
// report tool of the hub team.
func wireAgents(log *logger.Logger, team agent.TeamConfig, defs *agent.Definitions, deps tools.Deps) (*Agents, error) {
	log.Info("Wiring agents...")
	bind := func(name string, registry map[string]agent.Tool) (*agent.Agent, error) {
		def, ok := defs.Get(name)
		if !ok {
			return nil, fmt.Errorf("agent %s is not defined", name)
		}
		return agent.Bind(def, registry)
	}

	base := tools.Registry(deps)
	analytics, err := bind(agent.AnalyticsAgent, base)
	if err != nil {
		return nil, err
	}
	analyticsTeam, err := agent.NewTeam(team, analytics)
	if err != nil {
		return nil, err
	}
	runner := agent.NewRunner(analyticsTeam)

	deps.Reports = runner
	registry := tools.Registry(deps)

	coordinator := defs.Coordinator
	if coordinator == "" {
		coordinator = agent.StudentHubAgent
	}
	hub, err := bind(coordinator, registry)
	if err != nil {
		return nil, err
	}
	var specialists []*agent.Agent
	for _, name := range []string{agent.AcademicAgent, agent.WellnessAgent, agent.GoalAgent, agent.AnalyticsAgent} {
		a, err := bind(name, registry)
		if err != nil {
			return nil, err
		}
		specialists = append(specialists, a)
	}
	hubTeam, err := agent.NewTeam(team, hub, specialists...)
	if err != nil {
		return nil, err
	}

	onboarding, err := bind(agent.OnboardingAgent, registry)
	if err != nil {
		return nil, err
	}
	onboardingTeam, err := agent.NewTeam(team, onboarding)
	if err != nil {
		return nil, err
	}

	return &Agents{Hub: hubTeam, Onboarding: onboardingTeam, Reports: runner}, nil
}
