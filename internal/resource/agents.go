package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// Agent is an AI agent registered with the agents service.
type Agent struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	TasksCompleted int     `json:"tasks_completed"`
	SuccessRate    float64 `json:"success_rate"`
	LastActive     string  `json:"last_active"`
}

// AgentList is the ai-agents/agents list schema.
type AgentList struct {
	Agents       []Agent      `json:"agents"`
	TotalAgents  int          `json:"total_agents"`
	ActiveAgents int          `json:"active_agents"`
	Source       model.Source `json:"source,omitempty"`
}

// Agents lists the AI agents and their activity.
var Agents = New(Descriptor{
	Name:    "ai-agents/agents",
	Route:   brainRoute("ai-agents/agents"),
	Backend: config.BackendAIAgents,
	Path:    "/agents",
	Methods: []string{http.MethodGet},
}, fallbackAgents)

func fallbackAgents(Params) AgentList {
	agents := []Agent{
		{ID: "marketing-strategist", Name: "Marketing Strategist", Category: "marketing", Status: "active", TasksCompleted: 342, SuccessRate: 0.96, LastActive: "2024-01-15T10:25:00Z"},
		{ID: "content-creator", Name: "Content Creator", Category: "content", Status: "active", TasksCompleted: 518, SuccessRate: 0.93, LastActive: "2024-01-15T10:20:00Z"},
		{ID: "seo-optimizer", Name: "SEO Optimizer", Category: "seo", Status: "idle", TasksCompleted: 207, SuccessRate: 0.91, LastActive: "2024-01-15T08:02:00Z"},
		{ID: "product-sourcing", Name: "Product Sourcing", Category: "ecommerce", Status: "active", TasksCompleted: 129, SuccessRate: 0.88, LastActive: "2024-01-15T09:47:00Z"},
	}
	active := 0
	for _, a := range agents {
		if a.Status == "active" {
			active++
		}
	}
	return AgentList{
		Agents:       agents,
		TotalAgents:  len(agents),
		ActiveAgents: active,
		Source:       model.SourceFallback,
	}
}

// TaskReceipt acknowledges a task queued with an agent.
type TaskReceipt struct {
	TaskID   string `json:"task_id"`
	AgentID  string `json:"agent_id"`
	Status   string `json:"status"`
	QueuedAt string `json:"queued_at"`
}

// AgentTasks submits work to an agent. Writes only, so no fallback.
var AgentTasks = New[TaskReceipt](Descriptor{
	Name:    "ai-agents/tasks",
	Route:   brainRoute("ai-agents/tasks"),
	Backend: config.BackendAIAgents,
	Path:    "/tasks",
	Methods: []string{http.MethodPost},
}, nil)
