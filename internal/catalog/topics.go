package catalog

// defaultTopics returns the ordered topic table. Order matters: when two
// categories score equally, the one declared first wins.
func defaultTopics() []Topic {
	return []Topic{
		{
			Name: "architecture",
			Keywords: []string{
				"architect", "infrastructure", "system design", "database", "schema",
				"api", "backend", "frontend", "microservice", "monolith", "deploy",
				"docker", "kubernetes", "aws", "cloud", "server", "cache", "redis",
				"postgres", "sqlite", "mongo", "queue", "websocket", "sse", "polling",
				"ci/cd", "pipeline", "migration", "refactor", "integration", "stack",
				"framework", "library", "dependency", "scaling", "performance",
			},
			Triad: []string{"The Contrarian", "The Pragmatist", "The Systems Thinker"},
		},
		{
			Name: "product",
			Keywords: []string{
				"feature", "user experience", "ux", "ui", "onboarding", "retention",
				"conversion", "funnel", "signup", "login", "dashboard", "notification",
				"mobile", "responsive", "accessibility", "design", "prototype", "mvp",
				"roadmap", "release", "launch", "beta", "feedback", "survey",
			},
			Triad: []string{"The Contrarian", "The User Advocate", "The Growth Hacker"},
		},
		{
			Name: "business",
			Keywords: []string{
				"pricing", "revenue", "cost", "budget", "roi", "investment", "funding",
				"business model", "subscription", "saas", "b2b", "b2c", "contract",
				"negotiate", "hire", "salary", "equity", "valuation", "profit",
				"margin", "enterprise", "compliance", "legal", "license",
			},
			Triad: []string{"The Contrarian", "The Economist", "The Risk Analyst"},
		},
		{
			Name: "personal",
			Keywords: []string{
				"career", "job", "quit", "resign", "move", "relocate", "life",
				"decision", "family", "relationship", "health", "hobby", "side project",
				"freelance", "remote", "balance", "burnout", "motivation", "learning",
			},
			Triad: []string{"The Contrarian", "The Pragmatist", "The Outsider"},
		},
		{
			Name: "marketing",
			Keywords: []string{
				"marketing", "brand", "growth", "seo", "content", "social media",
				"advertising", "campaign", "audience", "engagement", "viral",
				"distribution", "channel", "influencer", "newsletter", "community",
				"launch", "product hunt", "hacker news",
			},
			Triad: []string{"The Contrarian", "The User Advocate", "The Growth Hacker"},
		},
		{
			Name: "debugging",
			Keywords: []string{
				"bug", "debug", "error", "fix", "broken", "crash", "stuck", "issue",
				"problem", "failing", "slow", "timeout", "memory", "leak", "race",
				"condition", "deadlock", "exception", "traceback",
			},
			Triad: []string{"The Contrarian", "The Pragmatist", "The Systems Thinker"},
		},
		{
			Name: "strategic",
			Keywords: []string{
				"strategy", "vision", "long-term", "big picture", "pivot", "direction",
				"mission", "goal", "objective", "competitive", "market", "trend",
				"disruption", "innovation", "future",
			},
			Triad: []string{"The Contrarian", "The Visionary", "The Radical"},
		},
	}
}
