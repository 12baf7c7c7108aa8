package domain

// Project represents a GitLab project visible to the configured token.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string // e.g. "group/subgroup/project"
	WebURL            string
}

// Label is a project-scoped issue tag. Only its name is used, as a filter key.
type Label struct {
	Name string
}
