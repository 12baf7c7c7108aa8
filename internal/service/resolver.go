package service

import (
	"fmt"

	"github.com/vilaca/gitlab-report/internal/domain"
)

// NotFoundError is returned when no project has the requested path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No project found with path %s", e.Path)
}

// ResolveProject returns the first project whose namespaced path equals path exactly.
// tick, if non-nil, is called once per inspected project.
func ResolveProject(projects []domain.Project, path string, tick func()) (domain.Project, error) {
	for _, p := range projects {
		if tick != nil {
			tick()
		}
		if p.PathWithNamespace == path {
			return p, nil
		}
	}
	return domain.Project{}, &NotFoundError{Path: path}
}
