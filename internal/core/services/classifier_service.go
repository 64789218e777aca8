package services

import (
	"context"
	"fmt"
	"sort"

	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// classifierService walks the account class tree.
type classifierService struct {
	BaseService
	classRepo portsrepo.AccountClassReader
}

// NewClassifierService creates a new ClassifierSvc.
func NewClassifierService(classRepo portsrepo.AccountClassReader) portssvc.ClassifierSvc {
	return &classifierService{classRepo: classRepo}
}

var _ portssvc.ClassifierSvc = (*classifierService)(nil)

// DescendantClassIDs returns the root class id plus every class id
// transitively under it. The walk is an iterative worklist with a visited
// set, so an accidental cycle in the data still terminates. An unknown root
// yields the singleton {root}.
func (s *classifierService) DescendantClassIDs(ctx context.Context, rootClassID string) ([]string, error) {
	visited := map[string]struct{}{rootClassID: {}}
	queue := []string{rootClassID}

	for len(queue) > 0 {
		classID := queue[0]
		queue = queue[1:]

		children, err := s.classRepo.ListChildClassIDs(ctx, classID)
		if err != nil {
			return nil, fmt.Errorf("failed to list child classes of %s: %w", classID, err)
		}
		for _, child := range children {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			queue = append(queue, child)
		}
	}

	result := make([]string, 0, len(visited))
	for id := range visited {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}
