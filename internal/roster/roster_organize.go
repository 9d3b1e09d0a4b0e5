package roster

import (
	"churchops/internal/hierarchy"
)

func pathKey(p *hierarchy.PathResponse, level hierarchy.Level) (string, string) {
	switch level {
	case hierarchy.LevelRegion:
		return p.RegionID, p.RegionName
	case hierarchy.LevelDirection:
		return p.DirectionID, p.DirectionName
	case hierarchy.LevelDepartment:
		return p.DepartmentID, p.DepartmentName
	case hierarchy.LevelTeam:
		return p.TeamID, p.TeamName
	default:
		return p.CellID, p.CellName
	}
}

// Organize nests entries Region > Direction > Department > Team > Cell.
// Entries must already be in roster order; groups keep first-seen order and
// entries without a path are dropped.
func Organize(entries []Entry) []Group {
	var roots []Group
	for _, e := range entries {
		if e.Path == nil {
			continue
		}
		level := &roots
		for i, l := range hierarchy.Levels {
			id, name := pathKey(e.Path, l)
			g := lastGroup(level, id)
			if g == nil {
				*level = append(*level, Group{ID: id, Name: name, Level: string(l)})
				g = &(*level)[len(*level)-1]
			}
			if i == len(hierarchy.Levels)-1 {
				g.People = append(g.People, e)
			}
			level = &g.Children
		}
	}
	if roots == nil {
		roots = []Group{}
	}
	return roots
}

// lastGroup returns the trailing group when it has the given id. Sorted
// input means a node never reappears after its siblings.
func lastGroup(groups *[]Group, id string) *Group {
	n := len(*groups)
	if n == 0 || (*groups)[n-1].ID != id {
		return nil
	}
	return &(*groups)[n-1]
}
