package hierarchy

type CreateNodeRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ParentID string `json:"parent_id" binding:"omitempty,uuid"`
}

type NodeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    string `json:"level"`
	ParentID string `json:"parent_id,omitempty"`
}

// LevelsResponse lists the nodes of every level. Used both for cascading
// filter options and for the flat relationship listing.
type LevelsResponse struct {
	Regions     []NodeResponse `json:"regions"`
	Directions  []NodeResponse `json:"directions"`
	Departments []NodeResponse `json:"departments"`
	Teams       []NodeResponse `json:"teams"`
	Cells       []NodeResponse `json:"cells"`
}

type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Level    string     `json:"level"`
	Children []TreeNode `json:"children,omitempty"`
}

type PathResponse struct {
	RegionID       string `json:"region_id"`
	RegionName     string `json:"region_name"`
	DirectionID    string `json:"direction_id"`
	DirectionName  string `json:"direction_name"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	CellID         string `json:"cell_id"`
	CellName       string `json:"cell_name"`
}

func (r *LevelsResponse) set(level Level, nodes []NodeResponse) {
	switch level {
	case LevelRegion:
		r.Regions = nodes
	case LevelDirection:
		r.Directions = nodes
	case LevelDepartment:
		r.Departments = nodes
	case LevelTeam:
		r.Teams = nodes
	case LevelCell:
		r.Cells = nodes
	}
}

func MapPath(p Path) PathResponse {
	return PathResponse{
		RegionID:       p.RegionID.String(),
		RegionName:     p.RegionName,
		DirectionID:    p.DirectionID.String(),
		DirectionName:  p.DirectionName,
		DepartmentID:   p.DepartmentID.String(),
		DepartmentName: p.DepartmentName,
		TeamID:         p.TeamID.String(),
		TeamName:       p.TeamName,
		CellID:         p.CellID.String(),
		CellName:       p.CellName,
	}
}
