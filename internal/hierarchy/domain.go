package hierarchy

// HierarchyElement is a category node. The tree is reference data seeded at
// startup; only product assignments change, and only through catalog sync.
type HierarchyElement struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Uncategorized is the display path for products without an assignment.
const Uncategorized = "Uncategorized"
