package hierarchy

// Repository stores the category tree and product assignments. The in-memory
// implementation assumes the tenant lock is held by the calling service.
type Repository interface {
	ListElements() []HierarchyElement
	GetElement(id string) (HierarchyElement, bool)
	AssignProduct(productID, elementID string)
	ElementForProduct(productID string) (HierarchyElement, bool)
	ProductsForElement(elementID string) []string
	Assignments() map[string]string
}

type memoryRepository struct {
	elements    []HierarchyElement
	byID        map[string]int
	assignments map[string]string
}

// NewRepository constructs the store with the given tree.
func NewRepository(elements []HierarchyElement) Repository {
	r := &memoryRepository{
		byID:        make(map[string]int, len(elements)),
		assignments: make(map[string]string),
	}
	for _, e := range elements {
		if _, ok := r.byID[e.ID]; ok {
			continue
		}
		r.byID[e.ID] = len(r.elements)
		r.elements = append(r.elements, e)
	}
	return r
}

func (r *memoryRepository) ListElements() []HierarchyElement {
	out := make([]HierarchyElement, len(r.elements))
	copy(out, r.elements)
	return out
}

func (r *memoryRepository) GetElement(id string) (HierarchyElement, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return HierarchyElement{}, false
	}
	return r.elements[idx], true
}

func (r *memoryRepository) AssignProduct(productID, elementID string) {
	if _, ok := r.byID[elementID]; !ok {
		return
	}
	r.assignments[productID] = elementID
}

func (r *memoryRepository) ElementForProduct(productID string) (HierarchyElement, bool) {
	id, ok := r.assignments[productID]
	if !ok {
		return HierarchyElement{}, false
	}
	return r.GetElement(id)
}

func (r *memoryRepository) ProductsForElement(elementID string) []string {
	var out []string
	for productID, id := range r.assignments {
		if id == elementID {
			out = append(out, productID)
		}
	}
	return out
}

func (r *memoryRepository) Assignments() map[string]string {
	out := make(map[string]string, len(r.assignments))
	for k, v := range r.assignments {
		out[k] = v
	}
	return out
}
