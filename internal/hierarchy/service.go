package hierarchy

import (
	"context"
	"sort"

	"github.com/venuecast/venuecast/internal/shared"
)

// Service exposes category tree queries used for display grouping.
type Service struct {
	repo Repository
	lock *shared.TenantLock
}

// NewService builds Service.
func NewService(repo Repository, lock *shared.TenantLock) *Service {
	return &Service{repo: repo, lock: lock}
}

// GetHierarchyElements lists the tree nodes.
func (s *Service) GetHierarchyElements(ctx context.Context) ([]HierarchyElement, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListElements(), nil
}

// GetHierarchyElementProducts returns product ids grouped per element id.
func (s *Service) GetHierarchyElementProducts(ctx context.Context) (map[string][]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	grouped := make(map[string][]string)
	for productID, elementID := range s.repo.Assignments() {
		grouped[elementID] = append(grouped[elementID], productID)
	}
	for _, ids := range grouped {
		sort.Strings(ids)
	}
	return grouped, nil
}

// GetProductCategory returns the category node a product is assigned to.
func (s *Service) GetProductCategory(ctx context.Context, productID string) (HierarchyElement, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	element, ok := s.repo.ElementForProduct(productID)
	if !ok {
		return HierarchyElement{}, shared.ErrNotFound
	}
	return element, nil
}

// GetProductCategoryPath builds the "Parent > Child" display path for a
// product, walking at most one parent level. Unassigned products fall back
// to Uncategorized.
func (s *Service) GetProductCategoryPath(ctx context.Context, productID string) string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pathLocked(productID)
}

// PathForProduct is the lock-free variant for callers already holding the
// tenant lock (the POS view projection).
func (s *Service) PathForProduct(productID string) string {
	return s.pathLocked(productID)
}

func (s *Service) pathLocked(productID string) string {
	element, ok := s.repo.ElementForProduct(productID)
	if !ok {
		return Uncategorized
	}
	if element.ParentID != nil {
		if parent, ok := s.repo.GetElement(*element.ParentID); ok {
			return parent.Name + " > " + element.Name
		}
	}
	return element.Name
}

// DefaultTree returns the demo category tree.
func DefaultTree() []HierarchyElement {
	apparel := "cat-apparel"
	fnb := "cat-fnb"
	return []HierarchyElement{
		{ID: apparel, Name: "Apparel"},
		{ID: "cat-tshirts", Name: "T-Shirts", ParentID: &apparel},
		{ID: "cat-hoodies", Name: "Hoodies", ParentID: &apparel},
		{ID: fnb, Name: "Food & Beverage"},
		{ID: "cat-snacks", Name: "Snacks", ParentID: &fnb},
		{ID: "cat-drinks", Name: "Drinks", ParentID: &fnb},
		{ID: "cat-souvenirs", Name: "Souvenirs"},
	}
}
