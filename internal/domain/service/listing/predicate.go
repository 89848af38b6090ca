package listing

import (
	"sync"

	"fw_trader/internal/domain/entity"
)

// Acceptor решает, попадает ли построенный лот в очередь кандидатов.
// Это политика, а не парсинг, поэтому она подключаемая.
type Acceptor func(offer entity.Offer) bool

// MinProfitAcceptor accepts offers whose profit clears the threshold and
// whose category is enabled. A nil set enables every category.
func MinProfitAcceptor(minProfit int64, categories *CategorySet) Acceptor {
	return func(offer entity.Offer) bool {
		if offer.Profit < minProfit {
			return false
		}
		if categories != nil && !categories.Has(offer.Category) {
			return false
		}
		return true
	}
}

// CategorySet — потокобезопасный список разрешённых категорий,
// редактируемый на лету через операторский API.
type CategorySet struct {
	mu      sync.Mutex
	enabled map[entity.Category]struct{}
}

// NewCategorySet with no arguments enables all categories.
func NewCategorySet(categories ...entity.Category) *CategorySet {
	if len(categories) == 0 {
		categories = entity.AllCategories[:]
	}

	s := &CategorySet{enabled: make(map[entity.Category]struct{}, len(categories))}
	for _, c := range categories {
		s.enabled[c] = struct{}{}
	}

	return s
}

func (s *CategorySet) Allow(category entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[category] = struct{}{}
}

func (s *CategorySet) Deny(category entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enabled, category)
}

func (s *CategorySet) Has(category entity.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.enabled[category]
	return ok
}

// List returns the enabled categories in sweep order.
func (s *CategorySet) List() []entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]entity.Category, 0, len(s.enabled))
	for _, c := range entity.AllCategories {
		if _, ok := s.enabled[c]; ok {
			result = append(result, c)
		}
	}

	return result
}

// Replace заменяет весь список разрешённых категорий.
func (s *CategorySet) Replace(categories []entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = make(map[entity.Category]struct{}, len(categories))
	for _, c := range categories {
		s.enabled[c] = struct{}{}
	}
}
