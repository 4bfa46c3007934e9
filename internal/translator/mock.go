package translator

import (
	"context"
	"fmt"
)

// MockService is an offline Service for tests and dry runs. Known inputs
// come from the Translations map; unknown inputs are returned bracketed so
// translated output is visibly distinct from the source.
type MockService struct {
	Translations map[string]string
	Calls        int
}

func NewMockService() *MockService {
	return &MockService{Translations: make(map[string]string)}
}

func (m *MockService) Name() string {
	return "mock"
}

func (m *MockService) Translate(ctx context.Context, text, targetLang string) (string, error) {
	m.Calls++
	if out, ok := m.Translations[text]; ok {
		return out, nil
	}
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

func (m *MockService) Close() error {
	return nil
}

var _ Service = (*MockService)(nil)
