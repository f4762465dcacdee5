package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tvdoutor/contratos/internal/entity"
)

// DocumentGenerator finge gerar o documento: devolve uma URL local.
type DocumentGenerator struct {
	BaseURL string
}

func (g DocumentGenerator) GenerateDocument(_ context.Context, e entity.ContractGeneratedEvent) (string, error) {
	base := g.BaseURL
	if base == "" {
		base = "http://localhost:8080/demo-documents"
	}
	return fmt.Sprintf("%s/%s.pdf", base, e.ContractID), nil
}

// Archive keeps contract texts by key.
type Archive struct {
	mu    sync.Mutex
	texts map[string]string
}

func NewArchive() *Archive {
	return &Archive{texts: make(map[string]string)}
}

func (a *Archive) PutContractText(_ context.Context, contractID, text string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := "contracts/" + contractID + ".txt"
	a.texts[key] = text
	return key, nil
}

func (a *Archive) Get(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.texts[key]
	return t, ok
}
