package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Transaction é uma saga simples: cada operação pode registrar a
// compensação que a desfaz. Se a operação i falha, as compensações
// 0..i-1 rodam em ordem inversa.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddStep registers an operation and its compensation at the same index.
// A nil compensation means the step has nothing to undo.
func (t *Transaction) AddStep(name string, op, compensate func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, op})
	t.compensations = append(t.compensations, Compensation{name, compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.compensations[i]
		if comp.Fn == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			log.Warn().Err(err).Str("compensation", comp.Name).Msg("compensação falhou, dados podem ficar inconsistentes")
		}
	}
}
