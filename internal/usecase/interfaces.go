package usecase

import (
	"context"

	"github.com/tvdoutor/contratos/internal/entity"
)

// ContractArchive keeps a copy of the generated text outside the database.
type ContractArchive interface {
	PutContractText(ctx context.Context, contractID, text string) (string, error)
}

type ContractEventPublisher interface {
	PublishContractGenerated(ctx context.Context, event entity.ContractGeneratedEvent) error
}

// DocumentGenerator turns the contract text into the final document and
// returns where it can be downloaded.
type DocumentGenerator interface {
	GenerateDocument(ctx context.Context, event entity.ContractGeneratedEvent) (string, error)
}

type EmailService interface {
	SendContractReady(to, name, title, downloadURL string) error
	SendContractFailed(to, name, title, reason string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// ContractCreator is what a form session submits to.
type ContractCreator interface {
	Execute(ctx context.Context, draft *entity.Draft, requester *entity.User) (*CreateContractOutput, error)
}
