// Package storage arquiva o texto gerado de cada contrato no MinIO.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type MinIOArchive struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOArchive cria o cliente e o bucket, se ainda não existir.
func NewMinIOArchive(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info().Str("bucket", bucketName).Msg("bucket criado")
	}

	return &MinIOArchive{client: client, bucketName: bucketName}, nil
}

func ObjectKey(contractID string) string {
	return "contracts/" + contractID + ".txt"
}

func (m *MinIOArchive) PutContractText(ctx context.Context, contractID, text string) (string, error) {
	key := ObjectKey(contractID)
	_, err := m.client.PutObject(ctx, m.bucketName, key,
		strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload contract text: %w", err)
	}
	return key, nil
}

func (m *MinIOArchive) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucketName)
	return err
}
