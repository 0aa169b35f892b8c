package storage

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FirestoreStore writes one document per intersection into a collection, the document id is the osm id.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient uses the credentials file from GOOGLE_APPLICATION_CREDENTIALS when it exists,
// and application default credentials otherwise. FIRESTORE_EMULATOR_HOST is honored by the client library.
func NewFirestoreClient(ctx context.Context, projectID string, logger *zap.Logger) (*firestore.Client, error) {
	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			logger.Info("using firestore credentials file", zap.String("file", credentialsFile))
			client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
			if err != nil {
				return nil, fmt.Errorf("failed to create firestore client: %w", err)
			}
			return client, nil
		}
		logger.Warn("firestore credentials file not found, trying default authentication", zap.String("file", credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client with default auth: %w", err)
	}
	return client, nil
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: collection,
	}
}

func (s *FirestoreStore) Name() string {
	return "firestore"
}

// InsertMany sends docs through a BulkWriter and waits for every write to be acknowledged.
func (s *FirestoreStore) InsertMany(ctx context.Context, docs []IntersectionDocument) error {
	bw := s.client.BulkWriter(ctx)
	col := s.client.Collection(s.collection)

	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Set(col.Doc(doc.Key()), doc)
		if err != nil {
			bw.End()
			return fmt.Errorf("enqueue document %d: %w", doc.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("write document %d: %w", docs[i].ID, err)
		}
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
