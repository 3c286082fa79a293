package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
)

// NewFirestoreClientFromEnv constructs a Firestore client for the project
// named by FIRESTORE_PROJECT_ID. Credentials resolve through the standard
// GOOGLE_APPLICATION_CREDENTIALS lookup.
func NewFirestoreClientFromEnv(ctx context.Context) (*firestore.Client, error) {
	projectID := strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if projectID == "" {
		return nil, errors.New("firestore: FIRESTORE_PROJECT_ID environment variable is not set")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore: new client: %w", err)
	}
	return client, nil
}
