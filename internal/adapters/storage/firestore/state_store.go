package firestore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// StateStore persists the console-state blob as a single Firestore document.
type StateStore struct {
	client *firestore.Client
}

// NewStateStore creates a Firestore-backed state store for the given project.
func NewStateStore(ctx context.Context, projectID string) (*StateStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for the Firestore state store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &StateStore{client: client}, nil
}

func (s *StateStore) stateDoc() *firestore.DocumentRef {
	return s.client.Collection("console").Doc("state")
}

// stateDocData keeps the blob opaque: the whole ConsoleState travels as one
// JSON string, matching the other backends byte for byte.
type stateDocData struct {
	Blob string `firestore:"blob"`
}

func (s *StateStore) Load(ctx context.Context) (*domain.ConsoleState, error) {
	snap, err := s.stateDoc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore get console state: %w", err)
	}

	var doc stateDocData
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("reading console state document: %w", err)
	}

	var state domain.ConsoleState
	if err := json.Unmarshal([]byte(doc.Blob), &state); err != nil {
		return nil, fmt.Errorf("decoding console state: %w", err)
	}
	return &state, nil
}

func (s *StateStore) Save(ctx context.Context, state *domain.ConsoleState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding console state: %w", err)
	}

	if _, err := s.stateDoc().Set(ctx, stateDocData{Blob: string(blob)}); err != nil {
		return fmt.Errorf("firestore set console state: %w", err)
	}
	return nil
}
