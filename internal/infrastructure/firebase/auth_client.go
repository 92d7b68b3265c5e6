package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"agrirent/internal/domain/service"
)

// FirebaseAuthClient verifies Firebase ID tokens. Issued tokens are custom tokens the
// client exchanges for an ID token through the Firebase SDK.
type FirebaseAuthClient struct {
	client *auth.Client
}

var _ service.TokenService = (*FirebaseAuthClient)(nil)

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// NewApp initializes the Firebase app shared by the auth client and the Firestore store.
func NewApp(ctx context.Context, projectID string, opts ...option.ClientOption) (*firebase.App, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

func (f *FirebaseAuthClient) IssueToken(ctx context.Context, userID string) (string, error) {
	token, err := f.client.CustomToken(ctx, userID)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
