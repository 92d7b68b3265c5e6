package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agrirent/pkg/errors"
)

const (
	usersCollection   = "users"
	landsCollection   = "lands"
	rentalsCollection = "rentals"
	chatsCollection   = "chats"
)

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, resource string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound(resource, errors.ErrNotFound)
		}
		return nil, errors.Internal("Failed to get "+resource, err)
	}
	var out T
	if err := doc.DataTo(&out); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &out, nil
}

func txGetDoc[T any](tx *firestore.Transaction, ref *firestore.DocumentRef, resource string) (*T, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound(resource, errors.ErrNotFound)
		}
		return nil, err
	}
	var out T
	if err := doc.DataTo(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func collectDocs[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()
	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, nil
}

func mapFirestoreWriteErr(err error, resource string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, errors.ErrNotFound)
	case codes.AlreadyExists:
		return errors.ErrConflict
	}
	return errors.Internal("Failed to write "+resource, err)
}

// setExisting overwrites the document at ref only while it still exists, so an update that
// races a delete does not bring the document back.
func setExisting(ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, data interface{}, resource string) error {
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, data)
	})
	return mapFirestoreWriteErr(err, resource)
}
