package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// FirestoreStore implements Store on top of Firestore. Ledger documents
// live in per-user subcollections under users/{uid}; the user document
// itself carries the profile.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) user(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

func (s *FirestoreStore) LoadSnapshot(ctx context.Context, userID string) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	// Ordered by creation so the running balance replays deterministically.
	iter := s.user(userID).Collection("transactions").OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load transactions: %w", err)
		}
		var d transactionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("parse transaction %s: %w", doc.Ref.ID, err)
		}
		tx, err := decodeTransaction(&d)
		if err != nil {
			return nil, err
		}
		snap.Transactions = append(snap.Transactions, tx)
	}

	billIter := s.user(userID).Collection("fixedBills").Documents(ctx)
	defer billIter.Stop()
	for {
		doc, err := billIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load fixed bills: %w", err)
		}
		var d fixedBillDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("parse fixed bill %s: %w", doc.Ref.ID, err)
		}
		b, err := decodeFixedBill(&d)
		if err != nil {
			return nil, err
		}
		snap.FixedBills = append(snap.FixedBills, b)
	}

	fcIter := s.user(userID).Collection("forecasts").Documents(ctx)
	defer fcIter.Stop()
	for {
		doc, err := fcIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load forecasts: %w", err)
		}
		var d forecastDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("parse forecast %s: %w", doc.Ref.ID, err)
		}
		f, err := decodeForecast(&d)
		if err != nil {
			return nil, err
		}
		snap.Forecasts = append(snap.Forecasts, f)
	}

	cardIter := s.user(userID).Collection("cards").Documents(ctx)
	defer cardIter.Stop()
	for {
		doc, err := cardIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
		var d cardDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("parse card %s: %w", doc.Ref.ID, err)
		}
		c, err := decodeCard(&d)
		if err != nil {
			return nil, err
		}
		snap.Cards = append(snap.Cards, c)
	}

	budgetIter := s.user(userID).Collection("budgets").Documents(ctx)
	defer budgetIter.Stop()
	for {
		doc, err := budgetIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load budgets: %w", err)
		}
		var d budgetDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("parse budget %s: %w", doc.Ref.ID, err)
		}
		b, err := decodeBudget(&d)
		if err != nil {
			return nil, err
		}
		snap.Budgets = append(snap.Budgets, b)
	}

	return snap, nil
}

func (s *FirestoreStore) PutTransaction(ctx context.Context, userID string, tx *model.Transaction) error {
	_, err := s.user(userID).Collection("transactions").Doc(tx.ID).Set(ctx, encodeTransaction(tx))
	return err
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	_, err := s.user(userID).Collection("transactions").Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) PutFixedBill(ctx context.Context, userID string, b *model.FixedBill) error {
	_, err := s.user(userID).Collection("fixedBills").Doc(b.ID).Set(ctx, encodeFixedBill(b))
	return err
}

func (s *FirestoreStore) DeleteFixedBill(ctx context.Context, userID, id string) error {
	_, err := s.user(userID).Collection("fixedBills").Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) PutForecast(ctx context.Context, userID string, f *model.Forecast) error {
	_, err := s.user(userID).Collection("forecasts").Doc(f.ID).Set(ctx, encodeForecast(f))
	return err
}

func (s *FirestoreStore) DeleteForecast(ctx context.Context, userID, id string) error {
	_, err := s.user(userID).Collection("forecasts").Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) PutCard(ctx context.Context, userID string, c *model.CreditCard) error {
	_, err := s.user(userID).Collection("cards").Doc(c.ID).Set(ctx, encodeCard(c))
	return err
}

func (s *FirestoreStore) DeleteCard(ctx context.Context, userID, id string) error {
	_, err := s.user(userID).Collection("cards").Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) PutBudget(ctx context.Context, userID string, b *model.BudgetLimit) error {
	_, err := s.user(userID).Collection("budgets").Doc(b.ID).Set(ctx, encodeBudget(b))
	return err
}

func (s *FirestoreStore) GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	doc, err := s.user(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("parse user profile: %w", err)
	}
	return &model.UserProfile{
		UserID:         d.UserID,
		TrialStartedAt: d.TrialStartedAt,
		Premium:        d.Premium,
	}, nil
}

func (s *FirestoreStore) PutUserProfile(ctx context.Context, userID string, p *model.UserProfile) error {
	_, err := s.user(userID).Set(ctx, &profileDoc{
		UserID:         p.UserID,
		TrialStartedAt: p.TrialStartedAt,
		Premium:        p.Premium,
	})
	return err
}
