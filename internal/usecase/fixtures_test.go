package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agrirent/internal/adapter/repository"
	"agrirent/internal/domain/entity"
	domainrepo "agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeTokens struct{}

func (fakeTokens) IssueToken(ctx context.Context, userID string) (string, error) {
	return "tok-" + userID, nil
}

func (fakeTokens) VerifyToken(ctx context.Context, token string) (string, error) {
	if !strings.HasPrefix(token, "tok-") {
		return "", fmt.Errorf("malformed token")
	}
	return strings.TrimPrefix(token, "tok-"), nil
}

type notification struct {
	UserID string
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(userID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{UserID: userID, Type: eventType, Data: data})
}

func (n *recordingNotifier) to(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var types []string
	for _, s := range n.sent {
		if s.UserID == userID {
			types = append(types, s.Type)
		}
	}
	return types
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event service.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(data service.AgreementData) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3 " + data.Rental.ID), nil
}

func (stubRenderer) ContentType() string { return "application/pdf" }

type memoryFiles struct {
	mu        sync.Mutex
	files     map[string][]byte
	uploadErr error
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: map[string][]byte{}}
}

func (f *memoryFiles) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("mem://%s/%d", folder, len(f.files)+1)
	f.files[url] = content
	return url, nil
}

func (f *memoryFiles) DeleteFile(ctx context.Context, fileURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, fileURL)
	return nil
}

func (f *memoryFiles) Close() error { return nil }

type fakeGeo struct {
	points map[string][2]float64
	err    error
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{points: map[string][2]float64{}}
}

func (g *fakeGeo) Upsert(ctx context.Context, id string, lat, lng float64) error {
	g.points[id] = [2]float64{lat, lng}
	return nil
}

func (g *fakeGeo) Remove(ctx context.Context, id string) error {
	delete(g.points, id)
	return nil
}

func (g *fakeGeo) WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	var ids []string
	for id, p := range g.points {
		if entity.DistanceKm(lat, lng, p[0], p[1]) <= radiusKm {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeGateway struct {
	reference string
	err       error
	got       []service.PaymentRequest
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Settle(ctx context.Context, req service.PaymentRequest) (string, error) {
	g.got = append(g.got, req)
	if g.err != nil {
		return "", g.err
	}
	return g.reference, nil
}

type fakeCompletion struct {
	answer string
	err    error
	prompt string
	turns  []service.ChatTurn
}

func (c *fakeCompletion) Complete(ctx context.Context, systemPrompt string, turns []service.ChatTurn) (string, error) {
	c.prompt = systemPrompt
	c.turns = turns
	return c.answer, c.err
}

// failingRentalRepo wraps a rental repository and fails Update calls.
type failingRentalRepo struct {
	domainrepo.RentalRepository
}

func (failingRentalRepo) Update(ctx context.Context, rental *entity.Rental) error {
	return fmt.Errorf("write refused")
}

func seedUser(t *testing.T, repo domainrepo.UserRepository, id, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:       id,
		Name:     strings.ToUpper(id[:1]) + id[1:],
		Email:    id + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedListedLand(t *testing.T, repo domainrepo.LandRepository, id, ownerID string, acres float64) *entity.Land {
	t.Helper()
	land := &entity.Land{
		ID:             id,
		OwnerID:        ownerID,
		Title:          "Canal-side plot",
		Description:    "Level black soil near the canal",
		TotalAcres:     acres,
		AvailableAcres: acres,
		PricePerAcre:   1000,
		Location:       entity.NewGeoPoint(18.52, 73.85),
		Address:        entity.Address{Village: "Wagholi", City: "Pune", State: "Maharashtra"},
		SoilType:       "black",
		WaterSource:    "canal",
		IrrigationType: "drip",
		LandStatus:     entity.LandStatusAvailable,
		IsActive:       true,
		CreatedAt:      fixedNow.Add(-24 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), land))
	return land
}

type world struct {
	users    domainrepo.UserRepository
	lands    domainrepo.LandRepository
	rentals  domainrepo.RentalRepository
	chats    domainrepo.ChatRepository
	files    *memoryFiles
	events   *recordingPublisher
	notifier *recordingNotifier
}

func newWorld() *world {
	return &world{
		users:    repository.NewMemoryUserRepository(),
		lands:    repository.NewMemoryLandRepository(),
		rentals:  repository.NewMemoryRentalRepository(),
		chats:    repository.NewMemoryChatRepository(),
		files:    newMemoryFiles(),
		events:   &recordingPublisher{},
		notifier: &recordingNotifier{},
	}
}

func (w *world) rentalUseCase(renderer service.AgreementRenderer) *RentalUseCase {
	uc := NewRentalUseCase(w.rentals, w.lands, w.users, renderer, w.files, w.events, w.notifier)
	uc.now = fixedClock
	return uc
}

func (w *world) paymentUseCase(gateway service.PaymentGateway) *PaymentUseCase {
	uc := NewPaymentUseCase(w.rentals, w.lands, gateway, w.events, w.notifier)
	uc.now = fixedClock
	return uc
}

func (w *world) chatUseCase() *ChatUseCase {
	uc := NewChatUseCase(w.chats, w.users, w.notifier)
	uc.now = fixedClock
	return uc
}

func (w *world) landUseCase(geo service.GeoIndex) *LandUseCase {
	uc := NewLandUseCase(w.lands, w.users, geo, w.chatUseCase(), w.events)
	uc.now = fixedClock
	return uc
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status, appErr.Error())
}

// interleavedLandRepo runs before once, ahead of the next Update, as a concurrent writer would.
type interleavedLandRepo struct {
	domainrepo.LandRepository
	before func()
}

func (r *interleavedLandRepo) Update(ctx context.Context, id string, fn func(*entity.Land) error) (*entity.Land, error) {
	if hook := r.before; hook != nil {
		r.before = nil
		hook()
	}
	return r.LandRepository.Update(ctx, id, fn)
}
