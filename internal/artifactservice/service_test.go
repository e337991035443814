package artifactservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/models"
	"github.com/momwise/momwise/internal/payload"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    []models.Artifact
	findErr error
	saveErr error
	finds   int
	saves   int
}

func (f *fakeStore) FindArtifact(_ context.Context, userID string, week int, kind models.Kind) (*models.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i := len(f.rows) - 1; i >= 0; i-- {
		a := f.rows[i]
		if a.UserID == userID && a.WeekNumber == week && a.Kind == kind {
			return &a, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeStore) SaveArtifact(_ context.Context, a models.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeStore) ListArtifacts(_ context.Context, userID string, week int, kind models.Kind) ([]models.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Artifact
	for i := len(f.rows) - 1; i >= 0; i-- {
		a := f.rows[i]
		if a.UserID == userID && a.WeekNumber == week && a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) counts() (finds, saves, rows int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finds, f.saves, len(f.rows)
}

type fakeGen struct {
	mu      sync.Mutex
	calls   int
	reply   string
	err     error
	lastReq llm.Request
	lastCtx context.Context
	started chan struct{}
	release chan struct{}
}

func (g *fakeGen) Generate(ctx context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	g.calls++
	g.lastReq = req
	g.lastCtx = ctx
	started, release := g.started, g.release
	g.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if release != nil {
		<-release
	}
	return g.reply, g.err
}

func (g *fakeGen) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) PublishArtifact(userID string, kind models.Kind, week int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf("%s/%s/%d", userID, kind, week))
}

func dietPlanJSON(week int, title string) string {
	p := payload.Fallback(models.KindDietPlan, week).(models.DietPlanPayload)
	for i := range p.DailyPlans {
		p.DailyPlans[i].Breakfast.Title = title
	}
	b, _ := json.Marshal(p)
	return string(b)
}

func seed(t *testing.T, store *fakeStore, userID string, week int, kind models.Kind, body string) {
	t.Helper()
	require.NoError(t, store.SaveArtifact(context.Background(), models.Artifact{
		ID: "seed", UserID: userID, WeekNumber: week, Kind: kind, Payload: []byte(body), CreatedAt: time.Now(),
	}))
	store.mu.Lock()
	store.saves = 0
	store.mu.Unlock()
}

func TestCacheHitShortCircuit(t *testing.T) {
	store := &fakeStore{}
	seed(t, store, "7", 12, models.KindDietPlan, dietPlanJSON(12, "Cached oats"))
	gen := &fakeGen{reply: dietPlanJSON(12, "Fresh oats")}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)
	assert.Equal(t, "Cached oats", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)
	assert.Zero(t, gen.callCount(), "cache hit must not call the generator")

	_, saves, _ := store.counts()
	assert.Zero(t, saves)
}

func TestForceBypassesCache(t *testing.T) {
	store := &fakeStore{}
	seed(t, store, "7", 12, models.KindDietPlan, dietPlanJSON(12, "Cached oats"))
	gen := &fakeGen{reply: dietPlanJSON(12, "Fresh oats")}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan, Force: true})
	require.NoError(t, err)
	assert.Equal(t, "Fresh oats", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)
	assert.Equal(t, 1, gen.callCount())

	finds, saves, rows := store.counts()
	assert.Zero(t, finds, "forced requests skip the lookup")
	assert.Equal(t, 1, saves)
	assert.Equal(t, 2, rows, "prior row is kept")
}

func TestScenarioA_MissGeneratesAndSaves(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{reply: dietPlanJSON(12, "Greek yogurt bowl")}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)

	dp := p.(models.DietPlanPayload)
	assert.Len(t, dp.DailyPlans, 7)
	assert.Equal(t, 12, dp.WeekNumber)
	assert.Equal(t, 1, gen.callCount())
	assert.Contains(t, gen.lastReq.User, "week 12")

	_, saves, _ := store.counts()
	assert.Equal(t, 1, saves)

	saved := store.rows[0]
	assert.Equal(t, "7", saved.UserID)
	assert.Equal(t, 12, saved.WeekNumber)
	assert.Equal(t, models.KindDietPlan, saved.Kind)
	assert.Equal(t, "first", saved.Trimester)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestScenarioB_ProseFallsBack(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{reply: "I'm sorry, I can only describe meals in words today."}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)
	assert.Equal(t, payload.Fallback(models.KindDietPlan, 12), p)
	assert.Equal(t, 12, p.(models.DietPlanPayload).WeekNumber)

	_, saves, _ := store.counts()
	assert.Equal(t, 1, saves, "fallback content is cached like any other result")
}

func TestTimelineFallback(t *testing.T) {
	svc := New(&fakeStore{}, &fakeGen{reply: "<html>"})
	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "u", Week: 30, Kind: models.KindTimeline})
	require.NoError(t, err)
	assert.Equal(t, payload.Fallback(models.KindTimeline, 30), p)
}

func TestInputValidationBoundary(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"missing user", Request{Week: 12, Kind: models.KindDietPlan}, apperr.ErrUnauthenticated},
		{"week zero", Request{UserID: "7", Week: 0, Kind: models.KindDietPlan}, apperr.ErrInvalidInput},
		{"negative week", Request{UserID: "7", Week: -4, Kind: models.KindTimeline}, apperr.ErrInvalidInput},
		{"week beyond term", Request{UserID: "7", Week: 43, Kind: models.KindDietPlan}, apperr.ErrInvalidInput},
		{"unknown kind", Request{UserID: "7", Week: 12, Kind: "chat"}, apperr.ErrInvalidInput},
		{"forced invalid week", Request{UserID: "7", Week: 0, Kind: models.KindDietPlan, Force: true}, apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			gen := &fakeGen{reply: "{}"}
			svc := New(store, gen)

			_, err := svc.GetOrGenerate(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, gen.callCount())
			finds, saves, _ := store.counts()
			assert.Zero(t, finds)
			assert.Zero(t, saves)
		})
	}
}

func TestBestEffortPersistence(t *testing.T) {
	store := &fakeStore{saveErr: fmt.Errorf("disk full: %w", apperr.ErrStorageUnavailable)}
	gen := &fakeGen{reply: dietPlanJSON(20, "Eggs")}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 20, Kind: models.KindDietPlan})
	require.NoError(t, err)
	assert.Equal(t, "Eggs", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)

	_, saves, rows := store.counts()
	assert.Equal(t, 1, saves)
	assert.Zero(t, rows)
}

func TestStorageReadErrorDegradesToMiss(t *testing.T) {
	store := &fakeStore{findErr: fmt.Errorf("locked: %w", apperr.ErrStorageUnavailable)}
	gen := &fakeGen{reply: dietPlanJSON(5, "Toast")}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 5, Kind: models.KindDietPlan})
	require.NoError(t, err)
	assert.Equal(t, "Toast", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)
	assert.Equal(t, 1, gen.callCount())
}

func TestCorruptStoredPayloadRegenerates(t *testing.T) {
	store := &fakeStore{}
	seed(t, store, "7", 12, models.KindTimeline, "{truncated")
	gen := &fakeGen{reply: `{"babyDevelopment":{"size":"3in","compareTo":"a lemon","description":"growing"},"motherChanges":{"physical":["a"],"hormonal":["b"]},"tipsForWeek":["c"],"importantNotes":"d"}`}
	svc := New(store, gen)

	p, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindTimeline})
	require.NoError(t, err)
	assert.Equal(t, "a lemon", p.(models.TimelinePayload).BabyDevelopment.CompareTo)
	assert.Equal(t, 1, gen.callCount())

	_, _, rows := store.counts()
	assert.Equal(t, 2, rows)
}

func TestMissingCredentialIsConfigurationError(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, llm.NewClient(""))

	_, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.False(t, errors.Is(err, apperr.ErrUpstreamUnavailable))

	_, saves, _ := store.counts()
	assert.Zero(t, saves, "nothing is persisted on configuration errors")
}

func TestUpstreamFailure(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{err: &llm.StatusError{StatusCode: 503, Body: "overloaded"}}
	svc := New(store, gen)

	_, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
	assert.Equal(t, "overloaded", llm.Detail(err))
	assert.Equal(t, 1, gen.callCount(), "single attempt")

	_, saves, _ := store.counts()
	assert.Zero(t, saves)
}

func TestConcurrentMissesShareGeneration(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{
		reply:   dietPlanJSON(12, "Shared"),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := New(store, gen)

	const n = 8
	var wg sync.WaitGroup
	results := make([]models.Payload, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
		}(i)
	}

	<-gen.started
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Shared", results[i].(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)
	}
	assert.Equal(t, 1, gen.callCount())
}

func TestForcedCallsAreNotDeduplicated(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{reply: dietPlanJSON(12, "x")}
	svc := New(store, gen)

	for i := 0; i < 3; i++ {
		_, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 12, Kind: models.KindDietPlan, Force: true})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, gen.callCount())
	_, _, rows := store.counts()
	assert.Equal(t, 3, rows)
}

func TestGenerationIsDetachedAndBounded(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGen{reply: dietPlanJSON(12, "x")}
	svc := New(store, gen, WithTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetOrGenerate(ctx, Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)

	gen.mu.Lock()
	genCtx := gen.lastCtx
	gen.mu.Unlock()
	assert.NoError(t, genCtx.Err(), "caller cancellation must not reach the generator")
	deadline, ok := genCtx.Deadline()
	require.True(t, ok, "generation must be bounded")
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 2*time.Second)

	_, saves, _ := store.counts()
	assert.Equal(t, 1, saves)
}

func TestNotifierReceivesGeneratedArtifacts(t *testing.T) {
	store := &fakeStore{}
	n := &recordingNotifier{}
	svc := New(store, &fakeGen{reply: "not json"}, WithNotifier(n))

	_, err := svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 3, Kind: models.KindTimeline})
	require.NoError(t, err)
	// Cache hit: no second event.
	_, err = svc.GetOrGenerate(context.Background(), Request{UserID: "7", Week: 3, Kind: models.KindTimeline})
	require.NoError(t, err)

	assert.Equal(t, []string{"7/timeline/3"}, n.events)
}

func TestClockSetsCreatedAt(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	svc := New(store, &fakeGen{reply: "{}"}, WithClock(func() time.Time { return fixed }))

	_, err := svc.GetOrGenerate(context.Background(), Request{UserID: "u", Week: 1, Kind: models.KindDietPlan})
	require.NoError(t, err)
	require.Len(t, store.rows, 1)
	assert.True(t, store.rows[0].CreatedAt.Equal(fixed))
	assert.True(t, strings.Contains(string(store.rows[0].Payload), `"weekNumber":1`))
}

func TestHistoryListsGenerationsNewestFirst(t *testing.T) {
	store := &fakeStore{}
	seed(t, store, "7", 12, models.KindDietPlan, dietPlanJSON(12, "First"))
	gen := &fakeGen{reply: dietPlanJSON(12, "Second")}
	svc := New(store, gen)
	ctx := context.Background()

	_, err := svc.GetOrGenerate(ctx, Request{UserID: "7", Week: 12, Kind: models.KindDietPlan, Force: true})
	require.NoError(t, err)

	rows, err := svc.History(ctx, Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, string(rows[0].Payload), "Second")
	assert.Contains(t, string(rows[1].Payload), "First")

	rows, err = svc.History(ctx, Request{UserID: "8", Week: 12, Kind: models.KindDietPlan})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 1, gen.callCount(), "history never generates")
}

func TestHistoryValidatesAndReportsStorageErrors(t *testing.T) {
	svc := New(&fakeStore{}, &fakeGen{})
	ctx := context.Background()

	_, err := svc.History(ctx, Request{Week: 12, Kind: models.KindDietPlan})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = svc.History(ctx, Request{UserID: "7", Week: 43, Kind: models.KindDietPlan})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.History(ctx, Request{UserID: "7", Week: 12, Kind: "recipe"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	broken := New(&fakeStore{findErr: apperr.ErrStorageUnavailable}, &fakeGen{})
	_, err = broken.History(ctx, Request{UserID: "7", Week: 12, Kind: models.KindDietPlan})
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}
