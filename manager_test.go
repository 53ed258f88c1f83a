package authscheme

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-authscheme/core"
)

type recordingMetrics struct {
	counters   []string
	histograms []string
	tags       []map[string]string
}

func (m *recordingMetrics) IncCounter(name string, tags map[string]string) {
	m.counters = append(m.counters, name)
	m.tags = append(m.tags, tags)
}

func (m *recordingMetrics) ObserveHistogram(name string, _ float64, _ map[string]string) {
	m.histograms = append(m.histograms, name)
}

type recordingTracer struct {
	spans []string
}

func (t *recordingTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	t.spans = append(t.spans, operationName)
	return ctx, &NoopSpan{}
}

func newTestManager(t *testing.T, r *http.Request, opts ...Option) (*Manager, *httptest.ResponseRecorder) {
	t.Helper()

	m, err := New(opts...)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	exchange, _, _ := NewExchange(rec, r, nil)
	mgr, err := m.NewManager(exchange)
	require.NoError(t, err)
	return mgr, rec
}

func TestManager_AuthenticateAutomatic(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		wantOutcome   core.Outcome
		wantPrincipal any
	}{
		{
			name:        "nothing presented",
			wantOutcome: core.OutcomeNone,
		},
		{
			name:          "first success wins",
			headers:       map[string]string{"X-Auth-A": "good", "X-Auth-B": "good"},
			wantOutcome:   core.OutcomeSuccess,
			wantPrincipal: "user-of-A",
		},
		{
			name:          "success beats earlier failure",
			headers:       map[string]string{"X-Auth-A": "bad", "X-Auth-B": "good"},
			wantOutcome:   core.OutcomeSuccess,
			wantPrincipal: "user-of-B",
		},
		{
			name:        "failure without success",
			headers:     map[string]string{"X-Auth-B": "bad"},
			wantOutcome: core.OutcomeFailure,
		},
		{
			name:        "non automatic schemes are skipped",
			headers:     map[string]string{"X-Auth-C": "good"},
			wantOutcome: core.OutcomeNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			mgr, _ := newTestManager(t, r,
				WithScheme(fakeRegistration("A", true)),
				WithScheme(fakeRegistration("B", true)),
				WithScheme(fakeRegistration("C", false)),
			)

			res, err := mgr.AuthenticateAutomatic(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutcome, res.Outcome())
			if tc.wantPrincipal != nil {
				require.NotNil(t, res.Ticket())
				assert.Equal(t, tc.wantPrincipal, res.Ticket().Principal)
			}
			if tc.wantOutcome == core.OutcomeFailure {
				assert.ErrorIs(t, res.Failure(), errBadCredential)
			}
		})
	}
}

func TestManager_Authenticate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Auth-A", "good")
	r.Header.Set("X-Auth-C", "good")

	regA, optsA := fakeScheme("A", true)
	mgr, _ := newTestManager(t, r,
		WithScheme(regA),
		WithScheme(fakeRegistration("B", true)),
		WithScheme(fakeRegistration("C", false)),
	)
	ctx := context.Background()

	t.Run("named non automatic scheme", func(t *testing.T) {
		res, err := mgr.Authenticate(ctx, "C")
		require.NoError(t, err)
		require.True(t, res.Succeeded())
		assert.Equal(t, "C", res.Ticket().Scheme)
	})

	t.Run("named scheme behind other handlers", func(t *testing.T) {
		res, err := mgr.Authenticate(ctx, "A")
		require.NoError(t, err)
		require.True(t, res.Succeeded())
		assert.Equal(t, "user-of-A", res.Ticket().Principal)
	})

	t.Run("results are cached", func(t *testing.T) {
		_, err := mgr.Authenticate(ctx, "A")
		require.NoError(t, err)
		_, err = mgr.AuthenticateAutomatic(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, optsA.attempts)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		res, err := mgr.Authenticate(ctx, "Unknown")
		require.NoError(t, err)
		assert.True(t, res.None())
		assert.Nil(t, res.Ticket())
	})
}

func TestManager_AuthenticateUnknownAfterAutomatic(t *testing.T) {
	tests := []struct {
		name    string
		schemes []Option
	}{
		{
			name:    "automatic handler is newest",
			schemes: []Option{WithScheme(fakeRegistration("Alpha", true))},
		},
		{
			name: "explicit handler forwards to automatic one",
			schemes: []Option{
				WithScheme(fakeRegistration("Alpha", true)),
				WithScheme(fakeRegistration("Bravo", false)),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Auth-Alpha", "good")
			mgr, _ := newTestManager(t, r, tc.schemes...)
			ctx := context.Background()

			res, err := mgr.AuthenticateAutomatic(ctx)
			require.NoError(t, err)
			require.True(t, res.Succeeded())

			res, err = mgr.Authenticate(ctx, "Nope")
			require.NoError(t, err)
			assert.True(t, res.None())
			assert.Nil(t, res.Ticket())

			res, err = mgr.Authenticate(ctx, "")
			require.NoError(t, err)
			assert.True(t, res.Succeeded())
		})
	}
}

func TestManager_Challenge(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	mgr, rec := newTestManager(t, r,
		WithScheme(fakeRegistration("A", true)),
		WithScheme(fakeRegistration("B", false)),
	)

	require.NoError(t, mgr.Challenge(context.Background(), "A", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "A", rec.Header().Get("WWW-Authenticate"))

	err := mgr.Challenge(context.Background(), "Missing", nil)
	assert.ErrorIs(t, err, ErrUnhandledScheme)
	assert.EqualError(t, err, `no handler is configured for scheme: "Missing"`)
}

func TestManager_SignInSignOut(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	mgr, rec := newTestManager(t, r,
		WithScheme(fakeRegistration("A", true)),
		WithScheme(fakeRegistration("B", false)),
	)
	ctx := context.Background()

	assert.EqualError(t, mgr.SignIn(ctx, "A", nil, nil), "ticket cannot be nil")

	require.NoError(t, mgr.SignIn(ctx, "A", core.NewTicket("alice", "A"), nil))
	assert.Equal(t, "alice", rec.Header().Get("X-Signed-In"))

	assert.ErrorIs(t, mgr.SignIn(ctx, "Missing", core.NewTicket("alice", "A"), nil), ErrUnhandledScheme)

	require.NoError(t, mgr.SignOut(ctx, "B", nil))
	assert.Equal(t, "B", rec.Header().Get("X-Signed-Out"))

	assert.ErrorIs(t, mgr.SignOut(ctx, "Missing", nil), ErrUnhandledScheme)
}

func TestManager_Describe(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	mgr, _ := newTestManager(t, r,
		WithScheme(fakeRegistration("A", true)),
		WithScheme(fakeRegistration("B", false)),
	)

	descriptions, err := mgr.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptions, 2)
	assert.Equal(t, "B", descriptions[0].Scheme)
	assert.Equal(t, "A", descriptions[1].Scheme)
	assert.Equal(t, "fake", descriptions[1].Items["kind"])
}

func TestManager_MetricsAndTracing(t *testing.T) {
	metrics := &recordingMetrics{}
	tracer := &recordingTracer{}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Auth-A", "good")
	mgr, _ := newTestManager(t, r,
		WithScheme(fakeRegistration("A", true)),
		WithMetrics(metrics),
		WithTracer(tracer),
	)

	_, err := mgr.AuthenticateAutomatic(context.Background())
	require.NoError(t, err)
	require.NoError(t, mgr.Challenge(context.Background(), "A", nil))

	assert.Equal(t, []string{"authscheme.authenticate", "authscheme.challenge"}, tracer.spans)
	assert.Equal(t, []string{"authscheme_authenticate_total", "authscheme_challenge_total"}, metrics.counters)
	assert.Equal(t, []string{"authscheme_authenticate_duration_seconds"}, metrics.histograms)
	assert.Equal(t, map[string]string{"scheme": "A", "outcome": "success"}, metrics.tags[0])
	assert.Equal(t, map[string]string{"scheme": "A", "handled": "true"}, metrics.tags[1])
}

func TestManagerFromContext(t *testing.T) {
	_, ok := ManagerFromContext(context.Background())
	assert.False(t, ok)

	mgr := &Manager{}
	got, ok := ManagerFromContext(WithManager(context.Background(), mgr))
	require.True(t, ok)
	assert.Same(t, mgr, got)
}
