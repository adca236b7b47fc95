package otp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type captureNotifier struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (c *captureNotifier) Send(_ context.Context, phone, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.codes == nil {
		c.codes = map[string]string{}
	}
	c.codes[phone] = code
	return nil
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	_, err = GenerateCode(0)
	require.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("123456")
	require.NoError(t, err)
	require.NoError(t, h.Compare(hash, "123456"))
	require.Error(t, h.Compare(hash, "654321"))

	_, err = h.Hash("")
	require.Error(t, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "9876543210", "h", time.Minute))
	got, err := s.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "h", got)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNoCode)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "9876543210", "hash", DefaultTTL))
	assert.True(t, mr.Exists("otp:9876543210"))
	got, err := s.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "hash", got)

	mr.FastForward(DefaultTTL)
	_, err = s.Get(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNoCode)

	require.NoError(t, s.Put(ctx, "9876543210", "hash", DefaultTTL))
	require.NoError(t, s.Delete(ctx, "9876543210"))
	_, err = s.Get(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNoCode)
}

func TestRedisStoreCountsFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client)
	ctx := context.Background()

	_, err := s.Fail(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNoCode)

	require.NoError(t, s.Put(ctx, "9876543210", "hash", DefaultTTL))
	n, err := s.Fail(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Fail(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Greater(t, mr.TTL("otp:attempts:9876543210"), time.Duration(0))

	require.NoError(t, s.Put(ctx, "9876543210", "hash2", DefaultTTL))
	assert.False(t, mr.Exists("otp:attempts:9876543210"))
	n, err = s.Fail(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Delete(ctx, "9876543210"))
	assert.False(t, mr.Exists("otp:attempts:9876543210"))
}

func TestMemoryStoreCountsFailures(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Fail(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNoCode)

	require.NoError(t, s.Put(ctx, "9876543210", "h", time.Minute))
	n, err := s.Fail(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Put(ctx, "9876543210", "h", time.Minute))
	n, err = s.Fail(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(time.Hour, 2)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func newTestService(n Notifier, limiter *Limiter) *Service {
	return NewService(NewMemoryStore(), NewBcryptHasher(bcrypt.MinCost), limiter, n, 0, zap.NewNop())
}

func TestSendAndVerify(t *testing.T) {
	n := &captureNotifier{}
	svc := newTestService(n, nil)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "9876543210"))
	code := n.codes["9876543210"]
	require.Len(t, code, DefaultCodeLength)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", wrong), ErrCodeMismatch)
	require.NoError(t, svc.Verify(ctx, "9876543210", code))
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", code), ErrCodeExpired)
}

func TestVerifyBurnsCodeAfterWrongAttempts(t *testing.T) {
	svc := newTestService(&captureNotifier{}, nil)
	svc.generate = func(int) (string, error) { return "424242", nil }
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "9876543210"))
	for i := 1; i < MaxVerifyAttempts; i++ {
		require.ErrorIs(t, svc.Verify(ctx, "9876543210", "000000"), ErrCodeMismatch)
	}
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", "000000"), ErrTooManyAttempts)
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", "424242"), ErrCodeExpired)

	// A fresh code starts a fresh count.
	require.NoError(t, svc.Send(ctx, "9876543210"))
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", "000000"), ErrCodeMismatch)
	require.NoError(t, svc.Verify(ctx, "9876543210", "424242"))
}

func TestResendReplacesCode(t *testing.T) {
	n := &captureNotifier{}
	svc := newTestService(n, nil)
	codes := []string{"111111", "222222"}
	svc.generate = func(int) (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "9876543210"))
	require.NoError(t, svc.Send(ctx, "9876543210"))
	require.ErrorIs(t, svc.Verify(ctx, "9876543210", "111111"), ErrCodeMismatch)
	require.NoError(t, svc.Verify(ctx, "9876543210", "222222"))
}

func TestSendRateLimited(t *testing.T) {
	svc := newTestService(&captureNotifier{}, NewLimiter(time.Hour, 1))
	require.NoError(t, svc.Send(context.Background(), "9876543210"))
	require.ErrorIs(t, svc.Send(context.Background(), "9876543210"), ErrRateLimited)
}

func TestSendSurfacesDeliveryFailure(t *testing.T) {
	svc := newTestService(&captureNotifier{err: errors.New("gateway down")}, nil)
	err := svc.Send(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")
}

func TestGatewayNotifier(t *testing.T) {
	var got gatewayMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewGatewayNotifier(srv.URL+"/", "key-1", "CHRGUU", srv.Client())
	require.NoError(t, n.Send(context.Background(), "9876543210", "424242"))
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "9876543210", got.To)
	assert.Equal(t, "CHRGUU", got.From)
	assert.Contains(t, got.Body, "424242")
}

func TestGatewayNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewGatewayNotifier(srv.URL, "", "", nil).Send(context.Background(), "9876543210", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******3210", maskPhone("9876543210"))
	assert.Equal(t, "12", maskPhone("12"))
}
