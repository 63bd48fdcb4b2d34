package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"contact-gateway/contact/domain"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type unconfiguredMailer struct{ mockMailer }

func (*unconfiguredMailer) Configured() bool { return false }

func newTestService(mailer domain.Mailer) *Service {
	logger, _ := test.NewNullLogger()
	return &Service{
		Mailer:        mailer,
		Backoff:       NewBackoff(DeliveryBackoffConfig(), WithSleep(func(context.Context, time.Duration) error { return nil })),
		Addresses:     Addresses{From: "Website <noreply@example.com>", To: "hello@example.com"},
		FallbackEmail: "hello@example.com",
		Logger:        logger,
		Now:           func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) },
		NewID:         func() string { return "sub-42" },
	}
}

func TestService_Submit_Delivers(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg domain.EmailMessage) bool {
		return msg.ReplyTo == "ann@example.com" &&
			msg.Subject == "New Contact Form Submission from Ann Lee" &&
			len(msg.To) == 1 && msg.To[0] == "hello@example.com"
	})).Return(nil).Once()

	res, err := newTestService(mailer).Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
		Message:   "Hello there, I need help.",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	assert.Equal(t, "sub-42", res.Submission.ID)
	assert.Equal(t, "2026-05-02T09:00:00Z", res.Submission.Timestamp())
	require.Len(t, res.Attempts, 1)
	assert.True(t, res.Attempts[0].Succeeded())
	mailer.AssertExpectations(t)
}

func TestService_Submit_ValidationFailureNeverSends(t *testing.T) {
	mailer := &mockMailer{}

	_, err := newTestService(mailer).Submit(context.Background(), domain.SubmissionInput{
		FirstName: "A",
		Email:     "bad",
		Message:   "short",
	})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindClient, derr.Kind)
	assert.Equal(t, MessageValidationFailed, derr.Message)
	assert.Contains(t, derr.Details, "First name must be at least 2 characters long")
	assert.Contains(t, derr.Details, "Please enter a valid email address")
	assert.Contains(t, derr.Details, "Message must be at least 10 characters long")
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestService_Submit_SpamIsSuppressed(t *testing.T) {
	tests := []struct {
		name   string
		input  domain.SubmissionInput
		signal string
	}{
		{
			name:   "keyword",
			input:  domain.SubmissionInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Claim your FREE MONEY today"},
			signal: SignalKeyword,
		},
		{
			name:   "links survive escaping",
			input:  domain.SubmissionInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "http://a.example http://b.example http://c.example"},
			signal: SignalLinks,
		},
		{
			name:   "honeypot",
			input:  domain.SubmissionInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.", Website: "http://bot.example"},
			signal: SignalHoneypot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &mockMailer{}

			res, err := newTestService(mailer).Submit(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, OutcomeSuppressed, res.Outcome)
			assert.True(t, res.Spam.Spam)
			assert.Contains(t, res.Spam.Signals, tt.signal)
			assert.Empty(t, res.Attempts)
			mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Submit_RetriesThenSucceeds(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("status 503")).Twice()
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	var waits []time.Duration
	svc := newTestService(mailer)
	svc.Backoff = NewBackoff(DeliveryBackoffConfig(), WithSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}))

	res, err := svc.Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	require.Len(t, res.Attempts, 3)
	assert.False(t, res.Attempts[0].Succeeded())
	assert.True(t, res.Attempts[2].Succeeded())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
	mailer.AssertNumberOfCalls(t, "Send", 3)
}

func TestService_Submit_DeliveryFailureAfterThreeAttempts(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("status 500"))

	res, err := newTestService(mailer).Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindDelivery, derr.Kind)
	assert.Equal(t, "Failed to send message. Please try again later or contact us directly at hello@example.com.", derr.Message)
	assert.EqualError(t, errors.Unwrap(err), "status 500")
	assert.Len(t, res.Attempts, 3)
	mailer.AssertNumberOfCalls(t, "Send", 3)
}

func TestService_Submit_KeepsRetryingAfterClientDisconnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var sendErrs []error
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
		sendErrs = append(sendErrs, args.Get(0).(context.Context).Err())
	}).Return(errors.New("status 503")).Twice()
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sendErrs = append(sendErrs, args.Get(0).(context.Context).Err())
	}).Return(nil).Once()

	res, err := newTestService(mailer).Submit(ctx, domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	assert.Len(t, res.Attempts, 3)
	assert.Equal(t, []error{nil, nil, nil}, sendErrs)
	mailer.AssertNumberOfCalls(t, "Send", 3)
}

func TestService_Submit_DeliveryTimeoutBoundsAttempts(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(context.DeadlineExceeded)
	svc := newTestService(mailer)
	svc.DeliveryTimeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, domain.KindDelivery, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestService_Submit_MissingCredential(t *testing.T) {
	mailer := &unconfiguredMailer{}

	_, err := newTestService(mailer).Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestService_Submit_NoFallbackAddress(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("timeout"))
	svc := newTestService(mailer)
	svc.FallbackEmail = ""

	_, err := svc.Submit(context.Background(), domain.SubmissionInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Message: "Hello there, I need help.",
	})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Failed to send message. Please try again later.", derr.Message)
}
