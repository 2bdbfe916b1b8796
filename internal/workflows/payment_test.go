package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/core/usecases"
)

var request = ports.JobPaymentRequest{JobID: "j1", EmployerEmail: "boss@example.com", Amount: 80}

var pending = domain.Payment{
	ID:         "p1",
	JobID:      "j1",
	PayeeEmail: "worker@example.com",
	Amount:     80,
	Currency:   "CAD",
	Status:     domain.PaymentPending,
}

func newEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *PaymentActivities) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := &PaymentActivities{}
	env.RegisterWorkflow(JobPaymentWorkflow)
	env.RegisterActivity(acts)
	return env, acts
}

func TestJobPaymentWorkflow_Success(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.PreparePayment, mock.Anything, request).Return(&pending, nil)
	env.OnActivity(acts.ChargePayee, mock.Anything, mock.Anything).Return("SIM-1", nil)
	env.OnActivity(acts.RecordPayment, mock.Anything, mock.Anything, "SIM-1").Return(nil)
	env.OnActivity(acts.MarkJobPaid, mock.Anything, mock.Anything).Return(nil)
	env.OnActivity(acts.NotifyPayee, mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(JobPaymentWorkflow, request)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var got domain.Payment
	require.NoError(t, env.GetWorkflowResult(&got))
	assert.Equal(t, domain.PaymentSucceeded, got.Status)
	assert.Equal(t, "SIM-1", got.ProviderRef)
	env.AssertExpectations(t)
}

func TestJobPaymentWorkflow_MarkPaidFailureRefunds(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.PreparePayment, mock.Anything, request).Return(&pending, nil)
	env.OnActivity(acts.ChargePayee, mock.Anything, mock.Anything).Return("SIM-1", nil)
	env.OnActivity(acts.RecordPayment, mock.Anything, mock.Anything, "SIM-1").Return(nil)
	env.OnActivity(acts.MarkJobPaid, mock.Anything, mock.Anything).
		Return(temporal.NewNonRetryableApplicationError("job gone", "domain", nil))
	charged := mock.MatchedBy(func(p domain.Payment) bool { return p.ID == "p1" && p.ProviderRef == "SIM-1" })
	env.OnActivity(acts.RefundPayment, mock.Anything, charged).Return(nil).Once()

	env.ExecuteWorkflow(JobPaymentWorkflow, request)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestJobPaymentWorkflow_RecordFailureRefundsCharge(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.PreparePayment, mock.Anything, request).Return(&pending, nil)
	env.OnActivity(acts.ChargePayee, mock.Anything, mock.Anything).Return("SIM-1", nil)
	env.OnActivity(acts.RecordPayment, mock.Anything, mock.Anything, "SIM-1").
		Return(temporal.NewNonRetryableApplicationError("db gone", "domain", nil))
	charged := mock.MatchedBy(func(p domain.Payment) bool { return p.ProviderRef == "SIM-1" })
	env.OnActivity(acts.RefundPayment, mock.Anything, charged).Return(nil).Once()

	env.ExecuteWorkflow(JobPaymentWorkflow, request)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertExpectations(t)
	env.AssertNotCalled(t, "MarkJobPaid", mock.Anything, mock.Anything)
}

func TestJobPaymentWorkflow_ChargeFailureDoesNotRefund(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.PreparePayment, mock.Anything, request).Return(&pending, nil)
	env.OnActivity(acts.ChargePayee, mock.Anything, mock.Anything).Return("", errors.New("gateway down"))

	env.ExecuteWorkflow(JobPaymentWorkflow, request)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "RefundPayment", mock.Anything, mock.Anything)
	env.AssertNotCalled(t, "MarkJobPaid", mock.Anything, mock.Anything)
}

func TestJobPaymentWorkflow_NotifyFailureKeepsPayment(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.PreparePayment, mock.Anything, request).Return(&pending, nil)
	env.OnActivity(acts.ChargePayee, mock.Anything, mock.Anything).Return("SIM-1", nil)
	env.OnActivity(acts.RecordPayment, mock.Anything, mock.Anything, "SIM-1").Return(nil)
	env.OnActivity(acts.MarkJobPaid, mock.Anything, mock.Anything).Return(nil)
	env.OnActivity(acts.NotifyPayee, mock.Anything, mock.Anything).Return(errors.New("push down"))

	env.ExecuteWorkflow(JobPaymentWorkflow, request)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "RefundPayment", mock.Anything, mock.Anything)
}

type recordingNotifier struct {
	recipient, title, body string
}

func (n *recordingNotifier) SendPush(ctx context.Context, recipient, title, body string) error {
	n.recipient, n.title, n.body = recipient, title, body
	return nil
}

func TestNotifyPayee(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	n := &recordingNotifier{}
	env.RegisterActivity(&PaymentActivities{Notifier: n})

	_, err := env.ExecuteActivity("NotifyPayee", pending)
	require.NoError(t, err)
	assert.Equal(t, "worker@example.com", n.recipient)
	assert.Contains(t, n.body, "80.00 CAD")
}

type refundingGateway struct {
	refunded []string
}

func (g *refundingGateway) Charge(ctx context.Context, email string, amount float64, currency string) (string, error) {
	return "SIM-1", nil
}

func (g *refundingGateway) Refund(ctx context.Context, providerRef string) error {
	g.refunded = append(g.refunded, providerRef)
	return nil
}

type statusLedger map[string]domain.PaymentStatus

func (l statusLedger) Create(ctx context.Context, p *domain.Payment) error {
	l[p.ID] = p.Status
	return nil
}

func (l statusLedger) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, ref string) error {
	l[id] = status
	return nil
}

func (l statusLedger) ListByJob(ctx context.Context, jobID string) ([]domain.Payment, error) {
	return nil, nil
}

func TestRefundPayment_ReversesCharge(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	gateway := &refundingGateway{}
	ledger := statusLedger{"p1": domain.PaymentSucceeded}
	env.RegisterActivity(&PaymentActivities{
		Payments: usecases.NewPaymentService(nil, nil, ledger, gateway, nil, "CAD"),
	})

	charged := pending
	charged.ProviderRef = "SIM-1"
	_, err := env.ExecuteActivity("RefundPayment", charged)
	require.NoError(t, err)
	assert.Equal(t, []string{"SIM-1"}, gateway.refunded)
	assert.Equal(t, domain.PaymentRefunded, ledger["p1"])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	transient := errors.New("connection reset")
	assert.Same(t, transient, classify(transient))

	var appErr *temporal.ApplicationError
	err := classify(fmt.Errorf("wrap: %w", domain.ErrForbidden))
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
}
