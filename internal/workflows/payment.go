package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
)

// TaskQueue is the Temporal task queue served by the payments worker.
const TaskQueue = "job-payments"

// JobPaymentWorkflow pays the hired employee of a completed job. A failure
// after the charge went through triggers RefundPayment (saga compensation).
// A failed notification does not undo the payout.
func JobPaymentWorkflow(ctx workflow.Context, req ports.JobPaymentRequest) (*domain.Payment, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting job payment workflow", "jobID", req.JobID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Record a pending payment
	var p domain.Payment
	if err := workflow.ExecuteActivity(ctx, "PreparePayment", req).Get(ctx, &p); err != nil {
		return nil, err
	}

	// Step 2: Charge
	var ref string
	if err := workflow.ExecuteActivity(ctx, "ChargePayee", p).Get(ctx, &ref); err != nil {
		return nil, err
	}

	p.ProviderRef = ref

	// Step 3: Persist the outcome
	if err := workflow.ExecuteActivity(ctx, "RecordPayment", p, ref).Get(ctx, nil); err != nil {
		logger.Warn("record payment failed, compensating", "error", err)
		refund(ctx, p)
		return nil, err
	}
	p.Status = domain.PaymentSucceeded

	if err := workflow.ExecuteActivity(ctx, "MarkJobPaid", p).Get(ctx, nil); err != nil {
		logger.Warn("mark job paid failed, compensating", "error", err)
		refund(ctx, p)
		return nil, err
	}

	// Step 4: Tell the payee
	if err := workflow.ExecuteActivity(ctx, "NotifyPayee", p).Get(ctx, nil); err != nil {
		logger.Warn("payee notification failed", "error", err)
	}

	logger.Info("Job paid", "paymentID", p.ID, "providerRef", ref)
	return &p, nil
}

func refund(ctx workflow.Context, p domain.Payment) {
	// Compensation must run even if the workflow was cancelled.
	dctx, _ := workflow.NewDisconnectedContext(ctx)
	if err := workflow.ExecuteActivity(dctx, "RefundPayment", p).Get(dctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("refund failed", "paymentID", p.ID, "providerRef", p.ProviderRef, "error", err)
	}
}
