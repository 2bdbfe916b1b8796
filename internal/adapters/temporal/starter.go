package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/workflows"
)

// Starter implements ports.WorkflowStarter on a Temporal client.
type Starter struct {
	client    client.Client
	taskQueue string
}

// Dial connects to the Temporal frontend.
func Dial(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial: %w", err)
	}
	return c, nil
}

// NewStarter creates a Starter. An empty taskQueue uses workflows.TaskQueue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	if taskQueue == "" {
		taskQueue = workflows.TaskQueue
	}
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartJobPayment starts the payout workflow. The workflow ID is derived from
// the job so a job can only have one payout in flight.
func (s *Starter) StartJobPayment(ctx context.Context, req ports.JobPaymentRequest) (string, error) {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "job-payment-" + req.JobID,
		TaskQueue: s.taskQueue,
	}, workflows.JobPaymentWorkflow, req)
	if err != nil {
		return "", fmt.Errorf("start job payment: %w", err)
	}
	return run.GetID(), nil
}
