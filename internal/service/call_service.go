// internal/service/call_service.go
package service

import (
	"encoding/json"
	"log"
	"time"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/external"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/queue"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

// CallService accepts outbound call requests and hands them to the dispatch
// queue; the worker performs the actual platform call.
type CallService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CallRepo     repository.CallRepositoryInterface
	External     external.ClientInterface
	Queue        queue.Queue
}

// DispatchJob is the queued unit of work for one outbound call.
type DispatchJob struct {
	CampaignID       string        `json:"campaign_id"`
	ToNumber         string        `json:"to_number"`
	DynamicVariables model.JSONMap `json:"dynamic_variables"`
	Metadata         model.JSONMap `json:"metadata"`
}

// Dispatch validates the request against an active campaign and enqueues it.
func (s *CallService) Dispatch(job DispatchJob) error {
	if job.ToNumber == "" {
		return appErrors.NewValidation("to_number is required")
	}
	if job.CampaignID == "" {
		return appErrors.NewValidation("campaign_id is required")
	}
	if _, err := s.CampaignRepo.GetByID(job.CampaignID, false); err != nil {
		return err
	}
	return s.Queue.Publish(queue.CallDispatchTopic, job)
}

func (s *CallService) ListByCampaign(campaignID string, skip, limit int) ([]*model.Call, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return s.CallRepo.ListByCampaign(campaignID, skip, limit)
}

// ListExternal proxies the platform's call log for a campaign.
func (s *CallService) ListExternal(campaignID, start, end string, pageSize int, cursor string) (*external.CallListPage, error) {
	if _, err := s.CampaignRepo.GetByID(campaignID, false); err != nil {
		return nil, err
	}
	return s.External.ListCalls(campaignID, start, end, pageSize, cursor)
}

// RecordingURL proxies the platform's signed recording link for a call.
func (s *CallService) RecordingURL(callID string) (*external.Recording, error) {
	call, err := s.CallRepo.GetByCallID(callID)
	if err != nil {
		return nil, err
	}
	return s.External.RecordingURL(call.CampaignID, callID)
}

// CallDispatcher performs queued call jobs: create the call on the platform,
// then record it locally. Used by cmd/worker and the in-memory subscriber.
type CallDispatcher struct {
	CallRepo repository.CallRepositoryInterface
	External external.ClientInterface
}

// Process executes one dispatch job. Errors propagate so the queue's retry
// policy applies.
func (d *CallDispatcher) Process(job DispatchJob) error {
	resp, err := d.External.CreateCall(map[string]any{
		"to_number":         job.ToNumber,
		"dynamic_variables": map[string]any(orEmptyMap(job.DynamicVariables)),
		"metadata":          map[string]any(orEmptyMap(job.Metadata)),
		"campaign_id":       job.CampaignID,
	})
	if err != nil {
		return err
	}

	callID, _ := resp["call_id"].(string)
	if callID == "" {
		return appErrors.NewExternalSync(0, "call_id missing in create-call response")
	}

	call := &model.Call{
		CallID:           callID,
		ToNumber:         job.ToNumber,
		DynamicVariables: orEmptyMap(job.DynamicVariables),
		Metadata:         orEmptyMap(job.Metadata),
		CampaignID:       job.CampaignID,
	}
	if createdAt, ok := resp["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			call.CreatedAt = t.UTC()
			call.UpdatedAt = t.UTC()
		}
	}

	if err := d.CallRepo.Create(call); err != nil {
		return err
	}

	log.Println("dispatched call", callID, "for campaign", job.CampaignID)
	return nil
}

// StartDispatchSubscriber wires the dispatcher to an in-memory queue. Only
// used when no broker is configured; with RabbitMQ the worker binary consumes
// the queue instead.
func StartDispatchSubscriber(q *queue.InMemoryQueue, d *CallDispatcher) {
	q.Subscribe(queue.CallDispatchTopic, func(payload any) error {
		job, ok := payload.(DispatchJob)
		if !ok {
			// Payload round-tripped through JSON.
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &job); err != nil {
				return err
			}
		}
		return d.Process(job)
	})
}
