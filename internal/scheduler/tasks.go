package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskContactEnrichment = "enrichment.contact"

const TaskInsuranceBackfill = "enrichment.insurance"

const TaskNoteParserTrigger = "noteparser.trigger"

type ContactEnrichmentPayload struct {
	AppointmentID string `json:"appointmentId"`
	RequestID     string `json:"requestId"`
}

type InsuranceBackfillPayload struct {
	AppointmentID string `json:"appointmentId"`
	RequestID     string `json:"requestId"`
}

type NoteParserTriggerPayload struct {
	AppointmentID string `json:"appointmentId"`
	RequestID     string `json:"requestId"`
}

func NewContactEnrichmentTask(payload ContactEnrichmentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactEnrichment, data), nil
}

func ParseContactEnrichmentPayload(task *asynq.Task) (ContactEnrichmentPayload, error) {
	var payload ContactEnrichmentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactEnrichmentPayload{}, err
	}
	return payload, nil
}

func NewInsuranceBackfillTask(payload InsuranceBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInsuranceBackfill, data), nil
}

func ParseInsuranceBackfillPayload(task *asynq.Task) (InsuranceBackfillPayload, error) {
	var payload InsuranceBackfillPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InsuranceBackfillPayload{}, err
	}
	return payload, nil
}

func NewNoteParserTriggerTask(payload NoteParserTriggerPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNoteParserTrigger, data), nil
}

func ParseNoteParserTriggerPayload(task *asynq.Task) (NoteParserTriggerPayload, error) {
	var payload NoteParserTriggerPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NoteParserTriggerPayload{}, err
	}
	return payload, nil
}
