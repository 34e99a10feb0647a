package queries

import (
	"context"
	"fmt"

	"samarth/internal/application/answer"
	"samarth/internal/application/queries/bus"
)

// Dispatcher is the typed entry point transports use: it sends queries over
// the bus and unpacks their results.
type Dispatcher struct {
	bus *bus.QueryBus
}

// NewDispatcher registers the question handlers on queryBus.
func NewDispatcher(queryBus *bus.QueryBus, ask *AskQuestionHandler, summary *DatasetSummaryHandler) (*Dispatcher, error) {
	if err := queryBus.Register(AskQuestionQuery{}, ask); err != nil {
		return nil, err
	}
	if err := queryBus.Register(DatasetSummaryQuery{}, summary); err != nil {
		return nil, err
	}
	return &Dispatcher{bus: queryBus}, nil
}

// Ask answers one question.
func (d *Dispatcher) Ask(ctx context.Context, question string) (answer.Response, error) {
	result, err := d.bus.Ask(ctx, AskQuestionQuery{Question: question})
	if err != nil {
		return answer.Response{}, err
	}
	resp, ok := result.(answer.Response)
	if !ok {
		return answer.Response{}, fmt.Errorf("unexpected result type %T", result)
	}
	return resp, nil
}

// DatasetSummary describes the snapshot in effect.
func (d *Dispatcher) DatasetSummary(ctx context.Context) (DatasetSummary, error) {
	result, err := d.bus.Ask(ctx, DatasetSummaryQuery{})
	if err != nil {
		return DatasetSummary{}, err
	}
	summary, ok := result.(DatasetSummary)
	if !ok {
		return DatasetSummary{}, fmt.Errorf("unexpected result type %T", result)
	}
	return summary, nil
}
