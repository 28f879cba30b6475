package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ocx-chess/enginecore/internal/gateway"
	"github.com/ocx-chess/enginecore/internal/requestqueue"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

const fixedAnalysisDepth = 10

// Handler implements gateway.Handler for "analyze" frames.
type Handler struct {
	Queue *requestqueue.Queue
}

// New constructs an analysis Handler.
func New(queue *requestqueue.Queue) *Handler {
	return &Handler{Queue: queue}
}

// Handle validates raw and enqueues a work item. Validation failures
// emit a synchronous analysis_error frame; nothing is enqueued.
func (h *Handler) Handle(raw json.RawMessage, client *gateway.Client) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.Send(errorFrame("", "malformed analysis request"))
		return
	}
	if err := validate(msg); err != nil {
		client.Send(errorFrame(msg.RequestID, err.Error()))
		return
	}

	h.Queue.Enqueue(&requestqueue.Request{
		ID:     msg.RequestID,
		UserID: client.UserID,
		Process: func(engine interface{}) (interface{}, error) {
			return h.process(engine.(*uciengine.Process), msg)
		},
		Callback: func(result interface{}, err error) {
			if err != nil {
				client.Send(errorFrame(msg.RequestID, err.Error()))
				return
			}
			client.Send(mustJSON(result))
		},
		IsOpen: client.IsOpen,
	})
}

// process runs the §4.6 eleven-step derivation against an exclusively
// owned engine.
func (h *Handler) process(engine *uciengine.Process, msg Message) (*Result, error) {
	options := uciengine.Options{
		"UCI_LimitStrength": "false",
	}
	if err := engine.Configure(options); err != nil {
		return nil, err
	}

	limits := uciengine.Limits{Depth: fixedAnalysisDepth}
	beforeWhiteToMove := fenWhiteToMove(msg.FENBefore)
	afterWhiteToMove := fenWhiteToMove(msg.FENAfter)

	beforeResults, err := engine.Search(context.Background(), msg.FENBefore, nil, beforeWhiteToMove, 2, limits)
	if err != nil {
		return nil, err
	}
	afterResults, err := engine.Search(context.Background(), msg.FENAfter, nil, afterWhiteToMove, 1, limits)
	if err != nil {
		return nil, err
	}
	if len(beforeResults) == 0 || len(afterResults) == 0 {
		return nil, uciengine.ErrEngineDied
	}

	bestEvalWhite := beforeResults[0].Eval
	evalAfterWhite := afterResults[0].Eval

	bestEvalPlayer := normalizeToPlayer(bestEvalWhite, msg.PlayerColor)
	evalAfterPlayer := normalizeToPlayer(evalAfterWhite, msg.PlayerColor)

	cpl := centipawnLoss(bestEvalPlayer, evalAfterPlayer)
	classification := classify(cpl)
	impact := accuracyImpact(cpl)
	phase := detectPhase(msg.FENBefore)
	weighted := weightedImpact(impact, phase)

	return &Result{
		Type:           "analysis_result",
		RequestID:      msg.RequestID,
		Move:           msg.Move,
		Classification: classification,
		CPL:            cpl,
		Impact:         impact,
		Phase:          phase,
		WeightedImpact: weighted,
		EvalBefore:     bestEvalPlayer,
		EvalAfter:      evalAfterPlayer,
		BestMove:       beforeResults[0].Move,
	}, nil
}

func fenWhiteToMove(fen string) bool {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return true
	}
	return fields[1] != "b"
}

func errorFrame(requestID, reason string) []byte {
	return mustJSON(map[string]interface{}{
		"type":      "analysis_error",
		"requestId": requestID,
		"error":     reason,
	})
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
