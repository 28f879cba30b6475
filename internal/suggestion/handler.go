package suggestion

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/ocx-chess/enginecore/internal/classifier"
	"github.com/ocx-chess/enginecore/internal/gateway"
	"github.com/ocx-chess/enginecore/internal/requestqueue"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

// Handler implements gateway.Handler for "suggestion" frames.
type Handler struct {
	Queue      *requestqueue.Queue
	Classifier classifier.Classifier
}

// New constructs a suggestion Handler. A nil classifier defaults to
// classifier.PassthroughClassifier.
func New(queue *requestqueue.Queue, c classifier.Classifier) *Handler {
	if c == nil {
		c = classifier.PassthroughClassifier{}
	}
	return &Handler{Queue: queue, Classifier: c}
}

// Handle validates raw and enqueues a work item. Validation failures
// emit a synchronous suggestion_error frame; nothing is enqueued (§4.5,
// §7: "handler input validation fails synchronously at enqueue time").
func (h *Handler) Handle(raw json.RawMessage, client *gateway.Client) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.Send(errorFrame("", "malformed suggestion request"))
		return
	}
	if msg.RequestID == "" {
		client.Send(errorFrame("", ErrMissingRequestID.Error()))
		return
	}
	if err := validateFEN(msg.FEN); err != nil {
		client.Send(errorFrame(msg.RequestID, err.Error()))
		return
	}

	puzzleMode := defaultBool(msg.PuzzleMode, false)
	limitStrength := defaultBool(msg.LimitStrength, true) && !puzzleMode
	options := buildOptions(msg)
	limits := buildLimits(msg, limitStrength)
	multiPV := uciengine.ClampMultiPV(defaultInt(msg.MultiPV, 1))
	whiteToMove := determineWhiteToMove(msg)

	h.Queue.Enqueue(&requestqueue.Request{
		ID:     msg.RequestID,
		UserID: client.UserID,
		Process: func(engine interface{}) (interface{}, error) {
			return h.process(engine.(*uciengine.Process), msg, options, limits, multiPV, whiteToMove)
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

// process runs the §4.5 steps 1-5 against an exclusively-owned engine:
// configure, search, classify, shape.
func (h *Handler) process(engine *uciengine.Process, msg Message, options uciengine.Options, limits uciengine.Limits, multiPV int, whiteToMove bool) (*Result, error) {
	if err := engine.Configure(options); err != nil {
		return nil, err
	}
	candidates, err := engine.Search(context.Background(), msg.FEN, msg.Moves, whiteToMove, multiPV, limits)
	if err != nil {
		return nil, err
	}
	labeled := h.Classifier.Classify(classifier.FromCandidates(candidates))
	return shapeResult(msg, labeled), nil
}

// determineWhiteToMove mirrors engine.Search's own choice between
// "position fen ..." and "position startpos moves ...": when moves are
// supplied, side to move follows move-count parity from startpos;
// otherwise it comes from the FEN's active-color field.
func determineWhiteToMove(msg Message) bool {
	if len(msg.Moves) > 0 {
		return len(msg.Moves)%2 == 0
	}
	fields := strings.Fields(msg.FEN)
	if len(fields) < 2 {
		return true
	}
	return fields[1] != "b"
}

func shapeResult(msg Message, labeled []classifier.LabeledSuggestion) *Result {
	candidates := make([]CandidateResult, len(labeled))
	maxDepth := 0
	for i, s := range labeled {
		candidates[i] = CandidateResult{
			Move: s.Move, PV: s.PV, Eval: s.Eval,
			WinRate: s.WinRate, DrawRate: s.DrawRate, LossRate: s.LossRate,
			Depth: s.Depth, MateScore: s.MateScore, Label: s.Label,
		}
		if s.Depth > maxDepth {
			maxDepth = s.Depth
		}
	}

	result := &Result{
		Type:       "suggestion_result",
		RequestID:  msg.RequestID,
		FEN:        msg.FEN,
		Candidates: candidates,
		MaxDepth:   maxDepth,
	}
	if len(labeled) > 0 {
		result.PositionEval = math.Round(float64(labeled[0].Eval)) / 100
		result.MateIn = labeled[0].MateScore
		result.WinRate = labeled[0].WinRate
	}
	return result
}

func errorFrame(requestID, reason string) []byte {
	return mustJSON(map[string]interface{}{
		"type":      "suggestion_error",
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
