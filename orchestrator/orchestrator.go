package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/amount"
	"github.com/ClipFinance/btc-bridge/bridge"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
	"github.com/ClipFinance/btc-bridge/settlement"
)

// ErrAttemptInFlight is returned by Submit while another attempt is running.
var ErrAttemptInFlight = errors.New("a bridge attempt is already in progress")

// BridgeService creates bridge transactions on the remote service.
type BridgeService interface {
	CreateTx(ctx context.Context, req *types.TransferRequest) ([]byte, error)
}

// Settler pays one-time addresses.
type Settler interface {
	Settle(ctx context.Context, req settlement.Request) (*types.SettlementOutcome, error)
}

// AttemptRecorder receives the result of every finished attempt.
type AttemptRecorder interface {
	RecordAttempt(result string)
}

// Input is the user submission.
type Input struct {
	FromAccount string `json:"fromAccount"`
	ToAccount   string `json:"toAccount"`
	Amount      string `json:"amount"`
}

// Result is the final state of an attempt.
//
// Fields:
// - AttemptID: the attempt identifier used in logs.
// - State: Done or Failed.
// - Bridge: the classified bridge reply, nil if the bridge was never reached.
// - Outcome: the settlement outcome, set only after an OTA settlement.
type Result struct {
	AttemptID string
	State     types.AttemptState
	Bridge    *types.BridgeResult
	Outcome   *types.SettlementOutcome
}

// Transition is one recorded state change.
type Transition struct {
	AttemptID string
	From      types.AttemptState
	To        types.AttemptState
	At        time.Time
}

// Orchestrator runs one bridge attempt at a time through
// Idle → Building → AwaitingBridge → Classifying → {PlainReady | SettlingOta} → Done | Failed.
type Orchestrator struct {
	requests   *bridge.RequestBuilder
	service    BridgeService
	classifier *bridge.Classifier
	settler    Settler
	logger     *logrus.Logger
	recorder   AttemptRecorder

	mutex       sync.RWMutex
	attemptID   string
	state       types.AttemptState
	lastErr     error
	transitions []Transition
}

func newOrchestrator(
	requests *bridge.RequestBuilder,
	service BridgeService,
	classifier *bridge.Classifier,
	settler Settler,
	logger *logrus.Logger,
	recorder AttemptRecorder,
) *Orchestrator {
	return &Orchestrator{
		requests:   requests,
		service:    service,
		classifier: classifier,
		settler:    settler,
		logger:     logger,
		recorder:   recorder,
		state:      types.StateIdle,
	}
}

// State returns the current state.
func (o *Orchestrator) State() types.AttemptState {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.state
}

// AttemptID returns the identifier of the current or last attempt.
func (o *Orchestrator) AttemptID() string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.attemptID
}

// Err returns the error of the last attempt if it failed.
func (o *Orchestrator) Err() error {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.lastErr
}

// Transitions returns the state changes of the current or last attempt.
func (o *Orchestrator) Transitions() []Transition {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return append([]Transition(nil), o.transitions...)
}

// Submit runs a new attempt. It is accepted only when no attempt is in
// progress, and restarts the machine from Idle. Failures are not retried.
//
// Parameters:
// - ctx: the context for managing the request.
// - in: the user submission.
//
// Returns:
// - *Result: the final state of the attempt.
// - error: the error that moved the attempt to Failed, or ErrAttemptInFlight.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (*Result, error) {
	o.mutex.Lock()
	if o.state != types.StateIdle && !o.state.IsTerminal() {
		o.mutex.Unlock()
		return nil, ErrAttemptInFlight
	}
	o.attemptID = uuid.NewString()
	o.state = types.StateIdle
	o.lastErr = nil
	o.transitions = nil
	o.setStateLocked(types.StateBuilding)
	attemptID := o.attemptID
	o.mutex.Unlock()

	logger := o.logger.WithField("attempt", attemptID)
	logger.WithField("toAccount", in.ToAccount).WithField("amount", in.Amount).Info("Bridge attempt started")
	result := &Result{AttemptID: attemptID}

	req, err := o.requests.Build(in.FromAccount, in.ToAccount, in.Amount)
	if err != nil {
		return o.fail(logger, result, err)
	}
	if _, err := amount.BridgeLimits.Normalize(req.Amount); err != nil {
		return o.fail(logger, result, err)
	}

	o.transition(logger, types.StateAwaitingBridge)
	raw, err := o.service.CreateTx(ctx, req)
	if err != nil {
		return o.fail(logger, result, err)
	}

	o.transition(logger, types.StateClassifying)
	bridgeResult, err := o.classifier.Classify(raw)
	if err != nil {
		return o.fail(logger, result, err)
	}
	result.Bridge = bridgeResult

	switch bridgeResult.Kind {
	case types.ResultPlain:
		o.transition(logger, types.StatePlainReady)
		return o.done(logger, result, "plain")

	case types.ResultOtaRequired:
		o.transition(logger, types.StateSettlingOta)
		outcome, err := o.settler.Settle(ctx, settlement.Request{
			OtaAddress:  bridgeResult.Ota.OtaAddress,
			Amount:      req.Amount,
			FromAddress: req.FromAccount,
			BridgeMemo:  bridgeResult.Ota.Memo,
		})
		if err != nil {
			return o.fail(logger, result, err)
		}
		result.Outcome = outcome
		return o.done(logger, result, "ota")

	default:
		return o.fail(logger, result, bridgeerrors.Newf(bridgeerrors.KindMalformedResponse, "unknown bridge result kind %q", bridgeResult.Kind))
	}
}

func (o *Orchestrator) transition(logger *logrus.Entry, to types.AttemptState) {
	o.mutex.Lock()
	from := o.setStateLocked(to)
	o.mutex.Unlock()

	logger.WithField("from", from).WithField("to", to).Debug("Attempt state changed")
}

// setStateLocked moves to a new state and returns the previous one. o.mutex must be held.
func (o *Orchestrator) setStateLocked(to types.AttemptState) types.AttemptState {
	from := o.state
	o.state = to
	o.transitions = append(o.transitions, Transition{
		AttemptID: o.attemptID,
		From:      from,
		To:        to,
		At:        time.Now(),
	})
	return from
}

func (o *Orchestrator) done(logger *logrus.Entry, result *Result, kind string) (*Result, error) {
	o.transition(logger, types.StateDone)
	result.State = types.StateDone
	o.record(kind)

	logger.WithField("result", kind).Info("Bridge attempt completed")
	return result, nil
}

func (o *Orchestrator) fail(logger *logrus.Entry, result *Result, err error) (*Result, error) {
	o.mutex.Lock()
	o.lastErr = err
	o.mutex.Unlock()

	o.transition(logger, types.StateFailed)
	result.State = types.StateFailed
	kind := bridgeerrors.KindOf(err)
	o.record(kind.String())

	entry := logger.WithError(err).WithField("kind", kind)
	if kind.IsValidation() {
		entry.Info("Bridge attempt rejected")
	} else {
		entry.Warn("Bridge attempt failed")
	}
	return result, err
}

func (o *Orchestrator) record(result string) {
	if o.recorder != nil {
		o.recorder.RecordAttempt(result)
	}
}
